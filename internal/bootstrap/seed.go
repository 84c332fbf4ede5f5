package bootstrap

import (
	"fmt"
	"log"
	"strings"

	"college-library/internal/credential"
	"college-library/internal/model"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Book{},
		&model.Loan{},
		&model.ExtensionRequest{},
		&model.Notice{},
		&model.LibrarySession{},
	)
}

// SeedAdminUser provisions the default admin account if none exists.
func SeedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.User{}).
		Where("role = ?", model.RoleAdmin).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	admin, err := newSeedUser("ADM2024001", "Dr. Admin", "Usha", "25061975", model.RoleAdmin)
	if err != nil {
		return err
	}
	admin.Phone = "9999999999"
	admin.Address = "Admin Office"

	if err := db.Create(admin).Error; err != nil {
		return err
	}

	log.Println("Admin user seeded successfully")
	log.Printf("   PRN: %s", admin.PRNNumber)
	log.Printf("   Password: %s", credential.DeriveSecret(admin.MotherName, admin.DOB))

	return nil
}

// SeedDemoData loads the sample roster and catalog. Intended for
// development databases only; it skips once demo content is present. A
// lone admin account does not count as content, so the roster still loads
// on a fresh database that already got the default admin.
func SeedDemoData(db *gorm.DB) error {
	var studentCount, bookCount int64
	if err := db.Model(&model.User{}).
		Where("role = ?", model.RoleStudent).
		Count(&studentCount).Error; err != nil {
		return err
	}
	if err := db.Model(&model.Book{}).Count(&bookCount).Error; err != nil {
		return err
	}
	if studentCount > 0 || bookCount > 0 {
		return nil
	}

	students := []struct {
		prn, name, motherName, dob string
	}{
		{"PRN2024001", "Rahul Sharma", "Sunita", "15081995"},
		{"PRN2024002", "Priya Patel", "Meera", "22031998"},
		{"PRN2024003", "Amit Kumar", "Geeta", "10121997"},
		{"PRN2024004", "Sneha Singh", "Kavita", "05071999"},
		{"PRN2024005", "Vikash Gupta", "Sita", "18092000"},
	}

	for _, s := range students {
		student, err := newSeedUser(s.prn, s.name, s.motherName, s.dob, model.RoleStudent)
		if err != nil {
			return err
		}
		student.Phone = "9876543210"
		student.Address = "Demo Address"
		student.Year = "2nd"
		student.Course = "BSC IT"

		if err := db.Create(student).Error; err != nil {
			return err
		}
	}

	admins := []struct {
		prn, name, motherName, dob string
	}{
		{"ADM2024001", "Dr. Admin", "Usha", "25061975"},
		{"ADM2024002", "Prof. Admin", "Lata", "12041978"},
	}

	for _, a := range admins {
		var existing int64
		if err := db.Model(&model.User{}).
			Where("prn_number = ?", a.prn).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			continue
		}

		admin, err := newSeedUser(a.prn, a.name, a.motherName, a.dob, model.RoleAdmin)
		if err != nil {
			return err
		}
		admin.Phone = "9999999999"
		admin.Address = "Admin Office"

		if err := db.Create(admin).Error; err != nil {
			return err
		}
	}

	books := []struct {
		title, author string
		copies        int
	}{
		{"Python Programming", "John Smith", 3},
		{"Data Structures", "Robert Johnson", 2},
		{"Web Development", "Sarah Wilson", 4},
		{"Database Systems", "Mike Brown", 2},
		{"Computer Networks", "Lisa Davis", 3},
	}

	for _, b := range books {
		book := &model.Book{
			Title:           b.title,
			Author:          b.author,
			CopiesTotal:     b.copies,
			CopiesAvailable: b.copies,
		}
		if err := db.Create(book).Error; err != nil {
			return err
		}
	}

	log.Println("Demo data seeded: roster and catalog loaded")

	return nil
}

func newSeedUser(prn, name, motherName, dob string, role model.Role) (*model.User, error) {
	hash, err := credential.HashSecret(credential.DeriveSecret(motherName, dob))
	if err != nil {
		return nil, fmt.Errorf("hash password for %s: %w", prn, err)
	}

	username := strings.ToLower(prn)
	return &model.User{
		PRNNumber:    prn,
		Username:     username,
		Email:        username + "@college.edu",
		Name:         name,
		MotherName:   motherName,
		DOB:          dob,
		Role:         role,
		PasswordHash: hash,
	}, nil
}
