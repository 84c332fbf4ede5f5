package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// CanManageLibrary reports whether the role may perform catalog, member
// and notice administration.
func (r Role) CanManageLibrary() bool {
	return r == RoleAdmin
}

// CanDecideExtensions reports whether the role may approve or reject
// extension requests.
func (r Role) CanDecideExtensions() bool {
	return r == RoleAdmin
}

type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PRNNumber  string    `gorm:"size:20;uniqueIndex;not null" json:"prn_number"`
	Username   string    `gorm:"size:80;uniqueIndex;not null" json:"username"`
	Email      string    `gorm:"size:120;uniqueIndex;not null" json:"email"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	MotherName string    `gorm:"size:100;not null" json:"-"`
	DOB        string    `gorm:"size:10;not null" json:"-"` // DDMMYYYY
	Phone      string    `gorm:"size:15" json:"phone,omitempty"`
	Address    string    `gorm:"type:text" json:"address,omitempty"`
	Role       Role      `gorm:"size:20;not null;default:student" json:"role"`

	// Academic details
	Year   string `gorm:"size:10" json:"year,omitempty"`
	Course string `gorm:"size:50" json:"course,omitempty"`

	PasswordHash string `gorm:"size:255;not null" json:"-"`

	// Activity counters, mutated only inside the transaction of their
	// triggering loan/extension/session event.
	TotalBooksBorrowed     int     `gorm:"default:0" json:"total_books_borrowed"`
	TotalExtensionRequests int     `gorm:"default:0" json:"total_extension_requests"`
	LibraryHoursThisMonth  float64 `gorm:"default:0" json:"library_hours_this_month"`
	LibraryHoursThisYear   float64 `gorm:"default:0" json:"library_hours_this_year"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// MayHandleLoan reports whether the user may return or extend the given
// loan: the borrower themselves, or any admin.
func (u *User) MayHandleLoan(l *Loan) bool {
	return u.Role.CanManageLibrary() || u.ID == l.UserID
}
