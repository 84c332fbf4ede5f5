package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"college-library/internal/credential"
	"college-library/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a per-test in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Book{},
		&model.Loan{},
		&model.ExtensionRequest{},
		&model.Notice{},
		&model.LibrarySession{},
	))

	return db
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func seedUser(t *testing.T, db *gorm.DB, prn string, role model.Role) *model.User {
	t.Helper()

	motherName := "Sunita"
	dob := "15081995"
	hash, err := credential.HashSecret(credential.DeriveSecret(motherName, dob))
	require.NoError(t, err)

	username := strings.ToLower(prn)
	user := &model.User{
		PRNNumber:    prn,
		Username:     username,
		Email:        username + "@college.edu",
		Name:         "Test " + prn,
		MotherName:   motherName,
		DOB:          dob,
		Role:         role,
		PasswordHash: hash,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedBook(t *testing.T, db *gorm.DB, title string, copies int) *model.Book {
	t.Helper()

	book := &model.Book{
		Title:           title,
		Author:          "Test Author",
		CopiesTotal:     copies,
		CopiesAvailable: copies,
	}
	require.NoError(t, db.Create(book).Error)
	return book
}
