package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// LoanPeriodDays is the default lending period.
	LoanPeriodDays = 14

	// MaxOpenLoansPerUser caps simultaneously open loans per borrower.
	MaxOpenLoansPerUser = 2

	// FinePerDay is the fine accrued per day late, in currency units.
	FinePerDay = 1.0

	// AdminExtensionDays is the fixed extension applied by direct admin
	// action, outside the request workflow.
	AdminExtensionDays = 7
)

type Loan struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	BookID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"book_id"`
	IssueDate  time.Time  `gorm:"not null" json:"issue_date"`
	DueDate    time.Time  `gorm:"not null" json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Book *Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
}

func (l *Loan) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// Open reports whether the book has not yet been returned.
func (l *Loan) Open() bool {
	return l.ReturnDate == nil
}

func (l *Loan) IsOverdue(now time.Time) bool {
	return l.ReturnDate == nil && now.After(l.DueDate)
}

func (l *Loan) DaysOverdue(now time.Time) int {
	if !l.IsOverdue(now) {
		return 0
	}
	return wholeDaysLate(l.DueDate, now)
}

// FineAmount computes the fine owed at the given reference time: the
// return date for closed loans, now for loans still open and overdue.
func (l *Loan) FineAmount(now time.Time) float64 {
	if l.ReturnDate != nil && l.ReturnDate.After(l.DueDate) {
		return float64(wholeDaysLate(l.DueDate, *l.ReturnDate)) * FinePerDay
	}
	if l.IsOverdue(now) {
		return float64(wholeDaysLate(l.DueDate, now)) * FinePerDay
	}
	return 0
}

// wholeDaysLate truncates to whole days, so a loan is not fined until a
// full 24 hours past due.
func wholeDaysLate(due, ref time.Time) int {
	return int(ref.Sub(due).Hours() / 24)
}
