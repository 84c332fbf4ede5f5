package repository

import (
	"context"
	"time"

	"college-library/internal/model"
	"college-library/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MemberLoanCount is one row of the monthly activity aggregate.
type MemberLoanCount struct {
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	LoanCount int64     `json:"loan_count"`
}

type LoanRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Loan, error)
	FindOpenByUser(ctx context.Context, userID uuid.UUID) ([]*model.Loan, error)
	CountOpenByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	OpenLoanExists(ctx context.Context, userID, bookID uuid.UUID) (bool, error)
	FindOpen(ctx context.Context) ([]*model.Loan, error)
	FindByBook(ctx context.Context, bookID uuid.UUID, openOnly bool) ([]*model.Loan, error)
	CountByBook(ctx context.Context, bookID uuid.UUID, openOnly bool) (int64, error)
	Borrow(ctx context.Context, loan *model.Loan) error
	Close(ctx context.Context, loanID uuid.UUID, returnedAt time.Time) error
	ExtendDueDate(ctx context.Context, loanID uuid.UUID, newDue time.Time) error
	MonthlyLoanCounts(ctx context.Context, from, until time.Time) ([]MemberLoanCount, error)
}

type loanRepository struct {
	db *gorm.DB
}

func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Loan, error) {
	var loan model.Loan
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Book").
		Where("id = ?", id).
		First(&loan).Error; err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepository) FindOpenByUser(ctx context.Context, userID uuid.UUID) ([]*model.Loan, error) {
	var loans []*model.Loan
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ? AND return_date IS NULL", userID).
		Order("due_date").
		Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *loanRepository) CountOpenByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Loan{}).
		Where("user_id = ? AND return_date IS NULL", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *loanRepository) OpenLoanExists(ctx context.Context, userID, bookID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Loan{}).
		Where("user_id = ? AND book_id = ? AND return_date IS NULL", userID, bookID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *loanRepository) FindOpen(ctx context.Context) ([]*model.Loan, error) {
	var loans []*model.Loan
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Book").
		Where("return_date IS NULL").
		Order("due_date").
		Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *loanRepository) FindByBook(ctx context.Context, bookID uuid.UUID, openOnly bool) ([]*model.Loan, error) {
	q := r.db.WithContext(ctx).
		Preload("User").
		Where("book_id = ?", bookID).
		Order("issue_date desc")
	if openOnly {
		q = q.Where("return_date IS NULL")
	}
	var loans []*model.Loan
	if err := q.Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *loanRepository) CountByBook(ctx context.Context, bookID uuid.UUID, openOnly bool) (int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Loan{}).Where("book_id = ?", bookID)
	if openOnly {
		q = q.Where("return_date IS NULL")
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Borrow creates the loan, takes one copy and bumps the borrower counter
// in one transaction. The decrement is conditional on availability and
// re-validated here, so a racing borrow of the last copy loses cleanly.
func (r *loanRepository) Borrow(ctx context.Context, loan *model.Loan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Book{}).
			Where("id = ? AND copies_available > 0", loan.BookID).
			UpdateColumn("copies_available", gorm.Expr("copies_available - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.ErrUnavailable
		}

		if err := tx.Create(loan).Error; err != nil {
			return err
		}

		return tx.Model(&model.User{}).
			Where("id = ?", loan.UserID).
			UpdateColumn("total_books_borrowed", gorm.Expr("total_books_borrowed + 1")).Error
	})
}

// Close stamps the return date and gives the copy back. The increment is
// capped at copies_total in case the book was toggled to full
// availability while the loan was out.
func (r *loanRepository) Close(ctx context.Context, loanID uuid.UUID, returnedAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var loan model.Loan
		if err := tx.Where("id = ?", loanID).First(&loan).Error; err != nil {
			return err
		}
		if loan.ReturnDate != nil {
			return apperror.ErrAlreadyReturned
		}

		if err := tx.Model(&model.Loan{}).
			Where("id = ?", loanID).
			Update("return_date", returnedAt).Error; err != nil {
			return err
		}

		return tx.Model(&model.Book{}).
			Where("id = ? AND copies_available < copies_total", loan.BookID).
			UpdateColumn("copies_available", gorm.Expr("copies_available + 1")).Error
	})
}

func (r *loanRepository) ExtendDueDate(ctx context.Context, loanID uuid.UUID, newDue time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Loan{}).
		Where("id = ?", loanID).
		Update("due_date", newDue).Error
}

// MonthlyLoanCounts aggregates loans issued in [from, until) per user.
func (r *loanRepository) MonthlyLoanCounts(ctx context.Context, from, until time.Time) ([]MemberLoanCount, error) {
	var rows []MemberLoanCount
	if err := r.db.WithContext(ctx).Model(&model.Loan{}).
		Select("users.id as user_id, users.name as name, count(loans.id) as loan_count").
		Joins("JOIN users ON users.id = loans.user_id").
		Where("loans.issue_date >= ? AND loans.issue_date < ?", from, until).
		Group("users.id, users.name").
		Order("loan_count desc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
