package service

import (
	"context"
	"errors"
	"time"

	"college-library/internal/model"
	"college-library/internal/repository"
	"college-library/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LoanService interface {
	Borrow(ctx context.Context, userID, bookID uuid.UUID) (*model.Loan, error)
	Return(ctx context.Context, actorID, loanID uuid.UUID) (*model.Loan, float64, error)
	Extend(ctx context.Context, actorID, loanID uuid.UUID) (*model.Loan, error)
	MyLoans(ctx context.Context, userID uuid.UUID) ([]*model.Loan, error)
	ActiveLoans(ctx context.Context) ([]*model.Loan, error)
	OverdueLoans(ctx context.Context) ([]*model.Loan, error)
}

type loanService struct {
	loans repository.LoanRepository
	books repository.BookRepository
	users repository.UserRepository
	now   func() time.Time
}

func NewLoanService(loans repository.LoanRepository, books repository.BookRepository, users repository.UserRepository) LoanService {
	return &loanService{
		loans: loans,
		books: books,
		users: users,
		now:   time.Now,
	}
}

// NewLoanServiceWithClock is NewLoanService with an injected clock, for
// deterministic tests of the temporal rules.
func NewLoanServiceWithClock(loans repository.LoanRepository, books repository.BookRepository, users repository.UserRepository, now func() time.Time) LoanService {
	return &loanService{loans: loans, books: books, users: users, now: now}
}

func (s *loanService) Borrow(ctx context.Context, userID, bookID uuid.UUID) (*model.Loan, error) {
	book, err := s.books.FindByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if !book.Available() {
		return nil, apperror.ErrUnavailable
	}

	openCount, err := s.loans.CountOpenByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if openCount >= model.MaxOpenLoansPerUser {
		return nil, apperror.ErrLimitExceeded
	}

	alreadyHeld, err := s.loans.OpenLoanExists(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	if alreadyHeld {
		return nil, apperror.ErrDuplicateLoan
	}

	now := s.now()
	loan := &model.Loan{
		UserID:    userID,
		BookID:    bookID,
		IssueDate: now,
		DueDate:   now.AddDate(0, 0, model.LoanPeriodDays),
	}

	// Availability is re-validated inside the transaction; the racing
	// borrower of the last copy gets ErrUnavailable here.
	if err := s.loans.Borrow(ctx, loan); err != nil {
		return nil, err
	}

	loan.Book = book
	return loan, nil
}

// Return closes the loan and reports the fine owed at return time.
func (s *loanService) Return(ctx context.Context, actorID, loanID uuid.UUID) (*model.Loan, float64, error) {
	loan, err := s.loans.FindByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, apperror.ErrNotFound
		}
		return nil, 0, err
	}

	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return nil, 0, err
	}
	if !actor.MayHandleLoan(loan) {
		return nil, 0, apperror.ErrForbidden
	}

	if !loan.Open() {
		return nil, 0, apperror.ErrAlreadyReturned
	}

	returnedAt := s.now()
	if err := s.loans.Close(ctx, loanID, returnedAt); err != nil {
		return nil, 0, err
	}

	loan.ReturnDate = &returnedAt
	return loan, loan.FineAmount(returnedAt), nil
}

// Extend pushes the due date forward by the fixed admin-action period.
// Unlike the request workflow there is no cap on accumulated extensions.
func (s *loanService) Extend(ctx context.Context, actorID, loanID uuid.UUID) (*model.Loan, error) {
	loan, err := s.loans.FindByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.MayHandleLoan(loan) {
		return nil, apperror.ErrForbidden
	}

	if !loan.Open() {
		return nil, apperror.ErrAlreadyReturned
	}

	newDue := loan.DueDate.AddDate(0, 0, model.AdminExtensionDays)
	if err := s.loans.ExtendDueDate(ctx, loanID, newDue); err != nil {
		return nil, err
	}

	loan.DueDate = newDue
	return loan, nil
}

func (s *loanService) MyLoans(ctx context.Context, userID uuid.UUID) ([]*model.Loan, error) {
	return s.loans.FindOpenByUser(ctx, userID)
}

func (s *loanService) ActiveLoans(ctx context.Context) ([]*model.Loan, error) {
	return s.loans.FindOpen(ctx)
}

func (s *loanService) OverdueLoans(ctx context.Context) ([]*model.Loan, error) {
	open, err := s.loans.FindOpen(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var overdue []*model.Loan
	for _, loan := range open {
		if loan.IsOverdue(now) {
			overdue = append(overdue, loan)
		}
	}
	return overdue, nil
}
