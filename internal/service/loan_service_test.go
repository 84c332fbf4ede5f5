package service

import (
	"context"
	"testing"
	"time"

	"college-library/internal/model"
	"college-library/internal/repository"
	"college-library/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newLoanFixture(t *testing.T, ts time.Time) (LoanService, *gorm.DB) {
	db := newTestDB(t)
	svc := NewLoanServiceWithClock(
		repository.NewLoanRepository(db),
		repository.NewBookRepository(db),
		repository.NewUserRepository(db),
		fixedClock(ts),
	)
	return svc, db
}

func TestBorrowCreatesLoan(t *testing.T) {
	ctx := context.Background()
	issued := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	svc, db := newLoanFixture(t, issued)

	student := seedUser(t, db, "PRN2024001", model.RoleStudent)
	book := seedBook(t, db, "Data Structures", 2)

	loan, err := svc.Borrow(ctx, student.ID, book.ID)
	require.NoError(t, err)

	assert.Equal(t, issued.AddDate(0, 0, model.LoanPeriodDays), loan.DueDate)
	assert.True(t, loan.Open())

	var stored model.Book
	require.NoError(t, db.First(&stored, "id = ?", book.ID).Error)
	assert.Equal(t, 1, stored.CopiesAvailable)

	var borrower model.User
	require.NoError(t, db.First(&borrower, "id = ?", student.ID).Error)
	assert.Equal(t, 1, borrower.TotalBooksBorrowed)
}

func TestBorrowUnknownBook(t *testing.T) {
	ctx := context.Background()
	svc, db := newLoanFixture(t, time.Now())

	student := seedUser(t, db, "PRN2024001", model.RoleStudent)
	book := seedBook(t, db, "Deleted Book", 1)
	require.NoError(t, db.Delete(&model.Book{}, "id = ?", book.ID).Error)

	_, err := svc.Borrow(ctx, student.ID, book.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestBorrowUnavailableBook(t *testing.T) {
	ctx := context.Background()
	svc, db := newLoanFixture(t, time.Now())

	student := seedUser(t, db, "PRN2024001", model.RoleStudent)
	book := seedBook(t, db, "Web Development", 1)
	require.NoError(t, db.Model(&model.Book{}).Where("id = ?", book.ID).Update("copies_available", 0).Error)

	_, err := svc.Borrow(ctx, student.ID, book.ID)
	assert.ErrorIs(t, err, apperror.ErrUnavailable)
}

func TestBorrowLoanLimit(t *testing.T) {
	ctx := context.Background()
	svc, db := newLoanFixture(t, time.Now())

	student := seedUser(t, db, "PRN2024001", model.RoleStudent)
	first := seedBook(t, db, "Book One", 1)
	second := seedBook(t, db, "Book Two", 1)
	third := seedBook(t, db, "Book Three", 1)

	_, err := svc.Borrow(ctx, student.ID, first.ID)
	require.NoError(t, err)
	_, err = svc.Borrow(ctx, student.ID, second.ID)
	require.NoError(t, err)

	_, err = svc.Borrow(ctx, student.ID, third.ID)
	assert.ErrorIs(t, err, apperror.ErrLimitExceeded)
}

func TestBorrowSameBookTwice(t *testing.T) {
	ctx := context.Background()
	svc, db := newLoanFixture(t, time.Now())

	student := seedUser(t, db, "PRN2024001", model.RoleStudent)
	book := seedBook(t, db, "Computer Networks", 3)

	_, err := svc.Borrow(ctx, student.ID, book.ID)
	require.NoError(t, err)

	_, err = svc.Borrow(ctx, student.ID, book.ID)
	assert.ErrorIs(t, err, apperror.ErrDuplicateLoan)
}

func TestReturnOnTime(t *testing.T) {
	ctx := context.Background()
	issued := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	svc, db := newLoanFixture(t, issued)

	student := seedUser(t, db, "PRN2024001", model.RoleStudent)
	book := seedBook(t, db, "Python Programming", 1)

	loan, err := svc.Borrow(ctx, student.ID, book.ID)
	require.NoError(t, err)

	returnSvc := NewLoanServiceWithClock(
		repository.NewLoanRepository(db),
		repository.NewBookRepository(db),
		repository.NewUserRepository(db),
		fixedClock(issued.AddDate(0, 0, 10)),
	)

	returned, fine, err := returnSvc.Return(ctx, student.ID, loan.ID)
	require.NoError(t, err)
	assert.Zero(t, fine)
	assert.False(t, returned.Open())

	var stored model.Book
	require.NoError(t, db.First(&stored, "id = ?", book.ID).Error)
	assert.Equal(t, 1, stored.CopiesAvailable)
}

func TestReturnLateChargesFine(t *testing.T) {
	ctx := context.Background()
	issued := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	svc, db := newLoanFixture(t, issued)

	student := seedUser(t, db, "PRN2024001", model.RoleStudent)
	book := seedBook(t, db, "Database Systems", 1)

	loan, err := svc.Borrow(ctx, student.ID, book.ID)
	require.NoError(t, err)

	// Three and a half days past due truncates to three chargeable days.
	lateBy := 84 * time.Hour
	returnSvc := NewLoanServiceWithClock(
		repository.NewLoanRepository(db),
		repository.NewBookRepository(db),
		repository.NewUserRepository(db),
		fixedClock(loan.DueDate.Add(lateBy)),
	)

	_, fine, err := returnSvc.Return(ctx, student.ID, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, 3*model.FinePerDay, fine)
}

func TestReturnTwice(t *testing.T) {
	ctx := context.Background()
	svc, db := newLoanFixture(t, time.Now())

	student := seedUser(t, db, "PRN2024001", model.RoleStudent)
	book := seedBook(t, db, "Book", 1)

	loan, err := svc.Borrow(ctx, student.ID, book.ID)
	require.NoError(t, err)

	_, _, err = svc.Return(ctx, student.ID, loan.ID)
	require.NoError(t, err)

	_, _, err = svc.Return(ctx, student.ID, loan.ID)
	assert.ErrorIs(t, err, apperror.ErrAlreadyReturned)
}

func TestReturnForbiddenForOtherStudent(t *testing.T) {
	ctx := context.Background()
	svc, db := newLoanFixture(t, time.Now())

	borrower := seedUser(t, db, "PRN2024001", model.RoleStudent)
	other := seedUser(t, db, "PRN2024002", model.RoleStudent)
	book := seedBook(t, db, "Book", 1)

	loan, err := svc.Borrow(ctx, borrower.ID, book.ID)
	require.NoError(t, err)

	_, _, err = svc.Return(ctx, other.ID, loan.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestReturnByAdmin(t *testing.T) {
	ctx := context.Background()
	svc, db := newLoanFixture(t, time.Now())

	borrower := seedUser(t, db, "PRN2024001", model.RoleStudent)
	admin := seedUser(t, db, "ADM2024001", model.RoleAdmin)
	book := seedBook(t, db, "Book", 1)

	loan, err := svc.Borrow(ctx, borrower.ID, book.ID)
	require.NoError(t, err)

	_, _, err = svc.Return(ctx, admin.ID, loan.ID)
	assert.NoError(t, err)
}

func TestExtendAddsSevenDays(t *testing.T) {
	ctx := context.Background()
	issued := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	svc, db := newLoanFixture(t, issued)

	borrower := seedUser(t, db, "PRN2024001", model.RoleStudent)
	admin := seedUser(t, db, "ADM2024001", model.RoleAdmin)
	book := seedBook(t, db, "Book", 1)

	loan, err := svc.Borrow(ctx, borrower.ID, book.ID)
	require.NoError(t, err)
	originalDue := loan.DueDate

	extended, err := svc.Extend(ctx, admin.ID, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, originalDue.AddDate(0, 0, model.AdminExtensionDays), extended.DueDate)

	// Extensions stack without a cap.
	extended, err = svc.Extend(ctx, admin.ID, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, originalDue.AddDate(0, 0, 2*model.AdminExtensionDays), extended.DueDate)
}

func TestExtendClosedLoan(t *testing.T) {
	ctx := context.Background()
	svc, db := newLoanFixture(t, time.Now())

	borrower := seedUser(t, db, "PRN2024001", model.RoleStudent)
	book := seedBook(t, db, "Book", 1)

	loan, err := svc.Borrow(ctx, borrower.ID, book.ID)
	require.NoError(t, err)
	_, _, err = svc.Return(ctx, borrower.ID, loan.ID)
	require.NoError(t, err)

	_, err = svc.Extend(ctx, borrower.ID, loan.ID)
	assert.ErrorIs(t, err, apperror.ErrAlreadyReturned)
}

func TestOverdueLoansFiltersOpenLoans(t *testing.T) {
	ctx := context.Background()
	issued := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	svc, db := newLoanFixture(t, issued)

	first := seedUser(t, db, "PRN2024001", model.RoleStudent)
	second := seedUser(t, db, "PRN2024002", model.RoleStudent)
	bookA := seedBook(t, db, "Book A", 1)
	bookB := seedBook(t, db, "Book B", 1)

	overdueLoan, err := svc.Borrow(ctx, first.ID, bookA.ID)
	require.NoError(t, err)

	// Issued later, still within its period at the query time below.
	laterSvc := NewLoanServiceWithClock(
		repository.NewLoanRepository(db),
		repository.NewBookRepository(db),
		repository.NewUserRepository(db),
		fixedClock(issued.AddDate(0, 0, 10)),
	)
	_, err = laterSvc.Borrow(ctx, second.ID, bookB.ID)
	require.NoError(t, err)

	querySvc := NewLoanServiceWithClock(
		repository.NewLoanRepository(db),
		repository.NewBookRepository(db),
		repository.NewUserRepository(db),
		fixedClock(issued.AddDate(0, 0, 16)),
	)

	overdue, err := querySvc.OverdueLoans(ctx)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, overdueLoan.ID, overdue[0].ID)
}
