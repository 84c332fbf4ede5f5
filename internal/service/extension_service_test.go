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

type extensionFixture struct {
	db       *gorm.DB
	loans    LoanService
	svc      ExtensionService
	borrower *model.User
	admin    *model.User
	loan     *model.Loan
}

func newExtensionFixture(t *testing.T, ts time.Time) *extensionFixture {
	db := newTestDB(t)
	loanRepo := repository.NewLoanRepository(db)
	userRepo := repository.NewUserRepository(db)

	loans := NewLoanServiceWithClock(loanRepo, repository.NewBookRepository(db), userRepo, fixedClock(ts))
	svc := NewExtensionServiceWithClock(repository.NewExtensionRepository(db), loanRepo, userRepo, fixedClock(ts))

	borrower := seedUser(t, db, "PRN2024001", model.RoleStudent)
	admin := seedUser(t, db, "ADM2024001", model.RoleAdmin)
	book := seedBook(t, db, "Data Structures", 1)

	loan, err := loans.Borrow(context.Background(), borrower.ID, book.ID)
	require.NoError(t, err)

	return &extensionFixture{db: db, loans: loans, svc: svc, borrower: borrower, admin: admin, loan: loan}
}

func TestRequestExtension(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	f := newExtensionFixture(t, ts)

	req, err := f.svc.Request(ctx, f.borrower.ID, f.loan.ID, "exam week", 5)
	require.NoError(t, err)

	assert.Equal(t, model.ExtensionPending, req.Status)
	assert.Equal(t, 5, req.RequestedDays)
	assert.Equal(t, ts, req.RequestDate)

	var requester model.User
	require.NoError(t, f.db.First(&requester, "id = ?", f.borrower.ID).Error)
	assert.Equal(t, 1, requester.TotalExtensionRequests)
}

func TestRequestExtensionGuards(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("only the borrower may ask", func(t *testing.T) {
		f := newExtensionFixture(t, ts)
		_, err := f.svc.Request(ctx, f.admin.ID, f.loan.ID, "reason", 5)
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("days out of range", func(t *testing.T) {
		f := newExtensionFixture(t, ts)
		_, err := f.svc.Request(ctx, f.borrower.ID, f.loan.ID, "reason", 0)
		assert.ErrorIs(t, err, apperror.ErrInvalidDays)

		_, err = f.svc.Request(ctx, f.borrower.ID, f.loan.ID, "reason", model.MaxExtensionDays+1)
		assert.ErrorIs(t, err, apperror.ErrInvalidDays)
	})

	t.Run("reason required", func(t *testing.T) {
		f := newExtensionFixture(t, ts)
		_, err := f.svc.Request(ctx, f.borrower.ID, f.loan.ID, "   ", 5)
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	})

	t.Run("one pending request per loan", func(t *testing.T) {
		f := newExtensionFixture(t, ts)
		_, err := f.svc.Request(ctx, f.borrower.ID, f.loan.ID, "reason", 5)
		require.NoError(t, err)

		_, err = f.svc.Request(ctx, f.borrower.ID, f.loan.ID, "again", 3)
		assert.ErrorIs(t, err, apperror.ErrDuplicatePending)
	})

	t.Run("returned loan cannot be extended", func(t *testing.T) {
		f := newExtensionFixture(t, ts)
		_, _, err := f.loans.Return(ctx, f.borrower.ID, f.loan.ID)
		require.NoError(t, err)

		_, err = f.svc.Request(ctx, f.borrower.ID, f.loan.ID, "reason", 5)
		assert.ErrorIs(t, err, apperror.ErrAlreadyReturned)
	})
}

func TestApproveExtension(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	f := newExtensionFixture(t, ts)

	req, err := f.svc.Request(ctx, f.borrower.ID, f.loan.ID, "exam week", 5)
	require.NoError(t, err)

	decided, err := f.svc.Decide(ctx, f.admin.ID, req.ID, ExtensionActionApprove, "")
	require.NoError(t, err)

	assert.Equal(t, model.ExtensionApproved, decided.Status)
	assert.Equal(t, "Extension approved", decided.AdminResponse)
	require.NotNil(t, decided.StatusExpiresAt)
	assert.Equal(t, ts.Add(24*time.Hour), *decided.StatusExpiresAt)

	var stored model.Loan
	require.NoError(t, f.db.First(&stored, "id = ?", f.loan.ID).Error)
	assert.Equal(t, f.loan.DueDate.AddDate(0, 0, 5).Unix(), stored.DueDate.Unix())
}

func TestRejectExtension(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	f := newExtensionFixture(t, ts)

	req, err := f.svc.Request(ctx, f.borrower.ID, f.loan.ID, "exam week", 5)
	require.NoError(t, err)

	_, err = f.svc.Decide(ctx, f.admin.ID, req.ID, ExtensionActionReject, "  ")
	assert.ErrorIs(t, err, apperror.ErrMissingReason)

	decided, err := f.svc.Decide(ctx, f.admin.ID, req.ID, ExtensionActionReject, "book is reserved")
	require.NoError(t, err)

	assert.Equal(t, model.ExtensionRejected, decided.Status)
	assert.Equal(t, "book is reserved", decided.AdminResponse)
	require.NotNil(t, decided.StatusExpiresAt)
	assert.Equal(t, ts.Add(48*time.Hour), *decided.StatusExpiresAt)

	// Rejection leaves the due date untouched.
	var stored model.Loan
	require.NoError(t, f.db.First(&stored, "id = ?", f.loan.ID).Error)
	assert.Equal(t, f.loan.DueDate.Unix(), stored.DueDate.Unix())
}

func TestDecideExtensionGuards(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("students cannot decide", func(t *testing.T) {
		f := newExtensionFixture(t, ts)
		req, err := f.svc.Request(ctx, f.borrower.ID, f.loan.ID, "reason", 5)
		require.NoError(t, err)

		_, err = f.svc.Decide(ctx, f.borrower.ID, req.ID, ExtensionActionApprove, "")
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("resolution happens once", func(t *testing.T) {
		f := newExtensionFixture(t, ts)
		req, err := f.svc.Request(ctx, f.borrower.ID, f.loan.ID, "reason", 5)
		require.NoError(t, err)

		_, err = f.svc.Decide(ctx, f.admin.ID, req.ID, ExtensionActionApprove, "")
		require.NoError(t, err)

		_, err = f.svc.Decide(ctx, f.admin.ID, req.ID, ExtensionActionReject, "changed my mind")
		assert.ErrorIs(t, err, apperror.ErrAlreadyResolved)
	})

	t.Run("unknown action", func(t *testing.T) {
		f := newExtensionFixture(t, ts)
		req, err := f.svc.Request(ctx, f.borrower.ID, f.loan.ID, "reason", 5)
		require.NoError(t, err)

		_, err = f.svc.Decide(ctx, f.admin.ID, req.ID, "defer", "")
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	})
}

func TestPendingListsOldestFirst(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	f := newExtensionFixture(t, ts)

	second := seedUser(t, f.db, "PRN2024002", model.RoleStudent)
	bookB := seedBook(t, f.db, "Book B", 1)

	laterLoans := NewLoanServiceWithClock(
		repository.NewLoanRepository(f.db),
		repository.NewBookRepository(f.db),
		repository.NewUserRepository(f.db),
		fixedClock(ts.Add(time.Hour)),
	)
	loanB, err := laterLoans.Borrow(ctx, second.ID, bookB.ID)
	require.NoError(t, err)

	reqA, err := f.svc.Request(ctx, f.borrower.ID, f.loan.ID, "first", 5)
	require.NoError(t, err)

	laterSvc := NewExtensionServiceWithClock(
		repository.NewExtensionRepository(f.db),
		repository.NewLoanRepository(f.db),
		repository.NewUserRepository(f.db),
		fixedClock(ts.Add(2*time.Hour)),
	)
	reqB, err := laterSvc.Request(ctx, second.ID, loanB.ID, "second", 3)
	require.NoError(t, err)

	pending, err := f.svc.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, reqA.ID, pending[0].ID)
	assert.Equal(t, reqB.ID, pending[1].ID)
}
