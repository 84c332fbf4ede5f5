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

func newBookFixture(t *testing.T) (BookService, *gorm.DB) {
	db := newTestDB(t)
	svc := NewBookService(
		repository.NewBookRepository(db),
		repository.NewLoanRepository(db),
		repository.NewUserRepository(db),
		NewSearchService(nil),
	)
	return svc, db
}

func TestAddBook(t *testing.T) {
	ctx := context.Background()
	svc, db := newBookFixture(t)

	admin := seedUser(t, db, "ADM2024001", model.RoleAdmin)

	book, err := svc.Add(ctx, admin.ID, "Python Programming", "John Smith", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, book.CopiesTotal)
	assert.Equal(t, 3, book.CopiesAvailable)

	// Zero or negative copies fall back to a single copy.
	single, err := svc.Add(ctx, admin.ID, "Pamphlet", "Anon", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, single.CopiesTotal)
}

func TestAddBookRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	svc, db := newBookFixture(t)

	student := seedUser(t, db, "PRN2024001", model.RoleStudent)

	_, err := svc.Add(ctx, student.ID, "Title", "Author", 1)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestDeleteBookGuards(t *testing.T) {
	ctx := context.Background()

	t.Run("never-lent book is removed", func(t *testing.T) {
		svc, db := newBookFixture(t)
		admin := seedUser(t, db, "ADM2024001", model.RoleAdmin)
		book := seedBook(t, db, "Unread", 1)

		require.NoError(t, svc.Delete(ctx, admin.ID, book.ID))

		_, err := svc.Get(ctx, book.ID)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("open loan blocks deletion", func(t *testing.T) {
		svc, db := newBookFixture(t)
		admin := seedUser(t, db, "ADM2024001", model.RoleAdmin)
		student := seedUser(t, db, "PRN2024001", model.RoleStudent)
		book := seedBook(t, db, "Held", 1)

		loans := NewLoanService(repository.NewLoanRepository(db), repository.NewBookRepository(db), repository.NewUserRepository(db))
		_, err := loans.Borrow(ctx, student.ID, book.ID)
		require.NoError(t, err)

		assert.ErrorIs(t, svc.Delete(ctx, admin.ID, book.ID), apperror.ErrHasActiveLoans)
	})

	t.Run("loan history blocks deletion", func(t *testing.T) {
		svc, db := newBookFixture(t)
		admin := seedUser(t, db, "ADM2024001", model.RoleAdmin)
		student := seedUser(t, db, "PRN2024001", model.RoleStudent)
		book := seedBook(t, db, "Archived", 1)

		loans := NewLoanService(repository.NewLoanRepository(db), repository.NewBookRepository(db), repository.NewUserRepository(db))
		loan, err := loans.Borrow(ctx, student.ID, book.ID)
		require.NoError(t, err)
		_, _, err = loans.Return(ctx, student.ID, loan.ID)
		require.NoError(t, err)

		assert.ErrorIs(t, svc.Delete(ctx, admin.ID, book.ID), apperror.ErrHasLoanHistory)
	})
}

func TestToggleAvailability(t *testing.T) {
	ctx := context.Background()
	svc, db := newBookFixture(t)

	admin := seedUser(t, db, "ADM2024001", model.RoleAdmin)
	book := seedBook(t, db, "Toggled", 4)

	off, err := svc.ToggleAvailability(ctx, admin.ID, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, off.CopiesAvailable)

	on, err := svc.ToggleAvailability(ctx, admin.ID, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, on.CopiesAvailable)
}

func TestSearchFallsBackToDatabase(t *testing.T) {
	ctx := context.Background()
	svc, db := newBookFixture(t)

	seedBook(t, db, "Computer Networks", 1)
	seedBook(t, db, "Database Systems", 1)

	results, err := svc.Search(ctx, "network")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Computer Networks", results[0].Title)

	empty, err := svc.Search(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestBookDetails(t *testing.T) {
	ctx := context.Background()
	svc, db := newBookFixture(t)

	admin := seedUser(t, db, "ADM2024001", model.RoleAdmin)
	first := seedUser(t, db, "PRN2024001", model.RoleStudent)
	second := seedUser(t, db, "PRN2024002", model.RoleStudent)
	book := seedBook(t, db, "Popular", 3)

	issued := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	loans := NewLoanServiceWithClock(repository.NewLoanRepository(db), repository.NewBookRepository(db), repository.NewUserRepository(db), fixedClock(issued))

	closedLoan, err := loans.Borrow(ctx, first.ID, book.ID)
	require.NoError(t, err)
	_, _, err = loans.Return(ctx, first.ID, closedLoan.ID)
	require.NoError(t, err)

	_, err = loans.Borrow(ctx, second.ID, book.ID)
	require.NoError(t, err)

	details, err := svc.Details(ctx, admin.ID, book.ID)
	require.NoError(t, err)
	assert.Len(t, details.ActiveLoans, 1)
	assert.Len(t, details.LoanHistory, 2)

	_, err = svc.Details(ctx, first.ID, book.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}
