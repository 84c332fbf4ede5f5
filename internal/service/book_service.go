package service

import (
	"context"
	"errors"
	"log"

	"college-library/internal/model"
	"college-library/internal/repository"
	"college-library/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookDetails is the admin view of one catalog entry.
type BookDetails struct {
	Book        *model.Book   `json:"book"`
	ActiveLoans []*model.Loan `json:"active_loans"`
	LoanHistory []*model.Loan `json:"loan_history"`
}

type BookService interface {
	Add(ctx context.Context, actorID uuid.UUID, title, author string, copies int) (*model.Book, error)
	List(ctx context.Context) ([]*model.Book, error)
	Get(ctx context.Context, bookID uuid.UUID) (*model.Book, error)
	Details(ctx context.Context, actorID, bookID uuid.UUID) (*BookDetails, error)
	Search(ctx context.Context, query string) ([]*model.Book, error)
	Delete(ctx context.Context, actorID, bookID uuid.UUID) error
	ToggleAvailability(ctx context.Context, actorID, bookID uuid.UUID) (*model.Book, error)
}

type bookService struct {
	books  repository.BookRepository
	loans  repository.LoanRepository
	users  repository.UserRepository
	search SearchService
}

func NewBookService(books repository.BookRepository, loans repository.LoanRepository, users repository.UserRepository, search SearchService) BookService {
	return &bookService{
		books:  books,
		loans:  loans,
		users:  users,
		search: search,
	}
}

func (s *bookService) requireLibrarian(ctx context.Context, actorID uuid.UUID) error {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return err
	}
	if !actor.Role.CanManageLibrary() {
		return apperror.ErrForbidden
	}
	return nil
}

func (s *bookService) Add(ctx context.Context, actorID uuid.UUID, title, author string, copies int) (*model.Book, error) {
	if err := s.requireLibrarian(ctx, actorID); err != nil {
		return nil, err
	}
	if copies < 1 {
		copies = 1
	}

	book := &model.Book{
		Title:           title,
		Author:          author,
		CopiesTotal:     copies,
		CopiesAvailable: copies,
	}
	if err := s.books.Create(ctx, book); err != nil {
		return nil, err
	}

	// Index failures must not fail the catalog write.
	if err := s.search.IndexBook(book); err != nil {
		log.Printf("failed to index book %s: %v", book.ID, err)
	}
	return book, nil
}

func (s *bookService) List(ctx context.Context) ([]*model.Book, error) {
	return s.books.FindAll(ctx)
}

func (s *bookService) Get(ctx context.Context, bookID uuid.UUID) (*model.Book, error) {
	book, err := s.books.FindByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return book, nil
}

func (s *bookService) Details(ctx context.Context, actorID, bookID uuid.UUID) (*BookDetails, error) {
	if err := s.requireLibrarian(ctx, actorID); err != nil {
		return nil, err
	}

	book, err := s.Get(ctx, bookID)
	if err != nil {
		return nil, err
	}

	active, err := s.loans.FindByBook(ctx, bookID, true)
	if err != nil {
		return nil, err
	}
	history, err := s.loans.FindByBook(ctx, bookID, false)
	if err != nil {
		return nil, err
	}

	return &BookDetails{Book: book, ActiveLoans: active, LoanHistory: history}, nil
}

func (s *bookService) Search(ctx context.Context, query string) ([]*model.Book, error) {
	if query == "" {
		return []*model.Book{}, nil
	}

	if s.search.Enabled() {
		ids, err := s.search.SearchBooks(query)
		if err == nil {
			books := make([]*model.Book, 0, len(ids))
			for _, id := range ids {
				book, err := s.books.FindByID(ctx, id)
				if err != nil {
					continue // stale index entry
				}
				books = append(books, book)
			}
			return books, nil
		}
		log.Printf("meilisearch query failed, falling back to database: %v", err)
	}

	return s.books.Search(ctx, query)
}

// Delete removes a book that has never been lent. Books with history are
// kept for the records; admins deactivate them via the availability
// toggle instead.
func (s *bookService) Delete(ctx context.Context, actorID, bookID uuid.UUID) error {
	if err := s.requireLibrarian(ctx, actorID); err != nil {
		return err
	}

	if _, err := s.Get(ctx, bookID); err != nil {
		return err
	}

	activeCount, err := s.loans.CountByBook(ctx, bookID, true)
	if err != nil {
		return err
	}
	if activeCount > 0 {
		return apperror.ErrHasActiveLoans
	}

	totalCount, err := s.loans.CountByBook(ctx, bookID, false)
	if err != nil {
		return err
	}
	if totalCount > 0 {
		return apperror.ErrHasLoanHistory
	}

	if err := s.books.Delete(ctx, bookID); err != nil {
		return err
	}

	if err := s.search.DeleteBook(bookID.String()); err != nil {
		log.Printf("failed to deindex book %s: %v", bookID, err)
	}
	return nil
}

// ToggleAvailability flips a book between fully unavailable (zero
// copies) and fully available (all copies).
func (s *bookService) ToggleAvailability(ctx context.Context, actorID, bookID uuid.UUID) (*model.Book, error) {
	if err := s.requireLibrarian(ctx, actorID); err != nil {
		return nil, err
	}

	book, err := s.Get(ctx, bookID)
	if err != nil {
		return nil, err
	}

	copies := 0
	if book.CopiesAvailable == 0 {
		copies = book.CopiesTotal
	}

	if err := s.books.SetAvailability(ctx, bookID, copies); err != nil {
		return nil, err
	}

	book.CopiesAvailable = copies
	return book, nil
}
