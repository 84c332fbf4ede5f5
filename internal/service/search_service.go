package service

import (
	"encoding/json"
	"log"

	"college-library/internal/model"
	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
)

const booksIndex = "books"

// SearchService maintains the catalog search index. Meilisearch is
// optional; when it is not configured callers fall back to SQL search.
type SearchService interface {
	Enabled() bool
	IndexBook(book *model.Book) error
	DeleteBook(id string) error
	SearchBooks(query string) ([]uuid.UUID, error)
}

type searchService struct {
	client meilisearch.ServiceManager
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &searchService{client: client}
	if client != nil {
		s.initIndex()
	}
	return s
}

func (s *searchService) initIndex() {
	sortableAttrs := []string{"title"}
	if _, err := s.client.Index(booksIndex).UpdateSortableAttributes(&sortableAttrs); err != nil {
		log.Printf("Failed to update books sortable attributes: %v", err)
		return
	}
	log.Println("Meilisearch books index initialized")
}

func (s *searchService) Enabled() bool {
	return s.client != nil
}

type meiliBookDoc struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

func (s *searchService) IndexBook(book *model.Book) error {
	if s.client == nil {
		return nil
	}

	doc := meiliBookDoc{
		ID:     book.ID.String(),
		Title:  book.Title,
		Author: book.Author,
	}

	task, err := s.client.Index(booksIndex).AddDocuments([]meiliBookDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed book %s, task id: %d", book.ID, task.TaskUID)
	return nil
}

func (s *searchService) DeleteBook(id string) error {
	if s.client == nil {
		return nil
	}
	_, err := s.client.Index(booksIndex).DeleteDocument(id)
	return err
}

func (s *searchService) SearchBooks(query string) ([]uuid.UUID, error) {
	res, err := s.client.Index(booksIndex).Search(query, &meilisearch.SearchRequest{
		Limit: 50,
	})
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(res.Hits)
	if err != nil {
		return nil, err
	}
	var docs []meiliBookDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(docs))
	for _, doc := range docs {
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func strPtr(s string) *string {
	return &s
}
