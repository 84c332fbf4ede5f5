package handler

import (
	"net/http"

	"college-library/internal/dto"
	"college-library/internal/service"
	"college-library/pkg/response"
	"college-library/pkg/validator"
	"github.com/gin-gonic/gin"
)

type BookHandler struct {
	bookService service.BookService
}

func NewBookHandler(bookService service.BookService) *BookHandler {
	return &BookHandler{
		bookService: bookService,
	}
}

func (h *BookHandler) ListBooks(c *gin.Context) {
	books, err := h.bookService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": books})
}

func (h *BookHandler) GetBook(c *gin.Context) {
	bookID, ok := paramID(c, "id")
	if !ok {
		return
	}

	book, err := h.bookService.Get(c.Request.Context(), bookID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, book)
}

// SearchBooks answers ?q= catalog queries.
func (h *BookHandler) SearchBooks(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		h.ListBooks(c)
		return
	}

	books, err := h.bookService.Search(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": books})
}

func (h *BookHandler) AddBook(c *gin.Context) {
	actorID, err := response.UserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var input dto.AddBookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	book, err := h.bookService.Add(c.Request.Context(), actorID, input.Title, input.Author, input.Copies)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, book)
}

func (h *BookHandler) BookDetails(c *gin.Context) {
	actorID, err := response.UserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	bookID, ok := paramID(c, "id")
	if !ok {
		return
	}

	details, err := h.bookService.Details(c.Request.Context(), actorID, bookID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

func (h *BookHandler) DeleteBook(c *gin.Context) {
	actorID, err := response.UserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	bookID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.bookService.Delete(c.Request.Context(), actorID, bookID); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "book deleted successfully"})
}

func (h *BookHandler) ToggleAvailability(c *gin.Context) {
	actorID, err := response.UserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	bookID, ok := paramID(c, "id")
	if !ok {
		return
	}

	book, err := h.bookService.ToggleAvailability(c.Request.Context(), actorID, bookID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, book)
}
