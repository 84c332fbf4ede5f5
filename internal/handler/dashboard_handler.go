package handler

import (
	"net/http"
	"time"

	"college-library/internal/dto"
	"college-library/internal/service"
	"college-library/pkg/response"
	"github.com/gin-gonic/gin"
)

const dashboardNoticeLimit = 5

type DashboardHandler struct {
	bookService   service.BookService
	loanService   service.LoanService
	noticeService service.NoticeService
}

func NewDashboardHandler(bookService service.BookService, loanService service.LoanService, noticeService service.NoticeService) *DashboardHandler {
	return &DashboardHandler{
		bookService:   bookService,
		loanService:   loanService,
		noticeService: noticeService,
	}
}

// StudentDashboard bundles the catalog, the student's loans and their
// latest notices into one response.
func (h *DashboardHandler) StudentDashboard(c *gin.Context) {
	userID, err := response.UserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	ctx := c.Request.Context()

	books, err := h.bookService.List(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	loans, err := h.loanService.MyLoans(ctx, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	notices, err := h.noticeService.FeedFor(ctx, userID, dashboardNoticeLimit)
	if err != nil {
		response.Error(c, err)
		return
	}

	now := time.Now()
	c.JSON(http.StatusOK, gin.H{
		"books":   books,
		"loans":   dto.NewLoanViews(loans, now),
		"notices": dto.NewNoticeViews(notices, now),
	})
}

// AdminDashboard bundles the catalog with circulation state and the
// admin's latest notices.
func (h *DashboardHandler) AdminDashboard(c *gin.Context) {
	userID, err := response.UserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	ctx := c.Request.Context()

	books, err := h.bookService.List(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	active, err := h.loanService.ActiveLoans(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	overdue, err := h.loanService.OverdueLoans(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	notices, err := h.noticeService.FeedFor(ctx, userID, dashboardNoticeLimit)
	if err != nil {
		response.Error(c, err)
		return
	}

	now := time.Now()
	c.JSON(http.StatusOK, gin.H{
		"books":         books,
		"active_loans":  dto.NewLoanViews(active, now),
		"overdue_loans": dto.NewLoanViews(overdue, now),
		"notices":       dto.NewNoticeViews(notices, now),
	})
}
