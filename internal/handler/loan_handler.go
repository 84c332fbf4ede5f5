package handler

import (
	"net/http"
	"time"

	"college-library/internal/dto"
	"college-library/internal/service"
	"college-library/pkg/response"
	"github.com/gin-gonic/gin"
)

type LoanHandler struct {
	loanService service.LoanService
}

func NewLoanHandler(loanService service.LoanService) *LoanHandler {
	return &LoanHandler{
		loanService: loanService,
	}
}

func (h *LoanHandler) BorrowBook(c *gin.Context) {
	userID, err := response.UserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	bookID, ok := paramID(c, "id")
	if !ok {
		return
	}

	loan, err := h.loanService.Borrow(c.Request.Context(), userID, bookID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewLoanView(loan, time.Now()))
}

// ReturnLoan closes a loan and reports the fine owed, if any.
func (h *LoanHandler) ReturnLoan(c *gin.Context) {
	actorID, err := response.UserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	loanID, ok := paramID(c, "id")
	if !ok {
		return
	}

	loan, fine, err := h.loanService.Return(c.Request.Context(), actorID, loanID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ReturnResponse{
		Loan: dto.NewLoanView(loan, time.Now()),
		Fine: fine,
	})
}

func (h *LoanHandler) ExtendLoan(c *gin.Context) {
	actorID, err := response.UserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	loanID, ok := paramID(c, "id")
	if !ok {
		return
	}

	loan, err := h.loanService.Extend(c.Request.Context(), actorID, loanID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewLoanView(loan, time.Now()))
}

func (h *LoanHandler) MyLoans(c *gin.Context) {
	userID, err := response.UserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	loans, err := h.loanService.MyLoans(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.NewLoanViews(loans, time.Now())})
}

func (h *LoanHandler) ActiveLoans(c *gin.Context) {
	loans, err := h.loanService.ActiveLoans(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.NewLoanViews(loans, time.Now())})
}

func (h *LoanHandler) OverdueLoans(c *gin.Context) {
	loans, err := h.loanService.OverdueLoans(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.NewLoanViews(loans, time.Now())})
}
