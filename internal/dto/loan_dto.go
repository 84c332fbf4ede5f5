package dto

import (
	"time"

	"college-library/internal/model"
)

// LoanView is a loan annotated with its read-time derivations.
type LoanView struct {
	*model.Loan
	IsOverdue   bool    `json:"is_overdue"`
	DaysOverdue int     `json:"days_overdue"`
	FineAmount  float64 `json:"fine_amount"`
}

func NewLoanView(loan *model.Loan, now time.Time) LoanView {
	return LoanView{
		Loan:        loan,
		IsOverdue:   loan.IsOverdue(now),
		DaysOverdue: loan.DaysOverdue(now),
		FineAmount:  loan.FineAmount(now),
	}
}

func NewLoanViews(loans []*model.Loan, now time.Time) []LoanView {
	views := make([]LoanView, len(loans))
	for i, loan := range loans {
		views[i] = NewLoanView(loan, now)
	}
	return views
}

type ReturnResponse struct {
	Loan LoanView `json:"loan"`
	Fine float64  `json:"fine"`
}
