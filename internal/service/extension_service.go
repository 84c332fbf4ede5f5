package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"college-library/internal/model"
	"college-library/internal/repository"
	"college-library/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ExtensionActionApprove = "approve"
	ExtensionActionReject  = "reject"
)

type ExtensionService interface {
	Request(ctx context.Context, requesterID, loanID uuid.UUID, reason string, requestedDays int) (*model.ExtensionRequest, error)
	Decide(ctx context.Context, adminID, requestID uuid.UUID, action, adminResponse string) (*model.ExtensionRequest, error)
	Pending(ctx context.Context) ([]*model.ExtensionRequest, error)
	All(ctx context.Context) ([]*model.ExtensionRequest, error)
}

type extensionService struct {
	extensions repository.ExtensionRepository
	loans      repository.LoanRepository
	users      repository.UserRepository
	now        func() time.Time
}

func NewExtensionService(extensions repository.ExtensionRepository, loans repository.LoanRepository, users repository.UserRepository) ExtensionService {
	return &extensionService{
		extensions: extensions,
		loans:      loans,
		users:      users,
		now:        time.Now,
	}
}

func NewExtensionServiceWithClock(extensions repository.ExtensionRepository, loans repository.LoanRepository, users repository.UserRepository, now func() time.Time) ExtensionService {
	return &extensionService{extensions: extensions, loans: loans, users: users, now: now}
}

func (s *extensionService) Request(ctx context.Context, requesterID, loanID uuid.UUID, reason string, requestedDays int) (*model.ExtensionRequest, error) {
	loan, err := s.loans.FindByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	// Only the borrower may ask; admins extend directly instead.
	if loan.UserID != requesterID {
		return nil, apperror.ErrForbidden
	}

	if !loan.Open() {
		return nil, apperror.ErrAlreadyReturned
	}

	pending, err := s.extensions.PendingExists(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, apperror.ErrDuplicatePending
	}

	if requestedDays < model.MinExtensionDays || requestedDays > model.MaxExtensionDays {
		return nil, apperror.ErrInvalidDays
	}
	if strings.TrimSpace(reason) == "" {
		return nil, apperror.ErrInvalidInput
	}

	req := &model.ExtensionRequest{
		LoanID:        loanID,
		RequestedDays: requestedDays,
		Reason:        reason,
		Status:        model.ExtensionPending,
		RequestDate:   s.now(),
	}

	if err := s.extensions.Create(ctx, req, requesterID); err != nil {
		return nil, err
	}

	req.Loan = loan
	return req, nil
}

func (s *extensionService) Decide(ctx context.Context, adminID, requestID uuid.UUID, action, adminResponse string) (*model.ExtensionRequest, error) {
	admin, err := s.users.FindByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !admin.Role.CanDecideExtensions() {
		return nil, apperror.ErrForbidden
	}

	req, err := s.extensions.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	// pending -> approved/rejected happens exactly once.
	if !req.Pending() {
		return nil, apperror.ErrAlreadyResolved
	}

	now := s.now()
	var newDue *time.Time

	switch action {
	case ExtensionActionApprove:
		req.Status = model.ExtensionApproved
		if strings.TrimSpace(adminResponse) == "" {
			adminResponse = "Extension approved"
		}
		req.AdminResponse = adminResponse

		due := req.Loan.DueDate.AddDate(0, 0, req.RequestedDays)
		newDue = &due

	case ExtensionActionReject:
		if strings.TrimSpace(adminResponse) == "" {
			return nil, apperror.ErrMissingReason
		}
		req.Status = model.ExtensionRejected
		req.AdminResponse = adminResponse

	default:
		return nil, apperror.ErrInvalidInput
	}

	req.ResponseDate = &now
	req.RespondedBy = &admin.ID
	req.SetStatusExpiry(now)

	if err := s.extensions.Resolve(ctx, req, newDue); err != nil {
		return nil, err
	}

	if newDue != nil {
		req.Loan.DueDate = *newDue
	}
	return req, nil
}

func (s *extensionService) Pending(ctx context.Context) ([]*model.ExtensionRequest, error) {
	return s.extensions.FindPending(ctx)
}

func (s *extensionService) All(ctx context.Context) ([]*model.ExtensionRequest, error) {
	return s.extensions.FindAll(ctx)
}
