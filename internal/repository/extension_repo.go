package repository

import (
	"context"
	"time"

	"college-library/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExtensionRepository interface {
	Create(ctx context.Context, req *model.ExtensionRequest, requesterID uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ExtensionRequest, error)
	PendingExists(ctx context.Context, loanID uuid.UUID) (bool, error)
	FindPending(ctx context.Context) ([]*model.ExtensionRequest, error)
	FindAll(ctx context.Context) ([]*model.ExtensionRequest, error)
	Resolve(ctx context.Context, req *model.ExtensionRequest, newDue *time.Time) error
}

type extensionRepository struct {
	db *gorm.DB
}

func NewExtensionRepository(db *gorm.DB) ExtensionRepository {
	return &extensionRepository{db: db}
}

// Create stores the request and bumps the requester's counter in the
// same transaction.
func (r *extensionRepository) Create(ctx context.Context, req *model.ExtensionRequest, requesterID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(req).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).
			Where("id = ?", requesterID).
			UpdateColumn("total_extension_requests", gorm.Expr("total_extension_requests + 1")).Error
	})
}

func (r *extensionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ExtensionRequest, error) {
	var req model.ExtensionRequest
	if err := r.db.WithContext(ctx).
		Preload("Loan").
		Preload("Loan.User").
		Preload("Loan.Book").
		Where("id = ?", id).
		First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *extensionRepository) PendingExists(ctx context.Context, loanID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.ExtensionRequest{}).
		Where("loan_id = ? AND status = ?", loanID, model.ExtensionPending).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *extensionRepository) FindPending(ctx context.Context) ([]*model.ExtensionRequest, error) {
	var reqs []*model.ExtensionRequest
	if err := r.db.WithContext(ctx).
		Preload("Loan").
		Preload("Loan.User").
		Preload("Loan.Book").
		Where("status = ?", model.ExtensionPending).
		Order("request_date").
		Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *extensionRepository) FindAll(ctx context.Context) ([]*model.ExtensionRequest, error) {
	var reqs []*model.ExtensionRequest
	if err := r.db.WithContext(ctx).
		Preload("Loan").
		Preload("Loan.User").
		Preload("Loan.Book").
		Order("request_date desc").
		Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

// Resolve saves the decided request and, for approvals, pushes the parent
// loan's due date forward in the same transaction.
func (r *extensionRepository) Resolve(ctx context.Context, req *model.ExtensionRequest, newDue *time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Loan", "Admin").Save(req).Error; err != nil {
			return err
		}
		if newDue != nil {
			return tx.Model(&model.Loan{}).
				Where("id = ?", req.LoanID).
				Update("due_date", *newDue).Error
		}
		return nil
	})
}
