package repository

import (
	"context"

	"college-library/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoticeRepository interface {
	Create(ctx context.Context, notice *model.Notice) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Notice, error)
	FindBroadcast(ctx context.Context) ([]*model.Notice, error)
	FindSpecific(ctx context.Context) ([]*model.Notice, error)
	FindByCreator(ctx context.Context, creatorID uuid.UUID, limit int) ([]*model.Notice, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type noticeRepository struct {
	db *gorm.DB
}

func NewNoticeRepository(db *gorm.DB) NoticeRepository {
	return &noticeRepository{db: db}
}

func (r *noticeRepository) Create(ctx context.Context, notice *model.Notice) error {
	return r.db.WithContext(ctx).Create(notice).Error
}

func (r *noticeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Notice, error) {
	var notice model.Notice
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&notice).Error; err != nil {
		return nil, err
	}
	return &notice, nil
}

// FindBroadcast returns notices addressed to everyone or to all students.
func (r *noticeRepository) FindBroadcast(ctx context.Context) ([]*model.Notice, error) {
	var notices []*model.Notice
	if err := r.db.WithContext(ctx).
		Where("recipient_type IN ?", []model.RecipientType{model.RecipientAll, model.RecipientStudents}).
		Find(&notices).Error; err != nil {
		return nil, err
	}
	return notices, nil
}

// FindSpecific returns all targeted notices; recipient membership is
// checked by the caller, the recipient list being an opaque text column.
func (r *noticeRepository) FindSpecific(ctx context.Context) ([]*model.Notice, error) {
	var notices []*model.Notice
	if err := r.db.WithContext(ctx).
		Where("recipient_type = ?", model.RecipientSpecific).
		Find(&notices).Error; err != nil {
		return nil, err
	}
	return notices, nil
}

func (r *noticeRepository) FindByCreator(ctx context.Context, creatorID uuid.UUID, limit int) ([]*model.Notice, error) {
	q := r.db.WithContext(ctx).
		Where("created_by = ?", creatorID).
		Order("created_date desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var notices []*model.Notice
	if err := q.Find(&notices).Error; err != nil {
		return nil, err
	}
	return notices, nil
}

func (r *noticeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Notice{}, "id = ?", id).Error
}
