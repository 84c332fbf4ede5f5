package repository

import (
	"context"

	"college-library/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(ctx context.Context, session *model.LibrarySession) error
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*model.LibrarySession, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Create records the session and credits the hours to the user's monthly
// and yearly counters in the same transaction.
func (r *sessionRepository) Create(ctx context.Context, session *model.LibrarySession) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).
			Where("id = ?", session.UserID).
			UpdateColumns(map[string]interface{}{
				"library_hours_this_month": gorm.Expr("library_hours_this_month + ?", session.DurationHours),
				"library_hours_this_year":  gorm.Expr("library_hours_this_year + ?", session.DurationHours),
			}).Error
	})
}

func (r *sessionRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*model.LibrarySession, error) {
	var sessions []*model.LibrarySession
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("check_in desc").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}
