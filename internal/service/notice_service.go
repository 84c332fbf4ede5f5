package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"college-library/internal/model"
	"college-library/internal/repository"
	"college-library/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoticeService interface {
	Create(ctx context.Context, actorID uuid.UUID, title, message string, recipientType model.RecipientType, recipientIDs []uuid.UUID) (*model.Notice, error)
	SendToUser(ctx context.Context, actorID, userID uuid.UUID, title, message string) (*model.Notice, error)
	FeedFor(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Notice, error)
	Delete(ctx context.Context, actorID, noticeID uuid.UUID) error
}

type noticeService struct {
	notices repository.NoticeRepository
	users   repository.UserRepository
	now     func() time.Time
}

func NewNoticeService(notices repository.NoticeRepository, users repository.UserRepository) NoticeService {
	return &noticeService{notices: notices, users: users, now: time.Now}
}

func NewNoticeServiceWithClock(notices repository.NoticeRepository, users repository.UserRepository, now func() time.Time) NoticeService {
	return &noticeService{notices: notices, users: users, now: now}
}

func (s *noticeService) Create(ctx context.Context, actorID uuid.UUID, title, message string, recipientType model.RecipientType, recipientIDs []uuid.UUID) (*model.Notice, error) {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanManageLibrary() {
		return nil, apperror.ErrForbidden
	}

	if !recipientType.Valid() {
		return nil, apperror.ErrInvalidInput
	}
	if recipientType == model.RecipientSpecific && len(recipientIDs) == 0 {
		return nil, apperror.ErrInvalidInput
	}

	notice := &model.Notice{
		Title:         title,
		Message:       message,
		CreatedBy:     actorID,
		RecipientType: recipientType,
		CreatedDate:   s.now(),
	}
	if recipientType == model.RecipientSpecific {
		ids := make([]string, len(recipientIDs))
		for i, id := range recipientIDs {
			ids[i] = id.String()
		}
		notice.RecipientIDs = strings.Join(ids, ",")
	}

	if err := s.notices.Create(ctx, notice); err != nil {
		return nil, err
	}
	return notice, nil
}

// SendToUser is the single-recipient shortcut used from the member
// management views.
func (s *noticeService) SendToUser(ctx context.Context, actorID, userID uuid.UUID, title, message string) (*model.Notice, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return s.Create(ctx, actorID, title, message, model.RecipientSpecific, []uuid.UUID{userID})
}

// FeedFor assembles the role-aware notice feed: students get the visible
// union newest-first, admins their own notices newest-first. Specific
// recipient membership is filtered here because the recipient list is an
// opaque text column.
func (s *noticeService) FeedFor(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Notice, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if user.Role.CanManageLibrary() {
		return s.notices.FindByCreator(ctx, user.ID, limit)
	}

	broadcast, err := s.notices.FindBroadcast(ctx)
	if err != nil {
		return nil, err
	}
	specific, err := s.notices.FindSpecific(ctx)
	if err != nil {
		return nil, err
	}

	feed := make([]*model.Notice, 0, len(broadcast)+len(specific))
	for _, notice := range broadcast {
		if notice.VisibleTo(user) {
			feed = append(feed, notice)
		}
	}
	for _, notice := range specific {
		if notice.VisibleTo(user) {
			feed = append(feed, notice)
		}
	}

	sort.Slice(feed, func(i, j int) bool {
		return feed[i].CreatedDate.After(feed[j].CreatedDate)
	})

	if limit > 0 && len(feed) > limit {
		feed = feed[:limit]
	}
	return feed, nil
}

// Delete removes a notice; admins may only delete what they authored.
func (s *noticeService) Delete(ctx context.Context, actorID, noticeID uuid.UUID) error {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return err
	}
	if !actor.Role.CanManageLibrary() {
		return apperror.ErrForbidden
	}

	notice, err := s.notices.FindByID(ctx, noticeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if notice.CreatedBy != actorID {
		return apperror.ErrForbidden
	}

	return s.notices.Delete(ctx, noticeID)
}
