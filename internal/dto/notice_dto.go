package dto

import (
	"time"

	"college-library/internal/model"
)

type CreateNoticeInput struct {
	Title         string   `json:"title" binding:"required,max=200"`
	Message       string   `json:"message" binding:"required"`
	RecipientType string   `json:"recipient_type" binding:"required,oneof=all student specific"`
	RecipientIDs  []string `json:"recipient_ids" binding:"omitempty,dive,uuid"`
}

type SendUserNoticeInput struct {
	Title   string `json:"title" binding:"required,max=200"`
	Message string `json:"message" binding:"required"`
}

// NoticeView adds the read-time freshness derivations.
type NoticeView struct {
	*model.Notice
	IsNew   bool `json:"is_new"`
	DaysOld int  `json:"days_old"`
}

func NewNoticeView(notice *model.Notice, now time.Time) NoticeView {
	return NoticeView{
		Notice:  notice,
		IsNew:   notice.IsNew(now),
		DaysOld: notice.DaysOld(now),
	}
}

func NewNoticeViews(notices []*model.Notice, now time.Time) []NoticeView {
	views := make([]NoticeView, len(notices))
	for i, notice := range notices {
		views[i] = NewNoticeView(notice, now)
	}
	return views
}
