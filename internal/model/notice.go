package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RecipientType string

const (
	RecipientAll      RecipientType = "all"
	RecipientStudents RecipientType = "student"
	RecipientSpecific RecipientType = "specific"
)

func (t RecipientType) Valid() bool {
	return t == RecipientAll || t == RecipientStudents || t == RecipientSpecific
}

// A notice counts as "new" for 10 days after publication.
const noticeFreshFor = 10 * 24 * time.Hour

type Notice struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Title         string        `gorm:"size:200;not null" json:"title"`
	Message       string        `gorm:"type:text;not null" json:"message"`
	CreatedBy     uuid.UUID     `gorm:"type:uuid;not null;index" json:"created_by"`
	RecipientType RecipientType `gorm:"size:20;not null;default:all" json:"recipient_type"`
	// Comma-joined user IDs, set only for specific notices.
	RecipientIDs string    `gorm:"type:text" json:"recipient_ids,omitempty"`
	CreatedDate  time.Time `gorm:"not null" json:"created_date"`

	Creator *User `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
}

func (n *Notice) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

func (n *Notice) RecipientIDList() []uuid.UUID {
	if n.RecipientIDs == "" {
		return nil
	}
	var ids []uuid.UUID
	for _, part := range strings.Split(n.RecipientIDs, ",") {
		id, err := uuid.Parse(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func (n *Notice) HasRecipient(userID uuid.UUID) bool {
	for _, id := range n.RecipientIDList() {
		if id == userID {
			return true
		}
	}
	return false
}

// VisibleTo reports whether the notice appears in the user's feed.
// Admins additionally see their own notices through the author listing.
func (n *Notice) VisibleTo(u *User) bool {
	switch n.RecipientType {
	case RecipientAll:
		return true
	case RecipientStudents:
		return u.Role == RoleStudent
	case RecipientSpecific:
		return n.HasRecipient(u.ID)
	}
	return false
}

func (n *Notice) IsNew(now time.Time) bool {
	return now.Sub(n.CreatedDate) <= noticeFreshFor
}

func (n *Notice) DaysOld(now time.Time) int {
	return int(now.Sub(n.CreatedDate).Hours() / 24)
}
