package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExtensionStatus string

const (
	ExtensionPending  ExtensionStatus = "pending"
	ExtensionApproved ExtensionStatus = "approved"
	ExtensionRejected ExtensionStatus = "rejected"
)

const (
	MinExtensionDays = 1
	MaxExtensionDays = 14

	// How long a resolved status stays highlighted as recent.
	approvedStatusTTL = 24 * time.Hour
	rejectedStatusTTL = 48 * time.Hour
)

type ExtensionRequest struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	LoanID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"loan_id"`
	RequestedDays   int             `gorm:"not null" json:"requested_days"`
	Reason          string          `gorm:"type:text;not null" json:"reason"`
	Status          ExtensionStatus `gorm:"size:20;not null;default:pending" json:"status"`
	AdminResponse   string          `gorm:"type:text" json:"admin_response,omitempty"`
	RequestDate     time.Time       `gorm:"not null" json:"request_date"`
	ResponseDate    *time.Time      `json:"response_date,omitempty"`
	RespondedBy     *uuid.UUID      `gorm:"type:uuid" json:"responded_by,omitempty"`
	StatusExpiresAt *time.Time      `json:"status_expires_at,omitempty"`

	Loan  *Loan `gorm:"foreignKey:LoanID" json:"loan,omitempty"`
	Admin *User `gorm:"foreignKey:RespondedBy" json:"admin,omitempty"`
}

func (r *ExtensionRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (r *ExtensionRequest) Pending() bool {
	return r.Status == ExtensionPending
}

// SetStatusExpiry stamps the display expiry matching the resolved status.
func (r *ExtensionRequest) SetStatusExpiry(now time.Time) {
	var expiry time.Time
	switch r.Status {
	case ExtensionApproved:
		expiry = now.Add(approvedStatusTTL)
	case ExtensionRejected:
		expiry = now.Add(rejectedStatusTTL)
	default:
		return
	}
	r.StatusExpiresAt = &expiry
}

// IsStatusExpired is informational only: callers stop highlighting the
// resolved status once it expires. The request itself never reopens.
func (r *ExtensionRequest) IsStatusExpired(now time.Time) bool {
	return r.StatusExpiresAt != nil && now.After(*r.StatusExpiresAt)
}
