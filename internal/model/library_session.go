package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LibrarySession struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	CheckIn       time.Time  `gorm:"not null" json:"check_in"`
	CheckOut      *time.Time `json:"check_out,omitempty"`
	DurationHours float64    `json:"duration_hours"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (s *LibrarySession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (s *LibrarySession) CalculateDuration() {
	if s.CheckOut != nil {
		s.DurationHours = s.CheckOut.Sub(s.CheckIn).Hours()
	}
}
