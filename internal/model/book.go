package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Book struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string    `gorm:"size:200;not null" json:"title"`
	Author          string    `gorm:"size:100;not null" json:"author"`
	CopiesTotal     int       `gorm:"not null;default:1" json:"copies_total"`
	CopiesAvailable int       `gorm:"not null;default:1" json:"copies_available"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (b *Book) Available() bool {
	return b.CopiesAvailable > 0
}
