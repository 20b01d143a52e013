package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NewsletterSubscriber struct {
	ID          string     `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Email       string     `gorm:"size:100;not null;uniqueIndex" json:"email"`
	ConfirmedAt *time.Time `json:"confirmedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func (ns *NewsletterSubscriber) BeforeCreate(tx *gorm.DB) (err error) {
	if ns.ID == "" {
		ns.ID = uuid.New().String()
	}
	return
}
