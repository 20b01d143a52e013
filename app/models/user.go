package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID                   string         `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Email                string         `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Name                 string         `gorm:"size:100" json:"name"`
	Password             string         `gorm:"size:255;not null" json:"-"`
	Address              string         `gorm:"size:255" json:"address"`
	Phone                string         `gorm:"size:20" json:"phone"`
	Role                 Role           `gorm:"size:20;default:'user';not null" json:"role"`
	Language             string         `gorm:"size:10;default:'en'" json:"language"`
	StripeCustomerID     string         `gorm:"size:255" json:"stripeCustomerId,omitempty"`
	PasswordResetToken   *string        `gorm:"size:255;uniqueIndex" json:"-"`
	PasswordResetExpires *time.Time     `json:"-"`
	CreatedAt            time.Time      `json:"createdAt"`
	UpdatedAt            time.Time      `json:"updatedAt"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
