package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID           string            `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	StripeID     string            `gorm:"size:255;not null;uniqueIndex" json:"stripeId"`
	Name         string            `gorm:"size:255;not null" json:"name"`
	Description  string            `gorm:"type:text" json:"description"`
	Price        decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"price"`
	Images       []string          `gorm:"serializer:json" json:"images"`
	CategoryID   *string           `gorm:"size:36;index" json:"categoryId"`
	Category     *Category         `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Inventory    int               `gorm:"default:0" json:"inventory"`
	IsNew        bool              `gorm:"default:false" json:"isNew"`
	IsBestSeller bool              `gorm:"default:false" json:"isBestSeller"`
	IsLimited    bool              `gorm:"default:false" json:"isLimited"`
	Metadata     map[string]string `gorm:"serializer:json" json:"metadata,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}

// ProductMetadataUpdate carries the admin-editable metadata flags. Nil fields
// are left untouched.
type ProductMetadataUpdate struct {
	IsNew        *bool   `json:"isNew"`
	IsBestSeller *bool   `json:"isBestSeller"`
	IsLimited    *bool   `json:"isLimited"`
	CategoryID   *string `json:"categoryId"`
}
