package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
	OrderStatusShipped OrderStatus = "shipped"
)

// ShippingInfo is the address snapshot frozen onto an order at settlement
// time. Stored as an opaque JSON column.
type ShippingInfo struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
}

type Order struct {
	ID                    string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	UserID                *string         `gorm:"size:36;index" json:"userId"`
	User                  *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	StripePaymentIntentID string          `gorm:"size:255;uniqueIndex" json:"stripePaymentIntentId"`
	Status                OrderStatus     `gorm:"size:20;default:'pending';not null" json:"status"`
	Total                 decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	Shipping              ShippingInfo    `gorm:"serializer:json" json:"shipping"`
	Items                 []OrderItem     `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedAt             time.Time       `json:"createdAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return
}
