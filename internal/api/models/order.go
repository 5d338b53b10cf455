package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"
	OrderStatusFailed  = "failed"
)

// Order is one checkout against the external payment processor. Exactly one
// of EbookID/BundleID is set. CommissionRate is snapshotted from the
// creator's badge at checkout time so later rank-ups don't rewrite history.
type Order struct {
	ID             string     `gorm:"primaryKey;type:uuid" json:"id"`
	UserID         string     `gorm:"type:uuid;not null;index" json:"user_id"`
	EbookID        *int64     `gorm:"index" json:"ebook_id,omitempty"`
	BundleID       *int64     `gorm:"index" json:"bundle_id,omitempty"`
	AmountCents    int64      `gorm:"not null" json:"amount_cents"`
	CommissionRate float64    `gorm:"not null;default:0" json:"commission_rate"`
	Status         string     `gorm:"default:'pending';not null;index" json:"status"`
	CheckoutID     string     `gorm:"index" json:"checkout_id"` // id at the payment processor
	CreatedAt      time.Time  `json:"created_at"`
	PaidAt         *time.Time `json:"paid_at,omitempty"`

	// Associations
	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Ebook  *Ebook  `gorm:"foreignKey:EbookID" json:"ebook,omitempty"`
	Bundle *Bundle `gorm:"foreignKey:BundleID" json:"bundle,omitempty"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return
}

func (Order) TableName() string {
	return "orders"
}
