package models

import "time"

// CreatorProfile carries the marketplace-side state of a creator account.
// TotalSales is the durable completed-sale counter the badge/commission
// engine derives rank from; bumped atomically when an order is paid.
type CreatorProfile struct {
	UserID     string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	Bio        string    `gorm:"type:text" json:"bio"`
	TotalSales int       `gorm:"default:0" json:"total_sales"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Associations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (CreatorProfile) TableName() string {
	return "creator_profiles"
}
