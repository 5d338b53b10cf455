package models

import "time"

// UserStats holds the durable activity counters the gamification engine is
// derived from. Each column is mutated by exactly one activity event through
// a server-atomic increment; tier and badge standing are computed from these
// on read, never stored.
type UserStats struct {
	UserID             string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	EbooksRead         int       `gorm:"default:0" json:"ebooks_read"`
	CommentsPosted     int       `gorm:"default:0" json:"comments_posted"`
	DaysActive         int       `gorm:"default:0" json:"days_active"`
	StreakDays         int       `gorm:"default:0" json:"streak_days"`
	LoginCount         int       `gorm:"default:0" json:"login_count"`
	BundlesPurchased   int       `gorm:"default:0" json:"bundles_purchased"`
	CertificatesEarned int       `gorm:"default:0" json:"certificates_earned"`
	TotalPoints        int       `gorm:"default:0" json:"total_points"`
	UpdatedAt          time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Associations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (UserStats) TableName() string {
	return "user_stats"
}
