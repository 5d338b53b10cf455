package models

import "time"

// Achievement is a catalog row, seeded from the gamification package's fixed
// table so the API can serve it and per-user state rows can reference it.
type Achievement struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"not null" json:"description"`
	Category    string    `gorm:"not null;index" json:"category"` // content, social, time, special, certificate
	Requirement int       `gorm:"not null" json:"requirement"`
	Points      int       `gorm:"not null" json:"points"`
	PremiumOnly bool      `gorm:"default:false" json:"premium_only"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Achievement) TableName() string {
	return "achievements"
}

// UserAchievement is a per-user progress row against a catalog entry.
// Completed flips once and never reverts; CompletedAt is stamped with it.
type UserAchievement struct {
	UserID          string     `gorm:"type:uuid;not null;primaryKey;index:idx_user_achievement" json:"user_id"`
	AchievementID   string     `gorm:"not null;primaryKey;index:idx_user_achievement" json:"achievement_id"`
	CurrentProgress int        `gorm:"default:0" json:"current_progress"`
	Completed       bool       `gorm:"default:false" json:"completed"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	UpdatedAt       time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Associations
	User        *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Achievement *Achievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}
