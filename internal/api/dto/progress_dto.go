package dto

import (
	"time"

	"clubedoebook/internal/gamification"
)

// TierResponse mirrors a ladder rung; MaxPoints is omitted on the open-ended
// top tier.
type TierResponse struct {
	Level     string   `json:"level"`
	MinPoints int      `json:"min_points"`
	MaxPoints *int     `json:"max_points,omitempty"`
	Discount  int      `json:"discount"`
	Benefits  []string `json:"benefits"`
}

func FromTier(t gamification.Tier) TierResponse {
	resp := TierResponse{
		Level:     t.Level.String(),
		MinPoints: t.MinPoints,
		Discount:  t.Discount,
		Benefits:  t.Benefits,
	}
	if t.MaxPoints != gamification.Unbounded {
		max := t.MaxPoints
		resp.MaxPoints = &max
	}
	return resp
}

type AchievementResponse struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Category        string     `json:"category"`
	Requirement     int        `json:"requirement"`
	Points          int        `json:"points"`
	PremiumOnly     bool       `json:"premium_only"`
	CurrentProgress int        `json:"current_progress"`
	Completed       bool       `json:"completed"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

type UserProgressResponse struct {
	TotalPoints           int                   `json:"total_points"`
	CurrentTier           TierResponse          `json:"current_tier"`
	NextTier              *TierResponse         `json:"next_tier,omitempty"`
	PointsToNextTier      *int                  `json:"points_to_next_tier,omitempty"`
	Stats                 gamification.Stats    `json:"stats"`
	IsPremium             bool                  `json:"is_premium"`
	CompletedAchievements []AchievementResponse `json:"completed_achievements"`
	PendingAchievements   []AchievementResponse `json:"pending_achievements"`
}

type CertificateResponse struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	RequiredEbooks  []string   `json:"required_ebooks"`
	CompletedEbooks []string   `json:"completed_ebooks"`
	Completed       bool       `json:"completed"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}
