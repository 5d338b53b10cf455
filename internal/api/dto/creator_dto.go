package dto

// BadgeProgressResponse is the creator-facing standing. PayoutPercent is the
// rounded display value of 1 - commission rate; the rate itself stays exact.
type BadgeProgressResponse struct {
	CurrentBadge          string   `json:"current_badge"`
	CurrentSales          int      `json:"current_sales"`
	CurrentCommissionRate float64  `json:"current_commission_rate"`
	PayoutPercent         int      `json:"payout_percent"`
	NextBadge             *string  `json:"next_badge,omitempty"`
	NextBadgeRequirement  *int     `json:"next_badge_requirement,omitempty"`
	SalesToNextLevel      *int     `json:"sales_to_next_level,omitempty"`
}

type UpdateCreatorProfileRequest struct {
	Bio string `json:"bio" binding:"max=2000"`
}
