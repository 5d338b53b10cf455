// Package commission maps a creator's cumulative completed sales to a badge
// rank and the platform commission that rank carries. Pure derivation over a
// fixed ladder; sales counters are owned and mutated elsewhere.
package commission

import "math"

// BadgeRank is a rung on the creator ladder, ordered by sales requirement.
type BadgeRank string

const (
	BadgeBronze  BadgeRank = "bronze"
	BadgeSilver  BadgeRank = "silver"
	BadgeCopper  BadgeRank = "copper"
	BadgeIron    BadgeRank = "iron"
	BadgeGold    BadgeRank = "gold"
	BadgeDiamond BadgeRank = "diamond"
	BadgeCrown   BadgeRank = "crown"
	BadgeRocket  BadgeRank = "rocket"
)

// BadgeLevel ties a rank to its sales requirement and the platform's cut.
type BadgeLevel struct {
	Badge          BadgeRank `json:"badge"`
	Requirement    int       `json:"requirement"`
	CommissionRate float64   `json:"commission_rate"`
}

// BadgeLadder is the published ladder, ascending by requirement. The
// commission rate never increases with rank, so a creator's payout share
// only grows with sales. Bronze at requirement 0 is the true zero-state:
// a creator who never sold anything holds bronze.
var BadgeLadder = []BadgeLevel{
	{Badge: BadgeBronze, Requirement: 0, CommissionRate: 0.50},
	{Badge: BadgeSilver, Requirement: 1, CommissionRate: 0.45},
	{Badge: BadgeCopper, Requirement: 5, CommissionRate: 0.40},
	{Badge: BadgeIron, Requirement: 10, CommissionRate: 0.35},
	{Badge: BadgeGold, Requirement: 25, CommissionRate: 0.30},
	{Badge: BadgeDiamond, Requirement: 50, CommissionRate: 0.25},
	{Badge: BadgeCrown, Requirement: 100, CommissionRate: 0.20},
	{Badge: BadgeRocket, Requirement: 500, CommissionRate: 0.15},
}

// BadgeProgress is the creator-facing standing plus look-ahead to the next
// rung. The Next* fields are nil at the terminal rank.
type BadgeProgress struct {
	CurrentBadge          BadgeRank  `json:"current_badge"`
	CurrentSales          int        `json:"current_sales"`
	CurrentCommissionRate float64    `json:"current_commission_rate"`
	NextBadge             *BadgeRank `json:"next_badge,omitempty"`
	NextBadgeRequirement  *int       `json:"next_badge_requirement,omitempty"`
	SalesToNextLevel      *int       `json:"sales_to_next_level,omitempty"`
}

// ResolveBadge maps a completed-sales count to the highest rung whose
// requirement has been met. Pure function of the ladder; since sales only
// grow, the result never moves backwards. Negative input clamps to zero.
func ResolveBadge(currentSales int) BadgeProgress {
	if currentSales < 0 {
		currentSales = 0
	}
	idx := 0
	for i, lvl := range BadgeLadder {
		if currentSales >= lvl.Requirement {
			idx = i
		}
	}
	current := BadgeLadder[idx]
	progress := BadgeProgress{
		CurrentBadge:          current.Badge,
		CurrentSales:          currentSales,
		CurrentCommissionRate: current.CommissionRate,
	}
	if idx+1 < len(BadgeLadder) {
		next := BadgeLadder[idx+1]
		remaining := next.Requirement - currentSales
		progress.NextBadge = &next.Badge
		progress.NextBadgeRequirement = &next.Requirement
		progress.SalesToNextLevel = &remaining
	}
	return progress
}

// PayoutPercent renders a commission rate as the creator's keep-share in
// whole percent. Display only; stored rates stay fractional.
func PayoutPercent(rate float64) int {
	return int(math.Round((1 - rate) * 100))
}
