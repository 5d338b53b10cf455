package commission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgeLadderConfiguration(t *testing.T) {
	require.NotEmpty(t, BadgeLadder)
	assert.Equal(t, 0, BadgeLadder[0].Requirement, "bronze is the zero-state")

	for i := 1; i < len(BadgeLadder); i++ {
		prev, cur := BadgeLadder[i-1], BadgeLadder[i]
		assert.Greater(t, cur.Requirement, prev.Requirement,
			"requirements must be strictly ascending (%s → %s)", prev.Badge, cur.Badge)
		assert.LessOrEqual(t, cur.CommissionRate, prev.CommissionRate,
			"commission must not increase with rank (%s → %s)", prev.Badge, cur.Badge)
	}

	for _, lvl := range BadgeLadder {
		assert.GreaterOrEqual(t, lvl.CommissionRate, 0.0)
		assert.LessOrEqual(t, lvl.CommissionRate, 1.0)
	}
}

func TestResolveBadgeRanks(t *testing.T) {
	cases := []struct {
		sales int
		want  BadgeRank
	}{
		{0, BadgeBronze},
		{1, BadgeSilver},
		{4, BadgeSilver},
		{5, BadgeCopper},
		{7, BadgeCopper},
		{10, BadgeIron},
		{25, BadgeGold},
		{49, BadgeGold},
		{50, BadgeDiamond},
		{100, BadgeCrown},
		{499, BadgeCrown},
		{500, BadgeRocket},
		{12345, BadgeRocket},
	}
	for _, tc := range cases {
		got := ResolveBadge(tc.sales)
		assert.Equal(t, tc.want, got.CurrentBadge, "sales=%d", tc.sales)
		assert.Equal(t, tc.sales, got.CurrentSales)
	}
}

func TestResolveBadgeLookAhead(t *testing.T) {
	// seven completed sales: copper now, iron three sales away
	got := ResolveBadge(7)
	assert.Equal(t, BadgeCopper, got.CurrentBadge)
	require.NotNil(t, got.NextBadge)
	assert.Equal(t, BadgeIron, *got.NextBadge)
	require.NotNil(t, got.NextBadgeRequirement)
	assert.Equal(t, 10, *got.NextBadgeRequirement)
	require.NotNil(t, got.SalesToNextLevel)
	assert.Equal(t, 3, *got.SalesToNextLevel)
}

func TestResolveBadgeTerminalRank(t *testing.T) {
	got := ResolveBadge(500)
	assert.Equal(t, BadgeRocket, got.CurrentBadge)
	assert.Nil(t, got.NextBadge)
	assert.Nil(t, got.NextBadgeRequirement)
	assert.Nil(t, got.SalesToNextLevel)
}

func TestResolveBadgeInvariant(t *testing.T) {
	// current badge is the highest rung whose requirement has been met, and
	// the distance to the next rung is always positive
	for sales := 0; sales <= 600; sales++ {
		got := ResolveBadge(sales)
		var current BadgeLevel
		for _, lvl := range BadgeLadder {
			if lvl.Badge == got.CurrentBadge {
				current = lvl
			}
		}
		assert.GreaterOrEqual(t, sales, current.Requirement)
		if got.NextBadgeRequirement != nil {
			assert.Less(t, sales, *got.NextBadgeRequirement)
			assert.Positive(t, *got.SalesToNextLevel)
		}
	}
}

func TestResolveBadgeCommissionMonotonic(t *testing.T) {
	prev := ResolveBadge(0).CurrentCommissionRate
	for sales := 1; sales <= 600; sales++ {
		rate := ResolveBadge(sales).CurrentCommissionRate
		assert.LessOrEqual(t, rate, prev, "commission rose at %d sales", sales)
		prev = rate
	}
}

func TestResolveBadgeNegativeSales(t *testing.T) {
	got := ResolveBadge(-3)
	assert.Equal(t, BadgeBronze, got.CurrentBadge)
	assert.Equal(t, 0, got.CurrentSales)
}

func TestPayoutPercent(t *testing.T) {
	assert.Equal(t, 50, PayoutPercent(0.50))
	assert.Equal(t, 55, PayoutPercent(0.45))
	assert.Equal(t, 85, PayoutPercent(0.15))
	assert.Equal(t, 33, PayoutPercent(0.675))
}
