package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierLadderConfiguration(t *testing.T) {
	require.NotEmpty(t, TierLadder)

	t.Run("StartsAtZero", func(t *testing.T) {
		assert.Equal(t, 0, TierLadder[0].MinPoints)
	})

	t.Run("ContiguousNoGapsNoOverlaps", func(t *testing.T) {
		for i := 1; i < len(TierLadder); i++ {
			prev, cur := TierLadder[i-1], TierLadder[i]
			require.NotEqual(t, Unbounded, prev.MaxPoints, "only the top tier may be unbounded")
			assert.Equal(t, prev.MaxPoints+1, cur.MinPoints,
				"tier %s must start right after %s", cur.Level, prev.Level)
		}
		assert.Equal(t, Unbounded, TierLadder[len(TierLadder)-1].MaxPoints)
	})

	t.Run("DiscountNonDecreasing", func(t *testing.T) {
		for i := 1; i < len(TierLadder); i++ {
			assert.GreaterOrEqual(t, TierLadder[i].Discount, TierLadder[i-1].Discount)
		}
	})
}

func TestResolveTierCoverage(t *testing.T) {
	// Every non-negative total maps to exactly one tier; probe every boundary
	// and its neighbors plus a tail beyond the top threshold.
	top := TierLadder[len(TierLadder)-1].MinPoints
	for p := 0; p <= top+500; p++ {
		current, _ := ResolveTier(p)
		assert.GreaterOrEqual(t, p, current.MinPoints, "points %d below tier %s", p, current.Level)
		if current.MaxPoints != Unbounded {
			assert.LessOrEqual(t, p, current.MaxPoints, "points %d above tier %s", p, current.Level)
		}
	}
}

func TestResolveTierBoundaries(t *testing.T) {
	cases := []struct {
		points int
		want   TierLevel
	}{
		{0, TierBronze},
		{99, TierBronze},
		{100, TierSilver},
		{299, TierSilver},
		{300, TierGold},
		{699, TierGold},
		{700, TierPlatinum},
		{100000, TierPlatinum},
	}
	for _, tc := range cases {
		current, _ := ResolveTier(tc.points)
		assert.Equal(t, tc.want, current.Level, "points=%d", tc.points)
	}
}

func TestResolveTierMonotonic(t *testing.T) {
	prevLevel := TierBronze
	for p := 0; p <= 1200; p++ {
		current, _ := ResolveTier(p)
		assert.GreaterOrEqual(t, current.Level, prevLevel, "tier dropped at %d points", p)
		prevLevel = current.Level
	}
}

func TestResolveTierNextTier(t *testing.T) {
	current, next := ResolveTier(185)
	require.NotNil(t, next)
	assert.Equal(t, TierSilver, current.Level)
	assert.Equal(t, TierGold, next.Level)
	assert.LessOrEqual(t, current.MinPoints, 185)
	assert.GreaterOrEqual(t, current.MaxPoints, 185)

	_, next = ResolveTier(9999)
	assert.Nil(t, next, "platinum has no next tier")
}

func TestResolveTierNegativeClampsToBronze(t *testing.T) {
	current, next := ResolveTier(-50)
	assert.Equal(t, TierBronze, current.Level)
	require.NotNil(t, next)
	assert.Equal(t, TierSilver, next.Level)
}
