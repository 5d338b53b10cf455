package gamification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingFromCatalog(ids ...string) []Progress {
	var pending []Progress
	for _, a := range Catalog {
		for _, id := range ids {
			if a.ID == id {
				pending = append(pending, Progress{Achievement: a})
			}
		}
	}
	return pending
}

func TestCatalogSelectorsExhaustive(t *testing.T) {
	// Every catalog entry must be bound to a counter, and every binding must
	// point at a real catalog entry. Keeps the mapping a pure data change.
	for _, a := range Catalog {
		_, ok := SelectorFor(a.ID)
		assert.True(t, ok, "achievement %q has no stat selector", a.ID)
	}
	known := make(map[string]bool, len(Catalog))
	for _, a := range Catalog {
		known[a.ID] = true
	}
	for id := range statSelectors {
		assert.True(t, known[id], "selector %q has no catalog entry", id)
	}
}

func TestEvaluateAchievementsUnlock(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	pending := pendingFromCatalog("bookworm")
	pending[0].CurrentProgress = 9

	unlocks := EvaluateAchievements(pending, Stats{EbooksRead: 10}, false, now)

	require.Len(t, unlocks, 1)
	assert.Equal(t, "bookworm", unlocks[0].ID)
	assert.Equal(t, 50, unlocks[0].Points)
	assert.Equal(t, 50, UnlockPoints(unlocks))

	assert.True(t, pending[0].Completed)
	assert.Equal(t, pending[0].Requirement, pending[0].CurrentProgress)
	require.NotNil(t, pending[0].CompletedAt)
	assert.Equal(t, now, *pending[0].CompletedAt)
}

func TestEvaluateAchievementsIdempotent(t *testing.T) {
	now := time.Now()
	pending := pendingFromCatalog("first-read", "first-comment")
	stats := Stats{EbooksRead: 3, CommentsPosted: 1}

	first := EvaluateAchievements(pending, stats, false, now)
	require.Len(t, first, 2)

	// unchanged snapshot, nothing new may unlock
	second := EvaluateAchievements(pending, stats, false, now.Add(time.Minute))
	assert.Empty(t, second)
}

func TestEvaluateAchievementsPremiumGate(t *testing.T) {
	now := time.Now()
	pending := pendingFromCatalog("shelf-master")
	stats := Stats{EbooksRead: 500} // far past the requirement

	unlocks := EvaluateAchievements(pending, stats, false, now)
	assert.Empty(t, unlocks, "premium-only must never unlock without premium")
	assert.False(t, pending[0].Completed, "stays pending, not failed")

	unlocks = EvaluateAchievements(pending, stats, true, now)
	require.Len(t, unlocks, 1)
	assert.Equal(t, "shelf-master", unlocks[0].ID)
}

func TestEvaluateAchievementsPartialProgress(t *testing.T) {
	pending := pendingFromCatalog("reviewer")

	unlocks := EvaluateAchievements(pending, Stats{CommentsPosted: 4}, false, time.Now())
	assert.Empty(t, unlocks)
	assert.Equal(t, 4, pending[0].CurrentProgress)
	assert.False(t, pending[0].Completed)

	// progress never moves backwards on a stale counter
	unlocks = EvaluateAchievements(pending, Stats{CommentsPosted: 2}, false, time.Now())
	assert.Empty(t, unlocks)
	assert.Equal(t, 4, pending[0].CurrentProgress)
}

func TestEvaluateAchievementsNegativeStats(t *testing.T) {
	pending := pendingFromCatalog("first-read")
	pending[0].Requirement = 0 // even a zero requirement must not fire on bad data

	unlocks := EvaluateAchievements(pendingFromCatalog("first-read"), Stats{EbooksRead: -7}, false, time.Now())
	assert.Empty(t, unlocks)
}

func TestEvaluateAchievementsSkipsCompleted(t *testing.T) {
	now := time.Now()
	pending := pendingFromCatalog("kit-collector")
	done := now.Add(-time.Hour)
	pending[0].Completed = true
	pending[0].CompletedAt = &done
	pending[0].CurrentProgress = pending[0].Requirement

	unlocks := EvaluateAchievements(pending, Stats{BundlesPurchased: 10}, true, now)
	assert.Empty(t, unlocks)
	assert.Equal(t, done, *pending[0].CompletedAt, "completion stamp is set exactly once")
}

func TestTierChanged(t *testing.T) {
	assert.False(t, TierChanged(10, 50))
	assert.True(t, TierChanged(90, 110))
	assert.True(t, TierChanged(250, 300))
	assert.False(t, TierChanged(700, 5000))
}
