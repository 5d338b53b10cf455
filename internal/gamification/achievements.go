package gamification

import "time"

// Category groups achievements by the kind of activity they track.
type Category string

const (
	CategoryContent     Category = "content"
	CategorySocial      Category = "social"
	CategoryTime        Category = "time"
	CategorySpecial     Category = "special"
	CategoryCertificate Category = "certificate"
)

// Stats is the snapshot of a user's durable activity counters. Counters only
// grow; mutation happens upstream as atomic increments, never here.
type Stats struct {
	EbooksRead         int `json:"ebooks_read"`
	CommentsPosted     int `json:"comments_posted"`
	DaysActive         int `json:"days_active"`
	StreakDays         int `json:"streak_days"`
	LoginCount         int `json:"login_count"`
	BundlesPurchased   int `json:"bundles_purchased"`
	CertificatesEarned int `json:"certificates_earned"`
}

// Achievement is a catalog entry: a goal with a numeric requirement and a
// one-time point reward.
type Achievement struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Requirement int      `json:"requirement"`
	Points      int      `json:"points"`
	PremiumOnly bool     `json:"premium_only"`
}

// Progress is an achievement joined with a user's state row. Completed is a
// one-way transition; CompletedAt is stamped exactly once.
type Progress struct {
	Achievement
	CurrentProgress int        `json:"current_progress"`
	Completed       bool       `json:"completed"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// Unlock is a newly completed achievement produced by an evaluation pass.
type Unlock struct {
	Achievement
	CompletedAt time.Time `json:"completed_at"`
}

// StatSelector picks the counter an achievement is measured against.
type StatSelector func(Stats) int

func selectEbooksRead(s Stats) int         { return s.EbooksRead }
func selectCommentsPosted(s Stats) int     { return s.CommentsPosted }
func selectDaysActive(s Stats) int         { return s.DaysActive }
func selectStreakDays(s Stats) int         { return s.StreakDays }
func selectLoginCount(s Stats) int         { return s.LoginCount }
func selectBundlesPurchased(s Stats) int   { return s.BundlesPurchased }
func selectCertificatesEarned(s Stats) int { return s.CertificatesEarned }

// statSelectors maps each catalog achievement to its counter. Adding an
// achievement is a data change here plus a Catalog entry, no new branches.
var statSelectors = map[string]StatSelector{
	"first-read":        selectEbooksRead,
	"bookworm":          selectEbooksRead,
	"shelf-master":      selectEbooksRead,
	"first-comment":     selectCommentsPosted,
	"reviewer":          selectCommentsPosted,
	"community-voice":   selectCommentsPosted,
	"regular":           selectDaysActive,
	"week-streak":       selectStreakDays,
	"month-streak":      selectStreakDays,
	"always-back":       selectLoginCount,
	"kit-collector":     selectBundlesPurchased,
	"kit-enthusiast":    selectBundlesPurchased,
	"first-certificate": selectCertificatesEarned,
	"certified-maker":   selectCertificatesEarned,
}

// Catalog is the fixed achievement table. requirement/points pairs mirror the
// storefront's published medal list.
var Catalog = []Achievement{
	{ID: "first-read", Title: "First Read", Description: "Finish your first e-book", Category: CategoryContent, Requirement: 1, Points: 10},
	{ID: "bookworm", Title: "Bookworm", Description: "Finish 10 e-books", Category: CategoryContent, Requirement: 10, Points: 50},
	{ID: "shelf-master", Title: "Shelf Master", Description: "Finish 50 e-books", Category: CategoryContent, Requirement: 50, Points: 200, PremiumOnly: true},
	{ID: "first-comment", Title: "First Comment", Description: "Post your first review", Category: CategorySocial, Requirement: 1, Points: 5},
	{ID: "reviewer", Title: "Reviewer", Description: "Post 10 reviews", Category: CategorySocial, Requirement: 10, Points: 30},
	{ID: "community-voice", Title: "Community Voice", Description: "Post 50 reviews", Category: CategorySocial, Requirement: 50, Points: 100},
	{ID: "regular", Title: "Regular", Description: "Be active on 30 different days", Category: CategoryTime, Requirement: 30, Points: 40},
	{ID: "week-streak", Title: "Week Streak", Description: "Log in 7 days in a row", Category: CategoryTime, Requirement: 7, Points: 25},
	{ID: "month-streak", Title: "Month Streak", Description: "Log in 30 days in a row", Category: CategoryTime, Requirement: 30, Points: 120, PremiumOnly: true},
	{ID: "always-back", Title: "Always Back", Description: "Log in 100 times", Category: CategoryTime, Requirement: 100, Points: 60},
	{ID: "kit-collector", Title: "Kit Collector", Description: "Buy your first kit", Category: CategorySpecial, Requirement: 1, Points: 20},
	{ID: "kit-enthusiast", Title: "Kit Enthusiast", Description: "Buy 5 kits", Category: CategorySpecial, Requirement: 5, Points: 80},
	{ID: "first-certificate", Title: "First Certificate", Description: "Earn your first certificate", Category: CategoryCertificate, Requirement: 1, Points: 50},
	{ID: "certified-maker", Title: "Certified Maker", Description: "Earn 3 certificates", Category: CategoryCertificate, Requirement: 3, Points: 150},
}

// SelectorFor returns the stat selector bound to an achievement id.
func SelectorFor(achievementID string) (StatSelector, bool) {
	sel, ok := statSelectors[achievementID]
	return sel, ok
}

// EvaluateAchievements runs one evaluation pass over the pending list against
// a fresh stats snapshot. Pending entries are updated in place; the returned
// unlocks carry the point rewards to apply exactly once.
//
// Premium-only achievements are skipped entirely for non-premium users: they
// stay pending, they never fail. Re-running with an unchanged snapshot
// returns no unlocks, so the caller needs no locking around re-evaluation.
func EvaluateAchievements(pending []Progress, stats Stats, isPremium bool, now time.Time) []Unlock {
	var unlocked []Unlock
	for i := range pending {
		p := &pending[i]
		if p.Completed {
			continue
		}
		if p.PremiumOnly && !isPremium {
			continue
		}
		sel, ok := statSelectors[p.ID]
		if !ok {
			continue
		}
		value := sel(stats)
		if value < 0 {
			// upstream data fault, never complete from a negative counter
			value = 0
		}
		if value < p.Requirement {
			if value > p.CurrentProgress {
				p.CurrentProgress = value
			}
			continue
		}
		p.CurrentProgress = p.Requirement
		p.Completed = true
		at := now
		p.CompletedAt = &at
		unlocked = append(unlocked, Unlock{Achievement: p.Achievement, CompletedAt: now})
	}
	return unlocked
}

// UnlockPoints sums the point rewards of an evaluation pass.
func UnlockPoints(unlocks []Unlock) int {
	total := 0
	for _, u := range unlocks {
		total += u.Points
	}
	return total
}

// TierChanged reports whether adding points moved the user to another rung.
func TierChanged(pointsBefore, pointsAfter int) bool {
	before, _ := ResolveTier(pointsBefore)
	after, _ := ResolveTier(pointsAfter)
	return before.Level != after.Level
}
