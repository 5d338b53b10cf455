package gamification

// TierLevel is a rung on the membership ladder, ordered from bronze up.
type TierLevel int

const (
	TierBronze TierLevel = iota
	TierSilver
	TierGold
	TierPlatinum
)

var tierLevelNames = []string{"bronze", "silver", "gold", "platinum"}

func (l TierLevel) String() string {
	if l < 0 || int(l) >= len(tierLevelNames) {
		return "unknown"
	}
	return tierLevelNames[int(l)]
}

// Tier describes a membership rank and the benefits it grants.
// MaxPoints < 0 means the tier is unbounded (top of the ladder).
type Tier struct {
	Level     TierLevel `json:"level"`
	MinPoints int       `json:"min_points"`
	MaxPoints int       `json:"max_points"`
	Discount  int       `json:"discount"` // percent off storefront prices
	Benefits  []string  `json:"benefits"`
}

// Unbounded marks the top tier's open-ended points interval.
const Unbounded = -1

// TierLadder is the fixed membership configuration. Intervals are contiguous
// from 0 with no gaps or overlaps; the discount never decreases with level.
// Validated by tests, not at call time.
var TierLadder = []Tier{
	{
		Level:     TierBronze,
		MinPoints: 0,
		MaxPoints: 99,
		Discount:  5,
		Benefits:  []string{"Access to free e-books", "Member newsletter"},
	},
	{
		Level:     TierSilver,
		MinPoints: 100,
		MaxPoints: 299,
		Discount:  10,
		Benefits:  []string{"Everything in Bronze", "Early access to new releases"},
	},
	{
		Level:     TierGold,
		MinPoints: 300,
		MaxPoints: 699,
		Discount:  15,
		Benefits:  []string{"Everything in Silver", "Exclusive bundles", "Priority support"},
	},
	{
		Level:     TierPlatinum,
		MinPoints: 700,
		MaxPoints: Unbounded,
		Discount:  20,
		Benefits:  []string{"Everything in Gold", "Yearly printed kit", "Direct line to authors"},
	},
}

// ResolveTier maps a lifetime point total to the current tier and the next
// rung, or nil when already at the top. Pure function of the ladder; negative
// input is clamped to zero for display, it never understates a real total.
func ResolveTier(totalPoints int) (current Tier, next *Tier) {
	if totalPoints < 0 {
		totalPoints = 0
	}
	for i, t := range TierLadder {
		if totalPoints < t.MinPoints {
			continue
		}
		if t.MaxPoints != Unbounded && totalPoints > t.MaxPoints {
			continue
		}
		if i+1 < len(TierLadder) {
			n := TierLadder[i+1]
			return t, &n
		}
		return t, nil
	}
	// unreachable while the ladder starts at 0 with no gaps
	return TierLadder[len(TierLadder)-1], nil
}
