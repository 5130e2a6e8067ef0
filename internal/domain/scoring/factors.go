package scoring

import (
	"math"

	"github.com/okian/roommatch/internal/domain/model"
)

// Sub-factor identifiers.
const (
	FactorSleep        = "sleep_schedule"
	FactorSmoking      = "smoking"
	FactorDrinking     = "drinking"
	FactorPets         = "pets"
	FactorNoise        = "noise"
	FactorGuests       = "guests"
	FactorCleanliness  = "cleanliness"
	FactorNeighborhood = "neighborhood"
	FactorBudget       = "budget"
	FactorAge          = "age"
)

// Budget thresholds.
const (
	fixedBudgetInRange  = 90
	fixedBudgetFallback = 50
	nearGapRatio        = 0.2
	nearGapPoints       = 40
	farGapRatio         = 0.5
	farGapPoints        = 20
)

// factor describes one scored dimension. compare returns ok=false when the
// dimension cannot be compared for the pair; it must be symmetric.
type factor struct {
	id        string
	category  Category
	maxPoints int
	compare   func(a, b model.Profile) (earned int, ok bool)
}

var factors = []factor{ //nolint:gochecknoglobals // immutable rule table
	{id: FactorSleep, category: Lifestyle, maxPoints: 20, compare: sleepSchedule},
	{id: FactorSmoking, category: Lifestyle, maxPoints: 15, compare: tolerance(15, 5, func(p *model.Preferences) *bool { return p.Smoking })},
	{id: FactorDrinking, category: Lifestyle, maxPoints: 10, compare: drinking},
	{id: FactorPets, category: Lifestyle, maxPoints: 10, compare: tolerance(10, 5, func(p *model.Preferences) *bool { return p.Pets })},
	{id: FactorNoise, category: Lifestyle, maxPoints: 15, compare: ordinal(func(p *model.Preferences) int {
		if p.Noise == nil {
			return 0
		}
		return p.Noise.Level()
	}, 15, 8, 2)},
	{id: FactorGuests, category: Lifestyle, maxPoints: 10, compare: ordinal(func(p *model.Preferences) int {
		if p.Guests == nil {
			return 0
		}
		return p.Guests.Level()
	}, 10, 6, 2)},
	{id: FactorCleanliness, category: Lifestyle, maxPoints: 20, compare: ordinal(func(p *model.Preferences) int {
		if p.Cleanliness == nil {
			return 0
		}
		return *p.Cleanliness
	}, 20, 16, 10, 5, 2)},
	{id: FactorNeighborhood, category: Location, maxPoints: 100, compare: neighborhood},
	{id: FactorBudget, category: Financial, maxPoints: 100, compare: budget},
	{id: FactorAge, category: Personality, maxPoints: 50, compare: age},
}

// prefs returns both preference blocks when both profiles have one.
func prefs(a, b model.Profile) (*model.Preferences, *model.Preferences, bool) {
	if a.Preferences == nil || b.Preferences == nil {
		return nil, nil, false
	}
	return a.Preferences, b.Preferences, true
}

func sleepSchedule(a, b model.Profile) (int, bool) {
	pa, pb, ok := prefs(a, b)
	if !ok || pa.SleepSchedule == nil || pb.SleepSchedule == nil || !pa.SleepSchedule.Valid() || !pb.SleepSchedule.Valid() {
		return 0, false
	}
	switch {
	case *pa.SleepSchedule == *pb.SleepSchedule:
		return 20, true
	case *pa.SleepSchedule == model.SleepFlexible || *pb.SleepSchedule == model.SleepFlexible:
		return 15, true
	default:
		return 5, true
	}
}

// tolerance scores a yes/no habit: same answer earns full points, a
// mismatch where one side is tolerant earns partial points.
func tolerance(full, partial int, field func(*model.Preferences) *bool) func(a, b model.Profile) (int, bool) {
	return func(a, b model.Profile) (int, bool) {
		pa, pb, ok := prefs(a, b)
		if !ok {
			return 0, false
		}
		va, vb := field(pa), field(pb)
		if va == nil || vb == nil {
			return 0, false
		}
		switch {
		case *va == *vb:
			return full, true
		case *va || *vb:
			return partial, true
		default:
			return 0, true
		}
	}
}

func drinking(a, b model.Profile) (int, bool) {
	pa, pb, ok := prefs(a, b)
	if !ok || pa.Drinking == nil || pb.Drinking == nil || !pa.Drinking.Valid() || !pb.Drinking.Valid() {
		return 0, false
	}
	da, db := *pa.Drinking, *pb.Drinking
	switch {
	case da == db:
		return 10, true
	case (da == model.DrinkingOccasionally && db == model.DrinkingNever) ||
		(da == model.DrinkingNever && db == model.DrinkingOccasionally):
		return 7, true
	default:
		return 3, true
	}
}

// ordinal scores the absolute distance between two levels. points[d] is
// awarded for distance d; distances past the table get the last entry.
// A level of 0 means the answer is missing or unknown.
func ordinal(level func(*model.Preferences) int, points ...int) func(a, b model.Profile) (int, bool) {
	return func(a, b model.Profile) (int, bool) {
		pa, pb, ok := prefs(a, b)
		if !ok {
			return 0, false
		}
		la, lb := level(pa), level(pb)
		if la == 0 || lb == 0 {
			return 0, false
		}
		d := la - lb
		if d < 0 {
			d = -d
		}
		if d >= len(points) {
			d = len(points) - 1
		}
		return points[d], true
	}
}

func neighborhood(a, b model.Profile) (int, bool) {
	if a.Neighborhood == nil || b.Neighborhood == nil || *a.Neighborhood == "" || *b.Neighborhood == "" {
		return 0, false
	}
	if *a.Neighborhood == *b.Neighborhood {
		return 100, true
	}
	return 50, true
}

func budget(a, b model.Profile) (int, bool) {
	if a.Budget == nil || b.Budget == nil {
		return 0, false
	}
	ba, bb := *a.Budget, *b.Budget
	if ba.Range() == 0 && bb.Range() == 0 && ba.Min != bb.Min {
		return fixedBudgetFallback, true
	}
	overlap := math.Min(ba.Max, bb.Max) - math.Max(ba.Min, bb.Min)

	if overlap >= 0 {
		smaller := math.Min(ba.Range(), bb.Range())
		if smaller > 0 {
			return int(math.Round(overlap / smaller * 100)), true
		}
		if fixedWithin(ba, bb) || fixedWithin(bb, ba) {
			return fixedBudgetInRange, true
		}
		return fixedBudgetFallback, true
	}

	gap := math.Abs(overlap)
	minBudget := math.Min(ba.Min, bb.Min)
	if minBudget <= 0 {
		return 0, true
	}
	switch ratio := gap / minBudget; {
	case ratio < nearGapRatio:
		return nearGapPoints, true
	case ratio < farGapRatio:
		return farGapPoints, true
	default:
		return 0, true
	}
}

// fixedWithin reports whether fixed is a single-value budget inside other.
func fixedWithin(fixed, other model.Budget) bool {
	return fixed.Min == fixed.Max && fixed.Min >= other.Min && fixed.Min <= other.Max
}

func age(a, b model.Profile) (int, bool) {
	if a.Age == nil || b.Age == nil || *a.Age == 0 || *b.Age == 0 {
		return 0, false
	}
	d := *a.Age - *b.Age
	if d < 0 {
		d = -d
	}
	switch {
	case d <= 2:
		return 50, true
	case d <= 5:
		return 40, true
	case d <= 10:
		return 30, true
	case d <= 15:
		return 20, true
	default:
		return 10, true
	}
}
