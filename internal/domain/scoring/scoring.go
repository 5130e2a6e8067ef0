// Package scoring computes pairwise roommate compatibility.
//
// A score is built from sub-factors grouped into four categories. A
// sub-factor only counts when both profiles answer it: it then adds its
// maximum to the category's possible points and a rule-driven value to the
// earned points. Missing answers shrink the basis instead of penalising the
// pair.
package scoring

import (
	"fmt"

	"github.com/okian/roommatch/internal/domain/model"
)

// Category groups related sub-factors.
type Category int

// Categories in summary order.
const (
	Lifestyle Category = iota
	Location
	Financial
	Personality
	numCategories
)

func (c Category) String() string {
	switch c {
	case Lifestyle:
		return "lifestyle"
	case Location:
		return "location"
	case Financial:
		return "financial"
	case Personality:
		return "personality"
	default:
		return "unknown"
	}
}

// MarshalText renders the category by name.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses a category name.
func (c *Category) UnmarshalText(b []byte) error {
	for cand := Lifestyle; cand < numCategories; cand++ {
		if cand.String() == string(b) {
			*c = cand
			return nil
		}
	}
	return fmt.Errorf("scoring: unknown category %q", b)
}

// Categories holds one percentage (0..100) per category.
type Categories struct {
	Lifestyle   int `json:"lifestyle"`
	Location    int `json:"location"`
	Financial   int `json:"financial"`
	Personality int `json:"personality"`
}

// Result is the compatibility between two profiles.
type Result struct {
	OverallPercentage int        `json:"overallPercentage"`
	Categories        Categories `json:"categories"`
	MatchingSummary   []string   `json:"matchingSummary"`
}

// Tally is the earned and possible points of a category.
type Tally struct {
	Earned   int `json:"earned"`
	Possible int `json:"possible"`
}

// Percentage returns round(100*earned/possible), or 0 without a basis.
// Halves round up exactly: 29/200 gives 15, where float rounding of
// 29/200*100 would give 14.
func (t Tally) Percentage() int {
	if t.Possible <= 0 {
		return 0
	}
	return (200*t.Earned + t.Possible) / (2 * t.Possible)
}

// atLeast reports whether the exact ratio earned/possible is >= pct percent.
func (t Tally) atLeast(pct int) bool {
	return t.Possible > 0 && 100*t.Earned >= pct*t.Possible
}

// FactorScore records the outcome of one applicable sub-factor.
type FactorScore struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
	Earned   int      `json:"earned"`
	Max      int      `json:"max"`
}

// Breakdown is the full working behind a Result.
type Breakdown struct {
	Tallies [numCategories]Tally
	Factors []FactorScore
}

// Tally returns the tally of category c.
func (b Breakdown) Tally(c Category) Tally {
	if c < 0 || c >= numCategories {
		return Tally{}
	}
	return b.Tallies[c]
}

// Total pools every category's points.
func (b Breakdown) Total() Tally {
	var total Tally
	for _, t := range b.Tallies {
		total.Earned += t.Earned
		total.Possible += t.Possible
	}
	return total
}

// Explain evaluates every sub-factor that applies to the pair.
func Explain(a, b model.Profile) Breakdown {
	var out Breakdown
	for _, f := range factors {
		earned, ok := f.compare(a, b)
		if !ok {
			continue
		}
		out.Tallies[f.category].Possible += f.maxPoints
		out.Tallies[f.category].Earned += earned
		out.Factors = append(out.Factors, FactorScore{
			ID:       f.id,
			Category: f.category,
			Earned:   earned,
			Max:      f.maxPoints,
		})
	}
	return out
}

// Score computes the compatibility of a and b. It is symmetric in its
// arguments and never fails; pairs with nothing in common to compare score 0
// with an empty summary.
func Score(a, b model.Profile) Result {
	return Explain(a, b).Result()
}

// Result converts the breakdown into percentages and a summary.
func (b Breakdown) Result() Result {
	return Result{
		OverallPercentage: b.Total().Percentage(),
		Categories: Categories{
			Lifestyle:   b.Tallies[Lifestyle].Percentage(),
			Location:    b.Tallies[Location].Percentage(),
			Financial:   b.Tallies[Financial].Percentage(),
			Personality: b.Tallies[Personality].Percentage(),
		},
		MatchingSummary: summarize(b),
	}
}
