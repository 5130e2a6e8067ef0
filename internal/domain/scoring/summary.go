package scoring

// band is a summary sentence used when a category reaches minPct.
// A minPct of 0 means "anything above zero".
type band struct {
	minPct   int
	sentence string
}

// summaryBands lists, per category, bands from highest to lowest.
var summaryBands = [numCategories][]band{ //nolint:gochecknoglobals // immutable wording table
	Lifestyle: {
		{80, "You have very similar lifestyle preferences"},
		{60, "You have compatible lifestyle preferences"},
		{0, "You have somewhat different lifestyle preferences"},
	},
	Location: {
		{80, "You prefer the same neighborhoods"},
		{0, "You have different neighborhood preferences"},
	},
	Financial: {
		{80, "Your budget ranges align well"},
		{60, "Your budget ranges somewhat overlap"},
		{0, "Your budget ranges are different"},
	},
	Personality: {
		{80, "You are in similar age groups"},
		{0, "There is an age difference between you"},
	},
}

// summarize emits at most one sentence per category, in category order.
// Thresholds compare the exact ratio, not the rounded percentage.
func summarize(b Breakdown) []string {
	out := make([]string, 0, numCategories)
	for c := Lifestyle; c < numCategories; c++ {
		t := b.Tallies[c]
		if t.Possible == 0 || t.Earned <= 0 {
			continue
		}
		for _, bd := range summaryBands[c] {
			if bd.minPct == 0 || t.atLeast(bd.minPct) {
				out = append(out, bd.sentence)
				break
			}
		}
	}
	return out
}
