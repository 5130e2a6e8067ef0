// Package ranking orders candidate roommates by compatibility with a
// requester.
package ranking

import (
	"errors"
	"sort"

	"github.com/okian/roommatch/internal/domain/model"
	"github.com/okian/roommatch/internal/domain/scoring"
	"github.com/okian/roommatch/internal/domain/types"
)

// ErrProfileIncomplete is returned when the requester has no preferences or
// no budget yet.
var ErrProfileIncomplete = errors.New("ranking: profile incomplete")

// RankedMatch is a candidate's public fields joined with its score.
type RankedMatch struct {
	types.PublicUser
	Rank          int            `json:"rank"`
	Compatibility scoring.Result `json:"compatibility"`
}

// Rank scores every candidate against the requester and orders the result
// by overall percentage descending, then candidate ID ascending. Equal
// percentages share a rank. Candidates are expected to be pre-filtered;
// the requester must be complete.
func Rank(requester model.Profile, candidates []model.User) ([]RankedMatch, error) {
	if !requester.Complete() {
		return nil, ErrProfileIncomplete
	}

	out := make([]RankedMatch, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, RankedMatch{
			PublicUser:    types.Public(c),
			Compatibility: scoring.Score(requester, c.Profile),
		})
	}

	sortMatches(out)
	assignRanksWithTies(out)
	return out, nil
}

func sortMatches(matches []RankedMatch) {
	sort.Slice(matches, func(i, j int) bool {
		si, sj := matches[i].Compatibility.OverallPercentage, matches[j].Compatibility.OverallPercentage
		if si != sj {
			return si > sj
		}
		return matches[i].ID < matches[j].ID
	})
}

// assignRanksWithTies gives consecutive ranks; equal scores share one.
func assignRanksWithTies(matches []RankedMatch) {
	rank := 0
	for i := range matches {
		if i == 0 || matches[i].Compatibility.OverallPercentage != matches[i-1].Compatibility.OverallPercentage {
			rank++
		}
		matches[i].Rank = rank
	}
}
