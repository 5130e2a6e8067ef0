package seeder

import (
	"errors"
	"fmt"

	"github.com/okian/roommatch/internal/domain/ranking"
	"github.com/okian/roommatch/internal/domain/scoring"
)

// ErrRankingViolation is wrapped by every Verify failure.
var ErrRankingViolation = errors.New("seeder: ranking violation")

// Verify checks the ranked matches of selfID: the requester is absent,
// every percentage is within 0..100, scores never increase down the list,
// ties are ordered by id and ranks are dense starting at 1.
func Verify(selfID string, matches []ranking.RankedMatch) error {
	var errs []error
	for i, m := range matches {
		if m.ID == selfID {
			errs = append(errs, fmt.Errorf("%w: requester %s listed at %d", ErrRankingViolation, selfID, i))
		}
		if err := checkBounds(m.Compatibility); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %w", ErrRankingViolation, m.ID, err))
		}
		if i == 0 {
			if m.Rank != 1 {
				errs = append(errs, fmt.Errorf("%w: first rank is %d", ErrRankingViolation, m.Rank))
			}
			continue
		}

		prev := matches[i-1]
		cur, last := m.Compatibility.OverallPercentage, prev.Compatibility.OverallPercentage
		switch {
		case cur > last:
			errs = append(errs, fmt.Errorf("%w: %s (%d) ranked below %s (%d)", ErrRankingViolation, m.ID, cur, prev.ID, last))
		case cur == last && m.ID < prev.ID:
			errs = append(errs, fmt.Errorf("%w: tie between %s and %s out of id order", ErrRankingViolation, prev.ID, m.ID))
		}

		wantRank := prev.Rank
		if cur != last {
			wantRank++
		}
		if m.Rank != wantRank {
			errs = append(errs, fmt.Errorf("%w: %s has rank %d, want %d", ErrRankingViolation, m.ID, m.Rank, wantRank))
		}
	}
	return errors.Join(errs...)
}

func checkBounds(r scoring.Result) error {
	for name, v := range map[string]int{
		"overall":     r.OverallPercentage,
		"lifestyle":   r.Categories.Lifestyle,
		"location":    r.Categories.Location,
		"financial":   r.Categories.Financial,
		"personality": r.Categories.Personality,
	} {
		if v < 0 || v > percentScale {
			return fmt.Errorf("%s percentage %d out of range", name, v)
		}
	}
	return nil
}
