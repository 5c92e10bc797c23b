// Package suggest maps interest tallies to a shortlist of occupation codes.
package suggest

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/stemsi/pathfinder-backend/internal/catalog"
	"github.com/stemsi/pathfinder-backend/internal/config"
	"github.com/stemsi/pathfinder-backend/internal/model"
)

// MaxTopCodes is how many interest categories make up a profile.
const MaxTopCodes = 3

// OccupationFinder looks up reference occupations by primary interest code.
// Codes in exclude must not be returned.
type OccupationFinder interface {
	FindByInterest(ctx context.Context, interestCode string, exclude []string, limit int) ([]string, error)
}

// Result is the resolver output for one score bundle.
type Result struct {
	TopInterestCodes []string
	OccupationCodes  []string
	// Summary is the joined top codes, e.g. "AR". Nil when no category scored.
	Summary *string
}

// Resolver builds occupation shortlists. Lookup failures are logged and
// never returned.
type Resolver struct {
	finder OccupationFinder
	limit  int
	log    zerolog.Logger
}

// NewResolver creates a Resolver returning at most limit codes. The limit is
// clamped to 1..config.MaxStoredSuggestions.
func NewResolver(finder OccupationFinder, limit int, log zerolog.Logger) *Resolver {
	if limit < 1 {
		limit = 1
	}
	if limit > config.MaxStoredSuggestions {
		limit = config.MaxStoredSuggestions
	}
	return &Resolver{finder: finder, limit: limit, log: log}
}

// TopInterestCodes returns up to three categories with a positive tally,
// highest first. Equal tallies keep R, I, A, S, E, C order.
func TopInterestCodes(scores model.InterestScores) []string {
	codes := make([]string, 0, len(catalog.InterestCodes))
	for _, c := range catalog.InterestCodes {
		if scores.Get(string(c)) > 0 {
			codes = append(codes, string(c))
		}
	}
	sort.SliceStable(codes, func(i, j int) bool {
		return scores.Get(codes[i]) > scores.Get(codes[j])
	})
	if len(codes) > MaxTopCodes {
		codes = codes[:MaxTopCodes]
	}
	return codes
}

// Resolve picks the top interest codes and fills the shortlist from the
// primary code first, then the secondary code when the primary falls short.
func (r *Resolver) Resolve(ctx context.Context, scores model.InterestScores) Result {
	top := TopInterestCodes(scores)
	if len(top) == 0 {
		return Result{}
	}

	summary := strings.Join(top, "")
	res := Result{TopInterestCodes: top, Summary: &summary}

	primary, err := r.finder.FindByInterest(ctx, top[0], nil, r.limit)
	if err != nil {
		r.log.Error().Err(err).Str("interest_code", top[0]).Msg("Primary occupation lookup failed")
		return res
	}
	codes := appendUnique(nil, primary, r.limit)

	if len(codes) < r.limit && len(top) > 1 {
		secondary, err := r.finder.FindByInterest(ctx, top[1], codes, r.limit-len(codes))
		if err != nil {
			r.log.Warn().Err(err).Str("interest_code", top[1]).Msg("Secondary occupation lookup failed, keeping primary matches")
		} else {
			codes = appendUnique(codes, secondary, r.limit)
		}
	}

	res.OccupationCodes = codes
	return res
}

func appendUnique(dst, src []string, limit int) []string {
	seen := make(map[string]struct{}, len(dst)+len(src))
	for _, c := range dst {
		seen[c] = struct{}{}
	}
	for _, c := range src {
		if len(dst) >= limit {
			break
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		dst = append(dst, c)
	}
	return dst
}
