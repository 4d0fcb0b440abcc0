package catalog

import (
	"cmp"
	"slices"

	"github.com/router-for-me/ModelMarket/internal/market"
)

// SectionSize is the number of models shown in each carousel.
const SectionSize = 6

// Trending returns models with a trending score, highest first.
func Trending(models []market.Model) []market.Model {
	scored := make([]market.Model, 0, len(models))
	for _, m := range models {
		if m.TrendingScore != nil {
			scored = append(scored, m)
		}
	}
	slices.SortStableFunc(scored, func(a, b market.Model) int {
		return cmp.Compare(*b.TrendingScore, *a.TrendingScore)
	})
	return head(scored, SectionSize)
}

// Newest returns models by update time, most recent first.
func Newest(models []market.Model) []market.Model {
	sorted := slices.Clone(models)
	slices.SortStableFunc(sorted, func(a, b market.Model) int {
		return b.UpdatedAt.Compare(a.UpdatedAt.Time)
	})
	return head(sorted, SectionSize)
}

// Featured returns featured models in their original order.
func Featured(models []market.Model) []market.Model {
	out := make([]market.Model, 0, SectionSize)
	for _, m := range models {
		if len(out) == SectionSize {
			break
		}
		if m.Featured {
			out = append(out, m)
		}
	}
	return out
}

// Similar drops primary from candidates by id and keeps at most n.
func Similar(primary market.Model, candidates []market.Model, n int) []market.Model {
	if n <= 0 {
		return nil
	}
	out := make([]market.Model, 0, n)
	for _, m := range candidates {
		if len(out) >= n {
			break
		}
		if m.ID == primary.ID {
			continue
		}
		out = append(out, m)
	}
	return out
}

func head(models []market.Model, n int) []market.Model {
	if len(models) > n {
		return models[:n:n]
	}
	return models
}
