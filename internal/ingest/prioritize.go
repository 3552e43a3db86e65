package ingest

import (
	"sort"

	"github.com/audvakr/token-monitor-system/internal/domain"
)

// Prioritize orders candidates by the fixed exchange-priority list,
// falling back to descending 24h volume for pairs on the same exchange
// (or when no priority list is configured). Stable: equal pairs keep
// their fetch order.
func Prioritize(pairs []domain.TradingPair, dexPriority []string) []domain.TradingPair {
	rank := make(map[string]int, len(dexPriority))
	for i, dex := range dexPriority {
		rank[dex] = i
	}

	sorted := append([]domain.TradingPair(nil), pairs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, iKnown := rank[sorted[i].DexID]
		rj, jKnown := rank[sorted[j].DexID]
		switch {
		case iKnown && jKnown && ri != rj:
			return ri < rj
		case iKnown != jKnown:
			return iKnown
		}
		return sorted[i].Volume.H24 > sorted[j].Volume.H24
	})
	return sorted
}
