package calculator

import (
	"etfreplica/internal/domain"
	"sort"
)

// DiffHoldings compares the symbol sets of two consecutive periods. Added
// symbols carry their weight in curr, removed ones their weight in prev.
// Both lists keep the order of the period they come from.
func DiffHoldings(prev, curr domain.ReportingPeriod) domain.HoldingsDelta {
	prevSet := prev.SymbolSet()
	currSet := curr.SymbolSet()

	delta := domain.HoldingsDelta{
		Added:   []domain.WeightedSymbol{},
		Removed: []domain.WeightedSymbol{},
	}
	seen := map[string]bool{}
	for _, symbol := range curr.Symbols {
		if seen[symbol] {
			continue
		}
		seen[symbol] = true
		if prevSet[symbol] {
			delta.UnchangedCount++
			continue
		}
		delta.Added = append(delta.Added, domain.WeightedSymbol{
			Symbol: symbol,
			Weight: curr.Weights[symbol],
		})
	}

	seen = map[string]bool{}
	for _, symbol := range prev.Symbols {
		if seen[symbol] || currSet[symbol] {
			continue
		}
		seen[symbol] = true
		delta.Removed = append(delta.Removed, domain.WeightedSymbol{
			Symbol: symbol,
			Weight: prev.Weights[symbol],
		})
	}

	return delta
}

// PeriodChanges diffs every period against its predecessor. The first entry
// is always nil.
func PeriodChanges(periods []domain.ReportingPeriod) []*domain.HoldingsDelta {
	out := make([]*domain.HoldingsDelta, len(periods))
	for i := 1; i < len(periods); i++ {
		delta := DiffHoldings(periods[i-1], periods[i])
		out[i] = &delta
	}
	return out
}

type RankedHolding struct {
	Symbol string
	Name   string
	Weight float64
}

// SortHoldings ranks a period's weights from largest to smallest, ties
// broken by symbol. names is optional; a missing name falls back to the
// symbol.
func SortHoldings(weights map[string]float64, names map[string]string) []RankedHolding {
	out := make([]RankedHolding, 0, len(weights))
	for symbol, w := range weights {
		name, ok := names[symbol]
		if !ok || name == "" {
			name = symbol
		}
		out = append(out, RankedHolding{Symbol: symbol, Name: name, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}

func TopN(holdings []RankedHolding, n int) []RankedHolding {
	if len(holdings) <= n {
		return holdings
	}
	return holdings[:n]
}
