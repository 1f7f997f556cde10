package calculator

import (
	"errors"
	"etfreplica/internal/domain"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

const weightSumTolerance = 1e-9

type WeightResult struct {
	Weights map[string]float64
	// UsedFallback is set when no symbol had a usable market cap and the
	// period was split equally.
	UsedFallback bool
	ValidCount   int
}

// CalculateWeights weights each symbol by its share of the total market cap
// of the symbols that have one. Symbols without a usable market cap get no
// entry. If none are usable the whole set is equally weighted.
//
// Dividend yield, PB and the like are deliberately not blended in.
func CalculateWeights(symbols []string, marketCaps map[string]*float64) (*WeightResult, error) {
	if len(symbols) == 0 {
		return nil, &domain.EmptyPeriodError{}
	}

	validSymbols := []string{}
	caps := []float64{}
	for _, symbol := range symbols {
		mc, ok := marketCaps[symbol]
		if !ok || !validMarketCap(mc) {
			continue
		}
		validSymbols = append(validSymbols, symbol)
		caps = append(caps, *mc)
	}

	if len(validSymbols) == 0 {
		return &WeightResult{
			Weights:      EqualWeights(symbols),
			UsedFallback: true,
		}, nil
	}

	total, err := stats.Sum(caps)
	if err != nil {
		return nil, fmt.Errorf("failed to sum market caps: %w", err)
	}

	weights := make(map[string]float64, len(validSymbols))
	for i, symbol := range validSymbols {
		weights[symbol] = caps[i] / total
	}

	if err := validateWeights(weights); err != nil {
		return nil, err
	}

	return &WeightResult{
		Weights:    weights,
		ValidCount: len(validSymbols),
	}, nil
}

// EqualWeights assigns 1/N to each distinct symbol.
func EqualWeights(symbols []string) map[string]float64 {
	distinct := map[string]bool{}
	for _, s := range symbols {
		distinct[s] = true
	}
	weights := make(map[string]float64, len(distinct))
	for s := range distinct {
		weights[s] = 1.0 / float64(len(distinct))
	}
	return weights
}

func validMarketCap(mc *float64) bool {
	return mc != nil && !math.IsNaN(*mc) && !math.IsInf(*mc, 0) && *mc > 0
}

func validateWeights(weights map[string]float64) error {
	sum := 0.0
	for symbol, w := range weights {
		if math.IsNaN(w) {
			return fmt.Errorf("invalid weight NaN for %s", symbol)
		}
		sum += w
	}
	if math.Abs(sum-1) > weightSumTolerance {
		return fmt.Errorf("weights should sum to 1, got %f", sum)
	}
	return nil
}

// WeighPeriod returns a copy of period with weights and factor data filled in
// from the given snapshots.
func WeighPeriod(period domain.ReportingPeriod, factors map[string]domain.FactorSnapshot) (domain.ReportingPeriod, error) {
	marketCaps := make(map[string]*float64, len(factors))
	for symbol, f := range factors {
		marketCaps[symbol] = f.MarketCap
	}

	result, err := CalculateWeights(period.Symbols, marketCaps)
	if err != nil {
		var emptyErr *domain.EmptyPeriodError
		if errors.As(err, &emptyErr) {
			return period, &domain.EmptyPeriodError{ReportDate: period.ReportDate}
		}
		return period, fmt.Errorf("failed to weight period %s: %w", period.ReportDate, err)
	}

	period.Weights = result.Weights
	period.UsedEqualWeight = result.UsedFallback
	period.FactorData = make(map[string]domain.FactorSnapshot, len(factors))
	for symbol, f := range factors {
		period.FactorData[symbol] = f
	}
	return period, nil
}
