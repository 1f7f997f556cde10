package calculator

import (
	"etfreplica/internal/domain"
	"math"
)

// NormalizeBenchmark rebases a fund's daily series so the first point is 1.0.
// NAV is used when present and non-zero, close otherwise; rows with neither
// are skipped. An empty series gives an empty result.
func NormalizeBenchmark(series []domain.DailyPriceRecord) ([]domain.NetValuePoint, error) {
	sorted := sortedByDate(series)
	if len(sorted) == 0 {
		return []domain.NetValuePoint{}, nil
	}

	first, ok := benchmarkValue(sorted[0])
	if !ok || first == 0 {
		return nil, &domain.DegenerateSeriesError{
			Date:   sorted[0].TradeDate,
			Reason: "first value is zero or missing",
		}
	}

	points := make([]domain.NetValuePoint, 0, len(sorted))
	for _, r := range sorted {
		v, ok := benchmarkValue(r)
		if !ok {
			continue
		}
		points = append(points, domain.NetValuePoint{
			Date:     r.TradeDate,
			NetValue: v / first,
		})
	}
	return points, nil
}

func benchmarkValue(r domain.DailyPriceRecord) (float64, bool) {
	if r.Nav != nil && *r.Nav != 0 && !math.IsNaN(*r.Nav) {
		return *r.Nav, true
	}
	if r.Close != nil && !math.IsNaN(*r.Close) {
		return *r.Close, true
	}
	return 0, false
}
