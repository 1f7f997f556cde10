package calculator

import (
	"etfreplica/internal/domain"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
)

const tradingDaysPerYear = 252

type CalculateMetricsResult struct {
	AnnualizedStdev  float64
	AnnualizedReturn float64
	SharpeRatio      float64
	MaxDrawdown      float64
	// populated only when a benchmark is given
	TrackingError *float64
	ExcessReturn  *float64
}

// TotalReturnPercent is the series' end-to-end change in percent, rounded
// to two places. Empty series give zero.
func TotalReturnPercent(series []domain.NetValuePoint) decimal.Decimal {
	if len(series) == 0 {
		return decimal.Zero
	}
	last := decimal.NewFromFloat(series[len(series)-1].NetValue)
	return last.Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100)).Round(2)
}

// CalculateMetrics summarizes a net value series, optionally against a
// benchmark. It assumes daily points and needs at least three of them;
// calendar span is taken from the first and last dates.
func CalculateMetrics(portfolio []domain.NetValuePoint, benchmark []domain.NetValuePoint) (*CalculateMetricsResult, error) {
	returns, err := dailyReturns(portfolio)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate returns: %w", err)
	}

	stdev, err := stats.StandardDeviationSample(returns)
	if err != nil {
		return nil, err
	}
	annualizedStdev := stdev * math.Sqrt(tradingDaysPerYear)

	startValue := portfolio[0].NetValue
	endValue := portfolio[len(portfolio)-1].NetValue
	numYears := portfolio[len(portfolio)-1].Date.Time().Sub(portfolio[0].Date.Time()).Hours() / (365 * 24)
	annualizedReturn := 0.0
	if numYears > 0 && startValue > 0 {
		annualizedReturn = math.Pow(endValue/startValue, 1/numYears) - 1
	}
	// a few days of data can blow the annualized figure past float range
	if math.IsInf(annualizedReturn, 0) || math.IsNaN(annualizedReturn) {
		annualizedReturn = 0
	}

	sharpeRatio := 0.0
	if annualizedStdev != 0 {
		sharpeRatio = annualizedReturn / annualizedStdev
	}

	result := &CalculateMetricsResult{
		AnnualizedStdev:  annualizedStdev,
		AnnualizedReturn: annualizedReturn,
		SharpeRatio:      sharpeRatio,
		MaxDrawdown:      maxDrawdown(portfolio),
	}

	if len(benchmark) >= 2 {
		te, err := trackingError(portfolio, benchmark)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate tracking error: %w", err)
		}
		result.TrackingError = te

		excess := (endValue/startValue - 1) - (benchmark[len(benchmark)-1].NetValue/benchmark[0].NetValue - 1)
		result.ExcessReturn = &excess
	}

	return result, nil
}

func dailyReturns(series []domain.NetValuePoint) ([]float64, error) {
	if len(series) < 3 {
		return nil, fmt.Errorf("cannot calculate metrics on < 3 net value points")
	}
	returns := make([]float64, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		prev := series[i-1].NetValue
		if prev == 0 {
			return nil, fmt.Errorf("net value hit zero on %s", series[i-1].Date)
		}
		returns = append(returns, series[i].NetValue/prev-1)
	}
	return returns, nil
}

// maxDrawdown is the largest peak-to-trough fall, as a positive fraction.
func maxDrawdown(series []domain.NetValuePoint) float64 {
	peak := 0.0
	worst := 0.0
	for _, p := range series {
		if p.NetValue > peak {
			peak = p.NetValue
		}
		if peak > 0 {
			if dd := (peak - p.NetValue) / peak; dd > worst {
				worst = dd
			}
		}
	}
	return worst
}

// trackingError is the annualized stdev of daily return differences on the
// dates both series share. nil when there are fewer than two such returns.
func trackingError(portfolio, benchmark []domain.NetValuePoint) (*float64, error) {
	benchByDate := make(map[domain.Date]float64, len(benchmark))
	for _, p := range benchmark {
		benchByDate[p.Date] = p.NetValue
	}

	diffs := []float64{}
	for i := 1; i < len(portfolio); i++ {
		prevB, ok1 := benchByDate[portfolio[i-1].Date]
		currB, ok2 := benchByDate[portfolio[i].Date]
		if !ok1 || !ok2 || prevB == 0 || portfolio[i-1].NetValue == 0 {
			continue
		}
		pr := portfolio[i].NetValue/portfolio[i-1].NetValue - 1
		br := currB/prevB - 1
		diffs = append(diffs, pr-br)
	}
	if len(diffs) < 2 {
		return nil, nil
	}

	stdev, err := stats.StandardDeviationSample(diffs)
	if err != nil {
		return nil, err
	}
	te := stdev * math.Sqrt(tradingDaysPerYear)
	return &te, nil
}
