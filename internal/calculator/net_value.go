package calculator

import (
	"etfreplica/internal/domain"
	"sort"
)

type dailyBar struct {
	pctChg *float64
}

// AccumulateNetValue compounds the weighted daily returns of each date's
// active period into one index starting from 1.0. The index carries across
// period boundaries untouched; only the weights switch.
//
// A symbol with no bar on a date contributes nothing that day and the other
// weights are not rescaled. Dates that fall in no period are skipped.
func AccumulateNetValue(periods []domain.ReportingPeriod, pricesBySymbol map[string][]domain.DailyPriceRecord) []domain.NetValuePoint {
	bars := barsBySymbol(pricesBySymbol)
	timeline := tradingDays(bars)
	active := periodLocator(periods)

	points := make([]domain.NetValuePoint, 0, len(timeline))
	foldDates(timeline, 1.0, func(netValue float64, date domain.Date) (float64, bool) {
		period, ok := active(date)
		if !ok {
			return netValue, false
		}
		netValue *= 1 + dailyReturn(period.Weights, bars, date)
		points = append(points, domain.NetValuePoint{Date: date, NetValue: netValue})
		return netValue, true
	})

	return points
}

// foldDates threads the running value through step in date order. A step
// returning false leaves the value unchanged for that date.
func foldDates(dates []domain.Date, initial float64, step func(float64, domain.Date) (float64, bool)) float64 {
	acc := initial
	for _, d := range dates {
		if next, ok := step(acc, d); ok {
			acc = next
		}
	}
	return acc
}

func dailyReturn(weights map[string]float64, bars map[string]map[domain.Date]dailyBar, date domain.Date) float64 {
	// fixed order so float sums are reproducible run to run
	symbols := make([]string, 0, len(weights))
	for symbol := range weights {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	ret := 0.0
	for _, symbol := range symbols {
		bar, ok := bars[symbol][date]
		if !ok || bar.pctChg == nil {
			continue
		}
		ret += weights[symbol] * (*bar.pctChg / 100)
	}
	return ret
}

func barsBySymbol(pricesBySymbol map[string][]domain.DailyPriceRecord) map[string]map[domain.Date]dailyBar {
	out := make(map[string]map[domain.Date]dailyBar, len(pricesBySymbol))
	for symbol, records := range pricesBySymbol {
		byDate := make(map[domain.Date]dailyBar, len(records))
		for _, r := range records {
			byDate[r.TradeDate] = dailyBar{pctChg: r.PctChg}
		}
		out[symbol] = byDate
	}
	return out
}

func tradingDays(bars map[string]map[domain.Date]dailyBar) []domain.Date {
	seen := map[domain.Date]bool{}
	for _, byDate := range bars {
		for d := range byDate {
			seen[d] = true
		}
	}
	days := make([]domain.Date, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i] < days[j]
	})
	return days
}

// periodLocator finds the period containing a date. periods are expected in
// segmenter order; a copy is sorted so callers need not guarantee it.
func periodLocator(periods []domain.ReportingPeriod) func(domain.Date) (domain.ReportingPeriod, bool) {
	sorted := make([]domain.ReportingPeriod, len(periods))
	copy(sorted, periods)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ActiveStart < sorted[j].ActiveStart
	})

	return func(d domain.Date) (domain.ReportingPeriod, bool) {
		// last period starting on or before d
		i := sort.Search(len(sorted), func(i int) bool {
			return sorted[i].ActiveStart > d
		}) - 1
		if i < 0 || !sorted[i].Contains(d) {
			return domain.ReportingPeriod{}, false
		}
		return sorted[i], true
	}
}

// ClosePriceNetValue values a fixed-weight basket by each symbol's close
// relative to its own first close, then rebases the sum to 1.0. Symbols
// with no weight or no usable first close are ignored; a date's value only
// includes symbols that traded that day.
func ClosePriceNetValue(pricesBySymbol map[string][]domain.DailyPriceRecord, weights map[string]float64) []domain.NetValuePoint {
	sums := map[domain.Date]float64{}

	symbols := make([]string, 0, len(pricesBySymbol))
	for symbol := range pricesBySymbol {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	for _, symbol := range symbols {
		weight := weights[symbol]
		if weight == 0 {
			continue
		}
		records := sortedByDate(pricesBySymbol[symbol])
		if len(records) == 0 || records[0].Close == nil || *records[0].Close == 0 {
			continue
		}
		initial := *records[0].Close
		for _, r := range records {
			if r.Close == nil {
				continue
			}
			sums[r.TradeDate] += (*r.Close / initial) * weight
		}
	}

	dates := make([]domain.Date, 0, len(sums))
	for d := range sums {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i] < dates[j]
	})

	points := make([]domain.NetValuePoint, 0, len(dates))
	for _, d := range dates {
		points = append(points, domain.NetValuePoint{Date: d, NetValue: sums[d]})
	}
	if len(points) > 0 && points[0].NetValue > 0 {
		base := points[0].NetValue
		for i := range points {
			points[i].NetValue /= base
		}
	}
	return points
}

func sortedByDate(records []domain.DailyPriceRecord) []domain.DailyPriceRecord {
	out := make([]domain.DailyPriceRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TradeDate < out[j].TradeDate
	})
	return out
}
