package calculator

import (
	"etfreplica/internal/domain"
	"fmt"
	"sort"
)

// DisclosureLagMonths is how long after a report date its holdings are
// assumed to be public.
const DisclosureLagMonths = 4

type SegmentPeriodsInput struct {
	Records []domain.HoldingRecord
	Start   domain.Date
	End     domain.Date
	// AsOf is the day the backtest is run. Reports younger than
	// DisclosureLagMonths relative to it are ignored. Defaults to today.
	AsOf domain.Date
}

// SegmentPeriods turns a fund's disclosure history into the contiguous
// sequence of periods covering [Start, End]. Weights and factor data are
// left empty.
func SegmentPeriods(in SegmentPeriodsInput) ([]domain.ReportingPeriod, error) {
	if !in.Start.Valid() {
		return nil, &domain.InvalidDateError{Value: string(in.Start)}
	}
	if !in.End.Valid() {
		return nil, &domain.InvalidDateError{Value: string(in.End)}
	}
	if in.Start > in.End {
		return nil, &domain.InvalidDateError{
			Value:  string(in.Start),
			Reason: fmt.Sprintf("start is after end %s", in.End),
		}
	}
	asOf := in.AsOf
	if asOf == "" {
		asOf = domain.Today()
	}

	reportDates := selectReportDates(distinctReportDates(in.Records), in.Start, in.End, asOf)
	if len(reportDates) == 0 {
		return nil, &domain.NoReportingPeriodError{Start: in.Start, End: in.End}
	}

	recordsByReport := map[domain.Date][]domain.HoldingRecord{}
	for _, r := range in.Records {
		recordsByReport[r.ReportDate] = append(recordsByReport[r.ReportDate], r)
	}

	periods := make([]domain.ReportingPeriod, len(reportDates))
	for i, reportDate := range reportDates {
		activeStart := reportDate
		if i == 0 {
			activeStart = in.Start
		}
		periods[i] = domain.ReportingPeriod{
			ReportDate:  reportDate,
			ActiveStart: activeStart,
			Symbols:     periodSymbols(recordsByReport[reportDate]),
		}
	}
	for i := range periods {
		if i == len(periods)-1 {
			periods[i].ActiveEnd = in.End
		} else {
			periods[i].ActiveEnd = periods[i+1].ActiveStart.AddDays(-1)
		}
	}

	return periods, nil
}

// IsMature reports whether a report dated reportDate had been published by asOf.
func IsMature(reportDate, asOf domain.Date) bool {
	return reportDate.AddMonths(DisclosureLagMonths) <= asOf
}

// IsFixedPointReport reports whether the date is a half-year disclosure,
// the only ones that list full holdings. Quarterly reports only carry the
// top ten.
func IsFixedPointReport(d domain.Date) bool {
	md := d.MonthDay()
	return md == "0630" || md == "1231"
}

// LatestReportDate picks the most recent mature report on or before end,
// preferring fixed-point reports. ok is false when nothing qualifies.
func LatestReportDate(records []domain.HoldingRecord, end, asOf domain.Date) (domain.Date, bool) {
	kept := keptReportDates(distinctReportDates(records), end, asOf)
	if len(kept) == 0 {
		return "", false
	}
	return kept[len(kept)-1], true
}

// HoldingsOn returns the normalized, deduplicated symbols disclosed on reportDate.
func HoldingsOn(records []domain.HoldingRecord, reportDate domain.Date) []string {
	filtered := []domain.HoldingRecord{}
	for _, r := range records {
		if r.ReportDate == reportDate {
			filtered = append(filtered, r)
		}
	}
	return periodSymbols(filtered)
}

func distinctReportDates(records []domain.HoldingRecord) []domain.Date {
	seen := map[domain.Date]bool{}
	out := []domain.Date{}
	for _, r := range records {
		if r.ReportDate == "" || seen[r.ReportDate] {
			continue
		}
		seen[r.ReportDate] = true
		out = append(out, r.ReportDate)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i] < out[j]
	})
	return out
}

// keptReportDates applies maturity, the fixed-point preference and the end
// bound. Input must be sorted ascending; output is too.
func keptReportDates(sortedDates []domain.Date, end, asOf domain.Date) []domain.Date {
	mature := []domain.Date{}
	for _, d := range sortedDates {
		if IsMature(d, asOf) {
			mature = append(mature, d)
		}
	}

	onOrBefore := func(dates []domain.Date) []domain.Date {
		out := []domain.Date{}
		for _, d := range dates {
			if d <= end {
				out = append(out, d)
			}
		}
		return out
	}

	fixed := []domain.Date{}
	for _, d := range mature {
		if IsFixedPointReport(d) {
			fixed = append(fixed, d)
		}
	}
	if kept := onOrBefore(fixed); len(kept) > 0 {
		return kept
	}
	return onOrBefore(mature)
}

func selectReportDates(sortedDates []domain.Date, start, end, asOf domain.Date) []domain.Date {
	kept := keptReportDates(sortedDates, end, asOf)
	if len(kept) == 0 {
		return nil
	}

	// last report in force at start
	anchor := -1
	for i, d := range kept {
		if d <= start {
			anchor = i
		}
	}
	if anchor == -1 {
		// nothing disclosed before start: the earliest report stands in for
		// the whole range
		return kept[:1]
	}
	return kept[anchor:]
}

func periodSymbols(records []domain.HoldingRecord) []string {
	seen := map[string]bool{}
	symbols := []string{}
	for _, r := range records {
		symbol, ok := NormalizeSymbol(r.Symbol)
		if !ok || seen[symbol] {
			continue
		}
		seen[symbol] = true
		symbols = append(symbols, symbol)
	}
	return symbols
}
