package domain

import "fmt"

// NoReportingPeriodError means no mature, in-range disclosure exists for the
// requested backtest window.
type NoReportingPeriodError struct {
	Start Date
	End   Date
}

func (e *NoReportingPeriodError) Error() string {
	return fmt.Sprintf("no disclosed reporting period on or before %s (backtest %s to %s)", e.End, e.Start, e.End)
}

// EmptyPeriodError means a reporting period reached weighting with no symbols.
type EmptyPeriodError struct {
	ReportDate Date
}

func (e *EmptyPeriodError) Error() string {
	if e.ReportDate == "" {
		return "cannot weight a period with no symbols"
	}
	return fmt.Sprintf("reporting period %s has no symbols", e.ReportDate)
}

// MissingFieldError means a provider table lacks a required column.
type MissingFieldError struct {
	Field string
	Table string
}

func (e *MissingFieldError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("missing field %q", e.Field)
	}
	return fmt.Sprintf("missing field %q in %s", e.Field, e.Table)
}

// DegenerateSeriesError means a series cannot be rebased because its first
// value is zero or absent.
type DegenerateSeriesError struct {
	Date   Date
	Reason string
}

func (e *DegenerateSeriesError) Error() string {
	return fmt.Sprintf("cannot normalize series starting %s: %s", e.Date, e.Reason)
}

type InvalidDateError struct {
	Value  string
	Reason string
}

func (e *InvalidDateError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid date %q: %s", e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid date %q, want YYYYMMDD", e.Value)
}

// HoldingsUnavailableError means the provider returned no disclosures at all
// for the fund.
type HoldingsUnavailableError struct {
	Fund string
}

func (e *HoldingsUnavailableError) Error() string {
	return fmt.Sprintf("no holdings data available for %s", e.Fund)
}

type InvalidRequestError struct {
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return e.Reason
}
