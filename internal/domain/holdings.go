package domain

// HoldingRecord is one row of a fund's holdings disclosure.
type HoldingRecord struct {
	Symbol     string
	ReportDate Date
	// WeightHint is the disclosed share of net assets, when reported. It is
	// informational only; weights are always derived from market caps.
	WeightHint *float64
}

// ReportingPeriod is the span during which one disclosure's holdings are in
// force. Periods produced by the segmenter are contiguous and ordered.
type ReportingPeriod struct {
	ReportDate  Date
	ActiveStart Date
	ActiveEnd   Date

	// deduplicated, first-seen order
	Symbols []string

	Weights         map[string]float64
	FactorData      map[string]FactorSnapshot
	UsedEqualWeight bool
}

func (p ReportingPeriod) Contains(d Date) bool {
	return d >= p.ActiveStart && d <= p.ActiveEnd
}

func (p ReportingPeriod) SymbolSet() map[string]bool {
	set := make(map[string]bool, len(p.Symbols))
	for _, s := range p.Symbols {
		set[s] = true
	}
	return set
}

// FactorSnapshot is a symbol's valuation data near a report date. Only
// MarketCap feeds the weights; the rest is kept for display.
type FactorSnapshot struct {
	Symbol        string
	TradeDate     Date
	MarketCap     *float64 // 万元, as the provider reports it
	PB            *float64
	DividendYield *float64
}

type WeightedSymbol struct {
	Symbol string
	Weight float64
}

// HoldingsDelta is the change in composition between two consecutive periods.
type HoldingsDelta struct {
	Added          []WeightedSymbol
	Removed        []WeightedSymbol
	UnchangedCount int
}

func (d HoldingsDelta) AddedCount() int {
	return len(d.Added)
}

func (d HoldingsDelta) RemovedCount() int {
	return len(d.Removed)
}

type StockInfo struct {
	Symbol   string
	Name     string
	Industry string
}
