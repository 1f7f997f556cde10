package service

import (
	"context"
	"errors"
	"etfreplica/internal/calculator"
	"etfreplica/internal/domain"
	"etfreplica/internal/logger"
	"etfreplica/internal/repository"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultPriceBatchSize  = 10
	DefaultFactorBatchSize = 8
	DefaultBatchDelay      = 800 * time.Millisecond
	DefaultFund            = "512890.SH"
	TopHoldingsCount       = 10
)

type BacktestService interface {
	DynamicBacktest(ctx context.Context, in DynamicBacktestInput) (*DynamicBacktestResult, error)
	EtfBacktest(ctx context.Context, in EtfBacktestInput) (*StaticBacktestResult, error)
	CustomBacktest(ctx context.Context, in CustomBacktestInput) (*StaticBacktestResult, error)
}

type BacktestConfig struct {
	Fund            string
	PriceBatchSize  int
	FactorBatchSize int
	BatchDelay      time.Duration
}

type backtestServiceHandler struct {
	FundRepository  repository.FundRepository
	StockRepository repository.StockRepository
	Config          BacktestConfig
	// Today supplies the as-of date for disclosure maturity.
	Today func() domain.Date
}

func NewBacktestService(
	fundRepository repository.FundRepository,
	stockRepository repository.StockRepository,
	config BacktestConfig,
) BacktestService {
	if config.Fund == "" {
		config.Fund = DefaultFund
	}
	if config.PriceBatchSize <= 0 {
		config.PriceBatchSize = DefaultPriceBatchSize
	}
	if config.FactorBatchSize <= 0 {
		config.FactorBatchSize = DefaultFactorBatchSize
	}
	if config.BatchDelay < 0 {
		config.BatchDelay = DefaultBatchDelay
	}
	return backtestServiceHandler{
		FundRepository:  fundRepository,
		StockRepository: stockRepository,
		Config:          config,
		Today:           domain.Today,
	}
}

type DynamicBacktestInput struct {
	Fund  string
	Start domain.Date
	End   domain.Date
}

type EtfBacktestInput struct {
	Fund  string
	Start domain.Date
	End   domain.Date
}

type CustomBacktestInput struct {
	Symbols   []string
	Benchmark string
	Start     domain.Date
	End       domain.Date
}

type PeriodSummary struct {
	Period   domain.ReportingPeriod
	Holdings []calculator.RankedHolding
	// nil for the first period
	Changes *domain.HoldingsDelta
}

type Statistics struct {
	PortfolioReturn  decimal.Decimal
	BenchmarkReturn  decimal.Decimal
	RebalancingCount int
	TotalStocks      int
	ValidStocks      int
	Metrics          *calculator.CalculateMetricsResult
}

type DynamicBacktestResult struct {
	Fund       string
	Portfolio  []domain.NetValuePoint
	Benchmark  []domain.NetValuePoint
	Periods    []PeriodSummary
	Names      map[string]string
	Statistics Statistics
}

type StockSummary struct {
	Info      domain.StockInfo
	Weight    float64
	MarketCap *float64
	PB        *float64
}

type StaticBacktestResult struct {
	Fund string
	// only set for fund replication
	ReportDate domain.Date
	Portfolio  []domain.NetValuePoint
	Benchmark  []domain.NetValuePoint
	Stocks     []StockSummary
	Statistics Statistics
}

func (h backtestServiceHandler) fund(requested string) string {
	if requested != "" {
		return requested
	}
	return h.Config.Fund
}

func (h backtestServiceHandler) priceBatch() BatchOptions {
	return BatchOptions{Size: h.Config.PriceBatchSize, Delay: h.Config.BatchDelay}
}

func (h backtestServiceHandler) factorBatch() BatchOptions {
	return BatchOptions{Size: h.Config.FactorBatchSize, Delay: h.Config.BatchDelay}
}

func (h backtestServiceHandler) listHoldings(ctx context.Context, fund string) ([]domain.HoldingRecord, error) {
	records, err := h.FundRepository.ListHoldings(ctx, fund)
	if err != nil {
		return nil, fmt.Errorf("failed to get holdings for %s: %w", fund, err)
	}
	if len(records) == 0 {
		return nil, &domain.HoldingsUnavailableError{Fund: fund}
	}
	return records, nil
}

func (h backtestServiceHandler) DynamicBacktest(ctx context.Context, in DynamicBacktestInput) (*DynamicBacktestResult, error) {
	log := logger.FromContext(ctx)
	fund := h.fund(in.Fund)

	records, err := h.listHoldings(ctx, fund)
	if err != nil {
		return nil, err
	}

	periods, err := calculator.SegmentPeriods(calculator.SegmentPeriodsInput{
		Records: records,
		Start:   in.Start,
		End:     in.End,
		AsOf:    h.Today(),
	})
	if err != nil {
		return nil, err
	}
	log.Infow("segmented holdings", "fund", fund, "periods", len(periods))

	for i, period := range periods {
		factors, err := h.fetchFactors(ctx, period.Symbols, period.ReportDate)
		if err != nil {
			return nil, err
		}
		weighted, err := calculator.WeighPeriod(period, factors)
		if err != nil {
			return nil, fmt.Errorf("failed to weight period %s: %w", period.ReportDate, err)
		}
		if weighted.UsedEqualWeight {
			log.Warnw("no market caps for period, using equal weights", "reportDate", period.ReportDate)
		}
		periods[i] = weighted
	}

	symbols := unionSymbols(periods)
	prices, err := h.fetchPrices(ctx, symbols, in.Start, in.End)
	if err != nil {
		return nil, err
	}
	portfolio := calculator.AccumulateNetValue(periods, prices)

	benchmark, err := h.benchmark(ctx, fund, in.Start, in.End)
	if err != nil {
		return nil, err
	}

	infos, err := h.fetchInfo(ctx, symbols)
	if err != nil {
		return nil, err
	}
	names := map[string]string{}
	for symbol, info := range infos {
		if info.Name != "" {
			names[symbol] = info.Name
		}
	}

	changes := calculator.PeriodChanges(periods)
	summaries := make([]PeriodSummary, len(periods))
	for i, period := range periods {
		summaries[i] = PeriodSummary{
			Period:   period,
			Holdings: calculator.SortHoldings(period.Weights, names),
			Changes:  changes[i],
		}
	}

	return &DynamicBacktestResult{
		Fund:      fund,
		Portfolio: portfolio,
		Benchmark: benchmark,
		Periods:   summaries,
		Names:     names,
		Statistics: Statistics{
			PortfolioReturn:  calculator.TotalReturnPercent(portfolio),
			BenchmarkReturn:  calculator.TotalReturnPercent(benchmark),
			RebalancingCount: len(periods),
			TotalStocks:      len(symbols),
			ValidStocks:      len(prices),
			Metrics:          metrics(ctx, portfolio, benchmark),
		},
	}, nil
}

// EtfBacktest replicates the fund's latest full disclosure as of End with
// fixed market cap weights for the whole range.
func (h backtestServiceHandler) EtfBacktest(ctx context.Context, in EtfBacktestInput) (*StaticBacktestResult, error) {
	log := logger.FromContext(ctx)
	fund := h.fund(in.Fund)

	if in.Start > in.End {
		return nil, &domain.InvalidDateError{Value: in.Start.String(), Reason: "start is after end"}
	}

	records, err := h.listHoldings(ctx, fund)
	if err != nil {
		return nil, err
	}
	reportDate, ok := calculator.LatestReportDate(records, in.End, h.Today())
	if !ok {
		return nil, &domain.NoReportingPeriodError{Start: in.Start, End: in.End}
	}
	symbols := calculator.HoldingsOn(records, reportDate)
	log.Infow("replicating fund holdings", "fund", fund, "reportDate", reportDate, "symbols", len(symbols))

	factors, err := h.fetchFactors(ctx, symbols, in.End)
	if err != nil {
		return nil, err
	}
	caps := make(map[string]*float64, len(factors))
	for symbol, f := range factors {
		caps[symbol] = f.MarketCap
	}
	weights, err := calculator.CalculateWeights(symbols, caps)
	if err != nil {
		return nil, fmt.Errorf("failed to weight holdings of %s: %w", reportDate, err)
	}
	if weights.UsedFallback {
		log.Warnw("no market caps for holdings, using equal weights", "reportDate", reportDate)
	}

	result, err := h.staticBacktest(ctx, staticBacktestInput{
		Fund:    fund,
		Symbols: symbols,
		Weights: weights.Weights,
		Factors: factors,
		Start:   in.Start,
		End:     in.End,
	})
	if err != nil {
		return nil, err
	}
	result.ReportDate = reportDate
	return result, nil
}

// CustomBacktest equally weights a hand-picked basket and compares it to the
// benchmark fund.
func (h backtestServiceHandler) CustomBacktest(ctx context.Context, in CustomBacktestInput) (*StaticBacktestResult, error) {
	if len(in.Symbols) == 0 {
		return nil, &domain.InvalidRequestError{Reason: "stock codes are required"}
	}
	if in.Start > in.End {
		return nil, &domain.InvalidDateError{Value: in.Start.String(), Reason: "start is after end"}
	}

	symbols := []string{}
	seen := map[string]bool{}
	for _, raw := range in.Symbols {
		symbol, ok := calculator.NormalizeSymbol(raw)
		if !ok {
			return nil, &domain.InvalidRequestError{Reason: fmt.Sprintf("invalid stock code %q", raw)}
		}
		if seen[symbol] {
			continue
		}
		seen[symbol] = true
		symbols = append(symbols, symbol)
	}

	factors, err := h.fetchFactors(ctx, symbols, in.End)
	if err != nil {
		return nil, err
	}

	return h.staticBacktest(ctx, staticBacktestInput{
		Fund:    h.fund(in.Benchmark),
		Symbols: symbols,
		Weights: calculator.EqualWeights(symbols),
		Factors: factors,
		Start:   in.Start,
		End:     in.End,
	})
}

type staticBacktestInput struct {
	Fund    string
	Symbols []string
	Weights map[string]float64
	Factors map[string]domain.FactorSnapshot
	Start   domain.Date
	End     domain.Date
}

func (h backtestServiceHandler) staticBacktest(ctx context.Context, in staticBacktestInput) (*StaticBacktestResult, error) {
	prices, err := h.fetchPrices(ctx, in.Symbols, in.Start, in.End)
	if err != nil {
		return nil, err
	}
	portfolio := calculator.ClosePriceNetValue(prices, in.Weights)

	benchmark, err := h.benchmark(ctx, in.Fund, in.Start, in.End)
	if err != nil {
		return nil, err
	}

	infos, err := h.fetchInfo(ctx, in.Symbols)
	if err != nil {
		return nil, err
	}

	stocks := make([]StockSummary, 0, len(in.Symbols))
	for _, symbol := range in.Symbols {
		summary := StockSummary{
			Info:   domain.StockInfo{Symbol: symbol},
			Weight: in.Weights[symbol],
		}
		if info, ok := infos[symbol]; ok {
			summary.Info = info
		}
		if f, ok := in.Factors[symbol]; ok {
			summary.MarketCap = f.MarketCap
			summary.PB = f.PB
		}
		stocks = append(stocks, summary)
	}
	sort.SliceStable(stocks, func(i, j int) bool {
		return stocks[i].Weight > stocks[j].Weight
	})

	return &StaticBacktestResult{
		Fund:      in.Fund,
		Portfolio: portfolio,
		Benchmark: benchmark,
		Stocks:    stocks,
		Statistics: Statistics{
			PortfolioReturn: calculator.TotalReturnPercent(portfolio),
			BenchmarkReturn: calculator.TotalReturnPercent(benchmark),
			TotalStocks:     len(in.Symbols),
			ValidStocks:     len(prices),
			Metrics:         metrics(ctx, portfolio, benchmark),
		},
	}, nil
}

func (h backtestServiceHandler) benchmark(ctx context.Context, fund string, start, end domain.Date) ([]domain.NetValuePoint, error) {
	series, err := h.FundRepository.ListDaily(ctx, fund, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get benchmark series for %s: %w", fund, err)
	}
	benchmark, err := calculator.NormalizeBenchmark(series)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize benchmark %s: %w", fund, err)
	}
	return benchmark, nil
}

// fetchFactors returns the snapshots that could be loaded. Symbols whose
// fetch failed or came back empty are absent, which the weight calculator
// treats as having no market cap.
func (h backtestServiceHandler) fetchFactors(ctx context.Context, symbols []string, asOf domain.Date) (map[string]domain.FactorSnapshot, error) {
	log := logger.FromContext(ctx)
	results, err := batchProcess(ctx, symbols, h.factorBatch(), func(ctx context.Context, symbol string) (*domain.FactorSnapshot, error) {
		return h.StockRepository.GetLatestFactors(ctx, symbol, asOf)
	})
	if err != nil {
		return nil, err
	}

	out := map[string]domain.FactorSnapshot{}
	for i, r := range results {
		if r.Err != nil {
			log.Warnw("failed to get factors", "symbol", symbols[i], "asOf", asOf, "error", r.Err)
			continue
		}
		if r.Value != nil {
			out[symbols[i]] = *r.Value
		}
	}
	return out, nil
}

// fetchPrices returns bars for the symbols that have any. Failed fetches are
// logged and left out; the accumulator treats them as flat.
func (h backtestServiceHandler) fetchPrices(ctx context.Context, symbols []string, start, end domain.Date) (map[string][]domain.DailyPriceRecord, error) {
	log := logger.FromContext(ctx)
	results, err := batchProcess(ctx, symbols, h.priceBatch(), func(ctx context.Context, symbol string) ([]domain.DailyPriceRecord, error) {
		return h.StockRepository.ListDaily(ctx, symbol, start, end)
	})
	if err != nil {
		return nil, err
	}

	out := map[string][]domain.DailyPriceRecord{}
	for i, r := range results {
		if r.Err != nil {
			log.Warnw("failed to get daily bars", "symbol", symbols[i], "error", r.Err)
			continue
		}
		if len(r.Value) > 0 {
			out[symbols[i]] = r.Value
		}
	}
	return out, nil
}

func (h backtestServiceHandler) fetchInfo(ctx context.Context, symbols []string) (map[string]domain.StockInfo, error) {
	log := logger.FromContext(ctx)
	results, err := batchProcess(ctx, symbols, h.priceBatch(), func(ctx context.Context, symbol string) (*domain.StockInfo, error) {
		return h.StockRepository.GetInfo(ctx, symbol)
	})
	if err != nil {
		return nil, err
	}

	out := map[string]domain.StockInfo{}
	for i, r := range results {
		if r.Err != nil {
			log.Warnw("failed to get stock info", "symbol", symbols[i], "error", r.Err)
			continue
		}
		if r.Value != nil {
			out[symbols[i]] = *r.Value
		}
	}
	return out, nil
}

// metrics is best effort; short or degenerate series just get none.
func metrics(ctx context.Context, portfolio, benchmark []domain.NetValuePoint) *calculator.CalculateMetricsResult {
	if len(portfolio) < 3 {
		return nil
	}
	result, err := calculator.CalculateMetrics(portfolio, benchmark)
	if err != nil {
		logger.FromContext(ctx).Warnw("failed to calculate metrics", "error", err)
		return nil
	}
	return result
}

func unionSymbols(periods []domain.ReportingPeriod) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, p := range periods {
		for _, s := range p.Symbols {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// IsNotFound reports whether err means there is no data to backtest, as
// opposed to a failure.
func IsNotFound(err error) bool {
	var noPeriod *domain.NoReportingPeriodError
	var unavailable *domain.HoldingsUnavailableError
	return errors.As(err, &noPeriod) || errors.As(err, &unavailable)
}

// IsInvalidInput reports whether err was caused by the request itself.
func IsInvalidInput(err error) bool {
	var dateErr *domain.InvalidDateError
	var reqErr *domain.InvalidRequestError
	return errors.As(err, &dateErr) || errors.As(err, &reqErr)
}
