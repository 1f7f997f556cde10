package api

import (
	"etfreplica/internal/calculator"
	"etfreplica/internal/domain"
	"etfreplica/internal/service"

	"github.com/shopspring/decimal"
)

type holdingJson struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Weight    string  `json:"weight"`
	WeightNum float64 `json:"weightNum"`
}

type metricsJson struct {
	AnnualizedReturn float64  `json:"annualizedReturn"`
	AnnualizedStdev  float64  `json:"annualizedStdev"`
	SharpeRatio      float64  `json:"sharpeRatio"`
	MaxDrawdown      float64  `json:"maxDrawdown"`
	TrackingError    *float64 `json:"trackingError,omitempty"`
	ExcessReturn     *float64 `json:"excessReturn,omitempty"`
}

type stockInfoJson struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Industry  string `json:"industry"`
	MarketCap string `json:"marketCap"`
	Weight    string `json:"weight"`
	PB        string `json:"pb"`
}

type staticStatisticsJson struct {
	PortfolioReturn string       `json:"portfolioReturn"`
	EtfReturn       string       `json:"etfReturn"`
	StockCount      int          `json:"stockCount"`
	ValidStocks     int          `json:"validStocks"`
	Strategy        string       `json:"strategy"`
	Metrics         *metricsJson `json:"metrics,omitempty"`
}

type staticBacktestResponse struct {
	Fund       string                 `json:"fund"`
	ReportDate *domain.Date           `json:"reportDate,omitempty"`
	Portfolio  []domain.NetValuePoint `json:"portfolio"`
	Etf        []domain.NetValuePoint `json:"etf"`
	StocksInfo []stockInfoJson        `json:"stocksInfo"`
	Statistics staticStatisticsJson   `json:"statistics"`
}

const placeholder = "-"

// formatPercent renders a weight fraction as a percentage with 2 places.
func formatPercent(w float64) string {
	return decimal.NewFromFloat(w).Mul(decimal.NewFromInt(100)).StringFixed(2)
}

// formatMarketCap converts the provider's 万元 into 亿元.
func formatMarketCap(mc *float64) string {
	if mc == nil {
		return placeholder
	}
	return decimal.NewFromFloat(*mc).Div(decimal.NewFromInt(10000)).StringFixed(2)
}

func formatOptional(f *float64) string {
	if f == nil {
		return placeholder
	}
	return decimal.NewFromFloat(*f).StringFixed(2)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func rankedHoldingsJson(holdings []calculator.RankedHolding) []holdingJson {
	out := make([]holdingJson, 0, len(holdings))
	for _, h := range holdings {
		out = append(out, holdingJson{
			Code:      h.Symbol,
			Name:      h.Name,
			Weight:    formatPercent(h.Weight),
			WeightNum: h.Weight,
		})
	}
	return out
}

func newMetricsJson(m *calculator.CalculateMetricsResult) *metricsJson {
	if m == nil {
		return nil
	}
	return &metricsJson{
		AnnualizedReturn: m.AnnualizedReturn,
		AnnualizedStdev:  m.AnnualizedStdev,
		SharpeRatio:      m.SharpeRatio,
		MaxDrawdown:      m.MaxDrawdown,
		TrackingError:    m.TrackingError,
		ExcessReturn:     m.ExcessReturn,
	}
}

func newStaticBacktestResponse(result *service.StaticBacktestResult, strategy string) staticBacktestResponse {
	stocks := make([]stockInfoJson, 0, len(result.Stocks))
	for _, s := range result.Stocks {
		stocks = append(stocks, stockInfoJson{
			Code:      s.Info.Symbol,
			Name:      orDefault(s.Info.Name, s.Info.Symbol),
			Industry:  orDefault(s.Info.Industry, placeholder),
			MarketCap: formatMarketCap(s.MarketCap),
			Weight:    formatPercent(s.Weight),
			PB:        formatOptional(s.PB),
		})
	}

	out := staticBacktestResponse{
		Fund:       result.Fund,
		Portfolio:  nonNilPoints(result.Portfolio),
		Etf:        nonNilPoints(result.Benchmark),
		StocksInfo: stocks,
		Statistics: staticStatisticsJson{
			PortfolioReturn: result.Statistics.PortfolioReturn.StringFixed(2),
			EtfReturn:       result.Statistics.BenchmarkReturn.StringFixed(2),
			StockCount:      result.Statistics.TotalStocks,
			ValidStocks:     result.Statistics.ValidStocks,
			Strategy:        strategy,
			Metrics:         newMetricsJson(result.Statistics.Metrics),
		},
	}
	if result.ReportDate != "" {
		reportDate := result.ReportDate
		out.ReportDate = &reportDate
	}
	return out
}

func nonNilPoints(points []domain.NetValuePoint) []domain.NetValuePoint {
	if points == nil {
		return []domain.NetValuePoint{}
	}
	return points
}
