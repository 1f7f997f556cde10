package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"etfreplica/internal/calculator"
	"etfreplica/internal/domain"
	"etfreplica/internal/service"
	mock_service "etfreplica/internal/service/mocks"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, handler ApiHandler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.InitializeRouterEngine().ServeHTTP(rec, req)
	return rec
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	out := errorBody{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func Test_health(t *testing.T) {
	rec := serve(t, ApiHandler{HasToken: true}, http.MethodGet, "/api/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok","hasToken":true}`, rec.Body.String())
	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = serve(t, ApiHandler{}, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok","hasToken":false}`, rec.Body.String())
}

func Test_backtest(t *testing.T) {
	t.Run("empty stock codes", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mock_service.NewMockBacktestService(ctrl)

		rec := serve(t, ApiHandler{BacktestService: svc}, http.MethodPost, "/api/backtest", map[string]any{
			"stockCodes": []string{},
			"startDate":  "20240101",
			"endDate":    "20240301",
		})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Stock codes are required", decodeError(t, rec).Error)
	})

	t.Run("start after end", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mock_service.NewMockBacktestService(ctrl)

		rec := serve(t, ApiHandler{BacktestService: svc}, http.MethodPost, "/api/backtest", map[string]any{
			"stockCodes": []string{"600519"},
			"startDate":  "20240301",
			"endDate":    "20240101",
		})

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("formats stock info", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mock_service.NewMockBacktestService(ctrl)

		marketCap := 21000000.0
		pb := 8.456
		svc.EXPECT().CustomBacktest(gomock.Any(), service.CustomBacktestInput{
			Symbols: []string{"600519", "000001.SZ"},
			Start:   "20240101",
			End:     "20240301",
		}).Return(&service.StaticBacktestResult{
			Fund: "512890.SH",
			Portfolio: []domain.NetValuePoint{
				{Date: "20240102", NetValue: 1},
				{Date: "20240103", NetValue: 1.0123},
			},
			Stocks: []service.StockSummary{
				{
					Info:      domain.StockInfo{Symbol: "600519.SH", Name: "贵州茅台", Industry: "白酒"},
					Weight:    0.5,
					MarketCap: &marketCap,
					PB:        &pb,
				},
				{
					Info:   domain.StockInfo{Symbol: "000001.SZ"},
					Weight: 0.5,
				},
			},
			Statistics: service.Statistics{
				PortfolioReturn: decimal.RequireFromString("1.23"),
				TotalStocks:     2,
				ValidStocks:     2,
			},
		}, nil)

		rec := serve(t, ApiHandler{BacktestService: svc}, http.MethodPost, "/api/backtest", map[string]any{
			"stockCodes": []string{"600519", "000001.SZ"},
			"startDate":  "2024-01-01",
			"endDate":    "20240301",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		out := struct {
			Success bool                   `json:"success"`
			Data    staticBacktestResponse `json:"data"`
		}{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		require.True(t, out.Success)

		expected := []stockInfoJson{
			{Code: "600519.SH", Name: "贵州茅台", Industry: "白酒", MarketCap: "2100.00", Weight: "50.00", PB: "8.46"},
			{Code: "000001.SZ", Name: "000001.SZ", Industry: "-", MarketCap: "-", Weight: "50.00", PB: "-"},
		}
		diff := cmp.Diff(expected, out.Data.StocksInfo)
		require.Empty(t, diff)
		require.Equal(t, "1.23", out.Data.Statistics.PortfolioReturn)
		require.Equal(t, "0.00", out.Data.Statistics.EtfReturn)
		require.Equal(t, "equal", out.Data.Statistics.Strategy)
		require.Empty(t, out.Data.Etf)
		require.Nil(t, out.Data.ReportDate)
	})
}

func Test_backtestEtf(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"no reporting period", &domain.NoReportingPeriodError{Start: "20240101", End: "20240301"}, http.StatusNotFound},
		{"invalid request", &domain.InvalidRequestError{Reason: "bad"}, http.StatusBadRequest},
		{"provider failure", errors.New("tushare unavailable"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mock_service.NewMockBacktestService(ctrl)
			svc.EXPECT().EtfBacktest(gomock.Any(), gomock.Any()).Return(nil, tc.err)

			rec := serve(t, ApiHandler{BacktestService: svc}, http.MethodPost, "/api/backtest-etf", map[string]any{
				"startDate": "20240101",
				"endDate":   "20240301",
			})

			require.Equal(t, tc.status, rec.Code)
			body := decodeError(t, rec)
			require.Equal(t, "Failed to perform ETF backtest", body.Error)
			require.Equal(t, tc.err.Error(), body.Message)
		})
	}

	t.Run("report date is returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mock_service.NewMockBacktestService(ctrl)
		svc.EXPECT().EtfBacktest(gomock.Any(), service.EtfBacktestInput{
			Fund:  "510300.SH",
			Start: "20240101",
			End:   "20240301",
		}).Return(&service.StaticBacktestResult{
			Fund:       "510300.SH",
			ReportDate: "20231231",
		}, nil)

		rec := serve(t, ApiHandler{BacktestService: svc}, http.MethodPost, "/api/backtest-etf", map[string]any{
			"startDate": "20240101",
			"endDate":   "20240301",
			"fund":      "510300.SH",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		out := struct {
			Data staticBacktestResponse `json:"data"`
		}{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		require.NotNil(t, out.Data.ReportDate)
		require.Equal(t, domain.Date("20231231"), *out.Data.ReportDate)
		require.Equal(t, "etf", out.Data.Statistics.Strategy)
		require.NotNil(t, out.Data.Portfolio)
		require.NotNil(t, out.Data.StocksInfo)
	})
}

func Test_backtestDynamic(t *testing.T) {
	t.Run("bad date", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mock_service.NewMockBacktestService(ctrl)

		rec := serve(t, ApiHandler{BacktestService: svc}, http.MethodPost, "/api/backtest-dynamic", map[string]any{
			"startDate": "2024-13-01",
			"endDate":   "20240301",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("holdings unavailable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mock_service.NewMockBacktestService(ctrl)
		svc.EXPECT().DynamicBacktest(gomock.Any(), gomock.Any()).Return(nil, &domain.HoldingsUnavailableError{Fund: "512890.SH"})

		rec := serve(t, ApiHandler{BacktestService: svc}, http.MethodPost, "/api/backtest-dynamic", map[string]any{
			"startDate": "20240101",
			"endDate":   "20240301",
		})
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("periods and changes", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mock_service.NewMockBacktestService(ctrl)

		holdings := []calculator.RankedHolding{}
		weights := map[string]float64{}
		symbols := []string{}
		for i := 0; i < 12; i++ {
			symbol := string(rune('A'+i)) + ".SH"
			symbols = append(symbols, symbol)
			holdings = append(holdings, calculator.RankedHolding{Symbol: symbol, Name: symbol, Weight: 1.0 / 12})
			weights[symbol] = 1.0 / 12
		}

		svc.EXPECT().DynamicBacktest(gomock.Any(), service.DynamicBacktestInput{
			Start: "20240101",
			End:   "20241231",
		}).Return(&service.DynamicBacktestResult{
			Fund: "512890.SH",
			Periods: []service.PeriodSummary{
				{
					Period: domain.ReportingPeriod{
						ReportDate:  "20231231",
						ActiveStart: "20240101",
						ActiveEnd:   "20240629",
						Symbols:     []string{"600036.SH"},
						Weights:     map[string]float64{"600036.SH": 1},
					},
					Holdings: []calculator.RankedHolding{{Symbol: "600036.SH", Name: "招商银行", Weight: 1}},
				},
				{
					Period: domain.ReportingPeriod{
						ReportDate:  "20240630",
						ActiveStart: "20240630",
						ActiveEnd:   "20241231",
						Symbols:     symbols,
						Weights:     weights,
					},
					Holdings: holdings,
					Changes: &domain.HoldingsDelta{
						Added:   []domain.WeightedSymbol{{Symbol: "A.SH", Weight: 0.25}},
						Removed: []domain.WeightedSymbol{{Symbol: "600036.SH", Weight: 1}},
					},
				},
			},
			Names: map[string]string{"600036.SH": "招商银行"},
			Statistics: service.Statistics{
				PortfolioReturn:  decimal.RequireFromString("3.456"),
				BenchmarkReturn:  decimal.RequireFromString("-1"),
				RebalancingCount: 2,
				TotalStocks:      13,
			},
		}, nil)

		rec := serve(t, ApiHandler{BacktestService: svc}, http.MethodPost, "/api/backtest-dynamic", map[string]any{
			"startDate": "20240101",
			"endDate":   "2024-12-31",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		out := struct {
			Data backtestDynamicResponse `json:"data"`
		}{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))

		require.Len(t, out.Data.Periods, 2)
		require.Nil(t, out.Data.Periods[0].Changes)
		require.Equal(t, "100.00", out.Data.Periods[0].TopHoldings[0].Weight)
		require.Equal(t, domain.Date("20240629"), out.Data.Periods[0].EndDate)

		second := out.Data.Periods[1]
		require.Equal(t, 12, second.StockCount)
		require.Len(t, second.AllHoldings, 12)
		require.Len(t, second.TopHoldings, service.TopHoldingsCount)
		require.Equal(t, "8.33", second.TopHoldings[0].Weight)

		expected := &periodChangesJson{
			Added:        []holdingJson{{Code: "A.SH", Name: "A.SH", Weight: "25.00", WeightNum: 0.25}},
			Removed:      []holdingJson{{Code: "600036.SH", Name: "招商银行", Weight: "100.00", WeightNum: 1}},
			AddedCount:   1,
			RemovedCount: 1,
		}
		diff := cmp.Diff(expected, second.Changes)
		require.Empty(t, diff)

		require.Equal(t, "3.46", out.Data.Statistics.PortfolioReturn)
		require.Equal(t, "-1.00", out.Data.Statistics.EtfReturn)
		require.Equal(t, 2, out.Data.Statistics.RebalancingCount)
		require.Equal(t, 13, out.Data.Statistics.TotalStocks)
		require.Nil(t, out.Data.Statistics.Metrics)
	})
}

func Test_newBacktestDynamicResponse(t *testing.T) {
	t.Run("stock count includes symbols without a weight", func(t *testing.T) {
		result := &service.DynamicBacktestResult{
			Fund: "512890.SH",
			Periods: []service.PeriodSummary{
				{
					Period: domain.ReportingPeriod{
						ReportDate:  "20240630",
						ActiveStart: "20240630",
						ActiveEnd:   "20241231",
						Symbols:     []string{"600036.SH", "600900.SH"},
						Weights:     map[string]float64{"600900.SH": 1},
					},
					Holdings: []calculator.RankedHolding{{Symbol: "600900.SH", Name: "长江电力", Weight: 1}},
					Changes: &domain.HoldingsDelta{
						Added:          []domain.WeightedSymbol{{Symbol: "600900.SH", Weight: 1}},
						UnchangedCount: 1,
					},
				},
			},
		}

		out := newBacktestDynamicResponse(result)
		require.Len(t, out.Periods, 1)

		period := out.Periods[0]
		require.Equal(t, 2, period.StockCount)
		require.NotNil(t, period.Changes)
		require.Equal(t, period.StockCount, period.Changes.Unchanged+period.Changes.AddedCount)
		require.Len(t, period.AllHoldings, 1)
	})
}
