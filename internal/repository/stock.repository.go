package repository

import (
	"context"
	"etfreplica/internal/domain"
	"etfreplica/pkg/tushare"
	"fmt"
)

type StockRepository interface {
	ListDaily(ctx context.Context, symbol string, start, end domain.Date) ([]domain.DailyPriceRecord, error)
	// GetLatestFactors returns the last daily_basic row between the first of
	// asOf's month and asOf, or nil when there is none.
	GetLatestFactors(ctx context.Context, symbol string, asOf domain.Date) (*domain.FactorSnapshot, error)
	GetInfo(ctx context.Context, symbol string) (*domain.StockInfo, error)
}

type stockRepositoryHandler struct {
	Client *tushare.Client
}

func NewStockRepository(client *tushare.Client) StockRepository {
	return stockRepositoryHandler{Client: client}
}

func (h stockRepositoryHandler) ListDaily(ctx context.Context, symbol string, start, end domain.Date) ([]domain.DailyPriceRecord, error) {
	table, err := h.Client.Query(ctx, "daily", map[string]string{
		"ts_code":    symbol,
		"start_date": start.String(),
		"end_date":   end.String(),
	}, "ts_code,trade_date,close,pct_chg")
	if err != nil {
		return nil, fmt.Errorf("failed to get daily bars for %s: %w", symbol, err)
	}
	if err := table.Require("trade_date", "close", "pct_chg"); err != nil {
		return nil, err
	}

	return dailyRecords(table, symbol)
}

func (h stockRepositoryHandler) GetLatestFactors(ctx context.Context, symbol string, asOf domain.Date) (*domain.FactorSnapshot, error) {
	// a month-long window so a non-trading asOf still finds a row
	table, err := h.Client.Query(ctx, "daily_basic", map[string]string{
		"ts_code":    symbol,
		"start_date": asOf.FirstOfMonth().String(),
		"end_date":   asOf.String(),
	}, "ts_code,trade_date,total_mv,pb,dv_ttm")
	if err != nil {
		return nil, fmt.Errorf("failed to get daily basics for %s: %w", symbol, err)
	}
	if err := table.Require("trade_date", "total_mv"); err != nil {
		return nil, err
	}

	var latest *domain.FactorSnapshot
	for _, row := range table.Rows() {
		tradeDate, err := row.Date("trade_date")
		if err != nil {
			return nil, err
		}
		if latest != nil && tradeDate <= latest.TradeDate {
			continue
		}
		snapshot := domain.FactorSnapshot{
			Symbol:    symbol,
			TradeDate: tradeDate,
		}
		if snapshot.MarketCap, err = row.Float("total_mv"); err != nil {
			return nil, err
		}
		if table.HasField("pb") {
			if snapshot.PB, err = row.Float("pb"); err != nil {
				return nil, err
			}
		}
		if table.HasField("dv_ttm") {
			if snapshot.DividendYield, err = row.Float("dv_ttm"); err != nil {
				return nil, err
			}
		}
		latest = &snapshot
	}

	return latest, nil
}

// GetInfo reads name and industry from stock_basic. stock_company is only
// consulted when stock_basic has no industry, and its failure is not fatal.
func (h stockRepositoryHandler) GetInfo(ctx context.Context, symbol string) (*domain.StockInfo, error) {
	table, err := h.Client.Query(ctx, "stock_basic", map[string]string{
		"ts_code": symbol,
	}, "ts_code,name,industry")
	if err != nil {
		return nil, fmt.Errorf("failed to get basic info for %s: %w", symbol, err)
	}
	if err := table.Require("name"); err != nil {
		return nil, err
	}

	info := &domain.StockInfo{Symbol: symbol}
	if rows := table.Rows(); len(rows) > 0 {
		if info.Name, err = rows[0].String("name"); err != nil {
			return nil, err
		}
		if table.HasField("industry") {
			if info.Industry, err = rows[0].String("industry"); err != nil {
				return nil, err
			}
		}
	}

	if info.Industry == "" {
		info.Industry = h.companyIndustry(ctx, symbol)
	}

	return info, nil
}

func (h stockRepositoryHandler) companyIndustry(ctx context.Context, symbol string) string {
	table, err := h.Client.Query(ctx, "stock_company", map[string]string{
		"ts_code": symbol,
	}, "")
	if err != nil || !table.HasField("industry") {
		return ""
	}
	rows := table.Rows()
	if len(rows) == 0 {
		return ""
	}
	industry, _ := rows[0].String("industry")
	return industry
}
