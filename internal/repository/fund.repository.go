package repository

import (
	"context"
	"etfreplica/internal/domain"
	"etfreplica/internal/logger"
	"etfreplica/pkg/tushare"
	"fmt"
)

type FundRepository interface {
	// ListHoldings returns every disclosed holding row for the fund, all
	// report dates included. Symbols are the raw disclosure codes.
	ListHoldings(ctx context.Context, fund string) ([]domain.HoldingRecord, error)
	ListDaily(ctx context.Context, fund string, start, end domain.Date) ([]domain.DailyPriceRecord, error)
}

type fundRepositoryHandler struct {
	Client *tushare.Client
}

func NewFundRepository(client *tushare.Client) FundRepository {
	return fundRepositoryHandler{Client: client}
}

func (h fundRepositoryHandler) ListHoldings(ctx context.Context, fund string) ([]domain.HoldingRecord, error) {
	table, err := h.Client.Query(ctx, "fund_portfolio", map[string]string{
		"ts_code": fund,
	}, "ts_code,end_date,symbol,stk_mkv_ratio")
	if err != nil {
		return nil, fmt.Errorf("failed to get holdings for %s: %w", fund, err)
	}
	if err := table.Require("end_date", "symbol"); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	out := []domain.HoldingRecord{}
	for _, row := range table.Rows() {
		symbol, err := row.String("symbol")
		if err != nil {
			return nil, err
		}
		reportDate, err := row.Date("end_date")
		if err != nil {
			log.Warnw("skipping holding with bad report date", "fund", fund, "symbol", symbol, "error", err)
			continue
		}
		record := domain.HoldingRecord{
			Symbol:     symbol,
			ReportDate: reportDate,
		}
		if table.HasField("stk_mkv_ratio") {
			record.WeightHint, err = row.Float("stk_mkv_ratio")
			if err != nil {
				return nil, err
			}
		}
		out = append(out, record)
	}

	return out, nil
}

// ListDaily returns the fund's exchange bars. NAV is read when the provider
// includes it; the benchmark falls back to close otherwise.
func (h fundRepositoryHandler) ListDaily(ctx context.Context, fund string, start, end domain.Date) ([]domain.DailyPriceRecord, error) {
	table, err := h.Client.Query(ctx, "fund_daily", map[string]string{
		"ts_code":    fund,
		"start_date": start.String(),
		"end_date":   end.String(),
	}, "")
	if err != nil {
		return nil, fmt.Errorf("failed to get daily data for %s: %w", fund, err)
	}
	if err := table.Require("trade_date"); err != nil {
		return nil, err
	}

	return dailyRecords(table, fund)
}

// dailyRecords decodes a bar table. trade_date is mandatory; close, pct_chg
// and nav are read when present.
func dailyRecords(table *tushare.Table, symbol string) ([]domain.DailyPriceRecord, error) {
	out := make([]domain.DailyPriceRecord, 0, table.Len())
	for _, row := range table.Rows() {
		tradeDate, err := row.Date("trade_date")
		if err != nil {
			return nil, err
		}
		record := domain.DailyPriceRecord{
			Symbol:    symbol,
			TradeDate: tradeDate,
		}
		if table.HasField("close") {
			if record.Close, err = row.Float("close"); err != nil {
				return nil, err
			}
		}
		if table.HasField("pct_chg") {
			if record.PctChg, err = row.Float("pct_chg"); err != nil {
				return nil, err
			}
		}
		if table.HasField("nav") {
			if record.Nav, err = row.Float("nav"); err != nil {
				return nil, err
			}
		}
		out = append(out, record)
	}
	return out, nil
}
