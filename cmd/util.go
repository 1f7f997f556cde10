package cmd

import (
	"context"
	"etfreplica/api"
	"etfreplica/internal/logger"
	"etfreplica/internal/repository"
	"etfreplica/internal/service"
	"etfreplica/internal/util"
	"etfreplica/pkg/tushare"
	"fmt"
)

func CloseDependencies(handler *api.ApiHandler) {
	// syncing stderr fails on some platforms
	_ = logger.FromContext(context.Background()).Sync()
}

func InitializeDependencies() (*api.ApiHandler, *util.Secrets, error) {
	secrets, err := util.LoadSecrets()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load secrets: %w", err)
	}

	if !secrets.HasToken() {
		logger.FromContext(context.Background()).Warnw("no tushare token configured, provider requests will fail")
	}

	tushareClient := tushare.NewClient(
		secrets.Tushare.Token,
		tushare.WithBaseURL(secrets.Tushare.BaseURL),
		tushare.WithRateLimit(secrets.Tushare.RequestsPerSecond),
		tushare.WithTimeout(secrets.Tushare.GetTimeout()),
	)

	fundRepository := repository.NewFundRepository(tushareClient)
	stockRepository := repository.NewStockRepository(tushareClient)

	backtestService := service.NewBacktestService(
		fundRepository,
		stockRepository,
		service.BacktestConfig{
			Fund:            secrets.Fund.Code,
			PriceBatchSize:  secrets.Batch.PriceBatchSize,
			FactorBatchSize: secrets.Batch.FactorBatchSize,
			BatchDelay:      secrets.Batch.GetDelay(),
		},
	)

	apiHandler := &api.ApiHandler{
		BacktestService: backtestService,
		HasToken:        secrets.HasToken(),
	}

	return apiHandler, secrets, nil
}
