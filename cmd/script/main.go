package main

import (
	"context"
	"encoding/json"
	"etfreplica/cmd"
	"etfreplica/internal/domain"
	"etfreplica/internal/logger"
	"etfreplica/internal/service"
	"etfreplica/internal/util"
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	startFlag string
	endFlag   string
	fundFlag  string
	codesFlag []string
	csvFlag   string
)

var rootCmd = &cobra.Command{
	Use:          "replica",
	Short:        "Backtest ETF holdings replication from the command line",
	SilenceUsage: true,
}

var dynamicCmd = &cobra.Command{
	Use:   "dynamic",
	Short: "Rebalance at every disclosed holdings report",
	RunE: func(c *cobra.Command, args []string) error {
		return run(c.Context(), func(ctx context.Context, svc service.BacktestService, start, end domain.Date) (any, []domain.NetValuePoint, []domain.NetValuePoint, error) {
			result, err := svc.DynamicBacktest(ctx, service.DynamicBacktestInput{Fund: fundFlag, Start: start, End: end})
			if err != nil {
				return nil, nil, nil, err
			}
			return result, result.Portfolio, result.Benchmark, nil
		})
	},
}

var etfCmd = &cobra.Command{
	Use:   "etf",
	Short: "Hold the latest disclosed holdings for the whole range",
	RunE: func(c *cobra.Command, args []string) error {
		return run(c.Context(), func(ctx context.Context, svc service.BacktestService, start, end domain.Date) (any, []domain.NetValuePoint, []domain.NetValuePoint, error) {
			result, err := svc.EtfBacktest(ctx, service.EtfBacktestInput{Fund: fundFlag, Start: start, End: end})
			if err != nil {
				return nil, nil, nil, err
			}
			return result, result.Portfolio, result.Benchmark, nil
		})
	},
}

var customCmd = &cobra.Command{
	Use:   "custom",
	Short: "Equal weight a basket of stock codes",
	RunE: func(c *cobra.Command, args []string) error {
		return run(c.Context(), func(ctx context.Context, svc service.BacktestService, start, end domain.Date) (any, []domain.NetValuePoint, []domain.NetValuePoint, error) {
			result, err := svc.CustomBacktest(ctx, service.CustomBacktestInput{Symbols: codesFlag, Benchmark: fundFlag, Start: start, End: end})
			if err != nil {
				return nil, nil, nil, err
			}
			return result, result.Portfolio, result.Benchmark, nil
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&startFlag, "start", "", "first trading date, YYYYMMDD or YYYY-MM-DD")
	rootCmd.PersistentFlags().StringVar(&endFlag, "end", "", "last trading date, YYYYMMDD or YYYY-MM-DD")
	rootCmd.PersistentFlags().StringVar(&fundFlag, "fund", "", "fund code, defaults to the configured fund")
	rootCmd.PersistentFlags().StringVar(&csvFlag, "csv", "", "write the net value series to this file")
	_ = rootCmd.MarkPersistentFlagRequired("start")
	_ = rootCmd.MarkPersistentFlagRequired("end")

	customCmd.Flags().StringSliceVar(&codesFlag, "codes", nil, "comma separated stock codes")
	_ = customCmd.MarkFlagRequired("codes")

	rootCmd.AddCommand(dynamicCmd, etfCmd, customCmd)
}

type backtestFn func(ctx context.Context, svc service.BacktestService, start, end domain.Date) (any, []domain.NetValuePoint, []domain.NetValuePoint, error)

func run(ctx context.Context, fn backtestFn) error {
	start, end, err := util.ParseRange(startFlag, endFlag)
	if err != nil {
		return err
	}

	handler, _, err := cmd.InitializeDependencies()
	if err != nil {
		return err
	}
	defer cmd.CloseDependencies(handler)

	runID := uuid.New()
	log := logger.FromContext(ctx).With("runId", runID.String())
	ctx = logger.NewContext(ctx, log)
	log.Infow("starting backtest", "start", start, "end", end)

	result, portfolio, benchmark, err := fn(ctx, handler.BacktestService, start, end)
	if err != nil {
		return fmt.Errorf("backtest %s failed: %w", runID, err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	fmt.Println(string(out))

	if csvFlag != "" {
		if err := writeNetValueCsv(csvFlag, portfolio, benchmark); err != nil {
			return err
		}
		log.Infow("wrote net values", "path", csvFlag, "rows", len(portfolio))
	}
	return nil
}

type netValueRow struct {
	Date      string `csv:"date"`
	Portfolio string `csv:"portfolio"`
	Benchmark string `csv:"benchmark"`
}

// netValueRows lines the benchmark up against the portfolio's dates. A date
// the benchmark did not trade on is left blank.
func netValueRows(portfolio, benchmark []domain.NetValuePoint) []netValueRow {
	byDate := make(map[domain.Date]float64, len(benchmark))
	for _, p := range benchmark {
		byDate[p.Date] = p.NetValue
	}

	rows := make([]netValueRow, 0, len(portfolio))
	for _, p := range portfolio {
		row := netValueRow{
			Date:      p.Date.String(),
			Portfolio: fmt.Sprintf("%.6f", p.NetValue),
		}
		if v, ok := byDate[p.Date]; ok {
			row.Benchmark = fmt.Sprintf("%.6f", v)
		}
		rows = append(rows, row)
	}
	return rows
}

func writeNetValueCsv(path string, portfolio, benchmark []domain.NetValuePoint) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(netValueRows(portfolio, benchmark), f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
