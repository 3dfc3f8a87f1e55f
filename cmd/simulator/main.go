package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"econsim/internal/config"
	"econsim/internal/sim"
	"econsim/pkg/metrics"
)

const (
	appName = "econsim"

	// One month of wages per household seeds enough liquidity for the
	// consumption cycle to start.
	initialHouseholdLiquidity = 1470
)

func main() {
	configPath := flag.String("config", "", "path to an optional YAML config file")
	flag.Parse()

	logger := setupLogger()
	logger.Info("Starting simulation",
		slog.String("name", appName))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("Configuration failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	metricsCollector := metrics.NewMetricsCollector(logger)
	metricsServer := metricsCollector.StartMetricsServer(cfg.MetricsAddr)

	model, err := sim.New(cfg, logger)
	if err != nil {
		logger.Error("Model construction failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := bootstrap(model); err != nil {
		logger.Error("Model bootstrap failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run(ctx, model, cfg.Days, metricsCollector, logger)

	fmt.Println(model.ConsolidatedBalanceSheet())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Metrics server shutdown failed", slog.String("error", err.Error()))
	}
	if err := metricsCollector.Shutdown(shutdownCtx); err != nil {
		logger.Error("Metrics collector shutdown failed", slog.String("error", err.Error()))
	}
	logger.Info("Simulation shutdown complete")
}

func setupLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}

// bootstrap gives every firm and household a bank account, seeds household
// liquidity with a helicopter drop, and spreads employment and shopping
// relationships over the firms.
func bootstrap(model *sim.Model) error {
	for _, firm := range model.Firms {
		if err := model.RandomlyAllocateBanks(firm); err != nil {
			return err
		}
	}
	for _, h := range model.Households {
		if err := model.RandomlyAllocateBanks(h); err != nil {
			return err
		}
	}

	recipients := make([]sim.Depositor, 0, len(model.Households))
	for _, h := range model.Households {
		recipients = append(recipients, h)
	}
	if err := model.HelicopterDrop(initialHouseholdLiquidity, recipients...); err != nil {
		return err
	}

	if len(model.Firms) > 0 {
		for i, h := range model.Households {
			model.Firms[i%len(model.Firms)].Hire(h)
			h.SetShop(model.Firms[(i+1)%len(model.Firms)])
		}
	}
	return nil
}

func run(ctx context.Context, model *sim.Model, days int, collector *metrics.MetricsCollector, logger *slog.Logger) {
	lastTrades := 0
	for i := 0; i < days; i++ {
		select {
		case <-ctx.Done():
			logger.Info("Shutdown signal received", slog.Int("day", model.Calendar.Day()))
			return
		default:
		}

		start := time.Now()
		err := model.Step()
		collector.RecordStep(time.Since(start), err == nil)
		if err != nil {
			logger.Error("Step failed",
				slog.Int("day", model.Calendar.Day()),
				slog.String("error", err.Error()))
			return
		}
		collector.SetMoneySupply(model.MoneySupply())
		trades := model.World.Interbank.Trades()
		collector.AddTrades(trades - lastTrades)
		lastTrades = trades
		collector.SetMarketPrice("interbank", model.World.Interbank.MarketPrice())

		if model.Calendar.IsMonthStart() {
			logger.Info("Month complete",
				slog.Int("day", model.Calendar.Day()),
				slog.Int("month", model.Calendar.Month()),
				slog.Float64("money_supply", model.MoneySupply()),
				slog.Float64("avg_goods_price", sim.AverageGoodsPrice(model)),
				slog.Float64("gini", sim.Gini(model)))
		}
	}
}
