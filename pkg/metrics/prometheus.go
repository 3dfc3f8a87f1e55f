package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsCollector struct {
	registry      *prometheus.Registry
	daysSimulated prometheus.Counter
	stepsFailed   prometheus.Counter
	stepDuration  prometheus.Histogram
	tradesMatched prometheus.Counter
	moneySupply   prometheus.Gauge
	marketPrice   *prometheus.GaugeVec
	mu            sync.RWMutex
	logger        *slog.Logger
}

func NewMetricsCollector(logger *slog.Logger) *MetricsCollector {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()

	collector := &MetricsCollector{
		registry: registry,
		daysSimulated: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "simulation_days_total",
			Help: "Total number of simulated days completed",
		}),
		stepsFailed: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "simulation_steps_failed_total",
			Help: "Total number of failed simulation steps",
		}),
		stepDuration: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "simulation_step_duration_seconds",
			Help:    "Time taken to simulate one day",
			Buckets: prometheus.DefBuckets,
		}),
		tradesMatched: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "market_trades_matched_total",
			Help: "Total number of matched market trades",
		}),
		moneySupply: promauto.With(registry).NewGauge(prometheus.GaugeOpts{
			Name: "economy_money_supply",
			Help: "Non-bank private sector deposit money",
		}),
		marketPrice: promauto.With(registry).NewGaugeVec(prometheus.GaugeOpts{
			Name: "market_price",
			Help: "Volume-weighted recent price per market",
		}, []string{"market"}),
		logger: logger,
	}

	return collector
}

func (m *MetricsCollector) RecordStep(duration time.Duration, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if success {
		m.daysSimulated.Inc()
	} else {
		m.stepsFailed.Inc()
	}

	m.stepDuration.Observe(duration.Seconds())
}

func (m *MetricsCollector) AddTrades(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tradesMatched.Add(float64(n))
}

func (m *MetricsCollector) SetMoneySupply(value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.moneySupply.Set(value)
}

func (m *MetricsCollector) SetMarketPrice(market string, price float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.marketPrice.WithLabelValues(market).Set(price)
}

func (m *MetricsCollector) GetHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *MetricsCollector) StartMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.GetHandler())

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		m.logger.Info("Starting metrics server", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			m.logger.Error("Metrics server failed", slog.String("error", err.Error()))
		}
	}()

	return server
}

func (m *MetricsCollector) Shutdown(ctx context.Context) error {
	m.logger.Info("Metrics collector shutdown complete")
	return nil
}
