package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"fuelstats/internal/backend"
	"fuelstats/internal/cli"
	"fuelstats/internal/config"
	"fuelstats/internal/core"
	apphttp "fuelstats/internal/http"
	applog "fuelstats/internal/log"
	"fuelstats/internal/metrics"
	"fuelstats/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(config.Load().LogLevel, applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	loc, err := cfg.Location()
	if err != nil {
		cli.Fatal(logger, "Invalid timezone", err, "timezone", cfg.Timezone)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		cli.Fatal(logger, "Invalid backend configuration", err)
	}
	result, err := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger, m).CreateBackend(ctx, backendCfg)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize backend", err, "backend", cfg.DataBackend)
	}
	defer func() {
		if err := result.Close(); err != nil {
			logger.Error("Backend cleanup failed", "error", err)
		}
	}()

	reports := services.NewReportService(result.Reader, core.SystemClock{Location: loc}, m)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Reports:           reports,
		Writer:            result.Writer,
		DefaultCollection: cfg.DefaultCollection,
		RequestTimeout:    cfg.RequestTimeout,
		AllowedOrigins:    cfg.AllowedOrigins,
		Logger:            logger,
		Metrics:           m,
		Gatherer:          reg,
		Ready: func(ctx context.Context) error {
			_, err := result.Reader.ReadRecords(ctx, cfg.DefaultCollection)
			return err
		},
	})
	srv.MaxHeaderBytes = 1 << 16

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	}()

	logger.Info("Starting fuelstats server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		applog.FieldCollection, cfg.DefaultCollection,
		"writable", result.Writer != nil)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		_ = result.Close()
		os.Exit(1)
	}

	logger.Info("Server stopped gracefully")
}
