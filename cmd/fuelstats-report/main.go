// Command fuelstats-report prints the fuel summary and expense breakdown of a
// collection read from the configured backend.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"fuelstats/internal/backend"
	"fuelstats/internal/cli"
	"fuelstats/internal/config"
	"fuelstats/internal/core"
	applog "fuelstats/internal/log"
	"fuelstats/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg := config.Load()

	collection := flag.String("collection", cfg.DefaultCollection, "collection to report on")
	nowFlag := flag.String("now", "", "processing time as RFC3339 (default: current time)")
	asJSON := flag.Bool("json", false, "print JSON instead of text")
	flag.Parse()

	// stdout carries the report itself
	logger := cli.SetupLoggerTo(os.Stderr, cfg.LogLevel, applog.ComponentReport)
	if err := cfg.Validate(); err != nil {
		cli.Fatal(logger, "Configuration validation failed", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		cli.Fatal(logger, "Invalid timezone", err, "timezone", cfg.Timezone)
	}

	var clock core.Clock = core.SystemClock{Location: loc}
	if *nowFlag != "" {
		t, err := time.Parse(time.RFC3339, *nowFlag)
		if err != nil {
			cli.Fatal(logger, "Invalid -now value", err, "now", *nowFlag)
		}
		clock = core.FixedClock{T: t}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		cli.Fatal(logger, "Invalid backend configuration", err)
	}
	result, err := backend.NewFactory(logger.Logger, nil).CreateBackend(ctx, backendCfg)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize backend", err, "backend", cfg.DataBackend)
	}
	defer result.Close()

	rep, err := services.NewReportService(result.Reader, clock, nil).Report(ctx, *collection)
	if err != nil {
		logger.Error("Report failed", applog.FieldCollection, *collection, "error", err)
		result.Close()
		os.Exit(1)
	}

	if *asJSON {
		err = writeJSON(os.Stdout, rep)
	} else {
		err = writeText(os.Stdout, rep)
	}
	if err != nil {
		result.Close()
		cli.Fatal(logger, "Failed to write report", err)
	}
}
