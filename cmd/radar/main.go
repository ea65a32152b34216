package main

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"StealthRadar/internal/collector"
	"StealthRadar/internal/config"
	"StealthRadar/internal/logger"
	"StealthRadar/internal/metrics"
	"StealthRadar/internal/scanner"
)

var configPath string

var rootCMD = &cobra.Command{
	Use:   "radar",
	Short: "Stealth accumulation scanner for NSE equities",
	Long: `Scans the most recent NSE trading sessions for symbols under quiet
buying pressure and ranks them by liquidity-weighted Chaikin Money Flow.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCMD.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	decimal.MarshalJSONWithoutQuotes = true

	defaultPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}
	rootCMD.PersistentFlags().StringVarP(&configPath, "config", "c", defaultPath, "path to the YAML config file")
	rootCMD.AddCommand(scanCMD, serveCMD)
}

// app bundles the components every subcommand needs.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	metrics *metrics.Metrics
	scanner *scanner.Scanner
}

func bootstrap() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	log, err := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	var fetcher collector.Fetcher
	if cfg.DataSource.LocalDir != "" {
		fetcher = collector.NewDirFetcher(cfg.DataSource.LocalDir)
	} else {
		fetcher = collector.NewBhavcopyFetcher(collector.BhavcopyOptions{
			BaseURL:    cfg.DataSource.BaseURL,
			UserAgent:  cfg.DataSource.UserAgent,
			ProxyURL:   cfg.Proxy,
			Timeout:    cfg.DataSource.Timeout,
			RatePerSec: cfg.DataSource.RatePerSec,
		}, log)
	}
	log.Info("data source selected", zap.String("source", fetcher.Name()))

	m := metrics.New()
	sc := scanner.New(fetcher, scanner.Options{
		TargetSessions: cfg.Scan.TargetSessions,
		LookbackExtra:  cfg.Scan.LookbackExtra,
		MinDays:        cfg.Scan.MinDays,
		TopN:           cfg.Scan.TopN,
		Location:       cfg.Location(),
	}, m, log)

	return &app{cfg: cfg, log: log, metrics: m, scanner: sc}, nil
}
