package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	monthlycandles "github.com/gsmit/monthly-candles"
)

type config struct {
	CacheDir    string `env:"CACHE_DIR" envDefault:".monthly-candles"`
	BaseURL     string `env:"BASE_URL" envDefault:"https://data.binance.vision/data/spot/monthly/klines"`
	Concurrency int    `env:"CONCURRENCY" envDefault:"4"`
	Debug       bool   `env:"DEBUG" envDefault:"false"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	symbols := flag.String("symbols", "", "comma-separated trading pair symbols, e.g. BTCUSDT,ETHUSDT")
	timeframe := flag.String("timeframe", "1h", "candle timeframe, e.g. 1m, 1h, 1d")
	start := flag.String("start", "", "first month to fetch, YYYY-MM")
	end := flag.String("end", "", "last month to fetch, YYYY-MM (defaults to start)")
	noCache := flag.Bool("no-cache", false, "bypass the local cache entirely")
	clearCache := flag.Bool("clear-cache", false, "remove the cache directory and exit")
	flag.Parse()

	cfg := config{}
	if err := loadConfig(&cfg); err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.DateTime,
		}),
	))

	client := monthlycandles.New(
		monthlycandles.WithCacheDir(cfg.CacheDir),
		monthlycandles.WithBaseURL(cfg.BaseURL),
		monthlycandles.WithConcurrency(cfg.Concurrency),
	)

	if *clearCache {
		if err := client.ClearCache(); err != nil {
			slog.ErrorContext(ctx, "failed to clear cache", "error", err)
			os.Exit(1)
		}
		slog.InfoContext(ctx, "cache cleared", "cache_dir", cfg.CacheDir)
		return
	}

	if *symbols == "" || *start == "" {
		flag.Usage()
		os.Exit(2)
	}

	candles, err := client.Fetch(ctx, strings.Split(*symbols, ","), *timeframe, *start, *end, !*noCache)
	if err != nil {
		slog.ErrorContext(ctx, "fetch failed", "error", err)
		os.Exit(1)
	}

	if err := writeCSV(os.Stdout, candles); err != nil {
		slog.ErrorContext(ctx, "failed to write output", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "done", "row_count", len(candles))
}

func loadConfig(config any) error {
	// Ignore error if .env is missing
	err := godotenv.Load()

	if err != nil && !os.IsNotExist(err) {
		return err
	}

	// Parse for built-in types
	if err := env.Parse(config); err != nil {
		return err
	}

	return nil
}

func writeCSV(w io.Writer, candles []monthlycandles.Candle) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"symbol", "timestamp", "open", "high", "low", "close", "volume"}); err != nil {
		return err
	}

	for _, c := range candles {
		record := []string{
			c.Symbol,
			c.Timestamp.UTC().Format(time.RFC3339),
			formatValue(c.Open),
			formatValue(c.High),
			formatValue(c.Low),
			formatValue(c.Close),
			formatValue(c.Volume),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// formatValue renders a nullable column; gaps become empty fields.
func formatValue(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
