// Package fetch orchestrates the monthly retrieval pipeline: address,
// transport, archive, parse, calendar expansion and cache.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/gsmit/monthly-candles/internal/cache"
	"github.com/gsmit/monthly-candles/internal/calendar"
	"github.com/gsmit/monthly-candles/internal/domain"
	"github.com/gsmit/monthly-candles/internal/source"
)

const defaultConcurrency = 4

// Fetcher retrieves normalized month tables, one cache entry per key.
// Independent keys may be fetched in parallel; concurrent fetches of the
// same key are collapsed into a single download.
type Fetcher struct {
	getter  source.Getter
	cache   *cache.Cache
	baseURL string
	limit   int
	logger  *slog.Logger

	group singleflight.Group
}

func New(getter source.Getter, cache *cache.Cache, baseURL string, limit int, logger *slog.Logger) *Fetcher {
	if baseURL == "" {
		baseURL = source.DefaultBaseURL
	}
	if limit <= 0 {
		limit = defaultConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		getter:  getter,
		cache:   cache,
		baseURL: baseURL,
		limit:   limit,
		logger:  logger,
	}
}

// Month returns the fully normalized table for one key: cache-first when
// useCache is set, otherwise straight through the download pipeline. Errors
// carry the failing key and are never downgraded to an empty table.
func (f *Fetcher) Month(ctx context.Context, key domain.Key, useCache bool) ([]domain.Candle, error) {
	v, err, _ := f.group.Do(key.String(), func() (any, error) {
		return f.month(ctx, key, useCache)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Candle), nil
}

func (f *Fetcher) month(ctx context.Context, key domain.Key, useCache bool) ([]domain.Candle, error) {
	if useCache {
		candles, err := f.cache.Load(key)
		if err == nil {
			cacheHitsTotal.Inc()
			f.logger.DebugContext(ctx, "cache hit", "key", key.String(), "candle_count", len(candles))
			return candles, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("fetch %s: %w", key, err)
		}
		cacheMissesTotal.Inc()
	}

	url := source.ArchiveURL(f.baseURL, key)
	f.logger.DebugContext(ctx, "downloading monthly archive", "key", key.String(), "url", url)

	body, err := f.getter.Get(ctx, url)
	if err != nil {
		downloadFailuresTotal.Inc()
		return nil, fmt.Errorf("fetch %s: %w", key, err)
	}
	downloadsTotal.Inc()

	file, err := source.ExtractPrimaryFile(body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", key, err)
	}
	defer file.Close()

	records, err := source.ParseRecords(file, key.Symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", key, err)
	}

	candles := calendar.Expand(key, records)

	if useCache {
		if err := f.cache.Store(key, candles); err != nil {
			return nil, fmt.Errorf("fetch %s: %w", key, err)
		}
	}
	return candles, nil
}

// Range fetches the cross-product of symbols and the inclusive month span
// [start, end]. Keys are fetched with bounded parallelism, but the output
// always concatenates tables in the deterministic order symbols-as-given,
// months ascending, regardless of completion order. Repeated symbols are
// not deduplicated.
func (f *Fetcher) Range(ctx context.Context, symbols []string, timeframe domain.Timeframe, start, end domain.Month, useCache bool) ([]domain.Candle, error) {
	months, err := domain.MonthRange(start, end)
	if err != nil {
		return nil, err
	}

	keys := make([]domain.Key, 0, len(symbols)*len(months))
	for _, symbol := range symbols {
		for _, month := range months {
			keys = append(keys, domain.Key{Symbol: symbol, Timeframe: timeframe, Month: month})
		}
	}

	tables := make([][]domain.Candle, len(keys))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(f.limit)
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			candles, err := f.Month(gCtx, key, useCache)
			if err != nil {
				return err
			}
			tables[i] = candles
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, table := range tables {
		total += len(table)
	}
	out := make([]domain.Candle, 0, total)
	for _, table := range tables {
		out = append(out, table...)
	}
	return out, nil
}
