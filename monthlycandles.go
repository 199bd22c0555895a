// Package monthlycandles fetches historical OHLCV candles from the Binance
// monthly kline archive, normalizes each month to a gap-free table and caches
// the normalized result on disk so every (symbol, timeframe, month) key is
// downloaded at most once.
package monthlycandles

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/afero"

	"github.com/gsmit/monthly-candles/internal/cache"
	"github.com/gsmit/monthly-candles/internal/domain"
	"github.com/gsmit/monthly-candles/internal/fetch"
	"github.com/gsmit/monthly-candles/internal/source"
)

// DefaultCacheDir is the cache namespace used when no WithCacheDir option is
// given.
const DefaultCacheDir = ".monthly-candles"

// Client fetches and caches monthly candle tables. A zero-value Client is not
// usable; construct one with New.
type Client struct {
	fetcher *fetch.Fetcher
	cache   *cache.Cache
}

type options struct {
	fs          afero.Fs
	cacheDir    string
	baseURL     string
	httpClient  *http.Client
	concurrency int
	logger      *slog.Logger
}

type Option func(*options)

// WithCacheDir sets the cache namespace directory.
func WithCacheDir(dir string) Option {
	return func(o *options) { o.cacheDir = dir }
}

// WithBaseURL overrides the remote archive base URL.
func WithBaseURL(url string) Option {
	return func(o *options) { o.baseURL = url }
}

// WithHTTPClient sets the HTTP client used for archive downloads.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

// WithFilesystem sets the filesystem the cache lives on. Tests use an
// in-memory filesystem here.
func WithFilesystem(fs afero.Fs) Option {
	return func(o *options) { o.fs = fs }
}

// WithConcurrency bounds the number of month keys fetched in parallel.
func WithConcurrency(n int) Option {
	return func(o *options) { o.concurrency = n }
}

// WithLogger sets the logger; slog.Default is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func New(opts ...Option) *Client {
	o := options{
		fs:       afero.NewOsFs(),
		cacheDir: DefaultCacheDir,
		baseURL:  source.DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(&o)
	}

	monthCache := cache.New(o.fs, o.cacheDir)
	getter := source.NewHTTPGetter(o.httpClient)
	return &Client{
		fetcher: fetch.New(getter, monthCache, o.baseURL, o.concurrency, o.logger),
		cache:   monthCache,
	}
}

// Fetch returns candles for every symbol over the inclusive month span from
// start to end, both in "YYYY-MM" form. An empty end means the single month
// start. Rows are ordered by symbol in the given order, then by ascending
// timestamp; within one symbol and month there is exactly one row per
// timeframe bucket, with nil OHLCV values where the archive had no trades.
// With useCache set, previously fetched keys are served from the local cache
// and newly fetched keys are stored there.
func (c *Client) Fetch(ctx context.Context, symbols []string, timeframe, start, end string, useCache bool) ([]Candle, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no symbols given")
	}

	tf, err := domain.ParseTimeframe(timeframe)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, timeframe)
	}

	startMonth, err := domain.ParseMonth(start)
	if err != nil {
		return nil, err
	}

	endMonth := startMonth
	if end != "" {
		endMonth, err = domain.ParseMonth(end)
		if err != nil {
			return nil, err
		}
	}

	candles, err := c.fetcher.Range(ctx, symbols, tf, startMonth, endMonth, useCache)
	if err != nil {
		return nil, err
	}
	return fromDomainCandles(candles), nil
}

// ClearCache removes the entire cache namespace. This is the only supported
// invalidation mechanism; there is no per-key eviction.
func (c *Client) ClearCache() error {
	return c.cache.Clear()
}
