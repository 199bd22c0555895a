package fetch

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gsmit/monthly-candles/internal/cache"
	"github.com/gsmit/monthly-candles/internal/domain"
	"github.com/gsmit/monthly-candles/internal/source"
)

type getterFunc func(ctx context.Context, url string) ([]byte, error)

func (f getterFunc) Get(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}

func zipArchive(t *testing.T, name, content string) []byte {
	t.Helper()

	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	w, err := zw.Create(name)
	require.NoError(t, err)
	_, err = w.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// klineRow renders one archive row with OHLCV set to value and the discarded
// columns filled with plausible data.
func klineRow(ts time.Time, value float64) string {
	ms := ts.UnixMilli()
	return fmt.Sprintf("%d,%v,%v,%v,%v,%v,%d,%v,%d,%v,%v,%d\n",
		ms, value, value, value, value, value, ms+3599999, value, 100, value, value, 0)
}

func newTestFetcher(getter source.Getter) (*Fetcher, *cache.Cache) {
	monthCache := cache.New(afero.NewMemMapFs(), ".cache")
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return New(getter, monthCache, "http://archive.test/klines", 4, logger), monthCache
}

func febKey() domain.Key {
	return domain.Key{
		Symbol:    "BTCUSDT",
		Timeframe: domain.Timeframe(time.Hour),
		Month:     domain.NewMonth(2023, time.February),
	}
}

func TestMonthNormalizesDownload(t *testing.T) {
	ts := time.Date(2023, time.February, 1, 5, 0, 0, 0, time.UTC)
	archive := zipArchive(t, "BTCUSDT-1h-2023-02.csv", klineRow(ts, 42.5))

	var gotURL string
	getter := getterFunc(func(_ context.Context, url string) ([]byte, error) {
		gotURL = url
		return archive, nil
	})
	f, _ := newTestFetcher(getter)

	candles, err := f.Month(context.Background(), febKey(), false)
	require.NoError(t, err)
	assert.Equal(t, "http://archive.test/klines/BTCUSDT/1h/BTCUSDT-1h-2023-02.zip", gotURL)

	require.Len(t, candles, 672)
	require.NotNil(t, candles[5].Close)
	assert.Equal(t, 42.5, *candles[5].Close)
	assert.True(t, candles[6].Empty())
	assert.Equal(t, "BTCUSDT", candles[6].Symbol)
}

func TestMonthCacheShortCircuit(t *testing.T) {
	ts := time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC)
	archive := zipArchive(t, "BTCUSDT-1h-2023-02.csv", klineRow(ts, 1.0))

	var calls atomic.Int64
	getter := getterFunc(func(_ context.Context, _ string) ([]byte, error) {
		calls.Add(1)
		return archive, nil
	})
	f, _ := newTestFetcher(getter)

	first, err := f.Month(context.Background(), febKey(), true)
	require.NoError(t, err)

	second, err := f.Month(context.Background(), febKey(), true)
	require.NoError(t, err)

	assert.Equal(t, int64(1), calls.Load(), "cache hit must not invoke the transport")
	assert.Equal(t, first, second)
}

func TestMonthWithoutCacheNeverTouchesStore(t *testing.T) {
	ts := time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC)
	archive := zipArchive(t, "BTCUSDT-1h-2023-02.csv", klineRow(ts, 1.0))

	var calls atomic.Int64
	getter := getterFunc(func(_ context.Context, _ string) ([]byte, error) {
		calls.Add(1)
		return archive, nil
	})
	f, monthCache := newTestFetcher(getter)

	_, err := f.Month(context.Background(), febKey(), false)
	require.NoError(t, err)
	_, err = f.Month(context.Background(), febKey(), false)
	require.NoError(t, err)

	assert.Equal(t, int64(2), calls.Load())
	_, err = monthCache.Load(febKey())
	require.ErrorIs(t, err, cache.ErrMiss)
}

func TestMonthErrorIdentifiesKey(t *testing.T) {
	transportErr := errors.New("connection refused")
	getter := getterFunc(func(_ context.Context, _ string) ([]byte, error) {
		return nil, transportErr
	})
	f, _ := newTestFetcher(getter)

	_, err := f.Month(context.Background(), febKey(), false)
	require.ErrorIs(t, err, transportErr)
	assert.Contains(t, err.Error(), "BTCUSDT-1h-2023-02")
}

func TestMonthSurfacesArchiveErrors(t *testing.T) {
	getter := getterFunc(func(_ context.Context, _ string) ([]byte, error) {
		return []byte("not a zip"), nil
	})
	f, _ := newTestFetcher(getter)

	_, err := f.Month(context.Background(), febKey(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BTCUSDT-1h-2023-02")
}

func TestMonthSurfacesParseErrors(t *testing.T) {
	getter := getterFunc(func(_ context.Context, _ string) ([]byte, error) {
		return zipArchive(t, "bad.csv", "one,two,three\n"), nil
	})
	f, _ := newTestFetcher(getter)

	_, err := f.Month(context.Background(), febKey(), false)
	require.ErrorIs(t, err, source.ErrMalformedRow)
}

func TestRangeDeterministicOrder(t *testing.T) {
	tf := domain.Timeframe(24 * time.Hour)
	getter := getterFunc(func(_ context.Context, url string) ([]byte, error) {
		// Slow down the symbol that must come first so completion order and
		// output order diverge.
		if strings.Contains(url, "AAAUSDT") {
			time.Sleep(20 * time.Millisecond)
		}
		return zipArchive(t, "rows.csv", ""), nil
	})
	f, _ := newTestFetcher(getter)

	candles, err := f.Range(
		context.Background(),
		[]string{"AAAUSDT", "BBBUSDT"},
		tf,
		domain.NewMonth(2023, time.January),
		domain.NewMonth(2023, time.February),
		false,
	)
	require.NoError(t, err)

	// 31 January rows then 28 February rows, per symbol.
	require.Len(t, candles, 2*(31+28))
	assert.Equal(t, "AAAUSDT", candles[0].Symbol)
	assert.Equal(t, time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC), candles[0].Timestamp)
	assert.Equal(t, "AAAUSDT", candles[31].Symbol)
	assert.Equal(t, time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC), candles[31].Timestamp)
	assert.Equal(t, "BBBUSDT", candles[59].Symbol)
	assert.Equal(t, time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC), candles[59].Timestamp)
	assert.Equal(t, "BBBUSDT", candles[len(candles)-1].Symbol)
	assert.Equal(t, time.Date(2023, time.February, 28, 0, 0, 0, 0, time.UTC), candles[len(candles)-1].Timestamp)
}

func TestRangeInvalidRange(t *testing.T) {
	f, _ := newTestFetcher(getterFunc(func(_ context.Context, _ string) ([]byte, error) {
		t.Fatal("transport must not be called for an invalid range")
		return nil, nil
	}))

	_, err := f.Range(
		context.Background(),
		[]string{"BTCUSDT"},
		domain.Timeframe(time.Hour),
		domain.NewMonth(2023, time.February),
		domain.NewMonth(2023, time.January),
		false,
	)
	require.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestRangeSingleMonth(t *testing.T) {
	getter := getterFunc(func(_ context.Context, _ string) ([]byte, error) {
		return zipArchive(t, "rows.csv", ""), nil
	})
	f, _ := newTestFetcher(getter)

	month := domain.NewMonth(2023, time.May)
	candles, err := f.Range(context.Background(), []string{"BTCUSDT"}, domain.Timeframe(24*time.Hour), month, month, false)
	require.NoError(t, err)
	assert.Len(t, candles, 31)
}

func TestRangeAbortsOnKeyFailure(t *testing.T) {
	getter := getterFunc(func(_ context.Context, url string) ([]byte, error) {
		if strings.Contains(url, "2023-02") {
			return nil, fmt.Errorf("%w: 404 Not Found", source.ErrUnexpectedStatus)
		}
		return zipArchive(t, "rows.csv", ""), nil
	})
	f, _ := newTestFetcher(getter)

	_, err := f.Range(
		context.Background(),
		[]string{"BTCUSDT"},
		domain.Timeframe(24*time.Hour),
		domain.NewMonth(2023, time.January),
		domain.NewMonth(2023, time.March),
		false,
	)
	require.ErrorIs(t, err, source.ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "BTCUSDT-1d-2023-02")
}
