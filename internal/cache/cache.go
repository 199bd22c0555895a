// Package cache persists normalized month tables as one parquet file per
// (symbol, timeframe, month) key.
package cache

import (
	"fmt"
	"path"

	"github.com/parquet-go/parquet-go"
	"github.com/spf13/afero"

	"github.com/gsmit/monthly-candles/internal/domain"
)

var ErrMiss = fmt.Errorf("%w: no cache entry", domain.ErrNotFound)

const fileExtension = ".parquet"

// Cache is a keyed on-disk blob store for normalized candle tables. It
// exclusively owns its namespace directory; entries are only ever removed by
// Clear, which drops the whole namespace at once.
type Cache struct {
	fs  afero.Fs
	dir string
}

func New(fs afero.Fs, dir string) *Cache {
	return &Cache{fs: fs, dir: dir}
}

func (c *Cache) entryPath(key domain.Key) string {
	return path.Join(c.dir, key.String()+fileExtension)
}

// Load returns the table stored under key, or an error wrapping ErrMiss when
// no entry exists. It never touches the network.
func (c *Cache) Load(key domain.Key) ([]domain.Candle, error) {
	name := c.entryPath(key)

	exists, err := afero.Exists(c.fs, name)
	if err != nil {
		return nil, fmt.Errorf("stat cache entry %s: %w", key, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrMiss, key)
	}

	f, err := c.fs.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open cache entry %s: %w", key, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat cache entry %s: %w", key, err)
	}

	rows, err := parquet.Read[candleRow](f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("read cache entry %s: %w", key, err)
	}
	return toCandles(rows), nil
}

// Store durably persists the table under key, overwriting any prior entry
// and creating the namespace directory when needed.
func (c *Cache) Store(key domain.Key, candles []domain.Candle) error {
	if err := c.fs.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("create cache directory %s: %w", c.dir, err)
	}

	f, err := c.fs.Create(c.entryPath(key))
	if err != nil {
		return fmt.Errorf("create cache entry %s: %w", key, err)
	}

	if err := parquet.Write(f, toRows(candles)); err != nil {
		f.Close()
		return fmt.Errorf("write cache entry %s: %w", key, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close cache entry %s: %w", key, err)
	}
	return nil
}

// Clear removes the namespace directory and every entry within it.
func (c *Cache) Clear() error {
	if err := c.fs.RemoveAll(c.dir); err != nil {
		return fmt.Errorf("clear cache directory %s: %w", c.dir, err)
	}
	return nil
}
