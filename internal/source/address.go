package source

import (
	"fmt"

	"github.com/gsmit/monthly-candles/internal/domain"
)

// DefaultBaseURL is the Binance spot monthly kline archive.
const DefaultBaseURL = "https://data.binance.vision/data/spot/monthly/klines"

// ArchiveURL builds the remote locator for one key, following the archive
// layout {base}/{symbol}/{timeframe}/{symbol}-{timeframe}-{month}.zip.
// Inputs are not validated; an unknown symbol simply yields a locator the
// transport will fail to resolve.
func ArchiveURL(base string, key domain.Key) string {
	return fmt.Sprintf("%s/%s/%s/%s.zip", base, key.Symbol, key.Timeframe, key)
}
