package domain

import "time"

// Candle is a single OHLCV bucket. Timestamp and Symbol are always set after
// normalization; the value fields are nil for buckets the remote archive has
// no trade data for.
type Candle struct {
	Timestamp time.Time
	Symbol    string
	Open      *float64
	High      *float64
	Low       *float64
	Close     *float64
	Volume    *float64
}

// Empty reports whether the candle carries no trade data at all.
func (c *Candle) Empty() bool {
	return c.Open == nil && c.High == nil && c.Low == nil && c.Close == nil && c.Volume == nil
}
