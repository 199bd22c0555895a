// Package calendar reconciles parsed candles against the complete set of
// bucket timestamps for a month.
package calendar

import (
	"github.com/gsmit/monthly-candles/internal/domain"
)

// Expand left-joins candles onto the full ascending sequence of bucket
// timestamps in [month start, next month start) at the key's timeframe
// spacing. Every expected timestamp appears exactly once in the output;
// OHLCV values are taken from the matching candle where one exists and are
// nil otherwise. Candles outside the month are dropped, and the input order
// never affects the output order.
func Expand(key domain.Key, candles []domain.Candle) []domain.Candle {
	byTime := make(map[int64]domain.Candle, len(candles))
	for _, c := range candles {
		byTime[c.Timestamp.UnixMilli()] = c
	}

	start := key.Month.Start()
	end := key.Month.Next().Start()
	step := key.Timeframe.Duration()

	out := make([]domain.Candle, 0, end.Sub(start)/step)
	for ts := start; ts.Before(end); ts = ts.Add(step) {
		row := domain.Candle{Timestamp: ts, Symbol: key.Symbol}
		if c, ok := byTime[ts.UnixMilli()]; ok {
			row.Open, row.High, row.Low, row.Close, row.Volume = c.Open, c.High, c.Low, c.Close, c.Volume
		}
		out = append(out, row)
	}
	return out
}

// BucketCount returns the number of timeframe-spaced buckets in the month.
func BucketCount(month domain.Month, timeframe domain.Timeframe) int {
	return int(month.Next().Start().Sub(month.Start()) / timeframe.Duration())
}
