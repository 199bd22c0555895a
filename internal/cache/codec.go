package cache

import (
	"time"

	"github.com/gsmit/monthly-candles/internal/domain"
)

// candleRow is the on-disk shape of one candle. The OHLCV columns are
// optional so calendar gaps survive a round trip.
type candleRow struct {
	Timestamp int64    `parquet:"timestamp"`
	Symbol    string   `parquet:"symbol,dict"`
	Open      *float64 `parquet:"open,optional"`
	High      *float64 `parquet:"high,optional"`
	Low       *float64 `parquet:"low,optional"`
	Close     *float64 `parquet:"close,optional"`
	Volume    *float64 `parquet:"volume,optional"`
}

func toRows(candles []domain.Candle) []candleRow {
	rows := make([]candleRow, 0, len(candles))
	for _, c := range candles {
		rows = append(rows, candleRow{
			Timestamp: c.Timestamp.UnixMilli(),
			Symbol:    c.Symbol,
			Open:      c.Open,
			High:      c.High,
			Low:       c.Low,
			Close:     c.Close,
			Volume:    c.Volume,
		})
	}
	return rows
}

func toCandles(rows []candleRow) []domain.Candle {
	candles := make([]domain.Candle, 0, len(rows))
	for _, r := range rows {
		candles = append(candles, domain.Candle{
			Timestamp: time.UnixMilli(r.Timestamp).UTC(),
			Symbol:    r.Symbol,
			Open:      r.Open,
			High:      r.High,
			Low:       r.Low,
			Close:     r.Close,
			Volume:    r.Volume,
		})
	}
	return candles
}
