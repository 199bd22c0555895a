package monthlycandles

import (
	"time"

	"github.com/gsmit/monthly-candles/internal/domain"
)

// Candle is one OHLCV bucket. Timestamp and Symbol are always set; the value
// fields are nil for buckets the archive carried no trades for.
type Candle struct {
	Timestamp time.Time
	Symbol    string
	Open      *float64
	High      *float64
	Low       *float64
	Close     *float64
	Volume    *float64
}

func fromDomainCandles(cc []domain.Candle) []Candle {
	if cc == nil {
		return nil
	}

	candles := make([]Candle, 0, len(cc))
	for _, c := range cc {
		candles = append(candles, fromDomainCandle(c))
	}
	return candles
}

func fromDomainCandle(c domain.Candle) Candle {
	return Candle{
		Timestamp: c.Timestamp,
		Symbol:    c.Symbol,
		Open:      c.Open,
		High:      c.High,
		Low:       c.Low,
		Close:     c.Close,
		Volume:    c.Volume,
	}
}
