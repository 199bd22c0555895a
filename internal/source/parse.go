package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/gsmit/monthly-candles/internal/domain"
)

var ErrMalformedRow = errors.New("malformed row")

// The archive rows are headerless and comma-delimited with a fixed layout:
// open time (epoch ms), open, high, low, close, volume, close time, quote
// asset volume, number of trades, taker buy volume, taker buy quote volume,
// ignore.
const columnCount = 12

var (
	discardedIntColumns   = []int{6, 8, 11}
	discardedFloatColumns = []int{7, 9, 10}
)

// ParseRecords reads kline rows from r into typed candles tagged with symbol,
// keeping only the OHLCV columns. A row with the wrong column count or an
// unparsable value fails the whole parse; there is no best-effort recovery.
func ParseRecords(r io.Reader, symbol string) ([]domain.Candle, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = columnCount

	candles := []domain.Candle{}
	for line := 1; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRow, err)
		}

		candle, err := parseRow(record, symbol)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedRow, line, err)
		}
		candles = append(candles, candle)
	}
	return candles, nil
}

func parseRow(record []string, symbol string) (domain.Candle, error) {
	ts, err := strconv.ParseInt(record[0], 10, 64)
	if err != nil {
		return domain.Candle{}, fmt.Errorf("timestamp: %w", err)
	}

	values := make([]float64, 5)
	names := [5]string{"open", "high", "low", "close", "volume"}
	for i := range values {
		values[i], err = strconv.ParseFloat(record[i+1], 64)
		if err != nil {
			return domain.Candle{}, fmt.Errorf("%s: %w", names[i], err)
		}
	}

	// The remaining columns are typed but projected away.
	for _, i := range discardedIntColumns {
		if _, err := strconv.ParseInt(record[i], 10, 64); err != nil {
			return domain.Candle{}, fmt.Errorf("column %d: %w", i, err)
		}
	}
	for _, i := range discardedFloatColumns {
		if _, err := strconv.ParseFloat(record[i], 64); err != nil {
			return domain.Candle{}, fmt.Errorf("column %d: %w", i, err)
		}
	}

	return domain.Candle{
		Timestamp: time.UnixMilli(ts).UTC(),
		Symbol:    symbol,
		Open:      &values[0],
		High:      &values[1],
		Low:       &values[2],
		Close:     &values[3],
		Volume:    &values[4],
	}, nil
}
