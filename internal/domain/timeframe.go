package domain

import (
	"errors"
	"time"
)

var ErrInvalidTimeframe = errors.New("invalid timeframe")

// Timeframe is the fixed duration of one candle bucket. Only fixed-duration
// intervals are supported; calendar-length intervals such as "1M" have no
// uniform spacing and cannot be expanded against a month calendar.
type Timeframe time.Duration

func (t Timeframe) String() string {
	return timeframeToString[t]
}

func (t Timeframe) Duration() time.Duration {
	return time.Duration(t)
}

func ParseTimeframe(s string) (Timeframe, error) {
	t, ok := stringToTimeframe[s]
	if !ok {
		return 0, ErrInvalidTimeframe
	}
	return t, nil
}

var timeframeToString = map[Timeframe]string{
	Timeframe(time.Second):        "1s",
	Timeframe(time.Minute):        "1m",
	Timeframe(time.Minute * 3):    "3m",
	Timeframe(time.Minute * 5):    "5m",
	Timeframe(time.Minute * 15):   "15m",
	Timeframe(time.Minute * 30):   "30m",
	Timeframe(time.Hour):          "1h",
	Timeframe(time.Hour * 2):      "2h",
	Timeframe(time.Hour * 4):      "4h",
	Timeframe(time.Hour * 6):      "6h",
	Timeframe(time.Hour * 8):      "8h",
	Timeframe(time.Hour * 12):     "12h",
	Timeframe(time.Hour * 24):     "1d",
	Timeframe(time.Hour * 24 * 3): "3d",
	Timeframe(time.Hour * 24 * 7): "1w",
}

var stringToTimeframe = map[string]Timeframe{
	"1s":  Timeframe(time.Second),
	"1m":  Timeframe(time.Minute),
	"3m":  Timeframe(time.Minute * 3),
	"5m":  Timeframe(time.Minute * 5),
	"15m": Timeframe(time.Minute * 15),
	"30m": Timeframe(time.Minute * 30),
	"1h":  Timeframe(time.Hour),
	"2h":  Timeframe(time.Hour * 2),
	"4h":  Timeframe(time.Hour * 4),
	"6h":  Timeframe(time.Hour * 6),
	"8h":  Timeframe(time.Hour * 8),
	"12h": Timeframe(time.Hour * 12),
	"1d":  Timeframe(time.Hour * 24),
	"3d":  Timeframe(time.Hour * 24 * 3),
	"1w":  Timeframe(time.Hour * 24 * 7),
}
