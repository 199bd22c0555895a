package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidMonth = errors.New("invalid month")
	ErrInvalidRange = errors.New("invalid month range")
)

// Month is a calendar year-month in UTC. The zero value is not a valid month;
// construct one with NewMonth or ParseMonth.
type Month struct {
	year  int
	month time.Month
}

func NewMonth(year int, month time.Month) Month {
	return Month{year: year, month: month}
}

// ParseMonth parses a zero-padded "YYYY-MM" string.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return Month{year: t.Year(), month: t.Month()}, nil
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.year, m.month)
}

// Start returns the first instant of the month.
func (m Month) Start() time.Time {
	return time.Date(m.year, m.month, 1, 0, 0, 0, 0, time.UTC)
}

// Next returns the following calendar month.
func (m Month) Next() Month {
	t := m.Start().AddDate(0, 1, 0)
	return Month{year: t.Year(), month: t.Month()}
}

func (m Month) Before(o Month) bool {
	return m.year < o.year || (m.year == o.year && m.month < o.month)
}

// MonthRange returns the inclusive ascending sequence of months from start to
// end. It fails with ErrInvalidRange when end precedes start.
func MonthRange(start, end Month) ([]Month, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %s is before %s", ErrInvalidRange, end, start)
	}

	months := []Month{}
	for m := start; !end.Before(m); m = m.Next() {
		months = append(months, m)
	}
	return months, nil
}
