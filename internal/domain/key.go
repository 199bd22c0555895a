package domain

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// Key identifies one unit of fetch/cache work: a single symbol, timeframe and
// calendar month.
type Key struct {
	Symbol    string
	Timeframe Timeframe
	Month     Month
}

func (k Key) String() string {
	return fmt.Sprintf("%s-%s-%s", k.Symbol, k.Timeframe, k.Month)
}
