package mtgban

import (
	"time"

	"github.com/shopspring/decimal"
)

type LogCallbackFunc func(format string, a ...interface{})

// Round to cents, the same way prices are displayed
func roundPrice(value float64) float64 {
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}

func DateEqual(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
