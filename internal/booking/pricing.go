package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	day           = 24 * time.Hour
	secondsPerDay = int64(day / time.Second)
)

// wholeDays counts complete days from "from" to "to", zero when to is not
// after from. It works on unix seconds because time.Duration overflows after
// roughly 292 years.
func wholeDays(from, to time.Time) int64 {
	secs := to.Unix() - from.Unix()
	if to.Nanosecond() < from.Nanosecond() {
		secs--
	}

	if secs <= 0 {
		return 0
	}

	return secs / secondsPerDay
}

// totalPrice charges every whole night elapsed since check-in and, when the
// guest leaves after the planned check-out, rate*price for each whole day of
// overstay on top.
func totalPrice(nightly, lateFeeRate decimal.Decimal, checkIn, checkOut, now time.Time) decimal.Decimal {
	total := nightly.Mul(decimal.NewFromInt(wholeDays(checkIn, now)))

	if now.After(checkOut) {
		lateDays := decimal.NewFromInt(wholeDays(checkOut, now))
		total = total.Add(nightly.Mul(lateFeeRate).Mul(lateDays))
	}

	return total
}
