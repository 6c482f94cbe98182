package bot

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stats is the month-to-date picture plus a naive linear projection to
// month end. Recomputed on every query, never cached. Values are exact
// decimals; rounding to two places happens only when formatting.
type Stats struct {
	TotalMonth  decimal.Decimal
	TotalToday  decimal.Decimal
	AvgDaily    decimal.Decimal
	Predicted   decimal.Decimal
	Remaining   decimal.Decimal // clamped at zero
	DaysLeft    int
	DaysInMonth int
	WillExceed  bool // projection strictly above budget
}

// Forecast projects month-end spending by scaling the average daily
// spend so far across the whole month. No weighting of recent days.
func Forecast(totalMonth, totalToday, budget decimal.Decimal, now time.Time) Stats {
	day := now.Day()
	dim := daysInMonth(now)

	avg := totalMonth.Div(decimal.NewFromInt(int64(day)))
	predicted := avg.Mul(decimal.NewFromInt(int64(dim)))
	remaining := budget.Sub(totalMonth)
	if remaining.Sign() < 0 {
		remaining = decimal.Zero
	}

	return Stats{
		TotalMonth:  totalMonth,
		TotalToday:  totalToday,
		AvgDaily:    avg,
		Predicted:   predicted,
		Remaining:   remaining,
		DaysLeft:    dim - day,
		DaysInMonth: dim,
		WillExceed:  predicted.GreaterThan(budget),
	}
}

// daysInMonth handles leap years via the day-zero-of-next-month trick.
func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
