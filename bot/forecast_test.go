package bot

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestForecastOnTrack(t *testing.T) {
	// Day 15 of a 30-day month, budget 300, spent 150.
	now := time.Date(2025, time.April, 15, 12, 0, 0, 0, time.UTC)
	s := Forecast(dec("150"), dec("10"), dec("300"), now)

	if got := s.AvgDaily.StringFixed(2); got != "10.00" {
		t.Fatalf("AvgDaily = %s, want 10.00", got)
	}
	if got := s.Predicted.StringFixed(2); got != "300.00" {
		t.Fatalf("Predicted = %s, want 300.00", got)
	}
	if got := s.Remaining.StringFixed(2); got != "150.00" {
		t.Fatalf("Remaining = %s, want 150.00", got)
	}
	// Projection equal to budget is not over budget.
	if s.WillExceed {
		t.Fatal("WillExceed = true, want false when projection equals budget")
	}
	if s.DaysLeft != 15 || s.DaysInMonth != 30 {
		t.Fatalf("days = %d/%d, want 15/30", s.DaysLeft, s.DaysInMonth)
	}
}

func TestForecastOverBudget(t *testing.T) {
	now := time.Date(2025, time.April, 15, 12, 0, 0, 0, time.UTC)
	s := Forecast(dec("200"), decimal.Zero, dec("300"), now)

	if got := s.AvgDaily.StringFixed(2); got != "13.33" {
		t.Fatalf("AvgDaily = %s, want 13.33", got)
	}
	if got := s.Predicted.StringFixed(2); got != "400.00" {
		t.Fatalf("Predicted = %s, want 400.00", got)
	}
	if !s.WillExceed {
		t.Fatal("WillExceed = false, want true")
	}
}

func TestForecastRemainingNeverNegative(t *testing.T) {
	now := time.Date(2025, time.April, 20, 0, 0, 0, 0, time.UTC)
	s := Forecast(dec("450"), decimal.Zero, dec("300"), now)
	if !s.Remaining.IsZero() {
		t.Fatalf("Remaining = %s, want 0", s.Remaining)
	}
}

func TestForecastFirstDayOfMonth(t *testing.T) {
	now := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	s := Forecast(dec("50"), dec("50"), dec("300"), now)
	if got := s.AvgDaily.StringFixed(2); got != "50.00" {
		t.Fatalf("AvgDaily = %s, want 50.00", got)
	}
	if got := s.Predicted.StringFixed(2); got != "1500.00" {
		t.Fatalf("Predicted = %s, want 1500.00", got)
	}
}

func TestDaysInMonth(t *testing.T) {
	cases := []struct {
		y    int
		m    time.Month
		want int
	}{
		{2024, time.February, 29}, // leap
		{2025, time.February, 28},
		{2025, time.April, 30},
		{2025, time.December, 31},
		{2000, time.February, 29}, // leap (divisible by 400)
		{1900, time.February, 28}, // not leap (divisible by 100)
	}
	for _, tc := range cases {
		got := daysInMonth(time.Date(tc.y, tc.m, 10, 0, 0, 0, 0, time.UTC))
		if got != tc.want {
			t.Fatalf("daysInMonth(%d-%d) = %d, want %d", tc.y, tc.m, got, tc.want)
		}
	}
}
