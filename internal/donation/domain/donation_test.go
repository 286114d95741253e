package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParsePeriod(t *testing.T) {
	for in, want := range map[string]Period{"": PeriodAll, "WEEK": PeriodWeek, " month ": PeriodMonth, "year": PeriodYear, "all": PeriodAll} {
		got, err := ParsePeriod(in)
		if err != nil || got != want {
			t.Errorf("ParsePeriod(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParsePeriod("decade"); !errors.Is(err, ErrUnknownPeriod) {
		t.Errorf("ParsePeriod(decade) err = %v", err)
	}
}

func TestPeriod_Contains(t *testing.T) {
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		period Period
		t      time.Time
		want   bool
	}{
		{PeriodWeek, now.AddDate(0, 0, -6), true},
		{PeriodWeek, now.AddDate(0, 0, -8), false},
		{PeriodMonth, time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC), true},
		{PeriodMonth, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), false},
		{PeriodYear, time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC), true},
		{PeriodYear, now.Add(time.Hour), false},
		{PeriodAll, time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC), true},
	}
	for _, tt := range tests {
		if got := tt.period.Contains(tt.t, now); got != tt.want {
			t.Errorf("%s.Contains(%s) = %v, want %v", tt.period, tt.t.Format(time.DateOnly), got, tt.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	got := Summarize([]*Donation{
		{Units: 1, Status: StatusCompleted},
		{Units: 2, Status: StatusCompleted},
		{Units: 1, Status: StatusPending},
		{Units: 3, Status: StatusCancelled},
	})
	if got != (Stats{TotalDonations: 2, TotalUnits: 3}) {
		t.Errorf("Summarize = %+v", got)
	}
}
