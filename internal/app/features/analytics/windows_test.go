package analytics

import (
	"testing"
	"time"
)

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	in := time.Date(2026, 8, 31, 17, 42, 9, 12345, loc)

	got := startOfDay(in)
	want := time.Date(2026, 8, 31, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("startOfDay: got %v, want %v", got, want)
	}
	if got.Location() != loc {
		t.Error("startOfDay must keep the input location")
	}
}

func TestStartOfMonth(t *testing.T) {
	in := time.Date(2026, 8, 31, 17, 42, 0, 0, time.UTC)
	want := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	if got := startOfMonth(in); !got.Equal(want) {
		t.Errorf("startOfMonth: got %v, want %v", got, want)
	}
}

func TestMonthsBack(t *testing.T) {
	tests := []struct {
		in   time.Time
		n    int
		want time.Time
	}{
		// Six months including August spans back to March.
		{time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC), 6, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		// Window crossing a year boundary.
		{time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC), 6, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)},
		// n=1 is just the current month.
		{time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC), 1, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range tests {
		if got := monthsBack(tc.in, tc.n); !got.Equal(tc.want) {
			t.Errorf("monthsBack(%v, %d) = %v, want %v", tc.in, tc.n, got, tc.want)
		}
	}
}
