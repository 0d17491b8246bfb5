package teatime

import (
	"testing"
	"time"
)

func at(hour, min, sec int) time.Time {
	return time.Date(2026, time.March, 10, hour, min, sec, 0, time.UTC)
}

// TestEvaluateBoundaries checks the three boundary instants around a 17:00+10m window.
func TestEvaluateBoundaries(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		now  time.Time
		open bool
	}{
		{"one second before opening", at(16, 59, 59), false},
		{"opening instant", at(17, 0, 0), true},
		{"inside window", at(17, 5, 30), true},
		{"last open second", at(17, 9, 59), true},
		{"closing instant", at(17, 10, 0), false},
		{"well after closing", at(22, 0, 0), false},
		{"morning", at(9, 0, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.now, cfg)
			if got.WindowOpen != tt.open {
				t.Fatalf("Evaluate(%v).WindowOpen = %v, want %v", tt.now, got.WindowOpen, tt.open)
			}
		})
	}
}

// TestEvaluateNextOpenRollsToTomorrow verifies the countdown targets tomorrow once today's opening has passed.
func TestEvaluateNextOpenRollsToTomorrow(t *testing.T) {
	cfg := DefaultConfig()

	now := at(17, 30, 0)
	got := Evaluate(now, cfg)

	wantNext := at(17, 0, 0).AddDate(0, 0, 1)
	wantSeconds := int(wantNext.Sub(now) / time.Second)
	if got.SecondsUntilNextOpen != wantSeconds {
		t.Fatalf("SecondsUntilNextOpen = %d, want %d", got.SecondsUntilNextOpen, wantSeconds)
	}
}

// TestEvaluateNextOpenBeforeWindow verifies the countdown targets today's opening before the window.
func TestEvaluateNextOpenBeforeWindow(t *testing.T) {
	cfg := DefaultConfig()

	now := at(16, 59, 0)
	got := Evaluate(now, cfg)

	if got.SecondsUntilNextOpen != 60 {
		t.Fatalf("SecondsUntilNextOpen = %d, want 60", got.SecondsUntilNextOpen)
	}
	if !got.OpensAt.Equal(at(17, 0, 0)) {
		t.Fatalf("OpensAt = %v, want %v", got.OpensAt, at(17, 0, 0))
	}
	if !got.ClosesAt.Equal(at(17, 10, 0)) {
		t.Fatalf("ClosesAt = %v, want %v", got.ClosesAt, at(17, 10, 0))
	}
}

// TestEvaluateCustomWindow exercises a non-default window configuration.
func TestEvaluateCustomWindow(t *testing.T) {
	cfg := Config{Hour: 9, Minute: 30, SubmissionWindowMinutes: 5}

	if got := Evaluate(at(9, 30, 0), cfg); !got.WindowOpen {
		t.Fatal("expected window open at 09:30:00")
	}
	if got := Evaluate(at(9, 35, 0), cfg); got.WindowOpen {
		t.Fatal("expected window closed at 09:35:00")
	}
}

// TestEvaluateInsideWindowCountsDownToTomorrow ensures the countdown never goes negative inside the window.
func TestEvaluateInsideWindowCountsDownToTomorrow(t *testing.T) {
	cfg := DefaultConfig()

	got := Evaluate(at(17, 2, 0), cfg)
	if got.SecondsUntilNextOpen <= 0 {
		t.Fatalf("SecondsUntilNextOpen = %d, want positive", got.SecondsUntilNextOpen)
	}
}

func TestDateKey(t *testing.T) {
	if got := DateKey(at(17, 0, 0)); got != "2026-03-10" {
		t.Fatalf("DateKey = %q, want 2026-03-10", got)
	}
}
