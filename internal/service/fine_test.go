package service

import (
	"testing"

	"TeatimeAuthority/pkg/errors"
)

// TestAmountForOffenseDoubling verifies the doubling schedule for repeat offenses.
func TestAmountForOffenseDoubling(t *testing.T) {
	tests := []struct {
		name    string
		offense int
		want    int64
	}{
		{"first offense", 1, 500},
		{"second offense", 2, 1000},
		{"third offense", 3, 2000},
		{"fourth offense", 4, 4000},
		{"tenth offense", 10, 256000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AmountForOffense(500, 0, tt.offense); got != tt.want {
				t.Fatalf("AmountForOffense(500, 0, %d) = %d, want %d", tt.offense, got, tt.want)
			}
		})
	}
}

// TestAmountForOffenseCap verifies the optional cap clamps the doubled amount.
func TestAmountForOffenseCap(t *testing.T) {
	if got := AmountForOffense(500, 2500, 3); got != 2000 {
		t.Fatalf("AmountForOffense below cap = %d, want 2000", got)
	}
	if got := AmountForOffense(500, 2500, 4); got != 2500 {
		t.Fatalf("AmountForOffense above cap = %d, want 2500", got)
	}
	if got := AmountForOffense(500, 2500, 20); got != 2500 {
		t.Fatalf("AmountForOffense far above cap = %d, want 2500", got)
	}
}

// TestAmountForOffenseSaturation verifies uncapped doubling saturates instead of
// overflowing into a negative or zero amount.
func TestAmountForOffenseSaturation(t *testing.T) {
	for _, offense := range []int{60, 70, 200} {
		got := AmountForOffense(500, 0, offense)
		if got <= 0 {
			t.Fatalf("AmountForOffense(500, 0, %d) = %d, want positive", offense, got)
		}
	}

	if a, b := AmountForOffense(500, 0, 60), AmountForOffense(500, 0, 200); a != b {
		t.Fatalf("saturated amounts differ: offense 60 = %d, offense 200 = %d", a, b)
	}

	prev := int64(0)
	for offense := 1; offense <= 80; offense++ {
		got := AmountForOffense(500, 0, offense)
		if got < prev {
			t.Fatalf("AmountForOffense(500, 0, %d) = %d, decreased from %d", offense, got, prev)
		}
		prev = got
	}
}

// TestAmountForOffenseZeroOffense treats anything below one as the first offense.
func TestAmountForOffenseZeroOffense(t *testing.T) {
	if got := AmountForOffense(500, 0, 0); got != 500 {
		t.Fatalf("AmountForOffense(500, 0, 0) = %d, want 500", got)
	}
	if got := AmountForOffense(500, 0, -3); got != 500 {
		t.Fatalf("AmountForOffense(500, 0, -3) = %d, want 500", got)
	}
}

func TestDonationAmountFor(t *testing.T) {
	tests := []struct {
		fine  int64
		ratio float64
		want  int64
	}{
		{500, 0.1, 50},
		{1000, 0.1, 100},
		{2000, 0.1, 200},
		{555, 0.1, 56}, // rounds to nearest penny
		{500, 0.25, 125},
	}

	for _, tt := range tests {
		if got := DonationAmountFor(tt.fine, tt.ratio); got != tt.want {
			t.Fatalf("DonationAmountFor(%d, %v) = %d, want %d", tt.fine, tt.ratio, got, tt.want)
		}
	}
}

func TestDonationReceiptFeedbackFallback(t *testing.T) {
	if got := donationReceiptFeedback(""); got != errors.ReceiptRejected.Message {
		t.Fatalf("empty feedback = %q, want default rejection message", got)
	}
	if got := donationReceiptFeedback("Amount on the receipt does not match."); got != "Amount on the receipt does not match." {
		t.Fatalf("feedback overwritten: %q", got)
	}
}

func TestIsRecognizedCharity(t *testing.T) {
	for _, name := range Charities {
		if !IsRecognizedCharity(name) {
			t.Fatalf("expected %q to be recognized", name)
		}
	}

	unknown := []string{"", "Dogs Trust", "royal british legion", "National  Trust"}
	for _, name := range unknown {
		if IsRecognizedCharity(name) {
			t.Fatalf("expected %q to be rejected", name)
		}
	}
}
