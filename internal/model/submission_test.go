package model

import "testing"

func TestSubmissionStatusIsTerminal(t *testing.T) {
	terminal := []SubmissionStatus{
		SubmissionStatusVerified,
		SubmissionStatusMissed,
	}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Fatalf("expected %s to be terminal", s)
		}
	}

	nonTerminal := []SubmissionStatus{
		SubmissionStatusAwaitingWindow,
		SubmissionStatusWindowOpen,
		SubmissionStatusPendingVerification,
		SubmissionStatusRejected,
	}
	for _, s := range nonTerminal {
		if s.IsTerminal() {
			t.Fatalf("expected %s to be non-terminal", s)
		}
	}
}

// TestSubmissionStatusCanTransition covers every legal edge of the state machine.
func TestSubmissionStatusCanTransition(t *testing.T) {
	legal := []struct {
		from, to SubmissionStatus
	}{
		{SubmissionStatusAwaitingWindow, SubmissionStatusWindowOpen},
		{SubmissionStatusAwaitingWindow, SubmissionStatusPendingVerification},
		{SubmissionStatusAwaitingWindow, SubmissionStatusMissed},
		{SubmissionStatusWindowOpen, SubmissionStatusPendingVerification},
		{SubmissionStatusWindowOpen, SubmissionStatusMissed},
		{SubmissionStatusPendingVerification, SubmissionStatusVerified},
		{SubmissionStatusPendingVerification, SubmissionStatusRejected},
		{SubmissionStatusPendingVerification, SubmissionStatusWindowOpen},
		{SubmissionStatusPendingVerification, SubmissionStatusMissed},
		{SubmissionStatusRejected, SubmissionStatusPendingVerification},
		{SubmissionStatusRejected, SubmissionStatusMissed},
	}
	for _, tt := range legal {
		if !tt.from.CanTransition(tt.to) {
			t.Fatalf("expected %s -> %s to be legal", tt.from, tt.to)
		}
	}

	illegal := []struct {
		from, to SubmissionStatus
	}{
		{SubmissionStatusAwaitingWindow, SubmissionStatusVerified},
		{SubmissionStatusWindowOpen, SubmissionStatusVerified},
		{SubmissionStatusRejected, SubmissionStatusVerified},
		{SubmissionStatusPendingVerification, SubmissionStatusPendingVerification},
	}
	for _, tt := range illegal {
		if tt.from.CanTransition(tt.to) {
			t.Fatalf("expected %s -> %s to be illegal", tt.from, tt.to)
		}
	}
}

// TestTerminalStatusesAcceptNoTransition pins terminal-state idempotence: once a
// submission is verified or missed, no further transition may touch it.
func TestTerminalStatusesAcceptNoTransition(t *testing.T) {
	all := []SubmissionStatus{
		SubmissionStatusAwaitingWindow,
		SubmissionStatusWindowOpen,
		SubmissionStatusPendingVerification,
		SubmissionStatusVerified,
		SubmissionStatusRejected,
		SubmissionStatusMissed,
	}
	for _, terminal := range []SubmissionStatus{SubmissionStatusVerified, SubmissionStatusMissed} {
		for _, to := range all {
			if terminal.CanTransition(to) {
				t.Fatalf("terminal state %s must not transition to %s", terminal, to)
			}
		}
	}
}

// TestStatusesAllowing verifies the IN lists the conditional updates derive.
func TestStatusesAllowing(t *testing.T) {
	tests := []struct {
		to   SubmissionStatus
		want []string
	}{
		{SubmissionStatusPendingVerification, []string{"awaiting_window", "window_open", "rejected"}},
		{SubmissionStatusMissed, []string{"awaiting_window", "window_open", "pending_verification", "rejected"}},
		{SubmissionStatusVerified, []string{"pending_verification"}},
		{SubmissionStatusRejected, []string{"pending_verification"}},
		{SubmissionStatusWindowOpen, []string{"awaiting_window", "pending_verification"}},
	}

	for _, tt := range tests {
		got := StatusesAllowing(tt.to)
		if len(got) != len(tt.want) {
			t.Fatalf("StatusesAllowing(%s) = %v, want %v", tt.to, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("StatusesAllowing(%s) = %v, want %v", tt.to, got, tt.want)
			}
		}
	}
}

func TestFineStatusIsTerminal(t *testing.T) {
	if FineStatusPending.IsTerminal() {
		t.Fatal("expected pending fine to be non-terminal")
	}
	if !FineStatusPaid.IsTerminal() {
		t.Fatal("expected paid fine to be terminal")
	}
	if !FineStatusDonated.IsTerminal() {
		t.Fatal("expected donated fine to be terminal")
	}
}
