package service

import (
	"testing"
	"time"

	"TeatimeAuthority/internal/model"
	"TeatimeAuthority/pkg/errors"
	"TeatimeAuthority/pkg/teatime"
)

func TestWindowConfigDefaults(t *testing.T) {
	cfg := WindowConfig()

	if cfg.Hour != 17 || cfg.Minute != 0 {
		t.Fatalf("window opens at %02d:%02d, want 17:00", cfg.Hour, cfg.Minute)
	}
	if cfg.SubmissionWindowMinutes != 10 {
		t.Fatalf("window length = %d minutes, want 10", cfg.SubmissionWindowMinutes)
	}
}

// TestWindowConfigDrivesEvaluation wires the service config through the window evaluator.
func TestWindowConfigDrivesEvaluation(t *testing.T) {
	cfg := WindowConfig()

	inWindow := time.Date(2026, time.March, 10, 17, 5, 0, 0, time.UTC)
	if eval := teatime.Evaluate(inWindow, cfg); !eval.WindowOpen {
		t.Fatal("expected window open at 17:05")
	}

	afterClose := time.Date(2026, time.March, 10, 17, 10, 0, 0, time.UTC)
	if eval := teatime.Evaluate(afterClose, cfg); eval.WindowOpen {
		t.Fatal("expected window closed at 17:10")
	}
}

func TestSubmissionLockKey(t *testing.T) {
	key := submissionLockKey(42, "2026-03-10")
	if key != "submission:42:2026-03-10" {
		t.Fatalf("submissionLockKey = %q", key)
	}
}

// TestSubmitGuard verifies a submission already under verification rejects a
// second submit, and terminal states reject any further submit.
func TestSubmitGuard(t *testing.T) {
	if err := submitGuard(model.SubmissionStatusPendingVerification); err != errors.SubmissionInProgress {
		t.Fatalf("pending_verification guard = %v, want SubmissionInProgress", err)
	}
	for _, s := range []model.SubmissionStatus{model.SubmissionStatusVerified, model.SubmissionStatusMissed} {
		if err := submitGuard(s); err != errors.InvalidTransition {
			t.Fatalf("%s guard = %v, want InvalidTransition", s, err)
		}
	}
	for _, s := range []model.SubmissionStatus{
		model.SubmissionStatusAwaitingWindow,
		model.SubmissionStatusWindowOpen,
		model.SubmissionStatusRejected,
	} {
		if err := submitGuard(s); err != nil {
			t.Fatalf("%s guard = %v, want nil", s, err)
		}
	}
}

// TestStaticProgress pins progress reporting: nothing submitted means zero, a
// concluded verification means one.
func TestStaticProgress(t *testing.T) {
	zero := []model.SubmissionStatus{
		model.SubmissionStatusAwaitingWindow,
		model.SubmissionStatusWindowOpen,
		model.SubmissionStatusPendingVerification,
		model.SubmissionStatusMissed,
	}
	for _, s := range zero {
		if got := staticProgress(s); got != 0 {
			t.Fatalf("staticProgress(%s) = %v, want 0", s, got)
		}
	}

	for _, s := range []model.SubmissionStatus{model.SubmissionStatusVerified, model.SubmissionStatusRejected} {
		if got := staticProgress(s); got != 1.0 {
			t.Fatalf("staticProgress(%s) = %v, want 1", s, got)
		}
	}
}
