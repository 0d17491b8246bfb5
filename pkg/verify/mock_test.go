package verify

import (
	"context"
	"testing"
	"time"
)

// TestMockProgressMonotonic verifies progress callbacks only ever move forward and end at 1.
func TestMockProgressMonotonic(t *testing.T) {
	m := NewMockClient(42)
	m.Latency = 100 * time.Millisecond

	var values []float64
	_, err := m.Verify(context.Background(), Request{Context: ContextTea, ImageRef: "img-1"}, func(v float64) {
		values = append(values, v)
	})
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}

	if len(values) == 0 {
		t.Fatal("expected progress callbacks")
	}
	for i := 1; i < len(values); i++ {
		if values[i] < values[i-1] {
			t.Fatalf("progress went backwards: %v -> %v", values[i-1], values[i])
		}
	}
	if last := values[len(values)-1]; last != 1 {
		t.Fatalf("final progress = %v, want 1", last)
	}
}

// TestMockDeterministicWithSeed verifies the same seed yields the same verdict sequence.
func TestMockDeterministicWithSeed(t *testing.T) {
	run := func() []bool {
		m := NewMockClient(7)
		m.Latency = time.Millisecond
		var verdicts []bool
		for i := 0; i < 10; i++ {
			res, err := m.Verify(context.Background(), Request{Context: ContextTea, ImageRef: "img"}, nil)
			if err != nil {
				t.Fatalf("Verify returned error: %v", err)
			}
			verdicts = append(verdicts, res.Valid)
		}
		return verdicts
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("verdict %d differs between runs: %v vs %v", i, a[i], b[i])
		}
	}
}

// TestMockRejectionCarriesFeedback verifies a rejected verification explains itself.
func TestMockRejectionCarriesFeedback(t *testing.T) {
	m := NewMockClient(1)
	m.Latency = time.Millisecond
	m.ForceResult = &Result{Valid: false, Feedback: teaRejectionReasons[0]}

	res, err := m.Verify(context.Background(), Request{Context: ContextTea, ImageRef: "img"}, nil)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if res.Valid {
		t.Fatal("expected rejection")
	}
	if res.Feedback == "" {
		t.Fatal("expected feedback on rejection")
	}
}

// TestMockFailNext verifies the transport failure toggle returns an error and resets.
func TestMockFailNext(t *testing.T) {
	m := NewMockClient(1)
	m.Latency = time.Millisecond
	m.FailNext = true

	if _, err := m.Verify(context.Background(), Request{Context: ContextTea, ImageRef: "img"}, nil); err == nil {
		t.Fatal("expected transport error")
	}
	if _, err := m.Verify(context.Background(), Request{Context: ContextTea, ImageRef: "img"}, nil); err != nil {
		t.Fatalf("expected recovery after FailNext, got %v", err)
	}
}

// TestMockRespectsContextCancellation verifies cancellation aborts a slow verification.
func TestMockRespectsContextCancellation(t *testing.T) {
	m := NewMockClient(1)
	m.Latency = 5 * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := m.Verify(ctx, Request{Context: ContextTea, ImageRef: "img"}, nil); err == nil {
		t.Fatal("expected context error")
	}
}
