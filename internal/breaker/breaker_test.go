package breaker

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testBreaker(t *testing.T) (*Breaker, *time.Time) {
	t.Helper()
	now := time.Unix(1000000, 0)
	b := New("test", Config{
		FailureThreshold: 5,
		Timeout:          300 * time.Second,
		HalfOpenRequests: 2,
	}, testLogger())
	b.now = func() time.Time { return now }
	return b, &now
}

var errBoom = errors.New("boom")

func fail() error    { return errBoom }
func succeed() error { return nil }

func TestBreakerOpensAtThreshold(t *testing.T) {
	b, _ := testBreaker(t)

	for i := 0; i < 4; i++ {
		if err := b.Do(fail); !errors.Is(err, errBoom) {
			t.Fatalf("call %d: expected wrapped failure, got %v", i, err)
		}
		if b.Status().State != StateClosed {
			t.Fatalf("call %d: breaker opened early, state %s", i, b.Status().State)
		}
	}

	// Fifth failure trips the breaker.
	if err := b.Do(fail); !errors.Is(err, errBoom) {
		t.Fatalf("expected failure passthrough, got %v", err)
	}
	if b.Status().State != StateOpen {
		t.Fatalf("expected open after 5 failures, got %s", b.Status().State)
	}
}

func TestBreakerFailsFastWhileOpen(t *testing.T) {
	b, now := testBreaker(t)

	for i := 0; i < 5; i++ {
		b.Do(fail)
	}

	invoked := false
	err := b.Do(func() error {
		invoked = true
		return nil
	})

	var open *ErrOpen
	if !errors.As(err, &open) {
		t.Fatalf("expected ErrOpen, got %v", err)
	}
	if invoked {
		t.Error("wrapped function must not run while circuit is open")
	}

	// After the timeout the next call probes, and does invoke the function.
	*now = now.Add(300 * time.Second)
	invoked = false
	if err := b.Do(func() error {
		invoked = true
		return nil
	}); err != nil {
		t.Fatalf("probe call failed: %v", err)
	}
	if !invoked {
		t.Error("expected half-open probe to invoke the function")
	}
	if b.Status().State != StateHalfOpen {
		t.Fatalf("expected half-open, got %s", b.Status().State)
	}
}

func TestBreakerRecovery(t *testing.T) {
	b, now := testBreaker(t)

	for i := 0; i < 5; i++ {
		b.Do(fail)
	}
	*now = now.Add(301 * time.Second)

	// Two successes in half-open close the circuit and reset counters.
	b.Do(succeed)
	b.Do(succeed)

	status := b.Status()
	if status.State != StateClosed {
		t.Fatalf("expected closed after recovery, got %s", status.State)
	}
	if status.FailureCount != 0 || status.SuccessCount != 0 {
		t.Errorf("expected counters reset, got failures=%d successes=%d",
			status.FailureCount, status.SuccessCount)
	}
}

func TestBreakerReopensOnHalfOpenFailure(t *testing.T) {
	b, now := testBreaker(t)

	for i := 0; i < 5; i++ {
		b.Do(fail)
	}
	*now = now.Add(301 * time.Second)

	b.Do(succeed) // half-open, one success
	b.Do(fail)    // single failure goes straight back to open

	if b.Status().State != StateOpen {
		t.Fatalf("expected open after half-open failure, got %s", b.Status().State)
	}
}

func TestBreakerSuccessHealsFailureCount(t *testing.T) {
	b, _ := testBreaker(t)

	b.Do(fail)
	b.Do(fail)
	b.Do(succeed)

	if got := b.Status().FailureCount; got != 1 {
		t.Errorf("expected failure count healed to 1, got %d", got)
	}

	// Floor at zero.
	b.Do(succeed)
	b.Do(succeed)
	if got := b.Status().FailureCount; got != 0 {
		t.Errorf("expected failure count floored at 0, got %d", got)
	}
}

func TestBreakerReset(t *testing.T) {
	b, _ := testBreaker(t)

	for i := 0; i < 5; i++ {
		b.Do(fail)
	}
	b.Reset()

	status := b.Status()
	if status.State != StateClosed || status.FailureCount != 0 {
		t.Errorf("expected clean closed state after reset, got %+v", status)
	}
}

func TestManagerReturnsSameBreakerPerName(t *testing.T) {
	m := NewManager(DefaultConfig(), testLogger())

	a := m.Get("wikipedia")
	b := m.Get("wikipedia")
	c := m.Get("tmdb")

	if a != b {
		t.Error("expected the same breaker instance for the same name")
	}
	if a == c {
		t.Error("expected distinct breakers for distinct names")
	}

	if len(m.Statuses()) != 2 {
		t.Errorf("expected 2 statuses, got %d", len(m.Statuses()))
	}
}
