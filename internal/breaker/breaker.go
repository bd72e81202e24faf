// Package breaker provides failure isolation for external dependencies.
//
// Each named dependency (wikipedia, tmdb, cagematch, ...) gets its own
// breaker. State is purely in-process; a restarted bot starts with all
// circuits closed.
package breaker

import (
	"fmt"
	"log/slog"
	"time"
)

// State is the circuit state for one dependency.
type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half_open"
)

// Config holds breaker thresholds.
type Config struct {
	FailureThreshold int           // consecutive-ish failures before opening
	Timeout          time.Duration // how long an open circuit blocks calls
	HalfOpenRequests int           // successes needed in half-open to close
}

// DefaultConfig returns the thresholds the bot runs with in production.
func DefaultConfig() Config {
	return Config{
		FailureThreshold: 5,
		Timeout:          300 * time.Second,
		HalfOpenRequests: 2,
	}
}

// ErrOpen is returned when a call is rejected because the circuit is open.
type ErrOpen struct {
	Name string
}

func (e *ErrOpen) Error() string {
	return fmt.Sprintf("circuit breaker %q is open", e.Name)
}

// Status is a point-in-time snapshot for observability.
type Status struct {
	Name            string    `json:"name"`
	State           State     `json:"state"`
	FailureCount    int       `json:"failure_count"`
	SuccessCount    int       `json:"success_count"`
	LastFailureTime time.Time `json:"last_failure_time"`
}

// Breaker wraps a fallible operation with CLOSED/OPEN/HALF_OPEN state.
// The bot is single-threaded, so the breaker does no locking of its own.
type Breaker struct {
	name   string
	cfg    Config
	logger *slog.Logger

	state        State
	failureCount int
	successCount int
	lastFailure  time.Time

	now func() time.Time // overridable in tests
}

// New creates a breaker for one named dependency.
func New(name string, cfg Config, logger *slog.Logger) *Breaker {
	return &Breaker{
		name:   name,
		cfg:    cfg,
		logger: logger,
		state:  StateClosed,
		now:    time.Now,
	}
}

// Do executes fn if the circuit allows it, recording the outcome.
func (b *Breaker) Do(fn func() error) error {
	if !b.allow() {
		return &ErrOpen{Name: b.name}
	}

	if err := fn(); err != nil {
		b.recordFailure()
		return err
	}

	b.recordSuccess()
	return nil
}

// allow reports whether a call may proceed, transitioning OPEN -> HALF_OPEN
// once the timeout has elapsed.
func (b *Breaker) allow() bool {
	switch b.state {
	case StateClosed:
		return true
	case StateOpen:
		if b.now().Sub(b.lastFailure) >= b.cfg.Timeout {
			b.logger.Info("circuit breaker probing recovery", "name", b.name)
			b.state = StateHalfOpen
			b.successCount = 0
			return true
		}
		return false
	case StateHalfOpen:
		return true
	}
	return false
}

func (b *Breaker) recordSuccess() {
	switch b.state {
	case StateHalfOpen:
		b.successCount++
		if b.successCount >= b.cfg.HalfOpenRequests {
			b.logger.Info("circuit breaker closed", "name", b.name)
			b.state = StateClosed
			b.failureCount = 0
			b.successCount = 0
		}
	case StateClosed:
		// Successes heal the tally gradually rather than resetting it,
		// so a flaky dependency still trips the breaker eventually.
		if b.failureCount > 0 {
			b.failureCount--
		}
	}
}

func (b *Breaker) recordFailure() {
	b.failureCount++
	b.lastFailure = b.now()

	switch b.state {
	case StateHalfOpen:
		b.logger.Warn("circuit breaker reopened, recovery probe failed", "name", b.name)
		b.state = StateOpen
	case StateClosed:
		if b.failureCount >= b.cfg.FailureThreshold {
			b.logger.Error("circuit breaker opened",
				"name", b.name,
				"failures", b.failureCount,
			)
			b.state = StateOpen
		}
	}
}

// Status returns the current breaker state and counters.
func (b *Breaker) Status() Status {
	return Status{
		Name:            b.name,
		State:           b.state,
		FailureCount:    b.failureCount,
		SuccessCount:    b.successCount,
		LastFailureTime: b.lastFailure,
	}
}

// Reset manually closes the circuit and zeroes all counters.
func (b *Breaker) Reset() {
	b.logger.Info("circuit breaker manually reset", "name", b.name)
	b.state = StateClosed
	b.failureCount = 0
	b.successCount = 0
	b.lastFailure = time.Time{}
}
