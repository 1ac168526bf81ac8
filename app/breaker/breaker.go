package breaker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/FACorreiaa/go-travel-recommendations/internal/types"
)

// Breaker guards one upstream provider. It never retries: an open circuit
// fails the call immediately with types.ErrUpstream.
type Breaker struct {
	cb     *gobreaker.CircuitBreaker[any]
	name   string
	logger *slog.Logger
}

type Settings struct {
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
	HalfOpenRequests    uint32
}

func DefaultSettings() Settings {
	return Settings{ConsecutiveFailures: 5, OpenTimeout: 30 * time.Second, HalfOpenRequests: 2}
}

func New(name string, s Settings, logger *slog.Logger) *Breaker {
	b := &Breaker{name: name, logger: logger.With(slog.String("breaker", name))}
	b.cb = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: s.HalfOpenRequests,
		Interval:    time.Minute,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.ConsecutiveFailures
		},
		// A missing place or a rejected request says nothing about provider health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, types.ErrNotFound) || errors.Is(err, types.ErrValidation)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			b.logger.Warn("Circuit breaker state transition",
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})
	return b
}

func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

// Execute runs fn through the breaker of b and returns its typed result.
func Execute[T any](b *Breaker, fn func() (T, error)) (T, error) {
	var zero T
	result, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("%w: %s unavailable: %v", types.ErrUpstream, b.name, err)
		}
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker %s: unexpected result type %T", b.name, result)
	}
	return typed, nil
}
