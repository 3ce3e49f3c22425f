package sources

import (
	"context"
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

type circuitsKey struct{}

// circuits holds one breaker per provider for the lifetime of a single
// refresh run. Nothing carries over to the next run.
type circuits struct {
	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// WithCircuits returns a context carrying a fresh breaker set. Within that
// context a provider that has failed once is not called again.
func WithCircuits(ctx context.Context) context.Context {
	return context.WithValue(ctx, circuitsKey{}, &circuits{
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	})
}

// circuitFor returns the run's breaker for name, or a throwaway breaker when
// ctx carries no breaker set.
func circuitFor(ctx context.Context, name string) *gobreaker.CircuitBreaker {
	set, ok := ctx.Value(circuitsKey{}).(*circuits)
	if !ok {
		return newCircuitBreaker(name)
	}

	set.mu.Lock()
	defer set.mu.Unlock()

	cb, ok := set.breakers[name]
	if !ok {
		cb = newCircuitBreaker(name)
		set.breakers[name] = cb
	}
	return cb
}

func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		// Outlives any run; a breaker never half-opens within one.
		Timeout: time.Hour,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 1
		},
	})
}
