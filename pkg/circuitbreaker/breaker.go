// Package circuitbreaker wraps sony/gobreaker with the settings used
// for calls to external providers.
package circuitbreaker

import (
	"time"

	"github.com/sony/gobreaker/v2"
)

// ErrOpen is returned while the breaker refuses calls.
var ErrOpen = gobreaker.ErrOpenState

// New returns a breaker that opens after 5 consecutive failures and
// probes again after 30 seconds.
func New[T any](name string) *gobreaker.CircuitBreaker[T] {
	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
}
