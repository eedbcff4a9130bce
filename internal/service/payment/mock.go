package payment

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

// GetSessionOutcome decides whether the provider accepts a session
// request. Swappable so tests can force either path.
type GetSessionOutcome interface {
	Accept() bool
}

// RandomOutcome refuses roughly 5% of sessions, mimicking a flaky
// provider sandbox.
type RandomOutcome struct{}

func (RandomOutcome) Accept() bool {
	return rand.Intn(100) < 95
}

// MockGateway stands in for a real provider integration.
type MockGateway struct {
	outcome GetSessionOutcome
	baseURL string
}

func NewMockGateway(baseURL string, outcome GetSessionOutcome) *MockGateway {
	if outcome == nil {
		outcome = RandomOutcome{}
	}
	return &MockGateway{outcome: outcome, baseURL: baseURL}
}

func (g *MockGateway) CreateSession(_ context.Context, ownerID string, amount decimal.Decimal) (*Session, error) {
	if !g.outcome.Accept() {
		return nil, fmt.Errorf("payment provider refused session for %s", ownerID)
	}

	id := fmt.Sprintf("PAY-%d", time.Now().UnixNano())
	return &Session{
		ID:          id,
		RedirectURL: fmt.Sprintf("%s/pay/%s?amount=%s", g.baseURL, id, amount.StringFixed(2)),
	}, nil
}
