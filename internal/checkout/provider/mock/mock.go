package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/owltechengineer/ecoceo-sub006/internal/checkout/provider"
)

// Provider is an in-memory payment processor for development and tests.
// Payment methods prefixed with "fail" are declined; everything else is
// captured immediately.
type Provider struct {
	mu      sync.Mutex
	charges map[string]int64
}

func New() *Provider {
	return &Provider{charges: make(map[string]int64)}
}

func (p *Provider) Name() string {
	return "mock"
}

func (p *Provider) Charge(_ context.Context, in *provider.ChargeInput) (*provider.ChargeResult, error) {
	if in.Amount <= 0 {
		return nil, fmt.Errorf("charge amount must be positive, got %d", in.Amount)
	}
	if strings.HasPrefix(in.PaymentMethod, "fail") {
		return nil, fmt.Errorf("card declined")
	}

	ref := "ch_" + uuid.New().String()

	p.mu.Lock()
	p.charges[ref] = in.Amount
	p.mu.Unlock()

	return &provider.ChargeResult{Reference: ref}, nil
}

func (p *Provider) Refund(_ context.Context, reference string, amount int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	charged, ok := p.charges[reference]
	if !ok {
		return fmt.Errorf("unknown charge reference %s", reference)
	}
	if amount > charged {
		return fmt.Errorf("refund %d exceeds charged amount %d", amount, charged)
	}

	p.charges[reference] = charged - amount
	return nil
}
