package taxjar

import "context"

// MockProvider is a test implementation of Provider.
type MockProvider struct {
	TaxForOrderFunc func(ctx context.Context, creds Credentials, params OrderParams) (*TaxBreakdown, error)
	CreateOrderFunc func(ctx context.Context, creds Credentials, params TransactionParams) error

	// Recorded calls, in order.
	TaxForOrderCalls []OrderParams
	CreateOrderCalls []TransactionParams
}

// NewMockProvider creates a mock rate provider for testing.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// TaxForOrder delegates to the configured function or returns an empty
// breakdown.
func (m *MockProvider) TaxForOrder(ctx context.Context, creds Credentials, params OrderParams) (*TaxBreakdown, error) {
	m.TaxForOrderCalls = append(m.TaxForOrderCalls, params)
	if m.TaxForOrderFunc != nil {
		return m.TaxForOrderFunc(ctx, creds, params)
	}
	return &TaxBreakdown{}, nil
}

// CreateOrder delegates to the configured function or succeeds.
func (m *MockProvider) CreateOrder(ctx context.Context, creds Credentials, params TransactionParams) error {
	m.CreateOrderCalls = append(m.CreateOrderCalls, params)
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, creds, params)
	}
	return nil
}
