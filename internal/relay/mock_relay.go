package relay

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockRelay is a mock implementation of Relay using testify/mock.
type MockRelay struct {
	mock.Mock
}

func (m *MockRelay) Publish(ctx context.Context, subject string, payload []byte) error {
	args := m.Called(ctx, subject, payload)
	return args.Error(0)
}

func (m *MockRelay) Close() error {
	args := m.Called()
	return args.Error(0)
}
