package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"notedeck/internal/document"
	"notedeck/internal/provider"
)

// MockRunner is a mock implementation of Runner using testify/mock.
type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Run(ctx context.Context, doc document.Document, provCfg provider.Config, opts Options) (Result, error) {
	args := m.Called(ctx, doc, provCfg, opts)
	return args.Get(0).(Result), args.Error(1)
}
