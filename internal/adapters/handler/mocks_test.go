package handler

import (
	"context"
	"weatherbot/internal/core/domain"
	"weatherbot/internal/core/port"

	"github.com/stretchr/testify/mock"
)

type MockDispatcher struct {
	mock.Mock
	done chan struct{}
}

func newMockDispatcher() *MockDispatcher {
	return &MockDispatcher{done: make(chan struct{}, 1)}
}

func (m *MockDispatcher) Dispatch(ctx context.Context, interaction *domain.Interaction, replier port.Replier) error {
	args := m.Called(ctx, interaction, replier)
	m.done <- struct{}{}
	return args.Error(0)
}
