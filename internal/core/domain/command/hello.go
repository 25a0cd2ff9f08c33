package command

import (
	"context"
	"weatherbot/internal/core/domain"
)

type Hello struct {
	command string
}

func NewHello(command string) *Hello {
	return &Hello{command: command}
}

func (h *Hello) GetCommand() string {
	return h.command
}

func (h *Hello) Describe() domain.CommandDescriptor {
	return domain.CommandDescriptor{
		Name:        h.command,
		Description: "Say hello",
	}
}

func (h *Hello) Respond(_ context.Context, _ *domain.Interaction) (string, error) {
	return "hello", nil
}
