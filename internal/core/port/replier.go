package port

import (
	"context"
	"weatherbot/internal/core/domain"
)

// Replier delivers the response to one interaction.
type Replier interface {
	Reply(ctx context.Context, text string) error
}

type ReplierFunc func(ctx context.Context, text string) error

func (f ReplierFunc) Reply(ctx context.Context, text string) error {
	return f(ctx, text)
}

// CommandDeclarer publishes the command set to the chat backend in one call.
type CommandDeclarer interface {
	DeclareCommands(ctx context.Context, commands []domain.CommandDescriptor) error
}
