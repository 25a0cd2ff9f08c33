package port

import (
	"context"
	"weatherbot/internal/core/domain"
)

type Command interface {
	// Respond handles an interaction and returns the text to answer it with.
	Respond(ctx context.Context, interaction *domain.Interaction) (string, error)
	// GetCommand retrieves the command name the handler is bound to.
	GetCommand() string
	// Describe returns the descriptor declared to the chat backend.
	Describe() domain.CommandDescriptor
}

type CommandRegistry interface {
	// Register adds a new command handler to the command registry.
	Register(handler Command)
	// Get retrieves a registered Command based on its name or returns an error if not found.
	Get(command string) (Command, error)
	// ListCommands returns the names of all registered commands.
	ListCommands() []string
	// Descriptors returns the descriptors of all registered commands, sorted by name.
	Descriptors() []domain.CommandDescriptor
	// Freeze ends the registration phase; later Register calls are rejected.
	Freeze()
}

type InteractionDispatcher interface {
	// Dispatch runs the command an interaction names and delivers its single response.
	Dispatch(ctx context.Context, interaction *domain.Interaction, replier Replier) error
}
