package service

import (
	"context"
	"fmt"
	"weatherbot/internal/core/domain"
	"weatherbot/internal/core/port"

	"github.com/rs/zerolog/log"
)

// Session declares the registered commands to the chat backend when the connection
// becomes ready. A failed declaration is returned and must stop the bot.
type Session struct {
	registry port.CommandRegistry
	declarer port.CommandDeclarer
}

func NewSession(registry port.CommandRegistry, declarer port.CommandDeclarer) *Session {
	return &Session{registry: registry, declarer: declarer}
}

func (s *Session) Ready(ctx context.Context) error {
	s.registry.Freeze()

	commands := s.registry.Descriptors()
	if err := s.declarer.DeclareCommands(ctx, commands); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrRegistrationFailed, err)
	}

	log.Info().Strs("commands", s.registry.ListCommands()).Msg("registered commands")

	return nil
}
