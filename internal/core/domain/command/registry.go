package command

import (
	"errors"
	"slices"
	"weatherbot/internal/core/domain"
	"weatherbot/internal/core/port"

	"github.com/rs/zerolog/log"
)

// Registry maps command names to handlers. Names are case-sensitive and a second
// registration under the same name replaces the first. Registration happens during
// startup only; once frozen the registry is read-only and safe for concurrent use.
type Registry struct {
	commands map[string]port.Command
	frozen   bool
}

func (r *Registry) Register(handler port.Command) {
	if r.frozen {
		log.Error().Err(domain.ErrRegistryFrozen).Str("handler", handler.GetCommand()).
			Msg("refusing to add command handler")
		return
	}

	if r.commands == nil {
		r.commands = make(map[string]port.Command)
	}

	if _, ok := r.commands[handler.GetCommand()]; ok {
		log.Warn().Str("handler", handler.GetCommand()).Msg("replacing existing command handler")
	}

	log.Info().Str("handler", handler.GetCommand()).Msg("adding command handler to registry")
	r.commands[handler.GetCommand()] = handler
}

func (r *Registry) Get(command string) (port.Command, error) {
	log.Debug().Str("command", command).Msg("fetching command handler from registry")

	if r.commands == nil {
		err := errors.New("can't fetch command, registry not initialized")
		return nil, err
	}

	handler, ok := r.commands[command]
	if !ok {
		return nil, domain.ErrUnknownCommand
	}

	return handler, nil
}

func (r *Registry) ListCommands() []string {
	keys := make([]string, 0, len(r.commands))
	for k := range r.commands {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

func (r *Registry) Descriptors() []domain.CommandDescriptor {
	names := r.ListCommands()
	descriptors := make([]domain.CommandDescriptor, len(names))

	for i, name := range names {
		descriptors[i] = r.commands[name].Describe()
	}

	return descriptors
}

func (r *Registry) Freeze() {
	r.frozen = true
}
