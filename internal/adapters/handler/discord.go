package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"weatherbot/internal/adapters/sender"
	"weatherbot/internal/core/domain"
	"weatherbot/internal/core/port"
	"weatherbot/internal/core/service"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// Discord connects the gateway events to the session lifecycle and the dispatcher.
type Discord struct {
	dispatcher port.InteractionDispatcher
	registry   port.CommandRegistry
	guildID    string
	fatal      chan error
}

func NewDiscord(dispatcher port.InteractionDispatcher, registry port.CommandRegistry, guildID string) *Discord {
	return &Discord{
		dispatcher: dispatcher,
		registry:   registry,
		guildID:    guildID,
		fatal:      make(chan error, 1),
	}
}

// Run opens the gateway connection and blocks until ctx is done or command
// registration fails.
func (d *Discord) Run(ctx context.Context, s *discordgo.Session) error {
	s.Identify.Intents = discordgo.IntentsGuilds

	s.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		d.ready(ctx, s, r)
	})
	s.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		d.interactionCreate(ctx, s, i)
	})

	if err := s.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}

	defer func() {
		if err := s.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close discord session")
		}
	}()

	log.Info().Msg("bot listening")

	select {
	case <-ctx.Done():
		return nil
	case err := <-d.fatal:
		return err
	}
}

func (d *Discord) ready(ctx context.Context, s sender.DiscordSession, r *discordgo.Ready) {
	if r.User == nil {
		d.abort(errors.New("ready event without application user"))
		return
	}

	log.Info().Str("user", r.User.Username).Str("guildId", d.guildID).Msg("connected to discord")

	declarer := sender.NewDiscordCommands(s, r.User.ID, d.guildID)
	if err := service.NewSession(d.registry, declarer).Ready(ctx); err != nil {
		d.abort(err)
	}
}

func (d *Discord) abort(err error) {
	select {
	case d.fatal <- err:
	default:
	}
}

func (d *Discord) interactionCreate(ctx context.Context, s sender.DiscordSession, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	interaction := toInteraction(i)
	reply := sender.NewDiscordReply(s, i.Interaction)

	if err := reply.Defer(ctx); err != nil {
		log.Error().Err(err).Str("interactionId", i.ID).Str("command", interaction.Command).
			Msg(domain.ErrResponseDeliveryFailed.Error())
		return
	}

	if err := d.dispatcher.Dispatch(ctx, interaction, reply); err != nil {
		log.Debug().Err(err).Str("command", interaction.Command).Msg("interaction ended with error")
	}
}

func toInteraction(i *discordgo.InteractionCreate) *domain.Interaction {
	data := i.ApplicationCommandData()

	var arguments []string
	for _, option := range data.Options {
		if option.Type == discordgo.ApplicationCommandOptionString {
			arguments = append(arguments, option.StringValue())
		}
	}

	var username string
	switch {
	case i.Member != nil && i.Member.User != nil:
		username = i.Member.User.Username
	case i.User != nil:
		username = i.User.Username
	}

	return &domain.Interaction{
		ID:        i.ID,
		Platform:  domain.Discord,
		Command:   data.Name,
		Argument:  strings.Join(arguments, " "),
		ChannelID: i.ChannelID,
		Username:  username,
	}
}
