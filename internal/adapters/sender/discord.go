package sender

import (
	"context"
	"fmt"
	"weatherbot/internal/core/domain"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

const DiscordMessageLimit = 2000

type DiscordSession interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse,
		options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit,
		options ...discordgo.RequestOption) (*discordgo.Message, error)
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand,
		options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// DiscordReply answers one interaction that was acknowledged with a deferred response
// by editing that response.
type DiscordReply struct {
	session     DiscordSession
	interaction *discordgo.Interaction
}

func NewDiscordReply(session DiscordSession, interaction *discordgo.Interaction) *DiscordReply {
	return &DiscordReply{session: session, interaction: interaction}
}

// Defer acknowledges the interaction so the response can take longer than Discord's
// initial response window.
func (r *DiscordReply) Defer(ctx context.Context) error {
	return r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}, discordgo.WithContext(ctx))
}

func (r *DiscordReply) Reply(ctx context.Context, text string) error {
	text, truncated := truncate(text, DiscordMessageLimit)
	if truncated {
		log.Warn().Str("interactionId", r.interaction.ID).Msg("truncated reply to message limit")
	}

	_, err := r.session.InteractionResponseEdit(r.interaction, &discordgo.WebhookEdit{
		Content: &text,
	}, discordgo.WithContext(ctx))

	return err
}

// DiscordCommands declares commands for one application, guild scoped when guildID is set.
type DiscordCommands struct {
	session DiscordSession
	appID   string
	guildID string
}

func NewDiscordCommands(session DiscordSession, appID, guildID string) *DiscordCommands {
	return &DiscordCommands{session: session, appID: appID, guildID: guildID}
}

// DeclareCommands replaces the whole command set in one bulk overwrite.
func (c *DiscordCommands) DeclareCommands(ctx context.Context, commands []domain.CommandDescriptor) error {
	created, err := c.session.ApplicationCommandBulkOverwrite(c.appID, c.guildID, ToApplicationCommands(commands),
		discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("bulk overwrite of application commands failed: %w", err)
	}

	log.Debug().Int("commands", len(created)).Str("guildId", c.guildID).Msg("application commands overwritten")

	return nil
}

func ToApplicationCommands(commands []domain.CommandDescriptor) []*discordgo.ApplicationCommand {
	applicationCommands := make([]*discordgo.ApplicationCommand, len(commands))

	for i, command := range commands {
		applicationCommands[i] = &discordgo.ApplicationCommand{
			Name:        command.Name,
			Description: command.Description,
		}

		if command.Argument != nil {
			applicationCommands[i].Options = []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        command.Argument.Name,
					Description: command.Argument.Description,
					Required:    command.Argument.Required,
				},
			}
		}
	}

	return applicationCommands
}
