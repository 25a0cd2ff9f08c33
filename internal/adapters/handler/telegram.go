package handler

import (
	"context"
	"strconv"
	"strings"
	"weatherbot/internal/adapters/sender"
	"weatherbot/internal/core/domain"
	"weatherbot/internal/core/port"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

// Telegram turns "/command argument" messages into interactions. Telegram does not
// restrict what users type after a slash, so only registered commands are dispatched.
type Telegram struct {
	dispatcher  port.InteractionDispatcher
	registry    port.CommandRegistry
	sender      *sender.Telegram
	botUsername string
}

func NewTelegram(dispatcher port.InteractionDispatcher, registry port.CommandRegistry, sender *sender.Telegram,
	botUsername string,
) *Telegram {
	return &Telegram{dispatcher: dispatcher, registry: registry, sender: sender, botUsername: botUsername}
}

func (t *Telegram) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	message := update.Message
	text := message.Text
	if text == "" {
		text = message.Caption
	}

	log.Debug().Str("message", text).Msg("received command")

	if !t.addressedToUs(text) {
		log.Debug().Str("message", text).Msg("command addressed to another bot")
		return
	}

	interaction := &domain.Interaction{
		ID:        strconv.Itoa(message.ID),
		Platform:  domain.Telegram,
		Command:   domain.ParseCommand(text),
		Argument:  domain.ParseCommandArgs(text),
		ChannelID: strconv.FormatInt(message.Chat.ID, 10),
		Username:  getUserNameOrFirstName(message.From),
	}

	if _, err := t.registry.Get(interaction.Command); err != nil {
		log.Debug().Err(err).Str("command", interaction.Command).Msg("ignoring undeclared command")
		return
	}

	replier := t.sender.Replier(message.Chat.ID, message.ID)

	go func() {
		err := t.dispatcher.Dispatch(ctx, interaction, replier)
		if err != nil {
			log.Debug().Err(err).Str("command", interaction.Command).Msg("interaction ended with error")
		}
	}()
}

func (t *Telegram) addressedToUs(text string) bool {
	first, _, _ := strings.Cut(strings.TrimSpace(text), " ")
	_, mention, found := strings.Cut(first, "@")
	if !found || t.botUsername == "" {
		return true
	}

	return strings.EqualFold(mention, t.botUsername)
}

func getUserNameOrFirstName(user *models.User) string {
	if user == nil {
		return ""
	}

	if user.Username == "" {
		return user.FirstName
	}

	return "@" + user.Username
}
