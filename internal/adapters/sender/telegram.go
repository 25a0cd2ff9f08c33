package sender

import (
	"context"
	"fmt"
	"unicode/utf8"
	"weatherbot/internal/core/domain"
	"weatherbot/internal/core/port"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

const TelegramMessageLimit = 4096

type TelegramBot interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SetMyCommands(ctx context.Context, params *bot.SetMyCommandsParams) (bool, error)
}

type Telegram struct {
	bot TelegramBot
}

func NewTelegram(bot TelegramBot) *Telegram {
	return &Telegram{bot: bot}
}

// SendMessageReply sends text as a reply to a message. Text over the message limit is cut off
// so that a response is always exactly one message.
func (s *Telegram) SendMessageReply(ctx context.Context, chatID int64, messageID int, text string) error {
	text, truncated := truncate(text, TelegramMessageLimit)
	if truncated {
		log.Warn().Int64("chatId", chatID).Msg("truncated reply to message limit")
	}

	_, err := s.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
		ReplyParameters: &models.ReplyParameters{
			MessageID: messageID,
			ChatID:    chatID,
		},
	})

	return err
}

// Replier binds a reply to one incoming message.
func (s *Telegram) Replier(chatID int64, messageID int) port.Replier {
	return port.ReplierFunc(func(ctx context.Context, text string) error {
		return s.SendMessageReply(ctx, chatID, messageID, text)
	})
}

func (s *Telegram) DeclareCommands(ctx context.Context, commands []domain.CommandDescriptor) error {
	botCommands := make([]models.BotCommand, len(commands))

	for i, command := range commands {
		description := command.Description
		if command.Argument != nil {
			description = fmt.Sprintf("%s <%s>", description, command.Argument.Name)
		}

		botCommands[i] = models.BotCommand{
			Command:     command.Name,
			Description: description,
		}
	}

	ok, err := s.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{Commands: botCommands})
	if err != nil {
		return fmt.Errorf("setMyCommands failed: %w", err)
	}

	if !ok {
		return fmt.Errorf("setMyCommands was not accepted")
	}

	return nil
}

func truncate(text string, limit int) (string, bool) {
	if utf8.RuneCountInString(text) <= limit {
		return text, false
	}

	return string([]rune(text)[:limit]), true
}
