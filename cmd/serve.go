package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"weatherbot/internal/adapters/handler"
	"weatherbot/internal/adapters/sender"
	"weatherbot/internal/adapters/telemetry"
	"weatherbot/internal/config"
	"weatherbot/internal/core/domain"
	"weatherbot/internal/core/domain/command"
	"weatherbot/internal/core/service"

	"github.com/bwmarrin/discordgo"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
)

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Connect to the chat platform and answer commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *options) error {
	log.Info().Msg("starting weatherbot...")

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tp := telemetry.NewTracerProvider()
	otel.SetTracerProvider(tp)
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Warn().Err(err).Msg("failed flushing spans")
		}
	}()

	registry := newRegistry(cfg)

	dispatcher, err := service.NewDispatcher(registry, cfg.HandlerTimeout, nil)
	if err != nil {
		return fmt.Errorf("failed initializing dispatcher: %w", err)
	}

	switch cfg.Platform {
	case domain.Telegram:
		return serveTelegram(ctx, cfg, registry, dispatcher)
	default:
		return serveDiscord(ctx, cfg, registry, dispatcher)
	}
}

func serveDiscord(ctx context.Context, cfg *config.Config, registry *command.Registry,
	dispatcher *service.Dispatcher,
) error {
	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return fmt.Errorf("failed initializing discord session: %w", err)
	}

	log.Info().Msg("connecting to discord")

	return handler.NewDiscord(dispatcher, registry, cfg.Discord.GuildID).Run(ctx, session)
}

func serveTelegram(ctx context.Context, cfg *config.Config, registry *command.Registry,
	dispatcher *service.Dispatcher,
) error {
	b, err := bot.New(cfg.Telegram.Token, bot.WithDefaultHandler(noOpHandler))
	if err != nil {
		return fmt.Errorf("failed initializing telegram bot: %w", err)
	}

	s := sender.NewTelegram(b)

	if err := service.NewSession(registry, s).Ready(ctx); err != nil {
		return err
	}

	me, err := b.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("failed fetching bot identity: %w", err)
	}

	commandHandler := handler.NewTelegram(dispatcher, registry, s, me.Username)

	b.RegisterHandler(bot.HandlerTypeMessageText, "/", bot.MatchTypePrefix, commandHandler.Handle)
	b.RegisterHandler(bot.HandlerTypePhotoCaption, "/", bot.MatchTypePrefix, commandHandler.Handle)

	log.Info().Str("username", me.Username).Msg("bot listening")
	b.Start(ctx)

	return nil
}

func noOpHandler(_ context.Context, _ *bot.Bot, _ *models.Update) {}
