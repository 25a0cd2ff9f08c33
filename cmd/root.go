package cmd

import (
	"os"
	"weatherbot/internal/adapters/weather"
	"weatherbot/internal/config"
	"weatherbot/internal/core/domain/command"
	"weatherbot/internal/core/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	helloCommand    = "hello"
	forecastCommand = "forecast"
)

type options struct {
	configFile string
	debug      bool
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal().Err(err).Msg("weatherbot failed")
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "weatherbot",
		Short:         "Chat bot answering /hello and /forecast",
		Long:          "weatherbot connects to Discord or Telegram and answers slash commands, looking up forecasts on AccuWeather.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file (default ./config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "D", false, "enable debug logging")

	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newForecastCmd(opts))

	return rootCmd
}

func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load(viper.New(), opts.configFile)
	if err != nil {
		return nil, err
	}

	if opts.debug {
		cfg.LogLevel = zerolog.DebugLevel
	}

	zerolog.SetGlobalLevel(cfg.LogLevel)
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	return cfg, nil
}

// newRegistry registers hello and, unless disabled, forecast backed by AccuWeather.
func newRegistry(cfg *config.Config) *command.Registry {
	registry := &command.Registry{}
	registry.Register(command.NewHello(helloCommand))

	if cfg.WeatherEnabled {
		client := weather.NewAccuWeather(cfg.AccuWeather.BaseURL, cfg.AccuWeather.Timeout)
		forecaster := service.NewForecaster(client, client, cfg.AccuWeather.APIKey, nil)
		registry.Register(command.NewForecast(forecaster, forecastCommand))
	}

	return registry
}
