package cmd

import (
	"fmt"
	"os"
	"strings"
	"weatherbot/internal/adapters/sender"
	"weatherbot/internal/core/domain"
	"weatherbot/internal/core/service"

	"github.com/spf13/cobra"
)

func newForecastCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "forecast <place>",
		Short:   "Print today's forecast headline for a place",
		Example: "  weatherbot forecast Paris\n  weatherbot forecast New York",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			cfg.WeatherEnabled = true
			if err := cfg.ValidateWeather(); err != nil {
				return err
			}

			dispatcher, err := service.NewDispatcher(newRegistry(cfg), cfg.HandlerTimeout, nil)
			if err != nil {
				return fmt.Errorf("failed initializing dispatcher: %w", err)
			}

			interaction := &domain.Interaction{
				ID:       "cli",
				Platform: domain.Terminal,
				Command:  forecastCommand,
				Argument: strings.Join(args, " "),
				Username: os.Getenv("USER"),
			}

			return dispatcher.Dispatch(cmd.Context(), interaction, sender.NewTerminal(cmd.OutOrStdout()))
		},
	}
}
