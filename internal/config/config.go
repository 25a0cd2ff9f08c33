package config

import (
	"errors"
	"fmt"
	"time"
	"weatherbot/internal/adapters/weather"
	"weatherbot/internal/core/domain"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Platform       domain.Platform
	LogLevel       zerolog.Level
	LogFormat      string
	Discord        Discord
	Telegram       Telegram
	AccuWeather    AccuWeather
	WeatherEnabled bool
	HandlerTimeout time.Duration
}

type Discord struct {
	Token   string
	GuildID string
}

type Telegram struct {
	Token string
}

type AccuWeather struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

var environment = map[string]string{
	"bot.platform":        "BOT_PLATFORM",
	"bot.log_level":       "BOT_LOG_LEVEL",
	"bot.log_format":      "BOT_LOG_FORMAT",
	"discord.token":       "DISCORD_TOKEN",
	"discord.guild_id":    "DISCORD_GUILD_ID",
	"telegram.bot_token":  "TELEGRAM_TOKEN",
	"accuweather.api_key": "ACCUWEATHER_API_KEY",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.platform", string(domain.Discord))
	v.SetDefault("bot.log_level", "info")
	v.SetDefault("bot.log_format", "json")
	v.SetDefault("accuweather.base_url", weather.DefaultBaseURL)
	v.SetDefault("accuweather.timeout", "5s")
	v.SetDefault("weather.enabled", true)
	v.SetDefault("handler.timeout", "10s")
}

// Load reads config.toml from the working directory, or file when set, and applies
// environment overrides. Only an explicitly named file has to exist.
func Load(v *viper.Viper, file string) (*Config, error) {
	setDefaults(v)

	for key, env := range environment {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("could not bind %s: %w", env, err)
		}
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("toml")
	}

	log.Info().Msg("reading config file...")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("could not read config file: %w", err)
		}

		log.Info().Msg("no config file found, using defaults and environment")
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	handlerTimeout, err := time.ParseDuration(v.GetString("handler.timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid timeout for handler in config: %w", err)
	}

	weatherTimeout, err := time.ParseDuration(v.GetString("accuweather.timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid timeout for accuweather in config: %w", err)
	}

	cfg := &Config{
		Platform:  domain.Platform(v.GetString("bot.platform")),
		LogLevel:  parseLevel(v.GetString("bot.log_level")),
		LogFormat: v.GetString("bot.log_format"),
		Discord: Discord{
			Token:   v.GetString("discord.token"),
			GuildID: v.GetString("discord.guild_id"),
		},
		Telegram: Telegram{
			Token: v.GetString("telegram.bot_token"),
		},
		AccuWeather: AccuWeather{
			APIKey:  v.GetString("accuweather.api_key"),
			BaseURL: v.GetString("accuweather.base_url"),
			Timeout: weatherTimeout,
		},
		WeatherEnabled: v.GetBool("weather.enabled"),
		HandlerTimeout: handlerTimeout,
	}

	return cfg, nil
}

// Validate checks that every credential the configured bot needs is present.
func (c *Config) Validate() error {
	switch c.Platform {
	case domain.Discord:
		if c.Discord.Token == "" {
			return missing("discord.token")
		}
	case domain.Telegram:
		if c.Telegram.Token == "" {
			return missing("telegram.bot_token")
		}
	default:
		return fmt.Errorf("unsupported platform %q", c.Platform)
	}

	return c.ValidateWeather()
}

func (c *Config) ValidateWeather() error {
	if c.WeatherEnabled && c.AccuWeather.APIKey == "" {
		return missing("accuweather.api_key")
	}

	return nil
}

func missing(key string) error {
	return fmt.Errorf("%w: %s (env %s)", domain.ErrMissingCredential, key, environment[key])
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
