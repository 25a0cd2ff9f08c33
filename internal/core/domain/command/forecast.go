package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"weatherbot/internal/core/domain"
	"weatherbot/internal/core/port"

	"github.com/rs/zerolog/log"
)

const (
	placeArgument    = "place"
	missingPlace     = "Please tell me which place to look up, e.g. `/forecast Paris`."
	notFound         = "Could not find location '%s'"
	unavailable      = "The weather service is unavailable right now, please try again later."
	unexpected       = "The weather service sent a response I could not understand."
	notConfigured    = "Weather lookups are not configured."
	lookupFailedText = "Something went wrong while looking up the forecast."
)

// Forecast answers with the day's forecast headline for a place. Lookup failures
// are turned into a reply text and never returned as errors.
type Forecast struct {
	lookup  port.WeatherLookup
	command string
}

func NewForecast(lookup port.WeatherLookup, command string) *Forecast {
	return &Forecast{lookup: lookup, command: command}
}

func (f *Forecast) GetCommand() string {
	return f.command
}

func (f *Forecast) Describe() domain.CommandDescriptor {
	return domain.CommandDescriptor{
		Name:        f.command,
		Description: "Get today's forecast for a place",
		Argument: &domain.ArgumentDescriptor{
			Name:        placeArgument,
			Description: "City or place name",
			Required:    true,
		},
	}
}

func (f *Forecast) Respond(ctx context.Context, interaction *domain.Interaction) (string, error) {
	l := log.With().
		Str("interactionId", interaction.ID).
		Str("command", f.GetCommand()).
		Logger()

	place := strings.TrimSpace(interaction.Argument)
	if place == "" {
		l.Debug().Msg("no place given")
		return missingPlace, nil
	}

	report, err := f.lookup.Lookup(ctx, place)
	if err != nil {
		l.Warn().Err(err).Str("place", place).Msg("forecast lookup failed")
		return ErrorText(err), nil
	}

	l.Debug().Str("place", place).Str("locationKey", report.Location.Key).Msg("forecast lookup succeeded")

	return report.String(), nil
}

// ErrorText maps a lookup error to the text shown to the user.
func ErrorText(err error) string {
	var (
		notFoundErr  *domain.LocationNotFoundError
		transportErr *domain.TransportError
		decodeErr    *domain.DecodeError
	)

	switch {
	case errors.As(err, &notFoundErr):
		return fmt.Sprintf(notFound, notFoundErr.Place)
	case errors.As(err, &transportErr):
		return unavailable
	case errors.As(err, &decodeErr):
		return unexpected
	case errors.Is(err, domain.ErrMissingCredential):
		return notConfigured
	case errors.Is(err, domain.ErrEmptyPlace):
		return missingPlace
	default:
		return lookupFailedText
	}
}
