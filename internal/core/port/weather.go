package port

import (
	"context"
	"weatherbot/internal/core/domain"
)

type LocationResolver interface {
	// Resolve returns the first location matching place.
	Resolve(ctx context.Context, place, apiKey string) (domain.Location, error)
}

type ForecastFetcher interface {
	// Fetch returns the daily forecast for a resolved location key.
	Fetch(ctx context.Context, locationKey, apiKey string) (domain.Forecast, error)
}

type WeatherLookup interface {
	Lookup(ctx context.Context, place string) (domain.Report, error)
}
