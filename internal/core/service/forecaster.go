package service

import (
	"context"
	"fmt"
	"strings"
	"weatherbot/internal/core/domain"
	"weatherbot/internal/core/port"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "weatherbot/internal/core/service"

// Forecaster resolves a place to a location and then fetches that location's
// forecast. The fetch is only issued after a successful resolve.
type Forecaster struct {
	resolver port.LocationResolver
	fetcher  port.ForecastFetcher
	apiKey   string
	tracer   trace.Tracer
}

func NewForecaster(resolver port.LocationResolver, fetcher port.ForecastFetcher, apiKey string,
	tp trace.TracerProvider) *Forecaster {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	return &Forecaster{
		resolver: resolver,
		fetcher:  fetcher,
		apiKey:   apiKey,
		tracer:   tp.Tracer(instrumentationName),
	}
}

func (f *Forecaster) Lookup(ctx context.Context, place string) (domain.Report, error) {
	if f.apiKey == "" {
		return domain.Report{}, fmt.Errorf("%w: weather provider api key", domain.ErrMissingCredential)
	}

	place = strings.TrimSpace(place)
	if place == "" {
		return domain.Report{}, domain.ErrEmptyPlace
	}

	ctx, span := f.tracer.Start(ctx, "weather.lookup", trace.WithAttributes(attribute.String("weather.place", place)))
	defer span.End()

	l := log.With().Str("place", place).Logger()

	location, err := f.resolve(ctx, place)
	if err != nil {
		l.Debug().Err(err).Msg("resolving location failed")
		recordError(span, err)
		return domain.Report{}, err
	}

	forecast, err := f.fetch(ctx, location.Key)
	if err != nil {
		l.Debug().Err(err).Str("locationKey", location.Key).Msg("fetching forecast failed")
		recordError(span, err)
		return domain.Report{}, err
	}

	return domain.Report{Location: location, Forecast: forecast}, nil
}

func (f *Forecaster) resolve(ctx context.Context, place string) (domain.Location, error) {
	ctx, span := f.tracer.Start(ctx, "weather.resolve")
	defer span.End()

	location, err := f.resolver.Resolve(ctx, place, f.apiKey)
	if err != nil {
		recordError(span, err)
		return domain.Location{}, err
	}

	span.SetAttributes(attribute.String("weather.location_key", location.Key))

	return location, nil
}

func (f *Forecaster) fetch(ctx context.Context, locationKey string) (domain.Forecast, error) {
	ctx, span := f.tracer.Start(ctx, "weather.fetch",
		trace.WithAttributes(attribute.String("weather.location_key", locationKey)))
	defer span.End()

	forecast, err := f.fetcher.Fetch(ctx, locationKey, f.apiKey)
	if err != nil {
		recordError(span, err)
		return domain.Forecast{}, err
	}

	return forecast, nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
