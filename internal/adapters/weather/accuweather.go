package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"weatherbot/internal/core/domain"

	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL     = "http://dataservice.accuweather.com"
	locationSearchPath = "/locations/v1/cities/search"
	dailyForecastPath  = "/forecasts/v1/daily/1day/"
	maxErrorBodyLength = 200
)

// AccuWeather provides a wrapper for the AccuWeather location search and daily forecast APIs.
type AccuWeather struct {
	baseURL string
	client  *http.Client
}

func NewAccuWeather(baseURL string, timeout time.Duration) *AccuWeather {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &AccuWeather{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Resolve searches for place and returns the first match. No ranking is applied.
func (a *AccuWeather) Resolve(ctx context.Context, place, apiKey string) (domain.Location, error) {
	params := url.Values{}
	params.Set("apikey", apiKey)
	params.Set("q", place)

	body, err := a.get(ctx, domain.StageResolve, a.baseURL+locationSearchPath+"?"+params.Encode())
	if err != nil {
		return domain.Location{}, err
	}

	var locations *[]domain.Location
	if err := json.Unmarshal(body, &locations); err != nil {
		return domain.Location{}, &domain.DecodeError{Stage: domain.StageResolve, Err: err}
	}

	if locations == nil {
		return domain.Location{}, &domain.DecodeError{
			Stage: domain.StageResolve,
			Err:   errors.New("location search returned null"),
		}
	}

	log.Debug().Str("place", place).Int("results", len(*locations)).Msg("AccuWeather location search")

	if len(*locations) == 0 {
		return domain.Location{}, &domain.LocationNotFoundError{Place: place}
	}

	location := (*locations)[0]
	if err := validateLocation(location); err != nil {
		return domain.Location{}, &domain.DecodeError{Stage: domain.StageResolve, Err: err}
	}

	return location, nil
}

func validateLocation(location domain.Location) error {
	switch {
	case location.Key == "":
		return errors.New("location without key")
	case location.LocalizedName == "":
		return errors.New("location without localized name")
	case location.Country.ID == "":
		return errors.New("location without country id")
	}

	return nil
}

// Fetch returns the one day forecast for a location key.
func (a *AccuWeather) Fetch(ctx context.Context, locationKey, apiKey string) (domain.Forecast, error) {
	params := url.Values{}
	params.Set("apikey", apiKey)

	endpoint := a.baseURL + dailyForecastPath + url.PathEscape(locationKey) + "?" + params.Encode()

	body, err := a.get(ctx, domain.StageFetch, endpoint)
	if err != nil {
		return domain.Forecast{}, err
	}

	// Headline is a pointer so an absent or null headline is told apart from an empty one.
	var response struct {
		Headline *domain.Headline `json:"Headline"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return domain.Forecast{}, &domain.DecodeError{Stage: domain.StageFetch, Err: err}
	}

	if response.Headline == nil {
		return domain.Forecast{}, &domain.DecodeError{
			Stage: domain.StageFetch,
			Err:   errors.New("forecast without headline"),
		}
	}

	forecast := domain.Forecast{Headline: *response.Headline}

	log.Debug().Str("locationKey", locationKey).Str("headline", forecast.Headline.Overview).
		Msg("AccuWeather daily forecast")

	return forecast, nil
}

func (a *AccuWeather) get(ctx context.Context, stage domain.Stage, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &domain.TransportError{Stage: stage, Err: fmt.Errorf("error creating request: %w", err)}
	}

	req.Header.Set("Accept", "application/json")

	res, err := a.client.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Stage: stage, Err: redact(err)}
	}

	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &domain.TransportError{Stage: stage, Err: fmt.Errorf("error reading response: %w", err)}
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return nil, &domain.TransportError{
			Stage:      stage,
			StatusCode: res.StatusCode,
			Err:        fmt.Errorf("unexpected response: %s", truncate(string(body))),
		}
	}

	return body, nil
}

// redact drops the request URL from client errors, it carries the api key.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("error executing request: %w", urlErr.Err)
	}

	return fmt.Errorf("error executing request: %w", err)
}

func truncate(s string) string {
	if len(s) <= maxErrorBodyLength {
		return s
	}

	return s[:maxErrorBodyLength] + "..."
}
