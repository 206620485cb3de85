package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/phrazzld/places-api/internal/domain"
	"github.com/phrazzld/places-api/internal/platform/logger"
	"github.com/phrazzld/places-api/internal/redact"
)

// GoogleGeocoder resolves addresses with the Google Geocoding API.
type GoogleGeocoder struct {
	client  *http.Client
	baseURL string
	apiKey  string
	logger  *slog.Logger
}

// NewGoogleGeocoder creates a GoogleGeocoder. baseURL is the JSON endpoint,
// normally https://maps.googleapis.com/maps/api/geocode/json.
func NewGoogleGeocoder(client *http.Client, baseURL, apiKey string, logger *slog.Logger) *GoogleGeocoder {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GoogleGeocoder{
		client:  client,
		baseURL: baseURL,
		apiKey:  apiKey,
		logger:  logger.With(slog.String("component", "google_geocoder")),
	}
}

type googleResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Geometry struct {
			Location domain.Location `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode implements Geocoder.
func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (domain.Location, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	address = strings.TrimSpace(address)
	if address == "" {
		return domain.Location{}, ErrEmptyAddress
	}

	query := url.Values{}
	query.Set("address", address)
	query.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return domain.Location{}, fmt.Errorf("failed to build geocoding request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		// *url.Error repeats the request URL, which carries the API key.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		log.Warn("geocoding request failed", slog.String("error", redact.Error(err)))
		return domain.Location{}, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		log.Warn("geocoding provider returned error status", slog.Int("status", resp.StatusCode))
		return domain.Location{}, fmt.Errorf("geocoding provider returned status %d", resp.StatusCode)
	}

	var body googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Location{}, fmt.Errorf("failed to decode geocoding response: %w", err)
	}

	if body.Status != "OK" || len(body.Results) == 0 {
		log.Debug("address not resolved",
			slog.String("status", body.Status),
			slog.String("provider_message", body.ErrorMessage))
		return domain.Location{}, fmt.Errorf("%w: %s", ErrNoResults, body.Status)
	}

	loc := body.Results[0].Geometry.Location
	if err := loc.Validate(); err != nil {
		return domain.Location{}, err
	}
	return loc, nil
}
