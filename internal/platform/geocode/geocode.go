// Package geocode resolves postal addresses to coordinates.
//
// GoogleGeocoder calls the Google Geocoding API, StaticGeocoder returns a fixed
// location for development, and CachedGeocoder puts Redis in front of either.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/phrazzld/places-api/internal/config"
	"github.com/phrazzld/places-api/internal/domain"
)

var (
	// ErrEmptyAddress is returned for a blank address.
	ErrEmptyAddress = errors.New("address is empty")

	// ErrNoResults is returned when the provider found no location for the address.
	ErrNoResults = errors.New("no location found for address")
)

// Geocoder resolves a free-text address to a location.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (domain.Location, error)
}

// New builds the geocoder selected by cfg, wrapped in a Redis cache when cacheCfg
// names a Redis URL. The returned close function releases the Redis client.
func New(cfg config.GeocodingConfig, cacheCfg config.CacheConfig, logger *slog.Logger) (Geocoder, func() error, error) {
	var g Geocoder
	switch cfg.Provider {
	case "static":
		g = NewStaticGeocoder(domain.Location{Lat: cfg.StaticLat, Lng: cfg.StaticLng})
	case "google":
		client := &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}
		g = NewGoogleGeocoder(client, cfg.BaseURL, cfg.APIKey, logger)
	default:
		return nil, nil, fmt.Errorf("unknown geocoding provider %q", cfg.Provider)
	}

	noop := func() error { return nil }
	if cacheCfg.RedisURL == "" {
		return g, noop, nil
	}

	opts, err := redis.ParseURL(cacheCfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	ttl := time.Duration(cacheCfg.TTLMinutes) * time.Minute
	return NewCachedGeocoder(g, client, ttl, logger), client.Close, nil
}
