package geocode

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/phrazzld/places-api/internal/domain"
	"github.com/phrazzld/places-api/internal/platform/logger"
)

const cacheKeyPrefix = "geocode:"

// cacheClient is the subset of the Redis client the cache needs.
type cacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedGeocoder is a read-through Redis cache in front of another Geocoder.
// Only successful lookups are cached. Redis failures degrade to an uncached lookup.
type CachedGeocoder struct {
	next   Geocoder
	client cacheClient
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedGeocoder wraps next. A ttl of zero keeps entries until Redis evicts them.
func NewCachedGeocoder(next Geocoder, client cacheClient, ttl time.Duration, logger *slog.Logger) *CachedGeocoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedGeocoder{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "geocode_cache")),
	}
}

// Geocode implements Geocoder.
func (c *CachedGeocoder) Geocode(ctx context.Context, address string) (domain.Location, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)
	key := cacheKey(address)

	raw, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		var loc domain.Location
		if jsonErr := json.Unmarshal([]byte(raw), &loc); jsonErr == nil {
			log.Debug("geocode cache hit")
			return loc, nil
		}
		log.Warn("discarding unreadable geocode cache entry")
	case errors.Is(err, redis.Nil):
		log.Debug("geocode cache miss")
	default:
		log.Warn("geocode cache unavailable", slog.String("error", err.Error()))
	}

	loc, err := c.next.Geocode(ctx, address)
	if err != nil {
		return domain.Location{}, err
	}

	encoded, err := json.Marshal(loc)
	if err == nil {
		if err := c.client.Set(ctx, key, encoded, c.ttl).Err(); err != nil {
			log.Warn("failed to store geocode result", slog.String("error", err.Error()))
		}
	}
	return loc, nil
}

// cacheKey normalises case and whitespace so trivially different spellings share an entry.
func cacheKey(address string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(address)), " ")
	sum := sha256.Sum256([]byte(normalized))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
