package geocode

import "github.com/phrazzld/places-api/internal/config"

func configFor(provider string) config.GeocodingConfig {
	return config.GeocodingConfig{
		Provider:       provider,
		APIKey:         "test-key",
		BaseURL:        "https://maps.example.test/geocode/json",
		TimeoutSeconds: 1,
		StaticLat:      10,
		StaticLng:      20,
	}
}

func cacheConfigFor(url string) config.CacheConfig {
	return config.CacheConfig{RedisURL: url, TTLMinutes: 60}
}
