package mocks

import (
	"context"

	"github.com/phrazzld/places-api/internal/domain"
)

// MockGeocoder resolves addresses from a fixed table.
type MockGeocoder struct {
	// Locations maps known addresses to coordinates. Unknown addresses fail with Err.
	Locations map[string]domain.Location
	// Default is returned for unknown addresses when Err is nil.
	Default domain.Location
	Err     error

	Calls []string
}

// Geocode implements the service.Geocoder interface
func (m *MockGeocoder) Geocode(ctx context.Context, address string) (domain.Location, error) {
	m.Calls = append(m.Calls, address)
	if loc, ok := m.Locations[address]; ok {
		return loc, nil
	}
	if m.Err != nil {
		return domain.Location{}, m.Err
	}
	return m.Default, nil
}
