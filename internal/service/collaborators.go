package service

import (
	"context"
	"io"

	"github.com/phrazzld/places-api/internal/domain"
)

// Geocoder resolves a free-text postal address to coordinates.
type Geocoder interface {
	// Geocode returns the location of address. Any error means the address
	// could not be resolved.
	Geocode(ctx context.Context, address string) (domain.Location, error)
}

// AssetStore keeps uploaded images.
type AssetStore interface {
	// Save stores the content read from r and returns an opaque reference to it.
	// ext is the file extension including the dot, e.g. ".png".
	Save(ctx context.Context, ext string, r io.Reader) (string, error)

	// Delete removes the asset identified by ref. Deleting a missing asset is not an error.
	Delete(ctx context.Context, ref string) error
}
