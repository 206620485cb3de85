// Package assets stores uploaded images and hands back the reference recorded
// on users and places.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/places-api/internal/config"
)

var (
	// ErrUnsupportedExtension is returned for file extensions other than the image types served.
	ErrUnsupportedExtension = errors.New("unsupported image extension")

	// ErrForeignRef is returned when asked to delete a reference this store did not issue.
	ErrForeignRef = errors.New("asset reference not owned by this store")
)

var allowedExtensions = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// Store saves and removes image assets.
type Store interface {
	Save(ctx context.Context, ext string, r io.Reader) (string, error)
	Delete(ctx context.Context, ref string) error
}

// New builds the Store selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (Store, error) {
	switch cfg.Driver {
	case "local":
		return NewLocalStore(cfg.LocalDir, cfg.PublicBaseURL, logger)
	case "s3":
		return NewS3StoreFromConfig(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// newObjectName returns a fresh collision-free file name for ext.
func newObjectName(ext string) (string, error) {
	ext = strings.ToLower(ext)
	if _, ok := allowedExtensions[ext]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedExtension, ext)
	}
	return uuid.NewString() + ext, nil
}

// publicRef joins the public prefix and an object name.
func publicRef(base, name string) string {
	return strings.TrimSuffix(base, "/") + "/" + name
}

// nameFromRef extracts the object name from a reference issued under base.
func nameFromRef(base, ref string) (string, error) {
	prefix := strings.TrimSuffix(base, "/") + "/"
	if !strings.HasPrefix(ref, prefix) {
		return "", fmt.Errorf("%w: %s", ErrForeignRef, ref)
	}
	name := strings.TrimPrefix(ref, prefix)
	if name == "" || name != path.Base(name) {
		return "", fmt.Errorf("%w: %s", ErrForeignRef, ref)
	}
	return name, nil
}
