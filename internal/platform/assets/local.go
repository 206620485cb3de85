package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/phrazzld/places-api/internal/platform/logger"
)

// LocalStore keeps images in a directory served under a public URL prefix.
type LocalStore struct {
	dir     string
	baseURL string
	logger  *slog.Logger
}

// NewLocalStore creates dir if needed and returns a store writing into it.
func NewLocalStore(dir, baseURL string, logger *slog.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalStore{
		dir:     dir,
		baseURL: baseURL,
		logger:  logger.With(slog.String("component", "local_assets")),
	}, nil
}

// Dir returns the directory files are written to.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save writes r to a new file and returns its public reference.
func (s *LocalStore) Save(ctx context.Context, ext string, r io.Reader) (string, error) {
	name, err := newObjectName(ext)
	if err != nil {
		return "", err
	}

	target := filepath.Join(s.dir, name)
	f, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create asset file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(target)
		return "", fmt.Errorf("failed to write asset file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("failed to close asset file: %w", err)
	}

	ref := publicRef(s.baseURL, name)
	logger.FromContextOrDefault(ctx, s.logger).Debug("asset saved", slog.String("ref", ref))
	return ref, nil
}

// Delete removes the file behind ref. A file that is already gone is not an error.
func (s *LocalStore) Delete(ctx context.Context, ref string) error {
	name, err := nameFromRef(s.baseURL, ref)
	if err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("asset deleted", slog.String("ref", ref))
	return nil
}
