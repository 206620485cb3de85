package assets

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phrazzld/places-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalFixture(t *testing.T) *LocalStore {
	t.Helper()
	testLogger, _ := logger.NewTestLogger(t)
	s, err := NewLocalStore(filepath.Join(t.TempDir(), "uploads", "images"), "/uploads/images", testLogger)
	require.NoError(t, err)
	return s
}

func TestLocalStore_SaveAndDelete(t *testing.T) {
	s := newLocalFixture(t)
	ctx := context.Background()

	ref, err := s.Save(ctx, ".PNG", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "/uploads/images/"))
	assert.True(t, strings.HasSuffix(ref, ".png"))

	stored := filepath.Join(s.Dir(), filepath.Base(ref))
	content, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(content))

	require.NoError(t, s.Delete(ctx, ref))
	_, err = os.Stat(stored)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Delete(ctx, ref), "deleting twice is harmless")
}

func TestLocalStore_UniqueNames(t *testing.T) {
	s := newLocalFixture(t)

	a, err := s.Save(context.Background(), ".jpg", strings.NewReader("a"))
	require.NoError(t, err)
	b, err := s.Save(context.Background(), ".jpg", strings.NewReader("b"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestLocalStore_RejectsUnsupportedExtension(t *testing.T) {
	s := newLocalFixture(t)

	_, err := s.Save(context.Background(), ".gif", strings.NewReader("gif"))

	assert.ErrorIs(t, err, ErrUnsupportedExtension)
	entries, readErr := os.ReadDir(s.Dir())
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestLocalStore_DeleteRejectsForeignRefs(t *testing.T) {
	s := newLocalFixture(t)

	for _, ref := range []string{
		"https://elsewhere.example/img.png",
		"/uploads/images/../../etc/passwd",
		"/uploads/images/",
	} {
		t.Run(ref, func(t *testing.T) {
			assert.ErrorIs(t, s.Delete(context.Background(), ref), ErrForeignRef)
		})
	}
}
