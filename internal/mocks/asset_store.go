package mocks

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// MockAssetStore is an in-memory service.AssetStore.
type MockAssetStore struct {
	SaveErr   error
	DeleteErr error

	mu      sync.Mutex
	seq     int
	objects map[string][]byte
	Deleted []string
}

// Save implements the service.AssetStore interface
func (m *MockAssetStore) Save(ctx context.Context, ext string, r io.Reader) (string, error) {
	if m.SaveErr != nil {
		return "", m.SaveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.objects == nil {
		m.objects = make(map[string][]byte)
	}
	m.seq++
	ref := fmt.Sprintf("/uploads/images/%d%s", m.seq, ext)
	m.objects[ref] = data
	return ref, nil
}

// Delete implements the service.AssetStore interface
func (m *MockAssetStore) Delete(ctx context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deleted = append(m.Deleted, ref)
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.objects, ref)
	return nil
}

// Stored returns the references currently held.
func (m *MockAssetStore) Stored() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	refs := make([]string, 0, len(m.objects))
	for ref := range m.objects {
		refs = append(refs, ref)
	}
	return refs
}
