package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/places-api/internal/domain"
	"github.com/phrazzld/places-api/internal/service"
)

// MockPlaceService implements service.PlaceService for testing
type MockPlaceService struct {
	CreatePlaceFn      func(ctx context.Context, input service.CreatePlaceInput) (*domain.Place, error)
	GetPlaceFn         func(ctx context.Context, placeID uuid.UUID) (*domain.Place, error)
	ListPlacesByUserFn func(ctx context.Context, userID uuid.UUID) ([]*domain.Place, error)
	UpdatePlaceFn      func(ctx context.Context, placeID, callerID uuid.UUID, title, description string) (*domain.Place, error)
	DeletePlaceFn      func(ctx context.Context, placeID, callerID uuid.UUID) error

	mu           sync.Mutex
	CreateInputs []service.CreatePlaceInput
	DeleteCalls  []uuid.UUID
}

// CreatePlace implements the service.PlaceService interface
func (m *MockPlaceService) CreatePlace(ctx context.Context, input service.CreatePlaceInput) (*domain.Place, error) {
	m.mu.Lock()
	m.CreateInputs = append(m.CreateInputs, input)
	m.mu.Unlock()

	if m.CreatePlaceFn != nil {
		return m.CreatePlaceFn(ctx, input)
	}
	return nil, nil
}

// GetPlace implements the service.PlaceService interface
func (m *MockPlaceService) GetPlace(ctx context.Context, placeID uuid.UUID) (*domain.Place, error) {
	if m.GetPlaceFn != nil {
		return m.GetPlaceFn(ctx, placeID)
	}
	return nil, nil
}

// ListPlacesByUser implements the service.PlaceService interface
func (m *MockPlaceService) ListPlacesByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Place, error) {
	if m.ListPlacesByUserFn != nil {
		return m.ListPlacesByUserFn(ctx, userID)
	}
	return nil, nil
}

// UpdatePlace implements the service.PlaceService interface
func (m *MockPlaceService) UpdatePlace(
	ctx context.Context,
	placeID, callerID uuid.UUID,
	title, description string,
) (*domain.Place, error) {
	if m.UpdatePlaceFn != nil {
		return m.UpdatePlaceFn(ctx, placeID, callerID, title, description)
	}
	return nil, nil
}

// DeletePlace implements the service.PlaceService interface
func (m *MockPlaceService) DeletePlace(ctx context.Context, placeID, callerID uuid.UUID) error {
	m.mu.Lock()
	m.DeleteCalls = append(m.DeleteCalls, placeID)
	m.mu.Unlock()

	if m.DeletePlaceFn != nil {
		return m.DeletePlaceFn(ctx, placeID, callerID)
	}
	return nil
}
