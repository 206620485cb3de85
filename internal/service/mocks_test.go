package service

import (
	"context"
	"database/sql"
	"io"

	"github.com/google/uuid"
	"github.com/phrazzld/places-api/internal/domain"
	"github.com/phrazzld/places-api/internal/service/auth"
	"github.com/phrazzld/places-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockUserStore mocks the store.UserStore interface. WithTx returns the same mock.
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) List(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *MockUserStore) AddPlace(ctx context.Context, userID, placeID uuid.UUID) error {
	args := m.Called(ctx, userID, placeID)
	return args.Error(0)
}

func (m *MockUserStore) RemovePlace(ctx context.Context, userID, placeID uuid.UUID) error {
	args := m.Called(ctx, userID, placeID)
	return args.Error(0)
}

func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}

// MockPlaceStore mocks the store.PlaceStore interface. WithTx returns the same mock.
type MockPlaceStore struct {
	mock.Mock
}

func (m *MockPlaceStore) Create(ctx context.Context, place *domain.Place) error {
	args := m.Called(ctx, place)
	return args.Error(0)
}

func (m *MockPlaceStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Place, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Place), args.Error(1)
}

func (m *MockPlaceStore) ListByCreator(ctx context.Context, userID uuid.UUID) ([]*domain.Place, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Place), args.Error(1)
}

func (m *MockPlaceStore) Update(ctx context.Context, place *domain.Place) error {
	args := m.Called(ctx, place)
	return args.Error(0)
}

func (m *MockPlaceStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPlaceStore) WithTx(tx *sql.Tx) store.PlaceStore {
	return m
}

// MockGeocoder mocks the Geocoder interface
type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Geocode(ctx context.Context, address string) (domain.Location, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(domain.Location), args.Error(1)
}

// MockAssetStore mocks the AssetStore interface
type MockAssetStore struct {
	mock.Mock
}

func (m *MockAssetStore) Save(ctx context.Context, ext string, r io.Reader) (string, error) {
	args := m.Called(ctx, ext, r)
	return args.String(0), args.Error(1)
}

func (m *MockAssetStore) Delete(ctx context.Context, ref string) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}

// MockCredentialService mocks the auth.CredentialService interface
type MockCredentialService struct {
	mock.Mock
}

func (m *MockCredentialService) Hash(ctx context.Context, plaintext string) (string, error) {
	args := m.Called(ctx, plaintext)
	return args.String(0), args.Error(1)
}

func (m *MockCredentialService) Verify(ctx context.Context, plaintext, digest string) (bool, error) {
	args := m.Called(ctx, plaintext, digest)
	return args.Bool(0), args.Error(1)
}

// MockTokenService mocks the auth.TokenService interface
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateToken(ctx context.Context, userID uuid.UUID, email string) (string, error) {
	args := m.Called(ctx, userID, email)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Claims), args.Error(1)
}
