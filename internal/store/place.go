package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/places-api/internal/domain"
)

// PlaceStore defines the interface for place data persistence.
// It never touches the owner's place set; callers that create or delete a place
// pair it with UserStore.AddPlace / RemovePlace in one transaction.
type PlaceStore interface {
	// Create saves a new place.
	// Returns ErrInvalidEntity if the creator does not exist.
	Create(ctx context.Context, place *domain.Place) error

	// GetByID retrieves a place by its unique ID.
	// Returns ErrPlaceNotFound if the place does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Place, error)

	// ListByCreator returns every place created by userID, oldest first.
	// An empty slice is returned when the user has none.
	ListByCreator(ctx context.Context, userID uuid.UUID) ([]*domain.Place, error)

	// Update persists the title, description and updated_at of an existing place.
	// Returns ErrPlaceNotFound if the place does not exist.
	Update(ctx context.Context, place *domain.Place) error

	// Delete removes a place by its ID.
	// Returns ErrPlaceNotFound if the place does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new PlaceStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) PlaceStore
}
