package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/places-api/internal/domain"
	"github.com/phrazzld/places-api/internal/platform/logger"
	"github.com/phrazzld/places-api/internal/store"
)

// CreatePlaceInput carries the fields of a new place.
type CreatePlaceInput struct {
	Title       string
	Description string
	Address     string
	ImageRef    string
	CreatorID   uuid.UUID
}

// PlaceService provides place operations. Create and delete keep the owner's
// place set in step with the place table inside one transaction.
type PlaceService interface {
	// CreatePlace geocodes the address, then inserts the place and appends it to the
	// creator's place set atomically.
	CreatePlace(ctx context.Context, input CreatePlaceInput) (*domain.Place, error)

	// GetPlace retrieves a place by its ID.
	GetPlace(ctx context.Context, placeID uuid.UUID) (*domain.Place, error)

	// ListPlacesByUser returns the places created by userID.
	// A user with no places is reported as not found.
	ListPlacesByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Place, error)

	// UpdatePlace overwrites title and description of a place owned by callerID.
	UpdatePlace(ctx context.Context, placeID, callerID uuid.UUID, title, description string) (*domain.Place, error)

	// DeletePlace removes a place owned by callerID and drops it from the owner's
	// place set atomically. The place image is removed after the commit.
	DeletePlace(ctx context.Context, placeID, callerID uuid.UUID) error
}

// placeServiceImpl implements the PlaceService interface
type placeServiceImpl struct {
	db         *sql.DB
	placeStore store.PlaceStore
	userStore  store.UserStore
	geocoder   Geocoder
	assets     AssetStore
	retry      store.RetryPolicy
	logger     *slog.Logger
}

// NewPlaceService creates a new PlaceService.
// It returns an error if any of the required dependencies are nil.
func NewPlaceService(
	db *sql.DB,
	placeStore store.PlaceStore,
	userStore store.UserStore,
	geocoder Geocoder,
	assets AssetStore,
	retry store.RetryPolicy,
	logger *slog.Logger,
) (PlaceService, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if placeStore == nil {
		return nil, fmt.Errorf("placeStore cannot be nil")
	}
	if userStore == nil {
		return nil, fmt.Errorf("userStore cannot be nil")
	}
	if geocoder == nil {
		return nil, fmt.Errorf("geocoder cannot be nil")
	}
	if assets == nil {
		return nil, fmt.Errorf("assets cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &placeServiceImpl{
		db:         db,
		placeStore: placeStore,
		userStore:  userStore,
		geocoder:   geocoder,
		assets:     assets,
		retry:      retry,
		logger:     logger.With(slog.String("component", "place_service")),
	}, nil
}

// CreatePlace implements PlaceService.CreatePlace
func (s *placeServiceImpl) CreatePlace(ctx context.Context, input CreatePlaceInput) (*domain.Place, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidatePlaceText(input.Title, input.Description); err != nil {
		return nil, domain.NewValidationError(msgInvalidInputs, err)
	}

	location, err := s.geocoder.Geocode(ctx, input.Address)
	if err != nil {
		log.Debug("address could not be geocoded", slog.String("error", err.Error()))
		return nil, domain.NewValidationError(msgAddressNotFound, fmt.Errorf("%w: %v", ErrAddressNotFound, err))
	}

	creator, err := s.userStore.GetByID(ctx, input.CreatorID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domain.NewNotFoundError(msgUserNotFound, err)
		}
		log.Error("failed to load creator",
			slog.String("error", err.Error()),
			slog.String("creator_id", input.CreatorID.String()))
		return nil, domain.NewInternalError(msgCreatePlaceFailed, err)
	}

	place, err := domain.NewPlace(input.Title, input.Description, input.Address, location, input.ImageRef, creator.ID)
	if err != nil {
		return nil, domain.NewValidationError(msgInvalidInputs, err)
	}

	txCtx, release := s.retry.Detach(ctx)
	defer release()
	err = store.RunInTransactionWithRetry(txCtx, s.db, s.retry, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.placeStore.WithTx(tx).Create(ctx, place); err != nil {
			return fmt.Errorf("insert place: %w", err)
		}
		if err := s.userStore.WithTx(tx).AddPlace(ctx, creator.ID, place.ID); err != nil {
			return fmt.Errorf("append place to owner: %w", err)
		}
		return nil
	})
	if err != nil {
		// The creator was checked above; if it vanished since, report it the same way.
		// The place insert runs first, so that surfaces as the store's foreign key error.
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domain.NewNotFoundError(msgUserNotFound, err)
		}
		log.Error("create place transaction aborted",
			slog.String("error", err.Error()),
			slog.String("place_id", place.ID.String()),
			slog.String("creator_id", creator.ID.String()))
		return nil, domain.NewInternalError(msgCreatePlaceFailed, err)
	}

	log.Info("place created",
		slog.String("place_id", place.ID.String()),
		slog.String("creator_id", creator.ID.String()))
	return place, nil
}

// GetPlace implements PlaceService.GetPlace
func (s *placeServiceImpl) GetPlace(ctx context.Context, placeID uuid.UUID) (*domain.Place, error) {
	place, err := s.placeStore.GetByID(ctx, placeID)
	if err != nil {
		return nil, s.placeLookupError(ctx, err, msgFetchPlaceFailed)
	}
	return place, nil
}

// ListPlacesByUser implements PlaceService.ListPlacesByUser
func (s *placeServiceImpl) ListPlacesByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Place, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	places, err := s.placeStore.ListByCreator(ctx, userID)
	if err != nil {
		log.Error("failed to list places",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, domain.NewInternalError(msgFetchPlaceFailed, err)
	}
	if len(places) == 0 {
		return nil, domain.NewNotFoundError(msgNoPlacesForUser, ErrNoPlaces)
	}
	return places, nil
}

// UpdatePlace implements PlaceService.UpdatePlace
func (s *placeServiceImpl) UpdatePlace(
	ctx context.Context,
	placeID, callerID uuid.UUID,
	title, description string,
) (*domain.Place, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidatePlaceText(title, description); err != nil {
		return nil, domain.NewValidationError(msgInvalidInputs, err)
	}

	place, err := s.placeStore.GetByID(ctx, placeID)
	if err != nil {
		return nil, s.placeLookupError(ctx, err, msgUpdatePlaceFailed)
	}
	if place.Creator != callerID {
		log.Warn("update rejected: caller does not own place",
			slog.String("place_id", placeID.String()),
			slog.String("caller_id", callerID.String()))
		return nil, domain.NewForbiddenError(msgNotPlaceOwner, ErrNotOwned)
	}

	if err := place.Revise(title, description); err != nil {
		return nil, domain.NewValidationError(msgInvalidInputs, err)
	}

	if err := s.placeStore.Update(ctx, place); err != nil {
		return nil, s.placeLookupError(ctx, err, msgUpdatePlaceFailed)
	}

	log.Info("place updated", slog.String("place_id", placeID.String()))
	return place, nil
}

// DeletePlace implements PlaceService.DeletePlace
func (s *placeServiceImpl) DeletePlace(ctx context.Context, placeID, callerID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	place, err := s.placeStore.GetByID(ctx, placeID)
	if err != nil {
		return s.placeLookupError(ctx, err, msgDeletePlaceFailed)
	}

	owner, err := s.userStore.GetByID(ctx, place.Creator)
	if err != nil {
		log.Error("failed to load place owner",
			slog.String("error", err.Error()),
			slog.String("place_id", placeID.String()),
			slog.String("creator_id", place.Creator.String()))
		return domain.NewInternalError(msgDeletePlaceFailed, err)
	}

	if owner.ID != callerID {
		log.Warn("delete rejected: caller does not own place",
			slog.String("place_id", placeID.String()),
			slog.String("caller_id", callerID.String()))
		return domain.NewForbiddenError(msgNotPlaceOwner, ErrNotOwned)
	}

	linked := owner.OwnsPlace(place.ID)
	if !linked {
		log.Warn("place missing from owner's set, deleting row only",
			slog.String("place_id", placeID.String()),
			slog.String("owner_id", owner.ID.String()))
	}

	txCtx, release := s.retry.Detach(ctx)
	defer release()
	err = store.RunInTransactionWithRetry(txCtx, s.db, s.retry, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.placeStore.WithTx(tx).Delete(ctx, place.ID); err != nil {
			return fmt.Errorf("delete place: %w", err)
		}
		if !linked {
			return nil
		}
		if err := s.userStore.WithTx(tx).RemovePlace(ctx, owner.ID, place.ID); err != nil {
			return fmt.Errorf("remove place from owner: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrPlaceNotFound) {
			return domain.NewNotFoundError(msgPlaceNotFound, err)
		}
		log.Error("delete place transaction aborted",
			slog.String("error", err.Error()),
			slog.String("place_id", placeID.String()))
		return domain.NewInternalError(msgDeletePlaceFailed, err)
	}

	if place.ImageRef != "" {
		if err := s.assets.Delete(ctx, place.ImageRef); err != nil {
			log.Warn("failed to delete place image",
				slog.String("error", err.Error()),
				slog.String("place_id", placeID.String()),
				slog.String("image", place.ImageRef))
		}
	}

	log.Info("place deleted", slog.String("place_id", placeID.String()))
	return nil
}

func (s *placeServiceImpl) placeLookupError(ctx context.Context, err error, internalMsg string) error {
	if errors.Is(err, store.ErrPlaceNotFound) {
		return domain.NewNotFoundError(msgPlaceNotFound, err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Error("place store failure", slog.String("error", err.Error()))
	return domain.NewInternalError(internalMsg, err)
}
