package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/places-api/internal/api/shared"
	"github.com/phrazzld/places-api/internal/platform/logger"
	"github.com/phrazzld/places-api/internal/service"
)

// PlaceHandler handles place-related HTTP requests.
type PlaceHandler struct {
	places  service.PlaceService
	uploads *Uploader
	logger  *slog.Logger
}

// NewPlaceHandler creates a new PlaceHandler.
func NewPlaceHandler(places service.PlaceService, uploads *Uploader, logger *slog.Logger) *PlaceHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for PlaceHandler")
	}
	return &PlaceHandler{
		places:  places,
		uploads: uploads,
		logger:  logger.With(slog.String("component", "place_handler")),
	}
}

// GetPlace handles GET /places/{placeId}.
func (h *PlaceHandler) GetPlace(w http.ResponseWriter, r *http.Request) {
	placeID, err := getPathUUID(r, "placeId", msgPlaceIDNotFound)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	place, err := h.places.GetPlace(r.Context(), placeID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, PlaceResponse{Place: place})
}

// ListPlacesByUser handles GET /places/user/{userId}.
func (h *PlaceHandler) ListPlacesByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := getPathUUID(r, "userId", msgUserIDNotFound)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	places, err := h.places.ListPlacesByUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, PlacesResponse{Places: places})
}

// CreatePlace handles POST /places. The body is JSON or multipart with an optional image.
func (h *PlaceHandler) CreatePlace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, h.logger)

	var req CreatePlaceRequest
	img, cleanup, err := h.uploads.Decode(w, r, &req)
	defer cleanup()
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	req.normalize()
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, invalidInputs(err))
		return
	}

	caller, err := getIdentity(r)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	imageRef, err := h.uploads.Store(ctx, img)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	place, err := h.places.CreatePlace(ctx, service.CreatePlaceInput{
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
		ImageRef:    imageRef,
		CreatorID:   caller.UserID,
	})
	if err != nil {
		h.uploads.Discard(ctx, imageRef)
		HandleAPIError(w, r, err)
		return
	}

	log.Info("place created", slog.String("place_id", place.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, PlaceResponse{Place: place})
}

// UpdatePlace handles PATCH /places/{placeId}.
func (h *PlaceHandler) UpdatePlace(w http.ResponseWriter, r *http.Request) {
	var req UpdatePlaceRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, invalidInputs(err))
		return
	}

	req.normalize()
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, invalidInputs(err))
		return
	}

	placeID, err := getPathUUID(r, "placeId", msgPlaceIDNotFound)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	caller, err := getIdentity(r)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	place, err := h.places.UpdatePlace(r.Context(), placeID, caller.UserID, req.Title, req.Description)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, PlaceResponse{Place: place})
}

// DeletePlace handles DELETE /places/{placeId}.
func (h *PlaceHandler) DeletePlace(w http.ResponseWriter, r *http.Request) {
	placeID, err := getPathUUID(r, "placeId", msgPlaceIDNotFound)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	caller, err := getIdentity(r)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	if err := h.places.DeletePlace(r.Context(), placeID, caller.UserID); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("place deleted", slog.String("place_id", placeID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, shared.MessageResponse{Message: msgDeletedPlace})
}
