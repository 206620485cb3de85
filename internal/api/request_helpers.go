package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/places-api/internal/api/shared"
	"github.com/phrazzld/places-api/internal/domain"
)

// getIdentity returns the caller attached by the auth middleware.
func getIdentity(r *http.Request) (shared.Identity, error) {
	id, ok := shared.IdentityFrom(r.Context())
	if !ok {
		return shared.Identity{}, domain.NewAuthenticationError("Authentication failed!", domain.ErrInvalidToken)
	}
	return id, nil
}

// getPathUUID parses a UUID path parameter. An id that cannot be parsed cannot
// name an existing record, so it is reported with notFoundMessage.
func getPathUUID(r *http.Request, paramName, notFoundMessage string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, paramName))
	if err != nil {
		return uuid.Nil, domain.NewNotFoundError(notFoundMessage, domain.ErrInvalidID)
	}
	return id, nil
}
