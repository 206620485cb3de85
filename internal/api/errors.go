package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/places-api/internal/api/shared"
	"github.com/phrazzld/places-api/internal/domain"
)

// Messages written by the HTTP layer itself. Everything else comes from the
// *domain.Error the services return.
const (
	msgInvalidInputs   = "Invalid inputs passed, please check your data."
	msgRouteNotFound   = "Could not find this route."
	msgUnknownError    = "An unknown error occurred!"
	msgPlaceIDNotFound = "Could not find a place for the provided id."
	msgUserIDNotFound  = "Could not find places for the provided user id."
	msgImageTooLarge   = "Image is too large."
	msgImageType       = "Only PNG and JPEG images are accepted."
	msgDeletedPlace    = "Deleted place."
)

// MapErrorToStatusCode maps an error to the HTTP status for its domain.Kind.
// Unclassified errors are internal.
func MapErrorToStatusCode(err error) int {
	switch domain.KindOf(err) {
	case domain.KindValidation, domain.KindConflict:
		return http.StatusUnprocessableEntity
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindAuthentication:
		// A failed login is reported like bad input so it reads the same as any
		// other rejected form submission.
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return http.StatusUnprocessableEntity
		}
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns the client-facing message carried by err.
// Internal errors never expose their cause.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return msgUnknownError
	}
	return domain.MessageOf(err, msgUnknownError)
}

// HandleAPIError renders err as a {message} body with the status for its kind.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	var opts []shared.ResponseOption
	if status == http.StatusForbidden {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err, opts...)
}

// invalidInputs wraps a request decoding or validation failure.
func invalidInputs(err error) error {
	return domain.NewValidationError(msgInvalidInputs, err)
}

// NotFoundHandler answers requests for unknown routes.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithError(w, r, http.StatusNotFound, msgRouteNotFound)
}

// MethodNotAllowedHandler answers requests with an unsupported method on a known route.
func MethodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithError(w, r, http.StatusMethodNotAllowed, msgRouteNotFound)
}
