// Package service provides application-level services for managing places and users.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// They are wrapped inside *domain.Error values so callers can still use errors.Is().
var (
	// ErrNotOwned indicates a resource is owned by a different user than the one making the request.
	// API layer maps this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrAddressNotFound indicates the geocoder could not resolve an address.
	ErrAddressNotFound = errors.New("address could not be resolved")

	// ErrNoPlaces indicates a user has no places.
	ErrNoPlaces = errors.New("user has no places")
)

// Client-safe messages attached to *domain.Error values.
const (
	msgInvalidInputs      = "Invalid inputs passed, please check your data."
	msgAddressNotFound    = "Could not find location for the specified address."
	msgUserNotFound       = "Could not find user for provided id."
	msgPlaceNotFound      = "Could not find place for the provided id."
	msgNoPlacesForUser    = "Could not find places for the provided user id."
	msgCreatePlaceFailed  = "Creating place failed, please try again."
	msgFetchPlaceFailed   = "Something went wrong, could not find a place."
	msgUpdatePlaceFailed  = "Something went wrong, could not update place."
	msgDeletePlaceFailed  = "Something went wrong, could not delete place."
	msgNotPlaceOwner      = "You are not allowed to modify this place."
	msgUserExists         = "User exists already, please login instead."
	msgSignupFailed       = "Signing up failed, please try again later."
	msgInvalidCredentials = "Invalid credentials, could not log you in."
	msgLoginFailed        = "Logging in failed, please try again later."
	msgFetchUsersFailed   = "Fetching users failed, please try again later."
)
