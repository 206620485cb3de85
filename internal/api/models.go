package api

import (
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/places-api/internal/domain"
)

// formBinder is implemented by requests that may arrive as multipart form fields.
type formBinder interface {
	bindForm(value func(key string) string)
}

// CreatePlaceRequest defines the payload for POST /places.
type CreatePlaceRequest struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description" validate:"required,min=5"`
	Address     string `json:"address"     validate:"required"`
}

func (req *CreatePlaceRequest) bindForm(value func(string) string) {
	req.Title = value("title")
	req.Description = value("description")
	req.Address = value("address")
}

func (req *CreatePlaceRequest) normalize() {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Address = strings.TrimSpace(req.Address)
}

// UpdatePlaceRequest defines the payload for PATCH /places/{placeId}.
type UpdatePlaceRequest struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description" validate:"required,min=5"`
}

func (req *UpdatePlaceRequest) normalize() {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
}

// SignupRequest defines the payload for POST /users/signup.
type SignupRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

func (req *SignupRequest) bindForm(value func(string) string) {
	req.Name = value("name")
	req.Email = value("email")
	req.Password = value("password")
}

func (req *SignupRequest) normalize() {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = domain.NormalizeEmail(req.Email)
}

// LoginRequest defines the payload for POST /users/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (req *LoginRequest) normalize() {
	req.Email = domain.NormalizeEmail(req.Email)
}

// PlaceResponse wraps a single place.
type PlaceResponse struct {
	Place *domain.Place `json:"place"`
}

// PlacesResponse wraps a list of places.
type PlacesResponse struct {
	Places []*domain.Place `json:"places"`
}

// UserView is the public projection of a user. The password hash is never included.
type UserView struct {
	ID     uuid.UUID   `json:"id"`
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Image  string      `json:"image"`
	Places []uuid.UUID `json:"places"`
}

// UsersResponse wraps the user list.
type UsersResponse struct {
	Users []UserView `json:"users"`
}

// AuthResponse is returned by sign-up and login.
type AuthResponse struct {
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
	Token  string    `json:"token"`
}

func newUserView(u *domain.User) UserView {
	places := u.Places
	if places == nil {
		places = []uuid.UUID{}
	}
	return UserView{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Image:  u.ImageRef,
		Places: places,
	}
}
