package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Validation errors for Place
var (
	ErrEmptyPlaceID        = errors.New("place ID cannot be empty")
	ErrEmptyPlaceTitle     = errors.New("title cannot be empty")
	ErrPlaceDescriptionLen = errors.New("description must be at least 5 characters long")
	ErrEmptyPlaceAddress   = errors.New("address cannot be empty")
	ErrEmptyPlaceCreator   = errors.New("place creator cannot be empty")
	ErrInvalidLocation     = errors.New("location coordinates out of range")
)

// MinDescriptionLength is the shortest description a place may carry.
const MinDescriptionLength = 5

// Location is a resolved coordinate pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate checks the coordinates are on the globe.
func (l Location) Validate() error {
	if l.Lat < -90 || l.Lat > 90 || l.Lng < -180 || l.Lng > 180 {
		return ErrInvalidLocation
	}
	return nil
}

// Place is a user-submitted location record.
// Location is resolved once from Address at creation; Creator is set once and never reassigned.
type Place struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	Location    Location  `json:"location"`
	ImageRef    string    `json:"image"`
	Creator     uuid.UUID `json:"creator"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewPlace creates a Place with a fresh id.
func NewPlace(
	title, description, address string,
	location Location,
	imageRef string,
	creator uuid.UUID,
) (*Place, error) {
	now := time.Now().UTC()
	place := &Place{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Address:     strings.TrimSpace(address),
		Location:    location,
		ImageRef:    imageRef,
		Creator:     creator,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := place.Validate(); err != nil {
		return nil, err
	}

	return place, nil
}

// Validate checks if the Place has valid data.
func (p *Place) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyPlaceID
	}
	if err := ValidatePlaceText(p.Title, p.Description); err != nil {
		return err
	}
	if p.Address == "" {
		return ErrEmptyPlaceAddress
	}
	if p.Creator == uuid.Nil {
		return ErrEmptyPlaceCreator
	}
	return p.Location.Validate()
}

// Revise overwrites the mutable fields. Address, location and creator stay as they were.
func (p *Place) Revise(title, description string) error {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if err := ValidatePlaceText(title, description); err != nil {
		return err
	}
	p.Title = title
	p.Description = description
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// ValidatePlaceText checks the user-editable text fields.
func ValidatePlaceText(title, description string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyPlaceTitle
	}
	if len(strings.TrimSpace(description)) < MinDescriptionLength {
		return ErrPlaceDescriptionLen
	}
	return nil
}
