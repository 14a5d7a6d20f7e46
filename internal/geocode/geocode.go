package geocode

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("address not found")
	ErrUnconfigured = errors.New("geocoding provider not configured")
)

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Suggestion struct {
	Address     string       `json:"address"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// Geocoder is the external address provider consumed by the HTTP surface.
// There is no local fallback: provider failures surface as 503 to the client.
type Geocoder interface {
	Suggest(ctx context.Context, query string) ([]Suggestion, error)
	Geocode(ctx context.Context, address string) (Suggestion, error)
}
