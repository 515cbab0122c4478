package gateway

import (
	"context"

	"github.com/totegamma/capitalist/internal/domain"
)

// StaticLocation is a location provider with a fixed position, used when the
// caller supplies coordinates directly.
type StaticLocation struct {
	location  domain.Location
	permitted bool
}

func NewStaticLocation(latitude, longitude float64) *StaticLocation {
	return &StaticLocation{
		location:  domain.Location{Latitude: latitude, Longitude: longitude},
		permitted: true,
	}
}

// NoLocation is a provider without permission.
func NoLocation() *StaticLocation {
	return &StaticLocation{}
}

func (s *StaticLocation) HasPermission() bool {
	return s.permitted
}

func (s *StaticLocation) CurrentLocation(ctx context.Context) (domain.Location, error) {
	if !s.permitted {
		return domain.Location{}, domain.ErrLocationDenied
	}
	return s.location, nil
}
