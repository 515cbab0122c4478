package usecase

import (
	"context"

	"github.com/totegamma/capitalist"
	"github.com/totegamma/capitalist/internal/domain"
)

// CatalogFetcher retrieves the full catalog from the remote source.
type CatalogFetcher interface {
	FetchAll(ctx context.Context) ([]domain.Country, error)
}

// CatalogCache persists the catalog snapshot and the saved list.
type CatalogCache interface {
	SaveAll(ctx context.Context, countries []domain.Country)
	LoadAll(ctx context.Context) ([]domain.Country, error)
	LoadSaved(ctx context.Context) ([]domain.Country, error)
	Save(ctx context.Context, country domain.Country) (bool, error)
	Remove(ctx context.Context, code string) (bool, error)
}

// CoordinateResolver maps a position to a country code.
type CoordinateResolver interface {
	Resolve(ctx context.Context, location domain.Location) (string, error)
}

// LocationProvider reports the device position.
type LocationProvider interface {
	HasPermission() bool
	CurrentLocation(ctx context.Context) (domain.Location, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event capitalist.Event) error
}
