package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/totegamma/capitalist"
	"github.com/totegamma/capitalist/internal/domain"
)

var tracer = otel.Tracer("directory")

// Directory coordinates the catalog source, the local cache and the resolver.
// It keeps no state of its own; every call goes back to the cache.
type Directory struct {
	cache     CatalogCache
	fetcher   CatalogFetcher
	resolver  CoordinateResolver
	publisher EventPublisher
	logger    logrus.FieldLogger
}

// NewDirectory wires the collaborators. publisher may be nil.
func NewDirectory(
	cache CatalogCache,
	fetcher CatalogFetcher,
	resolver CoordinateResolver,
	publisher EventPublisher,
	logger logrus.FieldLogger,
) *Directory {
	return &Directory{
		cache:     cache,
		fetcher:   fetcher,
		resolver:  resolver,
		publisher: publisher,
		logger:    logger,
	}
}

func (d *Directory) GetAllCountries(ctx context.Context) ([]domain.Country, error) {
	ctx, span := tracer.Start(ctx, "Directory.Usecase.GetAllCountries")
	defer span.End()

	cached, err := d.cache.LoadAll(ctx)
	if err == nil && len(cached) > 0 {
		d.logger.WithField("count", len(cached)).Debug("catalog served from cache")
		return cached, nil
	}
	if err != nil {
		d.logger.WithError(err).Debug("catalog cache miss")
	}

	countries, err := d.fetcher.FetchAll(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, tagged(err)
	}

	d.cache.SaveAll(ctx, countries)
	d.logger.WithField("count", len(countries)).Info("catalog fetched and cached")

	return countries, nil
}

func (d *Directory) GetCountryByCode(ctx context.Context, code string) (domain.Country, error) {
	ctx, span := tracer.Start(ctx, "Directory.Usecase.GetCountryByCode", trace.WithAttributes(attribute.String("code", code)))
	defer span.End()

	countries, err := d.GetAllCountries(ctx)
	if err != nil {
		span.RecordError(err)
		return domain.Country{}, err
	}

	for _, c := range countries {
		if c.Code == code {
			return c, nil
		}
	}

	return domain.Country{}, domain.NotFoundError("country " + code)
}

// GetCountryByName returns the first country, in catalog order, whose name
// contains the query regardless of case.
func (d *Directory) GetCountryByName(ctx context.Context, name string) (domain.Country, error) {
	ctx, span := tracer.Start(ctx, "Directory.Usecase.GetCountryByName")
	defer span.End()

	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return domain.Country{}, domain.NotFoundError("empty name")
	}

	countries, err := d.GetAllCountries(ctx)
	if err != nil {
		span.RecordError(err)
		return domain.Country{}, err
	}

	for _, c := range countries {
		if strings.Contains(strings.ToLower(c.Name), query) {
			return c, nil
		}
	}

	return domain.Country{}, domain.NotFoundError("country named " + name)
}

func (d *Directory) GetCountryByLocation(ctx context.Context, latitude, longitude float64) (domain.Country, error) {
	ctx, span := tracer.Start(ctx, "Directory.Usecase.GetCountryByLocation")
	defer span.End()

	code, err := d.resolver.Resolve(ctx, domain.Location{Latitude: latitude, Longitude: longitude})
	if err != nil {
		span.RecordError(err)
		return domain.Country{}, tagged(err)
	}
	span.SetAttributes(attribute.String("code", code))

	countries, err := d.GetAllCountries(ctx)
	if err != nil {
		span.RecordError(err)
		return domain.Country{}, err
	}

	for _, c := range countries {
		if c.Code == code {
			return c, nil
		}
	}
	// geocoders answer with alpha-2 codes
	for _, c := range countries {
		if c.Alpha2 != "" && c.Alpha2 == code {
			return c, nil
		}
	}

	return domain.Country{}, domain.NotFoundError("country " + code)
}

func (d *Directory) GetSavedCountries(ctx context.Context) ([]domain.Country, error) {
	ctx, span := tracer.Start(ctx, "Directory.Usecase.GetSavedCountries")
	defer span.End()

	saved, err := d.cache.LoadSaved(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, tagged(err)
	}
	return saved, nil
}

// SaveCountry adds a country to the saved list. false means it was already there.
func (d *Directory) SaveCountry(ctx context.Context, country domain.Country) (bool, error) {
	ctx, span := tracer.Start(ctx, "Directory.Usecase.SaveCountry")
	defer span.End()
	span.SetAttributes(attribute.String("code", country.Code))

	// the cache re-checks under its lock
	saved, err := d.cache.LoadSaved(ctx)
	if err == nil && len(saved) >= domain.MaxSavedCountries && !domain.ContainsCode(saved, country.Code) {
		return false, domain.ErrMaxReached
	}

	added, err := d.cache.Save(ctx, country)
	if err != nil {
		span.RecordError(err)
		return false, tagged(err)
	}

	if added {
		d.publish(ctx, capitalist.EventSaved, country.Code)
	}
	return added, nil
}

func (d *Directory) RemoveCountry(ctx context.Context, code string) (bool, error) {
	ctx, span := tracer.Start(ctx, "Directory.Usecase.RemoveCountry", trace.WithAttributes(attribute.String("code", code)))
	defer span.End()

	removed, err := d.cache.Remove(ctx, code)
	if err != nil {
		span.RecordError(err)
		return false, tagged(err)
	}

	if removed {
		d.publish(ctx, capitalist.EventRemoved, code)
	}
	return removed, nil
}

func (d *Directory) publish(ctx context.Context, eventType, code string) {
	if d.publisher == nil {
		return
	}
	err := d.publisher.Publish(ctx, capitalist.NewEvent(eventType, code))
	if err != nil {
		d.logger.WithError(err).WithFields(logrus.Fields{
			"type": eventType,
			"code": code,
		}).Warn("failed to publish saved-list event")
	}
}

// tagged guarantees a kind-carrying error crosses the boundary.
func tagged(err error) error {
	var ce *domain.CountryError
	if err == nil || errors.As(err, &ce) {
		return err
	}
	return domain.NewError(domain.KindUnknown, err)
}
