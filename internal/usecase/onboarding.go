package usecase

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/totegamma/capitalist/internal/domain"
)

// Onboarding seeds the saved list the first time the application runs.
type Onboarding struct {
	directory   *Directory
	location    LocationProvider
	defaultCode string
	logger      logrus.FieldLogger
}

func NewOnboarding(directory *Directory, location LocationProvider, defaultCode string, logger logrus.FieldLogger) *Onboarding {
	if defaultCode == "" {
		defaultCode = domain.DefaultCountry
	}
	return &Onboarding{
		directory:   directory,
		location:    location,
		defaultCode: defaultCode,
		logger:      logger,
	}
}

// Run returns the saved list, first adding the user's own country when it is empty.
// Without a usable location the default country is saved instead.
func (o *Onboarding) Run(ctx context.Context) ([]domain.Country, error) {
	ctx, span := tracer.Start(ctx, "Onboarding.Usecase.Run")
	defer span.End()

	saved, err := o.directory.GetSavedCountries(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if len(saved) > 0 {
		return saved, nil
	}

	country, err := o.locate(ctx)
	if err != nil {
		o.logger.WithError(err).WithField("default", o.defaultCode).Info("falling back to default country")
		country, err = o.directory.GetCountryByCode(ctx, o.defaultCode)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	_, err = o.directory.SaveCountry(ctx, country)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return o.directory.GetSavedCountries(ctx)
}

func (o *Onboarding) locate(ctx context.Context) (domain.Country, error) {
	if o.location == nil || !o.location.HasPermission() {
		return domain.Country{}, domain.ErrLocationDenied
	}

	loc, err := o.location.CurrentLocation(ctx)
	if err != nil {
		return domain.Country{}, domain.NewError(domain.KindLocationDenied, err)
	}

	return o.directory.GetCountryByLocation(ctx, loc.Latitude, loc.Longitude)
}
