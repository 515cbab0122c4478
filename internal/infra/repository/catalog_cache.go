package repository

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/totegamma/capitalist/internal/domain"
	"github.com/totegamma/capitalist/internal/infra/database"
)

// CatalogCache persists the catalog snapshot and the saved list in a Store.
// All access is serialized so a read-modify-write of the saved list is atomic.
type CatalogCache struct {
	mu     sync.Mutex
	store  database.Store
	logger logrus.FieldLogger
}

func NewCatalogCache(store database.Store, logger logrus.FieldLogger) *CatalogCache {
	return &CatalogCache{store: store, logger: logger}
}

// SaveAll overwrites the catalog snapshot. Failures are logged only.
func (r *CatalogCache) SaveAll(ctx context.Context, countries []domain.Country) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(countries)
	if err != nil {
		r.logger.WithError(err).Error("failed to encode catalog snapshot")
		return
	}

	err = r.store.Put(ctx, domain.AllCountriesKey, data)
	if err != nil {
		r.logger.WithError(err).WithField("key", domain.AllCountriesKey).Error("failed to write catalog snapshot")
		return
	}

	r.logger.WithField("count", len(countries)).Debug("catalog snapshot written")
}

func (r *CatalogCache) LoadAll(ctx context.Context) ([]domain.Country, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, found, err := r.store.Get(ctx, domain.AllCountriesKey)
	if err != nil {
		return nil, domain.NewError(domain.KindUnknown, errors.Wrap(err, "CatalogCache.LoadAll"))
	}
	if !found {
		return nil, domain.NotFoundError(domain.AllCountriesKey)
	}

	var countries []domain.Country
	err = json.Unmarshal(data, &countries)
	if err != nil {
		return nil, domain.NewError(domain.KindInvalid, errors.Wrap(err, "CatalogCache.LoadAll"))
	}

	return countries, nil
}

func (r *CatalogCache) LoadSaved(ctx context.Context) ([]domain.Country, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.loadSaved(ctx)
}

// Save appends a country to the saved list. It returns false when the code
// is already present and ErrMaxReached when the list is full.
func (r *CatalogCache) Save(ctx context.Context, country domain.Country) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	saved, err := r.loadSaved(ctx)
	if err != nil {
		// only a corrupt list is replaced; a failed read must not lose entries
		if domain.KindOf(err) != domain.KindInvalid {
			return false, err
		}
		r.logger.WithError(err).WithField("code", country.Code).Warn("saved list corrupted, resetting")
		if err := r.persistSaved(ctx, []domain.Country{country}); err != nil {
			return false, err
		}
		return true, nil
	}

	if domain.ContainsCode(saved, country.Code) {
		return false, nil
	}

	if len(saved) >= domain.MaxSavedCountries {
		return false, domain.ErrMaxReached
	}

	if err := r.persistSaved(ctx, append(saved, country)); err != nil {
		return false, err
	}
	return true, nil
}

func (r *CatalogCache) Remove(ctx context.Context, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	saved, err := r.loadSaved(ctx)
	if err != nil {
		return false, err
	}

	kept := make([]domain.Country, 0, len(saved))
	for _, c := range saved {
		if c.Code != code {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(saved) {
		return false, nil
	}

	if err := r.persistSaved(ctx, kept); err != nil {
		return false, err
	}
	return true, nil
}

func (r *CatalogCache) loadSaved(ctx context.Context) ([]domain.Country, error) {
	data, found, err := r.store.Get(ctx, domain.SavedCountriesKey)
	if err != nil {
		return nil, domain.NewError(domain.KindUnknown, errors.Wrap(err, "CatalogCache.loadSaved"))
	}
	if !found {
		return []domain.Country{}, nil
	}

	var saved []domain.Country
	err = json.Unmarshal(data, &saved)
	if err != nil {
		return nil, domain.NewError(domain.KindInvalid, errors.Wrap(err, "CatalogCache.loadSaved"))
	}
	if saved == nil {
		saved = []domain.Country{}
	}
	return saved, nil
}

func (r *CatalogCache) persistSaved(ctx context.Context, saved []domain.Country) error {
	data, err := json.Marshal(saved)
	if err != nil {
		return domain.NewError(domain.KindInvalid, errors.Wrap(err, "CatalogCache.persistSaved"))
	}

	err = r.store.Put(ctx, domain.SavedCountriesKey, data)
	if err != nil {
		return domain.NewError(domain.KindUnknown, errors.Wrap(err, "CatalogCache.persistSaved"))
	}
	return nil
}
