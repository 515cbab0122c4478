package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/totegamma/capitalist"
	"github.com/totegamma/capitalist/internal/domain"
)

type mockCache struct {
	all        []domain.Country
	allErr     error
	saved      []domain.Country
	savedErr   error
	saveCalls  int
	saveAllArg []domain.Country
}

func (m *mockCache) SaveAll(ctx context.Context, countries []domain.Country) {
	m.saveAllArg = countries
	m.all = countries
	m.allErr = nil
}

func (m *mockCache) LoadAll(ctx context.Context) ([]domain.Country, error) {
	if m.allErr != nil {
		return nil, m.allErr
	}
	if m.all == nil {
		return nil, domain.ErrNotFound
	}
	return m.all, nil
}

func (m *mockCache) LoadSaved(ctx context.Context) ([]domain.Country, error) {
	if m.savedErr != nil {
		return nil, m.savedErr
	}
	return append([]domain.Country{}, m.saved...), nil
}

func (m *mockCache) Save(ctx context.Context, country domain.Country) (bool, error) {
	m.saveCalls++
	if domain.ContainsCode(m.saved, country.Code) {
		return false, nil
	}
	if len(m.saved) >= domain.MaxSavedCountries {
		return false, domain.ErrMaxReached
	}
	m.saved = append(m.saved, country)
	return true, nil
}

func (m *mockCache) Remove(ctx context.Context, code string) (bool, error) {
	if m.savedErr != nil {
		return false, m.savedErr
	}
	kept := []domain.Country{}
	for _, c := range m.saved {
		if c.Code != code {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(m.saved) {
		return false, nil
	}
	m.saved = kept
	return true, nil
}

type mockFetcher struct {
	countries []domain.Country
	err       error
	calls     int
}

func (m *mockFetcher) FetchAll(ctx context.Context) ([]domain.Country, error) {
	m.calls++
	return m.countries, m.err
}

type mockResolver struct {
	codes map[domain.Location]string
	err   error
}

func (m *mockResolver) Resolve(ctx context.Context, location domain.Location) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	code, ok := m.codes[location]
	if !ok {
		return "", domain.ErrNotFound
	}
	return code, nil
}

type mockPublisher struct {
	events []capitalist.Event
	err    error
}

func (m *mockPublisher) Publish(ctx context.Context, event capitalist.Event) error {
	m.events = append(m.events, event)
	return m.err
}

func sampleCatalog() []domain.Country {
	return []domain.Country{
		{Name: "France", Code: "FRA", Alpha2: "FR", Capital: "Paris"},
		{Name: "Germany", Code: "DEU", Alpha2: "DE", Capital: "Berlin"},
		{Name: "Niger", Code: "NER", Alpha2: "NE", Capital: "Niamey"},
		{Name: "Nigeria", Code: "NGA", Alpha2: "NG", Capital: "Abuja"},
	}
}

func newTestDirectory(cache *mockCache, fetcher *mockFetcher, resolver *mockResolver, publisher EventPublisher) *Directory {
	logger, _ := test.NewNullLogger()
	if resolver == nil {
		resolver = &mockResolver{}
	}
	return NewDirectory(cache, fetcher, resolver, publisher, logger)
}

func TestGetAllCountriesServedFromCache(t *testing.T) {
	cache := &mockCache{all: sampleCatalog()}
	fetcher := &mockFetcher{}
	dir := newTestDirectory(cache, fetcher, nil, nil)

	countries, err := dir.GetAllCountries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleCatalog(), countries)
	assert.Equal(t, 0, fetcher.calls)
}

func TestGetAllCountriesFetchesOnMiss(t *testing.T) {
	for name, cache := range map[string]*mockCache{
		"absent":  {},
		"invalid": {allErr: domain.ErrInvalid},
		"empty":   {all: []domain.Country{}},
	} {
		t.Run(name, func(t *testing.T) {
			fetcher := &mockFetcher{countries: sampleCatalog()}
			dir := newTestDirectory(cache, fetcher, nil, nil)

			countries, err := dir.GetAllCountries(context.Background())
			require.NoError(t, err)
			assert.Equal(t, sampleCatalog(), countries)
			assert.Equal(t, 1, fetcher.calls)
			assert.Equal(t, sampleCatalog(), cache.saveAllArg)

			// now cached
			_, err = dir.GetAllCountries(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 1, fetcher.calls)
		})
	}
}

func TestGetAllCountriesPropagatesFetchError(t *testing.T) {
	cache := &mockCache{}
	fetcher := &mockFetcher{err: domain.NetworkError("status 503")}
	dir := newTestDirectory(cache, fetcher, nil, nil)

	_, err := dir.GetAllCountries(context.Background())
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Nil(t, cache.saveAllArg)
}

func TestGetAllCountriesTagsForeignErrors(t *testing.T) {
	dir := newTestDirectory(&mockCache{}, &mockFetcher{err: fmt.Errorf("boom")}, nil, nil)

	_, err := dir.GetAllCountries(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnknown)
}

func TestGetCountryByCode(t *testing.T) {
	dir := newTestDirectory(&mockCache{all: sampleCatalog()}, &mockFetcher{}, nil, nil)
	ctx := context.Background()

	country, err := dir.GetCountryByCode(ctx, "DEU")
	require.NoError(t, err)
	assert.Equal(t, "Germany", country.Name)

	_, err = dir.GetCountryByCode(ctx, "deu")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = dir.GetCountryByCode(ctx, "XXX")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetCountryByCodePropagatesUpstream(t *testing.T) {
	dir := newTestDirectory(&mockCache{}, &mockFetcher{err: domain.ErrInvalid}, nil, nil)

	_, err := dir.GetCountryByCode(context.Background(), "FRA")
	assert.ErrorIs(t, err, domain.ErrInvalid)
}

func TestGetCountryByName(t *testing.T) {
	dir := newTestDirectory(&mockCache{all: sampleCatalog()}, &mockFetcher{}, nil, nil)
	ctx := context.Background()

	country, err := dir.GetCountryByName(ctx, "GERM")
	require.NoError(t, err)
	assert.Equal(t, "DEU", country.Code)

	// first match in catalog order
	country, err = dir.GetCountryByName(ctx, "niger")
	require.NoError(t, err)
	assert.Equal(t, "NER", country.Code)

	country, err = dir.GetCountryByName(ctx, "geria")
	require.NoError(t, err)
	assert.Equal(t, "NGA", country.Code)

	_, err = dir.GetCountryByName(ctx, "Atlantis")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = dir.GetCountryByName(ctx, "  ")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetCountryByLocationScenario(t *testing.T) {
	us := domain.Country{
		Name:        "United States",
		Code:        "US",
		Capital:     "Washington D.C.",
		Coordinates: &domain.Location{Latitude: 38.0, Longitude: -97.0},
		Currencies:  []domain.Currency{{Code: "USD", Name: "US Dollar", Symbol: "$"}},
	}
	cache := &mockCache{}
	fetcher := &mockFetcher{countries: []domain.Country{us}}
	resolver := &mockResolver{codes: map[domain.Location]string{
		{Latitude: 40.7128, Longitude: -74.0060}: "US",
	}}
	dir := newTestDirectory(cache, fetcher, resolver, nil)

	country, err := dir.GetCountryByLocation(context.Background(), 40.7128, -74.0060)
	require.NoError(t, err)
	assert.Equal(t, us, country)
}

func TestGetCountryByLocationAlpha2(t *testing.T) {
	resolver := &mockResolver{codes: map[domain.Location]string{
		{Latitude: 48.85, Longitude: 2.35}: "FR",
		{Latitude: 0, Longitude: 0}:         "ZZ",
	}}
	dir := newTestDirectory(&mockCache{all: sampleCatalog()}, &mockFetcher{}, resolver, nil)
	ctx := context.Background()

	country, err := dir.GetCountryByLocation(ctx, 48.85, 2.35)
	require.NoError(t, err)
	assert.Equal(t, "FRA", country.Code)

	_, err = dir.GetCountryByLocation(ctx, 0, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// forgetfulCache never keeps the catalog, as when every snapshot write fails.
type forgetfulCache struct {
	mockCache
}

func (m *forgetfulCache) SaveAll(ctx context.Context, countries []domain.Country) {}

func TestGetCountryByLocationFetchesOnce(t *testing.T) {
	logger, _ := test.NewNullLogger()
	fetcher := &mockFetcher{countries: sampleCatalog()}
	resolver := &mockResolver{codes: map[domain.Location]string{
		{Latitude: 52.52, Longitude: 13.40}: "DE",
		{Latitude: 0, Longitude: 0}:         "ZZ",
	}}
	dir := NewDirectory(&forgetfulCache{}, fetcher, resolver, nil, logger)
	ctx := context.Background()

	country, err := dir.GetCountryByLocation(ctx, 52.52, 13.40)
	require.NoError(t, err)
	assert.Equal(t, "DEU", country.Code)
	assert.Equal(t, 1, fetcher.calls)

	_, err = dir.GetCountryByLocation(ctx, 0, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 2, fetcher.calls)
}

func TestGetCountryByLocationResolverErrors(t *testing.T) {
	dir := newTestDirectory(&mockCache{all: sampleCatalog()}, &mockFetcher{}, &mockResolver{err: domain.ErrLocationDenied}, nil)

	_, err := dir.GetCountryByLocation(context.Background(), 1, 1)
	assert.ErrorIs(t, err, domain.ErrLocationDenied)

	dir = newTestDirectory(&mockCache{all: sampleCatalog()}, &mockFetcher{}, &mockResolver{}, nil)
	_, err = dir.GetCountryByLocation(context.Background(), 1, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaveCountryIdempotent(t *testing.T) {
	cache := &mockCache{}
	publisher := &mockPublisher{}
	dir := newTestDirectory(cache, &mockFetcher{}, nil, publisher)
	ctx := context.Background()
	france := sampleCatalog()[0]

	added, err := dir.SaveCountry(ctx, france)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = dir.SaveCountry(ctx, france)
	require.NoError(t, err)
	assert.False(t, added)

	saved, err := dir.GetSavedCountries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Country{france}, saved)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, capitalist.EventSaved, publisher.events[0].Type)
	assert.Equal(t, "FRA", publisher.events[0].Code)
}

func fiveSaved() []domain.Country {
	saved := []domain.Country{}
	for i := 1; i <= 5; i++ {
		saved = append(saved, domain.Country{Name: fmt.Sprintf("Country %d", i), Code: fmt.Sprintf("C%d", i)})
	}
	return saved
}

func TestSaveCountryCapacityScenario(t *testing.T) {
	cache := &mockCache{saved: fiveSaved()}
	dir := newTestDirectory(cache, &mockFetcher{}, nil, nil)
	ctx := context.Background()

	added, err := dir.SaveCountry(ctx, domain.Country{Name: "New", Code: "NC"})
	assert.ErrorIs(t, err, domain.ErrMaxReached)
	assert.False(t, added)
	assert.Equal(t, 0, cache.saveCalls)

	saved, err := dir.GetSavedCountries(ctx)
	require.NoError(t, err)
	assert.Equal(t, fiveSaved(), saved)

	// already present stays a no-op even when full
	added, err = dir.SaveCountry(ctx, domain.Country{Code: "C3"})
	require.NoError(t, err)
	assert.False(t, added)
}

func TestSaveCountryCacheIsAuthoritative(t *testing.T) {
	// pre-check cannot load, the cache still enforces the cap
	cache := &mockCache{saved: fiveSaved(), savedErr: nil}
	dir := newTestDirectory(cache, &mockFetcher{}, nil, nil)
	cache.savedErr = domain.ErrInvalid

	_, err := dir.SaveCountry(context.Background(), domain.Country{Code: "NC"})
	assert.ErrorIs(t, err, domain.ErrMaxReached)
	assert.Equal(t, 1, cache.saveCalls)
}

func TestRemoveCountry(t *testing.T) {
	cache := &mockCache{saved: fiveSaved()}
	publisher := &mockPublisher{}
	dir := newTestDirectory(cache, &mockFetcher{}, nil, publisher)
	ctx := context.Background()

	removed, err := dir.RemoveCountry(ctx, "C2")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Len(t, cache.saved, 4)
	assert.False(t, domain.ContainsCode(cache.saved, "C2"))

	removed, err = dir.RemoveCountry(ctx, "C2")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Len(t, cache.saved, 4)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, capitalist.EventRemoved, publisher.events[0].Type)
}

func TestRemoveCountryPropagatesLoadFailure(t *testing.T) {
	dir := newTestDirectory(&mockCache{savedErr: domain.ErrInvalid}, &mockFetcher{}, nil, nil)

	_, err := dir.RemoveCountry(context.Background(), "FRA")
	assert.ErrorIs(t, err, domain.ErrInvalid)
}

func TestPublishFailureIsLogged(t *testing.T) {
	logger, hook := test.NewNullLogger()
	cache := &mockCache{}
	publisher := &mockPublisher{err: fmt.Errorf("redis down")}
	dir := NewDirectory(cache, &mockFetcher{}, &mockResolver{}, publisher, logger)

	added, err := dir.SaveCountry(context.Background(), domain.Country{Code: "FRA"})
	require.NoError(t, err)
	assert.True(t, added)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "FRA", entry.Data["code"])
}
