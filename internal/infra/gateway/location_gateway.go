package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/totegamma/capitalist/internal/domain"
)

// LocationGateway resolves coordinates to a country code through a Geocoder,
// remembering successful answers for nearby repeats.
type LocationGateway struct {
	geocoder Geocoder
	cache    *cache.Cache
}

func NewLocationGateway(geocoder Geocoder, ttl time.Duration) *LocationGateway {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &LocationGateway{
		geocoder: geocoder,
		cache:    cache.New(ttl, 2*ttl),
	}
}

func (g *LocationGateway) Resolve(ctx context.Context, location domain.Location) (string, error) {
	cacheKey := fmt.Sprintf("%.4f,%.4f", location.Latitude, location.Longitude)
	if x, found := g.cache.Get(cacheKey); found {
		return x.(string), nil
	}

	code, found, err := g.geocoder.ReverseGeocode(ctx, location.Latitude, location.Longitude)
	if err != nil {
		return "", domain.NewError(domain.KindLocationDenied, err)
	}
	if !found {
		return "", domain.NotFoundError("no country at " + cacheKey)
	}

	g.cache.Set(cacheKey, code, cache.DefaultExpiration)
	return code, nil
}
