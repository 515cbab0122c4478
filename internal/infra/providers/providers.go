package providers

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/totegamma/capitalist/client"
	"github.com/totegamma/capitalist/internal/config"
	"github.com/totegamma/capitalist/internal/infra/database"
	"github.com/totegamma/capitalist/internal/infra/gateway"
	"github.com/totegamma/capitalist/internal/infra/repository"
	"github.com/totegamma/capitalist/internal/service"
	"github.com/totegamma/capitalist/internal/usecase"
)

const keyPrefix = "capitalist:"

// NewRedis returns nil when no redis address is configured.
func NewRedis(conf config.Storage) *redis.Client {
	if conf.RedisAddr == "" {
		return nil
	}
	return database.NewRedis(conf.RedisAddr, "", conf.RedisDB)
}

// NewStore opens the configured storage backend.
func NewStore(conf config.Storage, rdb *redis.Client) (database.Store, error) {
	switch conf.Driver {
	case "", "bolt":
		return database.NewBolt(conf.Path)
	case "memory":
		return database.NewMemory(), nil
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("storage driver redis requires redisAddr")
		}
		return database.NewRedisStore(rdb, keyPrefix), nil
	case "memcached":
		if conf.MemcachedAddr == "" {
			return nil, fmt.Errorf("storage driver memcached requires memcachedAddr")
		}
		return database.NewMemcachedStore(database.NewMemcached(conf.MemcachedAddr), keyPrefix), nil
	case "postgres":
		db, err := database.NewPostgres(conf.PostgresDsn)
		if err != nil {
			return nil, err
		}
		err = database.MigratePostgres(db)
		if err != nil {
			return nil, err
		}
		return database.NewPostgresStore(db), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", conf.Driver)
	}
}

// NewClient constructs the HTTP client shared by the gateways.
func NewClient(conf config.Config) *client.Client {
	return client.New(conf.Catalog.Timeout, conf.Server.UserAgent)
}

// NewSignalService returns nil without redis.
func NewSignalService(rdb *redis.Client, conf config.Server, logger logrus.FieldLogger) *service.SignalService {
	if rdb == nil {
		return nil
	}
	return service.NewSignalService(rdb, conf.SignalChannel, logger)
}

// NewDirectory assembles the directory over the given store.
func NewDirectory(
	conf config.Config,
	store database.Store,
	cl *client.Client,
	signal *service.SignalService,
	logger logrus.FieldLogger,
) *usecase.Directory {
	cache := repository.NewCatalogCache(store, logger.WithField("module", "cache"))
	fetcher := gateway.NewCatalogGateway(cl, conf.Catalog.Endpoint)
	geocoder := gateway.NewHTTPGeocoder(cl, conf.Geocoder.Endpoint)
	resolver := gateway.NewLocationGateway(geocoder, conf.Geocoder.CacheTTL)

	var publisher usecase.EventPublisher
	if signal != nil {
		publisher = signal
	}

	return usecase.NewDirectory(cache, fetcher, resolver, publisher, logger.WithField("module", "directory"))
}

// NewOnboarding seeds the saved list from the given location provider.
func NewOnboarding(conf config.Config, directory *usecase.Directory, location usecase.LocationProvider, logger logrus.FieldLogger) *usecase.Onboarding {
	return usecase.NewOnboarding(directory, location, conf.Catalog.DefaultCountry, logger.WithField("module", "onboarding"))
}
