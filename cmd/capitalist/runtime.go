package main

import (
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/totegamma/capitalist/internal/config"
	"github.com/totegamma/capitalist/internal/domain"
	"github.com/totegamma/capitalist/internal/infra/database"
	"github.com/totegamma/capitalist/internal/infra/providers"
	"github.com/totegamma/capitalist/internal/service"
	"github.com/totegamma/capitalist/internal/usecase"
)

// runtime owns the collaborators built for one command invocation.
type runtime struct {
	conf      config.Config
	logger    *logrus.Logger
	store     database.Store
	rdb       *redis.Client
	signal    *service.SignalService
	directory *usecase.Directory
}

func setup(c *cli.Context) (*runtime, error) {
	conf, err := config.Load(c.String("config"))
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	if c.IsSet("log-level") {
		conf.Log.Level = c.String("log-level")
	}
	if c.IsSet("log-format") {
		conf.Log.Format = c.String("log-format")
	}

	logger, err := newLogger(conf.Log)
	if err != nil {
		return nil, err
	}

	rdb := providers.NewRedis(conf.Storage)
	store, err := providers.NewStore(conf.Storage, rdb)
	if err != nil {
		if rdb != nil {
			rdb.Close()
		}
		return nil, errors.Wrap(err, "open storage")
	}

	signal := providers.NewSignalService(rdb, conf.Server, logger.WithField("module", "signal"))
	directory := providers.NewDirectory(conf, store, providers.NewClient(conf), signal, logger)

	logger.WithFields(logrus.Fields{
		"driver":  conf.Storage.Driver,
		"catalog": conf.Catalog.Endpoint,
		"signals": signal != nil,
	}).Debug("runtime ready")

	return &runtime{
		conf:      conf,
		logger:    logger,
		store:     store,
		rdb:       rdb,
		signal:    signal,
		directory: directory,
	}, nil
}

func (r *runtime) Close() {
	if err := r.store.Close(); err != nil {
		r.logger.WithError(err).Warn("failed to close storage")
	}
	if r.rdb != nil {
		r.rdb.Close()
	}
}

func newLogger(conf config.Log) (*logrus.Logger, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(conf.Level)
	if err != nil {
		return nil, errors.Wrap(err, "parse log level")
	}
	logger.SetLevel(level)

	switch conf.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	// the handlers' presenter logs through the standard logger
	logrus.SetLevel(level)
	logrus.SetFormatter(logger.Formatter)

	return logger, nil
}

// exitError turns a directory failure into a CLI exit status.
func exitError(err error) error {
	if exit, ok := err.(cli.ExitCoder); ok {
		return exit
	}
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return cli.Exit(err.Error(), 3)
	case domain.KindMaxReached:
		return cli.Exit("5 countries max", 4)
	case domain.KindNetwork:
		return cli.Exit(err.Error(), 5)
	case domain.KindLocationDenied:
		return cli.Exit(err.Error(), 6)
	default:
		return cli.Exit(err.Error(), 1)
	}
}
