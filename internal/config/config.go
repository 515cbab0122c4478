package config

import (
	"os"
	"time"

	"github.com/go-yaml/yaml"

	"github.com/totegamma/capitalist/internal/domain"
	"github.com/totegamma/capitalist/internal/infra/gateway"
)

type Config struct {
	Catalog  Catalog  `yaml:"catalog"`
	Geocoder Geocoder `yaml:"geocoder"`
	Storage  Storage  `yaml:"storage"`
	Server   Server   `yaml:"server"`
	Log      Log      `yaml:"log"`
}

type Catalog struct {
	Endpoint       string        `yaml:"endpoint"`
	Timeout        time.Duration `yaml:"timeout"`
	DefaultCountry string        `yaml:"defaultCountry"`
}

type Geocoder struct {
	Endpoint string        `yaml:"endpoint"` // {lat} and {lon} are substituted
	CacheTTL time.Duration `yaml:"cacheTTL"`
}

type Storage struct {
	Driver        string `yaml:"driver"` // bolt, memory, redis, memcached, postgres
	Path          string `yaml:"path"`
	PostgresDsn   string `yaml:"postgresDsn"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisDB       int    `yaml:"redisDB"`
	MemcachedAddr string `yaml:"memcachedAddr"`
}

type Server struct {
	Listen        string `yaml:"listen"`
	EnableTrace   bool   `yaml:"enableTrace"`
	TraceEndpoint string `yaml:"traceEndpoint"`
	SignalChannel string `yaml:"signalChannel"`
	UserAgent     string `yaml:"userAgent"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

func Default() Config {
	return Config{
		Catalog: Catalog{
			Endpoint:       gateway.DefaultCatalogEndpoint,
			Timeout:        10 * time.Second,
			DefaultCountry: domain.DefaultCountry,
		},
		Geocoder: Geocoder{
			Endpoint: gateway.DefaultGeocoderEndpoint,
			CacheTTL: 10 * time.Minute,
		},
		Storage: Storage{
			Driver: "bolt",
			Path:   "capitalist.db",
		},
		Server: Server{
			Listen:        ":8000",
			SignalChannel: "capitalist:saved",
			UserAgent:     "capitalist/1.0",
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML file over the defaults. An empty path yields Default().
func Load(path string) (Config, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}

	config.fill()
	return config, nil
}

// fill restores defaults for keys the file set to zero values.
func (c *Config) fill() {
	def := Default()
	if c.Catalog.Endpoint == "" {
		c.Catalog.Endpoint = def.Catalog.Endpoint
	}
	if c.Catalog.Timeout <= 0 {
		c.Catalog.Timeout = def.Catalog.Timeout
	}
	if c.Catalog.DefaultCountry == "" {
		c.Catalog.DefaultCountry = def.Catalog.DefaultCountry
	}
	if c.Geocoder.Endpoint == "" {
		c.Geocoder.Endpoint = def.Geocoder.Endpoint
	}
	if c.Geocoder.CacheTTL <= 0 {
		c.Geocoder.CacheTTL = def.Geocoder.CacheTTL
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = def.Storage.Driver
	}
	if c.Storage.Path == "" {
		c.Storage.Path = def.Storage.Path
	}
	if c.Server.Listen == "" {
		c.Server.Listen = def.Server.Listen
	}
	if c.Server.SignalChannel == "" {
		c.Server.SignalChannel = def.Server.SignalChannel
	}
	if c.Server.UserAgent == "" {
		c.Server.UserAgent = def.Server.UserAgent
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
}
