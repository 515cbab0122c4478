package main

import (
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/totegamma/capitalist"
	"github.com/totegamma/capitalist/internal/infra/gateway"
	"github.com/totegamma/capitalist/internal/infra/providers"
	"github.com/totegamma/capitalist/internal/usecase"
)

// withRuntime runs fn against a freshly built runtime and prints its result.
func withRuntime(fn func(c *cli.Context, rt *runtime) (any, error)) cli.ActionFunc {
	return func(c *cli.Context) error {
		rt, err := setup(c)
		if err != nil {
			return err
		}
		defer rt.Close()

		result, err := fn(c, rt)
		if err != nil {
			return exitError(err)
		}
		return capitalist.JsonPrint(c.App.Writer, result)
	}
}

func requireArgs(c *cli.Context, n int) error {
	if c.NArg() != n {
		return cli.Exit("usage: capitalist "+c.Command.Name+" "+c.Command.ArgsUsage, 2)
	}
	return nil
}

func countriesCommand() *cli.Command {
	return &cli.Command{
		Name:  "countries",
		Usage: "list the whole catalog",
		Action: withRuntime(func(c *cli.Context, rt *runtime) (any, error) {
			return rt.directory.GetAllCountries(c.Context)
		}),
	}
}

func countryCommand() *cli.Command {
	return &cli.Command{
		Name:      "country",
		Usage:     "show a country by its alpha-3 code",
		ArgsUsage: "CODE",
		Before:    func(c *cli.Context) error { return requireArgs(c, 1) },
		Action: withRuntime(func(c *cli.Context, rt *runtime) (any, error) {
			return rt.directory.GetCountryByCode(c.Context, c.Args().First())
		}),
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "find the first country whose name contains NAME",
		ArgsUsage: "NAME",
		Before:    func(c *cli.Context) error { return requireArgs(c, 1) },
		Action: withRuntime(func(c *cli.Context, rt *runtime) (any, error) {
			return rt.directory.GetCountryByName(c.Context, c.Args().First())
		}),
	}
}

func locateCommand() *cli.Command {
	return &cli.Command{
		Name:      "locate",
		Usage:     "resolve the country at a position",
		ArgsUsage: "LAT LON",
		Before:    func(c *cli.Context) error { return requireArgs(c, 2) },
		Action: withRuntime(func(c *cli.Context, rt *runtime) (any, error) {
			lat, err := strconv.ParseFloat(c.Args().Get(0), 64)
			if err != nil {
				return nil, cli.Exit("invalid latitude", 2)
			}
			lon, err := strconv.ParseFloat(c.Args().Get(1), 64)
			if err != nil {
				return nil, cli.Exit("invalid longitude", 2)
			}
			return rt.directory.GetCountryByLocation(c.Context, lat, lon)
		}),
	}
}

func savedCommand() *cli.Command {
	return &cli.Command{
		Name:  "saved",
		Usage: "list saved countries",
		Action: withRuntime(func(c *cli.Context, rt *runtime) (any, error) {
			return rt.directory.GetSavedCountries(c.Context)
		}),
	}
}

func saveCommand() *cli.Command {
	return &cli.Command{
		Name:      "save",
		Usage:     "add a country to the saved list",
		ArgsUsage: "CODE",
		Before:    func(c *cli.Context) error { return requireArgs(c, 1) },
		Action: withRuntime(func(c *cli.Context, rt *runtime) (any, error) {
			country, err := rt.directory.GetCountryByCode(c.Context, c.Args().First())
			if err != nil {
				return nil, err
			}
			added, err := rt.directory.SaveCountry(c.Context, country)
			if err != nil {
				return nil, err
			}
			return map[string]any{"code": country.Code, "added": added}, nil
		}),
	}
}

func removeCommand() *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Usage:     "drop a country from the saved list",
		ArgsUsage: "CODE",
		Before:    func(c *cli.Context) error { return requireArgs(c, 1) },
		Action: withRuntime(func(c *cli.Context, rt *runtime) (any, error) {
			code := c.Args().First()
			removed, err := rt.directory.RemoveCountry(c.Context, code)
			if err != nil {
				return nil, err
			}
			return map[string]any{"code": code, "removed": removed}, nil
		}),
	}
}

func initCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "seed the saved list with the country at --lat/--lon, or the default country",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "lat", Usage: "latitude"},
			&cli.Float64Flag{Name: "lon", Usage: "longitude"},
		},
		Action: withRuntime(func(c *cli.Context, rt *runtime) (any, error) {
			var location usecase.LocationProvider = gateway.NoLocation()
			if c.IsSet("lat") && c.IsSet("lon") {
				location = gateway.NewStaticLocation(c.Float64("lat"), c.Float64("lon"))
			}
			onboarding := providers.NewOnboarding(rt.conf, rt.directory, location, rt.logger)
			return onboarding.Run(c.Context)
		}),
	}
}
