package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "capitalist",
		Usage:   "browse the country catalog and keep a short list of saved countries",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML configuration",
				EnvVars: []string{"CAPITALIST_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "override log.level",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "override log.format (text or json)",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			countriesCommand(),
			countryCommand(),
			searchCommand(),
			locateCommand(),
			savedCommand(),
			saveCommand(),
			removeCommand(),
			initCommand(),
		},
	}
}
