package main

import (
	"os"
	"slices"

	"github.com/pterm/pterm"

	"github.com/treywint/hourly/app"
	"github.com/treywint/hourly/internal/config"
	"github.com/treywint/hourly/internal/logging"
)

func run(args []string) error {
	config.InitializePaths()

	logging.Init(config.LogFilePath(), slices.Contains(args, "--debug"))

	return app.Get().Run(args)
}

func main() {
	err := run(os.Args)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}
