package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/invadr/invadr-go/cmd"
	"github.com/invadr/invadr-go/internal/conf"
	"github.com/invadr/invadr-go/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	logging.Init()

	settings, err := conf.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading configuration: %v\n", err)
		return 1
	}

	if err := conf.ValidateSettings(settings); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		return 1
	}

	// Route structured logs to the rotating main log so stdout stays
	// reserved for command output.
	if settings.Main.Log.Enabled {
		fileLogger, closeLogger, err := logging.NewFileLogger(settings.Main.Log.Path, "main", slog.LevelInfo)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error opening log file: %v\n", err)
		} else {
			defer func() { _ = closeLogger() }()
			logging.SetDefault(fileLogger)
		}
	}

	if err := cmd.RootCommand(settings).Execute(); err != nil {
		return 1
	}
	return 0
}
