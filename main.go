package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/tphakala/nestwatch-go/cmd"
	"github.com/tphakala/nestwatch-go/internal/conf"
	"github.com/tphakala/nestwatch-go/internal/logging"
)

func main() {
	// Load the configuration before anything else, every subcommand
	// depends on it. The --config flag has to be picked out of the raw
	// arguments here, command line parsing happens only inside Execute.
	settings, err := conf.Load(configPathFromArgs(os.Args[1:]))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if settings.Debug {
		level = slog.LevelDebug
	}
	logging.Init(level)

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.Execute(); err != nil {
		logging.Fatal("command execution failed", "error", err)
	}
}

// configPathFromArgs returns the value of the --config / -c flag, or empty
// when the flag is absent.
func configPathFromArgs(args []string) string {
	for i, arg := range args {
		switch {
		case arg == "--config" || arg == "-c":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(arg, "--config="):
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}
