package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tphakala/nestwatch-go/cmd/convert"
	"github.com/tphakala/nestwatch-go/cmd/species"
	"github.com/tphakala/nestwatch-go/internal/conf"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nestwatch",
		Short: "NestWatch-Go CLI, converts raw bird breeding data to the shared standard format",
	}

	// Set up the global flags for the root command.
	setupFlags(rootCmd, settings)

	// Add sub-commands to the root command.
	subcommands := []*cobra.Command{
		convert.Command(settings),
		species.Command(),
	}
	rootCmd.AddCommand(subcommands...)

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	// The config file is loaded before command line parsing starts, the
	// flag value itself is consumed in main. Registered here so it shows
	// up in help output and passes flag validation.
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to configuration file (default is ./nestwatch.yaml)")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %v", err)
	}

	return nil
}
