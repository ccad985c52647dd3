// convert.go convert command code
package convert

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tphakala/nestwatch-go/internal/conf"
	"github.com/tphakala/nestwatch-go/internal/logging"
	"github.com/tphakala/nestwatch-go/internal/pipeline"
)

// Command creates the convert subcommand, which runs the full conversion
// pipeline against the configured raw data file.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a raw breeding data workbook into the four standard tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Re-validate, command line flags may have changed values
			// that were valid in the config file.
			if err := conf.ValidateSettings(settings); err != nil {
				return fmt.Errorf("invalid settings: %w", err)
			}

			logging.Info("starting conversion",
				"source", settings.Input.Source,
				"file", settings.Input.File,
				"mode", settings.Output.Mode)
			logging.Debug("effective settings",
				"species_filter", settings.Species,
				"max_renest_days", settings.Clutch.MaxRenestDays,
				"charset", settings.Input.Charset)

			result, err := pipeline.Run(settings)
			if err != nil {
				logging.Error("conversion failed", "error", err)
				return err
			}
			if result.Audit.ClutchTypeUnknown > 0 || result.Audit.AgesUnresolved > 0 {
				logging.Warn("unresolved records in output",
					"clutch_type_unknown", result.Audit.ClutchTypeUnknown,
					"ages_unresolved", result.Audit.AgesUnresolved)
			}

			fmt.Println("Conversion finished:", result.Audit.Summary())
			if settings.Output.Mode == conf.OutputModeCSV {
				fmt.Println("Output written to:", settings.Output.Path)
			}
			return nil
		},
	}

	// Define flags for the convert subcommand
	cmd.Flags().StringVar(&settings.Input.Source, "source", viper.GetString("input.source"), "Directory containing the raw data files")
	cmd.Flags().StringVar(&settings.Input.File, "input", viper.GetString("input.file"), "Raw workbook (.xlsx) or delimited text file to convert")
	cmd.Flags().StringSliceVar(&settings.Species, "species", viper.GetStringSlice("species"), "Species codes to include, all supported species when empty")
	cmd.Flags().StringVar(&settings.Output.Path, "output", viper.GetString("output.path"), "Output directory for csv mode")
	cmd.Flags().StringVar(&settings.Output.Mode, "mode", viper.GetString("output.mode"), "Output mode: csv, memory or sqlite")
	cmd.Flags().IntVar(&settings.Clutch.MaxRenestDays, "max-renest-days", viper.GetInt("clutch.maxrenestdays"), "Maximum gap in days between broods of one reproductive sequence")

	return cmd
}
