// conf/validate.go settings validation
package conf

import (
	"errors"
	"fmt"
)

// ValidateSettings checks the loaded settings for values that would make a
// run meaningless. Structural configuration problems are fatal, per the
// error handling policy only per-record data issues degrade to sentinels.
func ValidateSettings(settings *Settings) error {
	var errs []error

	switch settings.Output.Mode {
	case OutputModeCSV, OutputModeMemory, OutputModeSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown output mode: %q", settings.Output.Mode))
	}

	if settings.Clutch.MaxRenestDays <= 0 {
		errs = append(errs, fmt.Errorf("clutch.maxrenestdays must be positive, got %d", settings.Clutch.MaxRenestDays))
	}

	if settings.Input.File == "" {
		errs = append(errs, errors.New("input.file must not be empty"))
	}

	switch settings.Input.Charset {
	case "", "utf-8", "windows-1252":
	default:
		errs = append(errs, fmt.Errorf("unsupported input charset: %q", settings.Input.Charset))
	}

	if settings.Output.Mode == OutputModeCSV && settings.Output.Path == "" {
		errs = append(errs, errors.New("output.path must be set for csv output mode"))
	}

	if settings.Output.Mode == OutputModeSQLite && settings.Output.SQLite.Path == "" {
		errs = append(errs, errors.New("output.sqlite.path must be set for sqlite output mode"))
	}

	return errors.Join(errs...)
}
