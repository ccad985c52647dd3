package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSettings() *Settings {
	return &Settings{
		Main: MainSettings{Name: "HAR"},
		Input: InputSettings{
			Source:  ".",
			File:    "breeding_data.xlsx",
			Charset: "utf-8",
		},
		Clutch: ClutchSettings{MaxRenestDays: 30},
		Output: OutputSettings{
			Mode: OutputModeCSV,
			Path: "output/",
		},
	}
}

func TestLoadExplicitConfigFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	configPath := filepath.Join(t.TempDir(), "custom.yaml")
	content := `
main:
  name: KRK
input:
  source: /data/raw
  file: krk.xlsx
clutch:
  maxrenestdays: 45
output:
  mode: memory
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	settings, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "KRK", settings.Main.Name)
	assert.Equal(t, 45, settings.Clutch.MaxRenestDays)
	assert.Equal(t, OutputModeMemory, settings.Output.Mode)
	// Keys the file does not set keep their defaults
	assert.Equal(t, "utf-8", settings.Input.Charset)
}

func TestLoadMissingExplicitConfigFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidateSettingsValid(t *testing.T) {
	require.NoError(t, ValidateSettings(validSettings()))
}

func TestValidateSettingsUnknownOutputMode(t *testing.T) {
	settings := validSettings()
	settings.Output.Mode = "parquet"
	err := ValidateSettings(settings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output mode")
}

func TestValidateSettingsNonPositiveRenestInterval(t *testing.T) {
	settings := validSettings()
	settings.Clutch.MaxRenestDays = 0
	err := ValidateSettings(settings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maxrenestdays")
}

func TestValidateSettingsMissingInputFile(t *testing.T) {
	settings := validSettings()
	settings.Input.File = ""
	require.Error(t, ValidateSettings(settings))
}

func TestValidateSettingsUnsupportedCharset(t *testing.T) {
	settings := validSettings()
	settings.Input.Charset = "ebcdic"
	require.Error(t, ValidateSettings(settings))
}

func TestValidateSettingsSQLiteNeedsPath(t *testing.T) {
	settings := validSettings()
	settings.Output.Mode = OutputModeSQLite
	settings.Output.SQLite.Path = ""
	require.Error(t, ValidateSettings(settings))

	settings.Output.SQLite.Path = "out.db"
	require.NoError(t, ValidateSettings(settings))
}

func TestValidateSettingsJoinsAllProblems(t *testing.T) {
	settings := validSettings()
	settings.Output.Mode = "parquet"
	settings.Clutch.MaxRenestDays = -1
	settings.Input.File = ""
	err := ValidateSettings(settings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output mode")
	assert.Contains(t, err.Error(), "maxrenestdays")
	assert.Contains(t, err.Error(), "input.file")
}
