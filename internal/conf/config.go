// config.go: This file contains the configuration for the nestwatch-go application. It defines the settings struct and functions to load the settings.
package conf

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

//go:embed config.yaml
var configFiles embed.FS

// Output modes for the converted tables.
const (
	OutputModeCSV    = "csv"
	OutputModeMemory = "memory"
	OutputModeSQLite = "sqlite"
)

// Log rotation types for the main log file.
const (
	RotationDaily  = "daily"
	RotationWeekly = "weekly"
	RotationSize   = "size"
)

// LogConfig contains settings for the rotating application log.
type LogConfig struct {
	Enabled  bool   // true to enable file logging
	Path     string // path to log file
	Rotation string // rotation type, "daily", "weekly" or "size"
	MaxSize  int64  // max log file size in bytes for size rotation
}

// MainSettings contains general application settings.
type MainSettings struct {
	Name string    // name of the converter instance, used as PopID on output rows
	Log  LogConfig // main log settings
}

// InputSettings describes where the raw breeding workbook is read from.
type InputSettings struct {
	Source  string // directory containing the raw data files
	File    string // workbook or delimited text file name
	Charset string // "utf-8" or "windows-1252", for legacy text exports
}

// ClutchSettings parameterizes the clutch type classifier.
type ClutchSettings struct {
	MaxRenestDays int // maximum gap in days between broods of one reproductive sequence
}

// SQLiteSettings contains settings for the SQLite output mode.
type SQLiteSettings struct {
	Path string // path to SQLite database file
}

// OutputSettings describes where and how the converted tables are emitted.
type OutputSettings struct {
	Mode   string         // "csv", "memory" or "sqlite"
	Path   string         // output directory for csv mode
	SQLite SQLiteSettings // sqlite output settings
}

// Settings is the top level configuration struct.
type Settings struct {
	Debug bool // true to enable debug output

	Main    MainSettings
	Input   InputSettings
	Species []string // species code filter, empty means all supported species
	Clutch  ClutchSettings
	Output  OutputSettings
}

// settingsInstance is the current settings instance
var (
	settingsInstance *Settings
	once             sync.Once
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment variables into a new
// Settings instance and makes it the current one. When configPath is not
// empty only that file is read, otherwise the usual search paths apply.
func Load(configPath string) (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	// Initialize viper and read config
	if err := initViper(configPath); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	// Unmarshal the config into settings
	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	// Validate settings
	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper(configPath string) error {
	if configPath != "" {
		// Explicit --config path, no fallback search
		viper.SetConfigFile(configPath)
	} else {
		viper.SetConfigName("nestwatch")
		viper.SetConfigType("yaml")

		// Config is searched from the working directory and the user config dir
		viper.AddConfigPath(".")
		if configDir, err := os.UserConfigDir(); err == nil {
			viper.AddConfigPath(filepath.Join(configDir, "nestwatch"))
		}
	}

	// Environment variables override file values, e.g. NESTWATCH_OUTPUT_MODE
	viper.SetEnvPrefix("nestwatch")
	viper.AutomaticEnv()

	// Set default values for each configuration parameter
	// function defined in defaults.go
	setDefaultConfig()

	// Read configuration file
	err := viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// Config file not found, create config with defaults
			return createDefaultConfig()
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// createDefaultConfig creates a default config file and writes it to the working directory
func createDefaultConfig() error {
	configPath := "nestwatch.yaml"
	defaultConfig := getDefaultConfig()

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}

	fmt.Println("Created default config file at:", configPath)
	return viper.ReadInConfig()
}

// getDefaultConfig reads the default configuration from the embedded config.yaml file.
func getDefaultConfig() string {
	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		log.Fatalf("Error reading config file: %v", err)
	}
	return string(data)
}

// GetSettings returns the current settings instance
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// Setting returns the current settings instance, initializing it if necessary
func Setting() *Settings {
	once.Do(func() {
		if settingsInstance == nil {
			_, err := Load("")
			if err != nil {
				log.Fatalf("Error loading settings: %v", err)
			}
		}
	})
	return GetSettings()
}
