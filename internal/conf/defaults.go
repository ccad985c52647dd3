// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "NestWatch")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "nestwatch.log")
	viper.SetDefault("main.log.rotation", RotationDaily)
	viper.SetDefault("main.log.maxsize", 1048576)

	viper.SetDefault("input.source", ".")
	viper.SetDefault("input.file", "breeding_data.xlsx")
	viper.SetDefault("input.charset", "utf-8")

	viper.SetDefault("species", []string{})

	viper.SetDefault("clutch.maxrenestdays", 30)

	viper.SetDefault("output.mode", OutputModeCSV)
	viper.SetDefault("output.path", "output/")
	viper.SetDefault("output.sqlite.path", "nestwatch.db")
}
