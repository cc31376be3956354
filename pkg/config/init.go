package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Settings holds all configuration values
type Settings struct {
	// Enhancement configuration (the RenderConfig supplied to enhance.Start)
	Enhance struct {
		DiagramsEnabled   bool
		MathEnabled       bool
		CopyButtonEnabled bool
		HighlightEnabled  bool
		IdleDelayMs       int
		MaxWaitMs         int
	}

	// Demo streaming simulator configuration
	Demo struct {
		TokenIntervalMs int
		MarkerDelayMs   int
	}

	// Logging configuration
	Logging struct {
		LogFile string
		Persist bool
		Level   string
	}

	// ConfigFile stores the path to the config file used
	ConfigFile string
}

// Global settings instance
var Global *Settings

// Init initializes the configuration system
func Init(cfgFile string) error {
	Global = &Settings{}

	// Set config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		Global.ConfigFile = cfgFile
	} else {
		viper.AddConfigPath("./.garnish")
		viper.SetConfigType("yaml")
		viper.SetConfigName("settings")
		Global.ConfigFile = ".garnish/settings.yaml"
	}

	// Set all defaults
	setDefaults()

	// Enable environment variable support
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}

	// Load settings into global struct
	return Load()
}

// setDefaults sets all default configuration values
func setDefaults() {
	// Enhancement defaults
	viper.SetDefault("enhance.diagrams_enabled", true)
	viper.SetDefault("enhance.math_enabled", true)
	viper.SetDefault("enhance.copy_button_enabled", true)
	viper.SetDefault("enhance.highlight_enabled", true)
	viper.SetDefault("enhance.idle_delay_ms", 360)
	viper.SetDefault("enhance.max_wait_ms", 2500)

	// Demo simulator defaults
	viper.SetDefault("demo.token_interval_ms", 40)
	viper.SetDefault("demo.marker_delay_ms", 150)

	// Logging defaults
	viper.SetDefault("logging.log_file", "system.log")
	viper.SetDefault("logging.persist", false)
	viper.SetDefault("logging.level", "info")
}

// Load loads configuration from viper into the Settings struct
func Load() error {
	// Enhancement settings
	Global.Enhance.DiagramsEnabled = viper.GetBool("enhance.diagrams_enabled")
	Global.Enhance.MathEnabled = viper.GetBool("enhance.math_enabled")
	Global.Enhance.CopyButtonEnabled = viper.GetBool("enhance.copy_button_enabled")
	Global.Enhance.HighlightEnabled = viper.GetBool("enhance.highlight_enabled")
	Global.Enhance.IdleDelayMs = viper.GetInt("enhance.idle_delay_ms")
	Global.Enhance.MaxWaitMs = viper.GetInt("enhance.max_wait_ms")

	// Demo settings
	Global.Demo.TokenIntervalMs = viper.GetInt("demo.token_interval_ms")
	Global.Demo.MarkerDelayMs = viper.GetInt("demo.marker_delay_ms")

	// Logging settings
	Global.Logging.LogFile = viper.GetString("logging.log_file")
	Global.Logging.Persist = viper.GetBool("logging.persist")
	Global.Logging.Level = viper.GetString("logging.level")

	return nil
}

// Get returns the global settings, initializing with defaults if needed
func Get() *Settings {
	if Global == nil {
		if err := Init(""); err != nil {
			// Fall back to pure defaults when no config file is readable
			Global = &Settings{}
			setDefaults()
			_ = Load()
		}
	}
	return Global
}
