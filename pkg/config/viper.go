// Package config is responsible for initializing the application's configuration.
// It uses the Viper library to read settings from a config file, environment
// variables, and command-line flags, providing a unified configuration system.
package config

import (
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	internalconfig "github.com/Haston00/nc-construction-data/internal/config"
	"github.com/Haston00/nc-construction-data/internal/logging"
)

// InitConfig initializes the application's configuration using Viper.
// It sets up default values, defines configuration search paths, and enables
// reading from environment variables. This function is designed to be called
// once at application startup so that configuration is loaded before any
// command body runs.
func InitConfig() {
	// Define the name of the config file to look for (without extension).
	viper.SetConfigName("config")
	// Add paths where Viper should look for the config file.
	viper.AddConfigPath(".")                   // Current working directory
	viper.AddConfigPath("/etc/ncbidscraper/")  // System-wide configuration
	viper.AddConfigPath("$HOME/.ncbidscraper") // User-specific configuration

	// Defaults are shared with the typed loader so file-less runs and
	// explicit-path runs resolve the same values.
	internalconfig.SetDefaults(viper.GetViper())

	// Enable Viper to read environment variables,
	// e.g. NCBID_FETCH_TIMEOUT=90s or NCBID_DATABASE_DSN=postgres://...
	viper.SetEnvPrefix("NCBID")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Attempt to read the configuration file.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Not fatal; defaults and environment variables carry the run.
			logging.L.Warn("Config file not found; using defaults and environment variables.")
		} else {
			logging.L.Error("Error reading config file", zap.Error(err))
		}
	} else {
		logging.L.Info("Using config file", zap.String("path", viper.ConfigFileUsed()))
	}
}
