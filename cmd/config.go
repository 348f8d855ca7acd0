/*
Copyright © 2025 thoughtbruno
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/thoughtbruno/llm-researcher/internal/logger"
	"github.com/thoughtbruno/llm-researcher/types"
)

const (
	configName = "config"
	configDir  = ".researcher"
	envPrefix  = "RESEARCHER"

	// defaultDatasetPath is where the productivity CSV is expected when
	// neither config nor --dataset says otherwise.
	defaultDatasetPath = "data/garments_worker_productivity.csv"
)

// GlobalAppConfig holds the global application configuration instance.
var GlobalAppConfig types.AppConfig

// validate is a single validator instance; it caches struct info.
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// validateAppConfig performs validation on the AppConfig struct.
func validateAppConfig(config *types.AppConfig) error {
	return validate.Struct(config)
}

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	// Load .env file first if present. Missing .env is fine.
	_ = godotenv.Load()

	// Environment variable handling must be set up before reading the
	// config file so RESEARCHER_* variables are visible everywhere.
	viper.SetEnvPrefix(envPrefix) // e.g. RESEARCHER_DATASET_PATH
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfgFileFlag := viper.GetString("config") // Value from --config flag

	if cfgFileFlag != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFileFlag)
	} else {
		// Project-level .researcher/ takes priority over the home config.
		if _, err := os.Stat(configDir); !os.IsNotExist(err) {
			viper.AddConfigPath(configDir)
		}
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, configDir))
		}
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if cfgFileFlag != "" {
				fmt.Fprintln(os.Stderr, "Error: Specified config file not found:", cfgFileFlag)
			} else if viper.GetBool("verbose") {
				fmt.Fprintln(os.Stderr, "No config file found. Using defaults and environment variables.")
			}
		} else {
			fmt.Fprintln(os.Stderr, "Error reading config file:", viper.ConfigFileUsed(), "-", err)
		}
	}

	// Set default values
	viper.SetDefault("dataset.path", defaultDatasetPath)
	viper.SetDefault("dataset.sampleRows", 50)
	viper.SetDefault("dataset.fullDumpLimit", 500)

	viper.SetDefault("server.host", "127.0.0.1")
	viper.SetDefault("server.port", 8080)

	archiveDefault := filepath.Join(configDir, "archive.db")
	if home, err := os.UserHomeDir(); err == nil {
		archiveDefault = filepath.Join(home, configDir, "archive.db")
		logger.SetBasePath(filepath.Join(home, configDir))
	}
	viper.SetDefault("archive.path", archiveDefault)

	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.apiKey", "")
	viper.SetDefault("telemetry.endpoint", "")

	// After all sources are configured, unmarshal into GlobalAppConfig
	if err := viper.Unmarshal(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error unmarshaling config: %s\n", err)
		os.Exit(1)
	}

	// Validate the populated configuration
	if err := validateAppConfig(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration validation error: %s\n", err)
		os.Exit(1)
	}
}

// GetConfig returns a pointer to the global types.AppConfig instance.
func GetConfig() *types.AppConfig {
	return &GlobalAppConfig
}
