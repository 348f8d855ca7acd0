/*
Copyright © 2025 thoughtbruno
*/
package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose   bool            `mapstructure:"verbose"`
	Quiet     bool            `mapstructure:"quiet"`
	JSON      bool            `mapstructure:"json"`
	NoColor   bool            `mapstructure:"noColor"`
	Config    string          `mapstructure:"config"`
	Dataset   DatasetConfig   `mapstructure:"dataset" validate:"required"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Archive   ArchiveConfig   `mapstructure:"archive" validate:"required"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" validate:"omitempty"`
}

// DatasetConfig holds settings for the backing CSV file
type DatasetConfig struct {
	Path string `mapstructure:"path" validate:"required"`
	// SampleRows is the bounded preview size for raw sample access
	SampleRows int `mapstructure:"sampleRows" validate:"required,min=1"`
	// FullDumpLimit is the row count above which full dumps are refused
	FullDumpLimit int `mapstructure:"fullDumpLimit" validate:"required,min=1"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Host string `mapstructure:"host" validate:"required"`
	Port int    `mapstructure:"port" validate:"required,min=1,max=65535"`
}

// ArchiveConfig holds report archive settings
type ArchiveConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// TelemetryConfig holds opt-in usage analytics settings
type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	APIKey   string `mapstructure:"apiKey"`
	Endpoint string `mapstructure:"endpoint" validate:"omitempty,url"`
}
