// Package config provides configuration management for seafront.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Census: backend, base_url, version, bucket, region, endpoint,
//     path_style, organism
//   - Cache: raw_dir, meta_dir, data_dir
//   - Filter: median_raw_sum
//   - Genes: sample_size
//   - Database: host, port, user, password, database, ssl_mode
//   - Log: level, format, destination
//
// Runtime-only fields:
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use SEAFRONT_ prefix with underscores for nesting:
//
//	SEAFRONT_CENSUS_BACKEND=s3
//	SEAFRONT_CACHE_RAW_DIR=raw_h5ad
//	SEAFRONT_LOG_LEVEL=info
package config

// Config represents the complete seafront configuration.
type Config struct {
	// Census describes where census datasets are downloaded from.
	Census CensusConfig `mapstructure:"census" yaml:"census"`

	// Cache contains local directories for raw and derived data.
	Cache CacheConfig `mapstructure:"cache" yaml:"cache"`

	// Filter contains settings of the throughput filter.
	Filter FilterConfig `mapstructure:"filter" yaml:"filter"`

	// Genes contains settings of the gene consistency check.
	Genes GenesConfig `mapstructure:"genes" yaml:"genes"`

	// Database contains PostgreSQL settings for summary export.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// HomeDir determines where config and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// CensusConfig describes the remote census service.
type CensusConfig struct {
	// Backend is either "http" or "s3".
	Backend string `mapstructure:"backend" yaml:"backend"`

	// BaseURL is the root of the HTTP census mirror.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// Version is the census release, all object keys are scoped by it.
	Version string `mapstructure:"version" yaml:"version"`

	// Bucket is the S3 bucket of the census mirror (s3 backend only).
	Bucket string `mapstructure:"bucket" yaml:"bucket"`

	// Region of the S3 bucket.
	Region string `mapstructure:"region" yaml:"region"`

	// Endpoint is an optional custom S3 endpoint (for example MinIO).
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// PathStyle enables path-style S3 addressing.
	PathStyle bool `mapstructure:"path_style" yaml:"path_style"`

	// Organism is the default organism for fetches, a binomial
	// scientific name, for example "Homo sapiens".
	Organism string `mapstructure:"organism" yaml:"organism"`
}

// CacheConfig contains local data directories. Relative paths are
// resolved against the working directory.
type CacheConfig struct {
	// RawDir keeps downloaded census artifacts and their .checksums ledger.
	RawDir string `mapstructure:"raw_dir" yaml:"raw_dir"`

	// MetaDir keeps census_obs.parquet and census_var.txt.
	MetaDir string `mapstructure:"meta_dir" yaml:"meta_dir"`

	// DataDir is the root of multi-sample dataset archives.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
}

// FilterConfig contains throughput filter settings.
type FilterConfig struct {
	// MedianRawSum is the minimal median raw_sum of an experiment.
	MedianRawSum float64 `mapstructure:"median_raw_sum" yaml:"median_raw_sum"`
}

// GenesConfig contains gene consistency check settings.
type GenesConfig struct {
	// SampleSize is the number of datasets compared.
	SampleSize int `mapstructure:"sample_size" yaml:"sample_size"`
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Census: CensusConfig{
			Backend:  "http",
			BaseURL:  "https://census.seafront.dev",
			Version:  "2025-01-30",
			Region:   "us-west-2",
			Organism: "Homo sapiens",
		},
		Cache: CacheConfig{
			RawDir:  "raw_h5ad",
			MetaDir: "meta",
			DataDir: "raw",
		},
		Filter: FilterConfig{
			MedianRawSum: 3000,
		},
		Genes: GenesConfig{
			SampleSize: 3,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: "seafront",
			SSLMode:  "disable",
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
	}

	return res
}
