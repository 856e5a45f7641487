package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "seafront"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/seafront by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/seafront by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/seafront/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/seafront/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// DatasetsFilePath returns the full path to the datasets.yaml file
// that describes named multi-sample datasets.
func DatasetsFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "datasets.yaml")
}

// CensusVarPath returns the path of the canonical gene list.
func (c *Config) CensusVarPath() string {
	return filepath.Join(c.Cache.MetaDir, "census_var.txt")
}

// CensusObsPath returns the path of the cached census observation table.
func (c *Config) CensusObsPath() string {
	return filepath.Join(c.Cache.MetaDir, "census_obs.parquet")
}

// CensusSummaryPath returns the path of the per-dataset summary table.
func (c *Config) CensusSummaryPath() string {
	return filepath.Join(c.Cache.MetaDir, "census_summary.tsv")
}

// CensusAgePath returns the path of the age-normalized observation
// table.
func (c *Config) CensusAgePath() string {
	return filepath.Join(c.Cache.MetaDir, "census_obs_age.tsv")
}
