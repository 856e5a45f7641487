package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptCensusBackend sets the census backend.
// Valid values: "http", "s3".
func OptCensusBackend(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Census.Backend", s) {
			c.Census.Backend = s
		}
	}
}

// OptCensusBaseURL sets the root URL of the HTTP census mirror.
func OptCensusBaseURL(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidURL("Census Base URL", s) {
			c.Census.BaseURL = strings.TrimSuffix(s, "/")
		}
	}
}

// OptCensusVersion sets the census release, for example "2025-01-30".
func OptCensusVersion(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Census Version", s) {
			c.Census.Version = s
		}
	}
}

// OptCensusBucket sets the S3 bucket of the census mirror.
func OptCensusBucket(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Census Bucket", s) {
			c.Census.Bucket = s
		}
	}
}

// OptCensusRegion sets the S3 region.
func OptCensusRegion(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Census Region", s) {
			c.Census.Region = s
		}
	}
}

// OptCensusEndpoint sets a custom S3 endpoint.
func OptCensusEndpoint(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidURL("Census Endpoint", s) {
			c.Census.Endpoint = s
		}
	}
}

// OptCensusPathStyle toggles path-style S3 addressing.
func OptCensusPathStyle(b bool) Option {
	return func(c *Config) {
		c.Census.PathStyle = b
	}
}

// OptCensusOrganism sets the default organism.
func OptCensusOrganism(s string) Option {
	s = strings.Join(strings.Fields(s), " ")
	return func(c *Config) {
		if isValidString("Census Organism", s) {
			c.Census.Organism = s
		}
	}
}

// OptCacheRawDir sets the directory for downloaded census artifacts.
func OptCacheRawDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Cache Raw Dir", s) {
			c.Cache.RawDir = s
		}
	}
}

// OptCacheMetaDir sets the directory for census metadata files.
func OptCacheMetaDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Cache Meta Dir", s) {
			c.Cache.MetaDir = s
		}
	}
}

// OptCacheDataDir sets the root directory of multi-sample archives.
func OptCacheDataDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Cache Data Dir", s) {
			c.Cache.DataDir = s
		}
	}
}

// OptFilterMedianRawSum sets the minimal median raw_sum of an experiment.
func OptFilterMedianRawSum(f float64) Option {
	return func(c *Config) {
		if isValidFloat("Filter Median Raw Sum", f) {
			c.Filter.MedianRawSum = f
		}
	}
}

// OptGenesSampleSize sets how many datasets take part in the gene
// consistency check.
func OptGenesSampleSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Genes Sample Size", i) {
			c.Genes.SampleSize = i
		}
	}
}

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptHomeDir sets the home directory for config and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
