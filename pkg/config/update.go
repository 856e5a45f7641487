package config

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir).
// Used for round-tripping config.yaml ↔ Config conversions.
func (c *Config) ToOptions() []Option {
	var res []Option
	var s string
	var i int

	s = c.Census.Backend
	if s != "" {
		res = append(res, OptCensusBackend(s))
	}
	s = c.Census.BaseURL
	if s != "" {
		res = append(res, OptCensusBaseURL(s))
	}
	s = c.Census.Version
	if s != "" {
		res = append(res, OptCensusVersion(s))
	}
	s = c.Census.Bucket
	if s != "" {
		res = append(res, OptCensusBucket(s))
	}
	s = c.Census.Region
	if s != "" {
		res = append(res, OptCensusRegion(s))
	}
	s = c.Census.Endpoint
	if s != "" {
		res = append(res, OptCensusEndpoint(s))
	}
	if c.Census.PathStyle {
		res = append(res, OptCensusPathStyle(true))
	}
	s = c.Census.Organism
	if s != "" {
		res = append(res, OptCensusOrganism(s))
	}

	s = c.Cache.RawDir
	if s != "" {
		res = append(res, OptCacheRawDir(s))
	}
	s = c.Cache.MetaDir
	if s != "" {
		res = append(res, OptCacheMetaDir(s))
	}
	s = c.Cache.DataDir
	if s != "" {
		res = append(res, OptCacheDataDir(s))
	}

	if c.Filter.MedianRawSum > 0 {
		res = append(res, OptFilterMedianRawSum(c.Filter.MedianRawSum))
	}
	i = c.Genes.SampleSize
	if i > 0 {
		res = append(res, OptGenesSampleSize(i))
	}

	s = c.Database.Host
	if s != "" {
		res = append(res, OptDatabaseHost(s))
	}
	i = c.Database.Port
	if i > 0 {
		res = append(res, OptDatabasePort(i))
	}
	s = c.Database.User
	if s != "" {
		res = append(res, OptDatabaseUser(s))
	}
	s = c.Database.Password
	if s != "" {
		res = append(res, OptDatabasePassword(s))
	}
	s = c.Database.Database
	if s != "" {
		res = append(res, OptDatabaseDatabase(s))
	}
	s = c.Database.SSLMode
	if s != "" {
		res = append(res, OptDatabaseSSLMode(s))
	}

	s = c.Log.Format
	if s != "" {
		res = append(res, OptLogFormat(s))
	}
	s = c.Log.Level
	if s != "" {
		res = append(res, OptLogLevel(s))
	}
	s = c.Log.Destination
	if s != "" {
		res = append(res, OptLogDestination(s))
	}
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidFloat(name string, f float64) bool {
	res := f >= 0
	if !res {
		gn.Warn("<em>%s</em> cannot be negative, ignoring %v", name, f)
	}
	return res
}

func isValidURL(name, s string) bool {
	u, err := url.Parse(s)
	res := err == nil && u.Scheme != "" && u.Host != ""
	if !res {
		gn.Warn("<em>%s</em> is not a valid URL, ignoring '%s'", name, s)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Census.Backend": {"http": s, "s3": s},
		"Database.SSLMode": {"disable": s, "require": s,
			"verify-ca": s, "verify-full": s},
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s, "tint": s},
		"Log.Destination": {"file": s, "stderr": s, "stdout": s},
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	if _, ok := data[name][val]; ok {
		return true
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}
