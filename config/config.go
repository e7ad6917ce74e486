// Package config defines the catalog's external configuration shape
// (§6.1). Parsing is the one seam a host process (out of scope) uses
// before constructing a catalog.Catalog.
package config

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/basalt-db/evcat/internal/evcaterr"
)

// Config holds the catalog's bootstrap-time tunables.
type Config struct {
	// CacheCapacity bounds a streaming lookup's result back-pressure
	// (§4.5): the soft cap on results.len() before the task yields.
	CacheCapacity uint64 `yaml:"cache_capacity"`
	// MinSupportedPartitionVersion gates Start: any synopsis reporting an
	// older version is rejected with UnsupportedVersion (§4.1).
	MinSupportedPartitionVersion uint64 `yaml:"min_supported_partition_version"`
}

// Default returns the configuration a fresh catalog should use absent any
// host-provided override.
func Default() Config {
	return Config{
		CacheCapacity:                256,
		MinSupportedPartitionVersion: 1,
	}
}

// Load parses a YAML document into a Config, starting from Default() so an
// omitted field keeps its default rather than zeroing out.
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, evcaterr.Wrap(evcaterr.InvalidArgument, err, "decode catalog config")
	}
	return cfg, nil
}
