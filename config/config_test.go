package config_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basalt-db/evcat/config"
)

func TestDefaultValues(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, uint64(256), cfg.CacheCapacity)
	assert.Equal(t, uint64(1), cfg.MinSupportedPartitionVersion)
}

func TestLoadOverridesOnlyGivenFields(t *testing.T) {
	cfg, err := config.Load(strings.NewReader("cache_capacity: 1024\n"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1024), cfg.CacheCapacity)
	assert.Equal(t, uint64(1), cfg.MinSupportedPartitionVersion, "unset fields keep the default")
}

func TestLoadEmptyInputKeepsDefaults(t *testing.T) {
	cfg, err := config.Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}
