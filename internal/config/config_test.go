package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.NumHouseholds)
	assert.Equal(t, 50, cfg.NumFirms)
	assert.Equal(t, 5, cfg.NumBanks)
	assert.Equal(t, 21, cfg.DaysInMonth)
	assert.Equal(t, 27.0, cfg.GoodsPrice)
	assert.Equal(t, 1470.0, cfg.WageRate)
	assert.Equal(t, 2.0, cfg.TargetRate)
	assert.True(t, cfg.Real)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "econsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("num_banks: 2\ndays_in_month: 30\nreal: false\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.NumBanks)
	assert.Equal(t, 30, cfg.DaysInMonth)
	assert.False(t, cfg.Real)
	// Untouched keys keep their defaults.
	assert.Equal(t, 1000, cfg.NumHouseholds)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ECONSIM_NUM_FIRMS", "7")
	t.Setenv("ECONSIM_TARGET_RATE", "3.5")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.NumFirms)
	assert.Equal(t, 3.5, cfg.TargetRate)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("ECONSIM_DAYS_IN_MONTH", "0")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
