package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "bottom-up-fb", cfg.Strategy)
	assert.Equal(t, 10, cfg.ForecastYears)
}

func TestLoad(t *testing.T) {
	t.Run("an empty path returns the defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("a JSON file overrides only the fields it sets", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.json")
		require.NoError(t, writeFile(path, `{"strategy": "top-down-b", "forecastYears": 5}`))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "top-down-b", cfg.Strategy)
		assert.Equal(t, 5, cfg.ForecastYears)
		assert.Equal(t, 80, cfg.MaxAllowedHours, "unset fields should keep their default value")
	})

	t.Run("a nonexistent path is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
		assert.Error(t, err)
	})

	t.Run("malformed JSON is an error", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.json")
		require.NoError(t, writeFile(path, `not json`))
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("a loaded config that fails validation is rejected", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.json")
		require.NoError(t, writeFile(path, `{"forecastYears": 0}`))
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	t.Run("rejects non-positive forecastYears", func(t *testing.T) {
		cfg := Default()
		cfg.ForecastYears = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects non-positive maxAllowedHours", func(t *testing.T) {
		cfg := Default()
		cfg.MaxAllowedHours = -1
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects negative allowedHours or allowedTasks", func(t *testing.T) {
		cfg := Default()
		cfg.AllowedHours = -1
		assert.Error(t, cfg.Validate())
	})
}

func TestHardCapTable(t *testing.T) {
	t.Run("converts string-keyed JSON map into an int-keyed table", func(t *testing.T) {
		cfg := Default()
		cfg.HardCap = map[string]int{"4": 2, "52": 1}
		table, err := cfg.HardCapTable()
		require.NoError(t, err)
		assert.Equal(t, 2, table[4])
		assert.Equal(t, 1, table[52])
	})

	t.Run("rejects a non-numeric frequency key", func(t *testing.T) {
		cfg := Default()
		cfg.HardCap = map[string]int{"not-a-number": 2}
		_, err := cfg.HardCapTable()
		assert.Error(t, err)
	})
}

func writeFile(path, contents string) error {
	return os.WriteFile(path, []byte(contents), 0o644)
}
