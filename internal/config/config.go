/**
 * CONTEXT:   Engine configuration - forecast window, capacity defaults, and per-frequency hard caps
 * INPUT:     A JSON configuration file or CLI flags
 * OUTPUT:    A validated Config ready to drive a scheduling run
 * BUSINESS:  Hard-cap policy and forecast horizon are deployment-specific, never hardcoded in the core
 * CHANGE:    Initial implementation
 * RISK:      Low - plain config loading, validated at startup
 */

package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gmbp/scheduler/internal/domain"
)

// Config is the engine's full runtime configuration.
type Config struct {
	DatabasePath    string         `json:"databasePath"`
	Strategy        string         `json:"strategy"`
	ForecastYears   int            `json:"forecastYears"`
	MaxAllowedHours int            `json:"maxAllowedHours"`
	Seed            int64          `json:"seed"`
	AllowedHours    int            `json:"allowedHours"`
	AllowedTasks    int            `json:"allowedTasks"`
	HardCap         map[string]int `json:"hardCap"`
	LogLevel        string         `json:"logLevel"`
}

// Default returns a Config with sensible values for a first run.
func Default() *Config {
	return &Config{
		DatabasePath:    "scheduler.db",
		Strategy:        "bottom-up-fb",
		ForecastYears:   10,
		MaxAllowedHours: 80,
		Seed:            1,
		AllowedHours:    80,
		AllowedTasks:    12,
		HardCap:         map[string]int{},
		LogLevel:        "info",
	}
}

// Load reads a JSON configuration file, falling back to Default for any
// field the file omits.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the preconditions the engine assumes hold.
func (c *Config) Validate() error {
	if c.ForecastYears <= 0 {
		return fmt.Errorf("config: forecastYears must be positive, got %d", c.ForecastYears)
	}
	if c.MaxAllowedHours <= 0 {
		return fmt.Errorf("config: maxAllowedHours must be positive, got %d", c.MaxAllowedHours)
	}
	if c.AllowedHours < 0 || c.AllowedTasks < 0 {
		return fmt.Errorf("config: allowedHours and allowedTasks must be non-negative")
	}
	return nil
}

// HardCapTable converts the JSON-friendly string-keyed map into the
// int-keyed table the scheduler package operates on.
func (c *Config) HardCapTable() (domain.HardCapTable, error) {
	table := make(domain.HardCapTable, len(c.HardCap))
	for freqStr, limit := range c.HardCap {
		var freq int
		if _, err := fmt.Sscanf(freqStr, "%d", &freq); err != nil {
			return nil, fmt.Errorf("config: invalid hardCap frequency %q: %w", freqStr, err)
		}
		table[freq] = limit
	}
	return table, nil
}
