package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// Config holds everything the report pipeline needs. Loaded once at process
// start and passed into each stage; nothing reads configuration from ambient
// global scope after that.
type Config struct {
	Timezone  string          `koanf:"timezone"`
	Paths     PathsConfig     `koanf:"paths"`
	FollowMee FollowMeeConfig `koanf:"followmee"`
	Google    GoogleConfig    `koanf:"google"`
	Database  DatabaseConfig  `koanf:"database"`
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// PathsConfig holds the project base path and report destinations.
type PathsConfig struct {
	Project string   `koanf:"project"`
	Targets []string `koanf:"targets"`
}

// FollowMeeConfig holds tracking-service query parameters.
type FollowMeeConfig struct {
	URL      string `koanf:"url"`
	APIKey   string `koanf:"api_key"`
	Username string `koanf:"username"`
	DeviceID string `koanf:"device_id"`
}

// GoogleConfig holds geocoding and static-map endpoints.
type GoogleConfig struct {
	APIKey     string `koanf:"api_key"`
	GeocodeURL string `koanf:"geocode_url"`
	MapURL     string `koanf:"map_url"`
}

// DatabaseConfig holds the run-history store location.
type DatabaseConfig struct {
	Path string `koanf:"path"`
}

// ServerConfig holds the history API listen address.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Validate checks that every field a run depends on is present.
func (c *Config) Validate() error {
	if c.Timezone == "" {
		return fmt.Errorf("timezone is required")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	if c.Paths.Project == "" {
		return fmt.Errorf("paths.project is required")
	}
	if len(c.Paths.Targets) == 0 {
		return fmt.Errorf("paths.targets must list at least one destination")
	}
	if c.FollowMee.URL == "" || c.FollowMee.APIKey == "" ||
		c.FollowMee.Username == "" || c.FollowMee.DeviceID == "" {
		return fmt.Errorf("followmee url, api_key, username and device_id are all required")
	}
	if c.Google.APIKey == "" || c.Google.GeocodeURL == "" || c.Google.MapURL == "" {
		return fmt.Errorf("google api_key, geocode_url and map_url are all required")
	}
	return nil
}

// Location returns the configured IANA timezone. Validate must have passed.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// StagingDir returns the temp directory used for in-flight report files.
func (c *Config) StagingDir() string {
	return filepath.Join(c.Paths.Project, "tmp")
}
