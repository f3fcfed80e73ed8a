package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// NotifyConfig holds web-push notification settings.
type NotifyConfig struct {
	// VAPIDPublicKey / VAPIDPrivateKey enable push delivery when both set.
	VAPIDPublicKey  string `yaml:"vapid_public_key"`
	VAPIDPrivateKey string `yaml:"vapid_private_key"`

	// DailyTime is the local HH:MM at which the due-reminder check runs.
	DailyTime string `yaml:"daily_time"`

	// Subscriber is the mailto: contact sent to the push service.
	Subscriber string `yaml:"subscriber"`
}

// ExportConfig controls the identity stamped into exported calendars.
type ExportConfig struct {
	// AppToken appears in the ICS PRODID and in event UIDs.
	AppToken string `yaml:"app_token"`
	// Language is the PRODID language tag.
	Language string `yaml:"language"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`

	// Timezone is the IANA timezone all calendar days are computed in.
	Timezone string `yaml:"timezone"`

	// DatabasePath is the SQLite file path.
	DatabasePath string `yaml:"database_path"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	Notify NotifyConfig `yaml:"notify"`
	Export ExportConfig `yaml:"export"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:       "127.0.0.1:8080",
		Timezone:     "Europe/Zurich",
		DatabasePath: "hauskal.db",
		LogLevel:     "info",
		Notify: NotifyConfig{
			DailyTime:  "07:30",
			Subscriber: "mailto:noreply@hauskal.app",
		},
		Export: ExportConfig{
			AppToken: "Hauskal",
			Language: "DE",
		},
	}
}

// Normalize fills in missing fields so that partially-filled configs still
// behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.Timezone == "" {
		c.Timezone = "Europe/Zurich"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "hauskal.db"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Notify.DailyTime == "" {
		c.Notify.DailyTime = "07:30"
	}
	if c.Notify.Subscriber == "" {
		c.Notify.Subscriber = "mailto:noreply@hauskal.app"
	}
	if c.Export.AppToken == "" {
		c.Export.AppToken = "Hauskal"
	}
	if c.Export.Language == "" {
		c.Export.Language = "DE"
	}
}

// Location resolves the configured timezone. Falls back to time.Local on an
// unknown zone name rather than failing startup.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Load loads configuration from the given YAML path. A missing file is
// created with defaults (0600) and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the configuration atomically (temp file + rename, 0600).
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".hauskal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
