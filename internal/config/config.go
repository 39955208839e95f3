package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"hotel/internal/hotel"
	"hotel/internal/model"
)

const (
	DefaultPath = "configs/config.yaml"
	// EnvPath overrides the config location when no flag is given.
	EnvPath = "HOTEL_CONFIG_PATH"
)

type Config struct {
	Hotel struct {
		Name    string `yaml:"name"`
		Address string `yaml:"address"`
	} `yaml:"hotel"`

	Storage struct {
		Driver     string `yaml:"driver"`
		DataDir    string `yaml:"data_dir"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"storage"`

	Backup struct {
		Enabled       bool   `yaml:"enabled"`
		Path          string `yaml:"path"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"backup"`

	Booking struct {
		RejectPastStart *bool `yaml:"reject_past_start"`
	} `yaml:"booking"`

	Rates struct {
		StandardRate     float64 `yaml:"standard_rate"`
		DoubleRate       float64 `yaml:"double_rate"`
		SuiteRate        float64 `yaml:"suite_rate"`
		JacuzziSurcharge float64 `yaml:"jacuzzi_surcharge"`
		BalconySurcharge float64 `yaml:"balcony_surcharge"`
	} `yaml:"tariff"`

	Session struct {
		RedisAddress   string `yaml:"redis_address"`
		RedisPassword  string `yaml:"redis_password"`
		RedisDB        int    `yaml:"redis_db"`
		LockTTLSeconds int    `yaml:"lock_ttl_seconds"`
	} `yaml:"session"`

	Monitoring struct {
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Load reads the YAML config at path. A .env file in the working directory
// is loaded first so its variables can feed ${ENV_VAR} placeholders.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvPath)
	}
	if path == "" {
		path = DefaultPath
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err = cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when every key is omitted.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Hotel.Name == "" {
		c.Hotel.Name = "Hotel"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "flat"
	}
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = "data"
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = filepath.Join(c.Storage.DataDir, "hotel.db")
	}
	if c.Backup.Path == "" {
		c.Backup.Path = "backups"
	}
	if c.Backup.RetentionDays <= 0 {
		c.Backup.RetentionDays = 30
	}

	def := model.DefaultTariff()
	if c.Rates.StandardRate <= 0 {
		c.Rates.StandardRate = def.StandardRate
	}
	if c.Rates.DoubleRate <= 0 {
		c.Rates.DoubleRate = def.DoubleRate
	}
	if c.Rates.SuiteRate <= 0 {
		c.Rates.SuiteRate = def.SuiteRate
	}
	if c.Rates.JacuzziSurcharge <= 0 {
		c.Rates.JacuzziSurcharge = def.JacuzziSurcharge
	}
	if c.Rates.BalconySurcharge <= 0 {
		c.Rates.BalconySurcharge = def.BalconySurcharge
	}

	if c.Session.LockTTLSeconds <= 0 {
		c.Session.LockTTLSeconds = 3600
	}
	if c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "flat", "sqlite":
	default:
		return fmt.Errorf("storage.driver %q: want flat or sqlite", c.Storage.Driver)
	}
	return nil
}

// Tariff returns room rates and suite surcharges.
func (c *Config) Tariff() model.Tariff {
	return model.Tariff{
		StandardRate:     c.Rates.StandardRate,
		DoubleRate:       c.Rates.DoubleRate,
		SuiteRate:        c.Rates.SuiteRate,
		JacuzziSurcharge: c.Rates.JacuzziSurcharge,
		BalconySurcharge: c.Rates.BalconySurcharge,
	}
}

// Policy returns the reservation rules. Past starts are rejected unless
// explicitly allowed.
func (c *Config) Policy() hotel.Policy {
	reject := true
	if c.Booking.RejectPastStart != nil {
		reject = *c.Booking.RejectPastStart
	}
	return hotel.Policy{RejectPastStart: reject}
}

func (c *Config) LockTTL() time.Duration {
	return time.Duration(c.Session.LockTTLSeconds) * time.Second
}
