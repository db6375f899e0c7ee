package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"survey-app/internal/models"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application. Values are read from
// app.yaml in the config directory and can be overridden by SURVEY_* env vars.
type Config struct {
	ServerAddress string        `mapstructure:"server_address"`
	DataDir       string        `mapstructure:"data_dir"`
	DBSource      string        `mapstructure:"db_source"`
	Log           LogConfig     `mapstructure:"log"`
	Overlay       OverlayConfig `mapstructure:"overlay"`
	Session       SessionConfig `mapstructure:"session"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OverlayConfig controls the road overlay download.
type OverlayConfig struct {
	Endpoint       string        `mapstructure:"endpoint"`
	File           string        `mapstructure:"file"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxSpan        float64       `mapstructure:"max_span"`
}

type SessionConfig struct {
	DefaultLat       float64 `mapstructure:"default_lat"`
	DefaultLon       float64 `mapstructure:"default_lon"`
	DefaultProject   string  `mapstructure:"default_project"`
	DefaultCollector string  `mapstructure:"default_collector"`
	DefaultMethod    string  `mapstructure:"default_method"`
	Zoom             int     `mapstructure:"zoom"`
}

// Defaults is the one table of fallback values used by a survey session.
type Defaults struct {
	Point     models.Coordinate
	Project   string
	Collector string
	Method    models.Method
	Zoom      int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_address", ":8080")
	v.SetDefault("data_dir", "data")
	v.SetDefault("db_source", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("overlay.endpoint", "https://overpass-api.de/api/interpreter")
	v.SetDefault("overlay.file", "roads.geojson")
	v.SetDefault("overlay.request_timeout", 30*time.Second)
	v.SetDefault("overlay.max_span", 0.5)

	v.SetDefault("session.default_lat", 35.6895)
	v.SetDefault("session.default_lon", 139.6917)
	v.SetDefault("session.default_project", "default")
	v.SetDefault("session.default_collector", "M. Yamaguchi")
	v.SetDefault("session.default_method", string(models.MethodLightTrap))
	v.SetDefault("session.zoom", 18)
}

// LoadConfig reads configuration from app.yaml in path, if present, and from
// the environment.
func LoadConfig(path string) (Config, error) {
	var config Config

	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("survey")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("config: failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("config: failed to decode config: %w", err)
	}

	if err := config.validate(); err != nil {
		return config, err
	}
	return config, nil
}

func (c Config) validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("config: data_dir cannot be empty")
	}
	if c.Overlay.MaxSpan <= 0 {
		return fmt.Errorf("config: overlay.max_span must be positive, got %g", c.Overlay.MaxSpan)
	}
	if c.Overlay.RequestTimeout <= 0 {
		return fmt.Errorf("config: overlay.request_timeout must be positive")
	}
	if !(models.Coordinate{Lat: c.Session.DefaultLat, Lon: c.Session.DefaultLon}).IsSet() {
		return fmt.Errorf("config: session default point %g,%g is not a usable coordinate",
			c.Session.DefaultLat, c.Session.DefaultLon)
	}
	return nil
}

// Defaults collects the session fallback values.
func (c Config) Defaults() Defaults {
	return Defaults{
		Point:     models.Coordinate{Lat: c.Session.DefaultLat, Lon: c.Session.DefaultLon},
		Project:   c.Session.DefaultProject,
		Collector: c.Session.DefaultCollector,
		Method:    models.ParseMethod(c.Session.DefaultMethod, models.MethodLightTrap),
		Zoom:      c.Session.Zoom,
	}
}
