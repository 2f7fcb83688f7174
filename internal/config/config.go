package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Log         LogConfig         `mapstructure:"log"`
	Map         MapConfig         `mapstructure:"map"`
	Interaction InteractionConfig `mapstructure:"interaction"`
	GPS         GPSConfig         `mapstructure:"gps"`
	Export      ExportConfig      `mapstructure:"export"`
	Session     SessionConfig     `mapstructure:"session"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

type MapConfig struct {
	CenterLat      float64 `mapstructure:"center_lat"`
	CenterLng      float64 `mapstructure:"center_lng"`
	MetersPerPixel float64 `mapstructure:"meters_per_pixel"`
	Basemap        string  `mapstructure:"basemap"`
}

type InteractionConfig struct {
	HitThresholdPx float64 `mapstructure:"hit_threshold_px"`
	HandleRadiusPx float64 `mapstructure:"handle_radius_px"`
	RotateStepDeg  float64 `mapstructure:"rotate_step_deg"`
	RotateModifier string  `mapstructure:"rotate_modifier"`
}

type GPSConfig struct {
	Source         string        `mapstructure:"source"`
	Addr           string        `mapstructure:"addr"`
	ReplayFile     string        `mapstructure:"replay_file"`
	ReplayInterval time.Duration `mapstructure:"replay_interval"`
}

type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

type SessionConfig struct {
	WorkOrderNo string `mapstructure:"work_order_no"`
	WorkType    string `mapstructure:"work_type"`
}

// Load reads configuration from a .env file, an optional trenchmap.yaml and
// TRENCHMAP_* environment variables, in increasing precedence. dirs are the
// config search path; the default is the working directory and
// $HOME/.config/trenchmap. The .env file is read from the first directory.
func Load(dirs ...string) (*Config, error) {
	if len(dirs) == 0 {
		dirs = []string{"."}
		if home, err := os.UserHomeDir(); err == nil {
			dirs = append(dirs, filepath.Join(home, ".config", "trenchmap"))
		}
	}
	if err := godotenv.Load(filepath.Join(dirs[0], ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	v := viper.New()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("map.center_lat", 24.4539)
	v.SetDefault("map.center_lng", 39.5773)
	v.SetDefault("map.meters_per_pixel", 2.0)
	v.SetDefault("map.basemap", "")
	v.SetDefault("interaction.hit_threshold_px", 10.0)
	v.SetDefault("interaction.handle_radius_px", 8.0)
	v.SetDefault("interaction.rotate_step_deg", 15.0)
	v.SetDefault("interaction.rotate_modifier", "alt")
	v.SetDefault("gps.source", "none")
	v.SetDefault("gps.addr", "localhost:2947")
	v.SetDefault("gps.replay_file", "")
	v.SetDefault("gps.replay_interval", "1s")
	v.SetDefault("export.dir", ".")
	v.SetDefault("session.work_order_no", "")
	v.SetDefault("session.work_type", "")

	// Config file (optional)
	v.SetConfigName("trenchmap")
	v.SetConfigType("yaml")
	for _, d := range dirs {
		v.AddConfigPath(d)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// Environment variables: TRENCHMAP_GPS_SOURCE → gps.source
	v.SetEnvPrefix("TRENCHMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs []string

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level must be debug|info|warn|error, got %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be text|json, got %q", c.Log.Format))
	}
	if c.Map.CenterLat < -90 || c.Map.CenterLat > 90 {
		errs = append(errs, fmt.Sprintf("map.center_lat must be within [-90,90], got %v", c.Map.CenterLat))
	}
	if c.Map.CenterLng < -180 || c.Map.CenterLng > 180 {
		errs = append(errs, fmt.Sprintf("map.center_lng must be within [-180,180], got %v", c.Map.CenterLng))
	}
	if c.Map.MetersPerPixel <= 0 {
		errs = append(errs, "map.meters_per_pixel must be positive")
	}
	if c.Interaction.HitThresholdPx <= 0 {
		errs = append(errs, "interaction.hit_threshold_px must be positive")
	}
	if c.Interaction.HandleRadiusPx <= 0 {
		errs = append(errs, "interaction.handle_radius_px must be positive")
	}
	if c.Interaction.RotateStepDeg <= 0 || c.Interaction.RotateStepDeg >= 360 {
		errs = append(errs, "interaction.rotate_step_deg must be within (0,360)")
	}
	switch strings.ToLower(c.Interaction.RotateModifier) {
	case "none", "alt", "ctrl", "shift":
	default:
		errs = append(errs, fmt.Sprintf("interaction.rotate_modifier must be none|alt|ctrl|shift, got %q", c.Interaction.RotateModifier))
	}
	switch strings.ToLower(c.GPS.Source) {
	case "none":
	case "gpsd":
		if c.GPS.Addr == "" {
			errs = append(errs, "gps.addr is required for the gpsd source")
		}
	case "replay":
		if c.GPS.ReplayFile == "" {
			errs = append(errs, "gps.replay_file is required for the replay source")
		}
		if c.GPS.ReplayInterval <= 0 {
			errs = append(errs, "gps.replay_interval must be positive")
		}
	default:
		errs = append(errs, fmt.Sprintf("gps.source must be none|gpsd|replay, got %q", c.GPS.Source))
	}
	if c.Export.Dir == "" {
		errs = append(errs, "export.dir is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
