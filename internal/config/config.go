package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/julianstephens/healthydesk/internal/constants"
	"github.com/julianstephens/healthydesk/internal/utils"
)

// StatsConfig holds statistics display preferences.
type StatsConfig struct {
	// StreakMode is "consecutive" (goal met on consecutive days) or "today"
	// (1 when anything was logged today).
	StreakMode  string `mapstructure:"streak_mode" yaml:"streak_mode"`
	RecentLimit int    `mapstructure:"recent_limit" yaml:"recent_limit"`
}

// NotifyConfig holds reminder delivery preferences.
type NotifyConfig struct {
	GracePeriodMin  int `mapstructure:"grace_period_min" yaml:"grace_period_min"`
	PollIntervalSec int `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`
}

// AppConfig is the top-level application configuration. Goals and reminder
// settings are not part of it; they are persisted in storage.
type AppConfig struct {
	DataPath string       `mapstructure:"data_path" yaml:"data_path"`
	Debug    bool         `mapstructure:"debug" yaml:"debug"`
	Timezone string       `mapstructure:"timezone" yaml:"timezone"`
	Stats    StatsConfig  `mapstructure:"stats" yaml:"stats"`
	Notify   NotifyConfig `mapstructure:"notify" yaml:"notify"`
}

// DefaultConfigPath returns the default path for the configuration file.
func DefaultConfigPath() string {
	return utils.ExpandHome(constants.DefaultConfigPath)
}

// Default returns the configuration used when no file is present.
func Default() *AppConfig {
	return &AppConfig{
		DataPath: utils.ExpandHome(constants.DefaultDataPath),
		Timezone: "Local",
		Stats: StatsConfig{
			StreakMode:  constants.StreakModeConsecutive,
			RecentLimit: constants.DefaultRecentLimit,
		},
		Notify: NotifyConfig{
			GracePeriodMin:  constants.DefaultGracePeriodMin,
			PollIntervalSec: constants.DefaultPollIntervalSecs,
		},
	}
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix(strings.ToUpper(constants.AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("data_path", def.DataPath)
	v.SetDefault("debug", def.Debug)
	v.SetDefault("timezone", def.Timezone)
	v.SetDefault("stats.streak_mode", def.Stats.StreakMode)
	v.SetDefault("stats.recent_limit", def.Stats.RecentLimit)
	v.SetDefault("notify.grace_period_min", def.Notify.GracePeriodMin)
	v.SetDefault("notify.poll_interval_sec", def.Notify.PollIntervalSec)
	return v
}

// Load reads configuration from the given YAML file path. A missing file
// yields defaults (still overridable through HEALTHYDESK_* variables).
func Load(path string) (*AppConfig, error) {
	v := newViper(path)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.DataPath = utils.ExpandHome(cfg.DataPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted silently.
func (c *AppConfig) Validate() error {
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("unknown timezone %q", c.Timezone)
	}
	switch c.Stats.StreakMode {
	case constants.StreakModeConsecutive, constants.StreakModeToday:
	default:
		return fmt.Errorf("stats.streak_mode must be %q or %q", constants.StreakModeConsecutive, constants.StreakModeToday)
	}
	if c.Stats.RecentLimit < 0 {
		return fmt.Errorf("stats.recent_limit must not be negative")
	}
	if c.Notify.GracePeriodMin < 0 {
		return fmt.Errorf("notify.grace_period_min must not be negative")
	}
	if c.Notify.GracePeriodMin == 0 {
		c.Notify.GracePeriodMin = constants.DefaultGracePeriodMin
	}
	if c.Notify.PollIntervalSec <= 0 {
		c.Notify.PollIntervalSec = constants.DefaultPollIntervalSecs
	}
	return nil
}

// ConfigDir is the directory holding logs and backups for this config.
func (c *AppConfig) ConfigDir() string {
	return filepath.Dir(c.DataPath)
}

// Save writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func Save(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("data_path", cfg.DataPath)
	v.Set("debug", cfg.Debug)
	v.Set("timezone", cfg.Timezone)
	v.Set("stats.streak_mode", cfg.Stats.StreakMode)
	v.Set("stats.recent_limit", cfg.Stats.RecentLimit)
	v.Set("notify.grace_period_min", cfg.Notify.GracePeriodMin)
	v.Set("notify.poll_interval_sec", cfg.Notify.PollIntervalSec)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}
