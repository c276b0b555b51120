package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/healthydesk/internal/backup"
	"github.com/julianstephens/healthydesk/internal/config"
	"github.com/julianstephens/healthydesk/internal/entries"
	"github.com/julianstephens/healthydesk/internal/logger"
	"github.com/julianstephens/healthydesk/internal/models"
	"github.com/julianstephens/healthydesk/internal/notifier"
	"github.com/julianstephens/healthydesk/internal/scheduler"
	"github.com/julianstephens/healthydesk/internal/stats"
	"github.com/julianstephens/healthydesk/internal/storage"
)

type Context struct {
	Store    storage.Provider
	Config   *config.AppConfig
	Location *time.Location
	// ConfigPath is where init writes a starter config file
	ConfigPath string

	// Populated by Wire once storage is loaded
	Entries   *entries.Store
	Stats     *stats.Engine
	Center    *notifier.Center
	Reminders *scheduler.Manager

	// Out receives command output; nil means stdout
	Out io.Writer
	// Now is the reference clock for stats; nil means time.Now
	Now func() time.Time
	// Probe overrides the tray reachability check used for authorization
	Probe func() error
}

// Wire builds the entry store, stats engine and reminder manager on top of a loaded Store.
func (c *Context) Wire() error {
	if c.Config == nil {
		c.Config = config.Default()
	}
	if c.Location == nil {
		c.Location = time.Local
	}

	settings, err := c.Store.GetSettings()
	if err != nil {
		logger.Warn("Failed to read settings, using defaults", "error", err)
		settings = models.DefaultSettings()
	}
	models.ApplyDefaultSettings(&settings)

	mode, err := stats.ParseStreakMode(c.Config.Stats.StreakMode)
	if err != nil {
		return err
	}

	c.Entries = entries.New(c.Store, entries.WithClock(c.Clock))
	c.Entries.Load()
	c.Stats = stats.New(c.Location, stats.WithStreakMode(mode))

	var opts []notifier.CenterOption
	if c.Probe != nil {
		opts = append(opts, notifier.WithProbe(c.Probe))
	}
	c.Center = notifier.NewCenter(c.Store, opts...)
	c.Reminders = scheduler.NewManager(c.Center, scheduler.NewPlanner(), settings)
	return nil
}

func (c *Context) Stdout() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Stdout(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Stdout(), args...)
}

func (c *Context) Clock() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Settings returns the persisted settings with defaults applied.
func (c *Context) Settings() (models.Settings, error) {
	settings, err := c.Store.GetSettings()
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	models.ApplyDefaultSettings(&settings)
	return settings, nil
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}
