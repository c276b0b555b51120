package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/healthydesk/internal/backup"
	"github.com/julianstephens/healthydesk/internal/cli"
	"github.com/julianstephens/healthydesk/internal/models"
	"github.com/julianstephens/healthydesk/internal/notifier"
	"github.com/julianstephens/healthydesk/internal/storage/sqlite"
	"github.com/julianstephens/healthydesk/internal/utils"
	"github.com/julianstephens/healthydesk/internal/validation"
)

// skipError marks a check that does not apply to the current storage.
type skipError struct{ reason string }

func (e skipError) Error() string { return e.reason }

type DoctorCmd struct{}

type check struct {
	name string
	// warnOnly checks print ⚠ instead of failing the run
	warnOnly bool
	needsDB  bool
	run      func(ctx *cli.Context) error
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	checks := []check{
		{name: "Storage reachable", run: checkStorageReachable},
		{name: "Schema version", needsDB: true, run: checkSchemaVersion},
		{name: "Entry data", needsDB: true, run: checkEntryData},
		{name: "Settings ranges", needsDB: true, run: checkSettings},
		{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
		{name: "Tray helper reachable", warnOnly: true, run: checkTray},
		{name: "Clock/timezone", run: checkClockTimezone},
	}

	hasError := false
	dbReachable := false
	for i, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (storage not reachable)\n", c.name)
			continue
		}

		err := c.run(ctx)
		var skip skipError
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
			if i == 0 {
				dbReachable = true
			}
		case errors.As(err, &skip):
			ctx.Printf("⊘ %s: SKIPPED (%s)\n", c.name, skip.reason)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkStorageReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	if s, ok := ctx.Store.(*sqlite.Store); ok {
		db := s.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}

	if ctx.Entries == nil {
		if err := ctx.Wire(); err != nil {
			return err
		}
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	s, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return skipError{"JSON storage has no schema"}
	}

	current, latest, err := s.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("database schema version (%d) is behind latest (%d); run 'healthydesk init' to migrate", current, latest)
	}
	return nil
}

func checkEntryData(ctx *cli.Context) error {
	var errs []error
	for _, kind := range models.Kinds {
		if _, err := ctx.Store.LoadEntries(kind); err != nil {
			errs = append(errs, fmt.Errorf("%s entries unreadable: %w", kind, err))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	result := validation.ValidateEntries(ctx.Entries.Snapshot(), ctx.Clock())
	if result.HasConflicts() {
		return fmt.Errorf("%s", result.FormatReport())
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	result := validation.ValidateSettings(settings)
	if result.HasConflicts() {
		return fmt.Errorf("%s", result.FormatReport())
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found in %s", mgr.GetBackupDir())
	}
	return nil
}

func checkTray(ctx *cli.Context) error {
	probe := ctx.Probe
	if probe == nil {
		probe = notifier.New().Probe
	}
	if err := probe(); err != nil {
		return fmt.Errorf("reminders cannot be delivered: %w", err)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	if ctx.Config != nil && !utils.ValidateTimezone(ctx.Config.Timezone) {
		return fmt.Errorf("invalid timezone in config: %q", ctx.Config.Timezone)
	}

	if ctx.Location == nil {
		return fmt.Errorf("no timezone loaded")
	}
	if now := ctx.Clock(); now.Year() < 2020 {
		return fmt.Errorf("system clock appears to be wrong (year %d)", now.Year())
	}
	return nil
}
