package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/healthydesk/internal/cli"
	"github.com/julianstephens/healthydesk/internal/cli/backups"
	"github.com/julianstephens/healthydesk/internal/cli/entries"
	"github.com/julianstephens/healthydesk/internal/cli/settings"
	"github.com/julianstephens/healthydesk/internal/cli/stats"
	"github.com/julianstephens/healthydesk/internal/cli/system"
	"github.com/julianstephens/healthydesk/internal/config"
	"github.com/julianstephens/healthydesk/internal/constants"
	"github.com/julianstephens/healthydesk/internal/errors"
	"github.com/julianstephens/healthydesk/internal/logger"
	"github.com/julianstephens/healthydesk/internal/storage"
	"github.com/julianstephens/healthydesk/internal/utils"
)

type cliArgs struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"${config_path}"`
	Data    string `help:"Data file path. A .json extension selects JSON storage; anything else is SQLite." type:"path"`
	Debug   bool   `help:"Enable debug logging to stderr."`

	Init         system.InitCmd        `cmd:"" help:"Initialize healthydesk storage."`
	Water        entries.WaterCmd      `cmd:"" help:"Log water intake in milliliters."`
	Walk         entries.WalkCmd       `cmd:"" help:"Log walking time in minutes."`
	Today        stats.TodayCmd        `cmd:"" help:"Show today's progress."`
	Week         stats.WeekCmd         `cmd:"" help:"Show the last seven days."`
	Achievements stats.AchievementsCmd `cmd:"" help:"Count days the goals were met."`
	Streak       stats.StreakCmd       `cmd:"" help:"Show current streaks."`
	Recent       stats.RecentCmd       `cmd:"" help:"Show recent activity."`
	Goals        settings.GoalsCmd     `cmd:"" help:"Show or update daily goals."`
	Reminders    settings.RemindersCmd `cmd:"" help:"Show or update reminder settings."`
	Authorize    system.AuthorizeCmd   `cmd:"" help:"Allow reminder notifications and schedule them."`
	Notify       system.NotifyCmd      `cmd:"" hidden:"" help:"Deliver due reminders (used internally)."`
	Reset        system.ResetCmd       `cmd:"" help:"Delete all entries."`
	Export       system.ExportCmd      `cmd:"" help:"Export entries as CSV or JSON."`
	Doctor       system.DoctorCmd      `cmd:"" help:"Run health checks and diagnostics."`
	Tui          system.TuiCmd         `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Backup       struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage data backups."`
}

var CLI cliArgs

// commands that manage storage loading themselves
var selfLoading = map[string]bool{
	"init":   true,
	"doctor": true,
}

func parserOptions() []kong.Option {
	return []kong.Option{
		kong.Name(constants.AppName),
		kong.Description("Water and walking tracker with desk reminders"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": config.DefaultConfigPath(),
		},
	}
}

// run loads configuration and storage, then executes the selected command.
// A nil out writes to stdout.
func run(kctx *kong.Context, args *cliArgs, out io.Writer) error {
	cfg, err := config.Load(args.Config)
	if err != nil {
		return err
	}
	if args.Data != "" {
		cfg.DataPath = args.Data
	}
	if args.Debug {
		cfg.Debug = true
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: cfg.ConfigDir()}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}

	loc, err := utils.LoadLocation(cfg.Timezone)
	if err != nil {
		return err
	}

	store := storage.Open(cfg.DataPath)
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close storage", "error", err)
		}
	}()

	appCtx := &cli.Context{
		Store:      store,
		Config:     cfg,
		Location:   loc,
		ConfigPath: args.Config,
		Out:        out,
	}

	if kctx.Selected() != nil && !selfLoading[kctx.Selected().Name] {
		if err := store.Load(); err != nil {
			return err
		}
		if err := appCtx.Wire(); err != nil {
			return err
		}
	}

	return kctx.Run(appCtx)
}

func main() {
	kctx := kong.Parse(&CLI, parserOptions()...)
	errors.Fatal(run(kctx, &CLI, nil))
}
