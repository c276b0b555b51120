package system

import (
	"bufio"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/healthydesk/internal/cli"
	"github.com/julianstephens/healthydesk/internal/config"
	"github.com/julianstephens/healthydesk/internal/constants"
	"github.com/julianstephens/healthydesk/internal/models"
	"github.com/julianstephens/healthydesk/internal/notifier"
	"github.com/julianstephens/healthydesk/internal/storage"
	"github.com/julianstephens/healthydesk/internal/storage/sqlite"
)

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T, authorized bool) (*cli.Context, *bytes.Buffer, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	if err := store.SaveFlag(constants.SettingNotificationsAuthorized, authorized); err != nil {
		t.Fatalf("failed to save authorization flag: %v", err)
	}

	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Store:    store,
		Config:   config.Default(),
		Location: time.UTC,
		Out:      out,
		Now:      func() time.Time { return fixedNow },
		Probe:    func() error { return nil },
	}
	if err := ctx.Wire(); err != nil {
		t.Fatalf("failed to wire context: %v", err)
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}

	return ctx, out, cleanup
}

type recordingSender struct {
	titles []string
	err    error
}

func (s *recordingSender) Notify(title, text string) error {
	if s.err != nil {
		return s.err
	}
	s.titles = append(s.titles, title)
	return nil
}

func withSender(t *testing.T, s notifier.Sender) {
	t.Helper()
	orig := newSender
	newSender = func() notifier.Sender { return s }
	t.Cleanup(func() { newSender = orig })
}

func TestInitCmd_Fresh(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "healthydesk.db")
	store := sqlite.NewStore(dbPath)
	defer store.Close()

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	out := &bytes.Buffer{}
	ctx := &cli.Context{Store: store, Out: out, ConfigPath: configPath}

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("expected database file: %v", err)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("expected a loadable config file: %v", err)
	}
	if cfg.Stats.StreakMode != constants.StreakModeConsecutive {
		t.Errorf("expected default streak mode, got %q", cfg.Stats.StreakMode)
	}
	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	if settings.DailyWaterGoal != constants.DefaultWaterGoalML {
		t.Errorf("expected default water goal, got %v", settings.DailyWaterGoal)
	}
}

func TestInitCmd_ForceRecreates(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t, false)
	defer cleanup()

	if _, err := ctx.Entries.AddWater(250); err != nil {
		t.Fatalf("AddWater failed: %v", err)
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}
	if !strings.Contains(out.String(), "Deleted existing data file") {
		t.Errorf("expected delete message, got:\n%s", out.String())
	}

	list, err := ctx.Store.LoadEntries(models.KindWater)
	if err != nil {
		t.Fatalf("LoadEntries failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected entries to be gone after force init, got %d", len(list))
	}
}

func TestInitCmd_JSONDoubleInitFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	store := storage.Open(path)
	ctx := &cli.Context{Store: store, Out: &bytes.Buffer{}}

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	if err := (&InitCmd{}).Run(ctx); err == nil {
		t.Error("expected second init without --force to fail")
	}
	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Errorf("init --force failed: %v", err)
	}
}

func TestAuthorizeCmd_Granted(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t, false)
	defer cleanup()

	if err := (&AuthorizeCmd{}).Run(ctx); err != nil {
		t.Fatalf("authorize failed: %v", err)
	}

	flag, err := ctx.Store.GetFlag(constants.SettingNotificationsAuthorized)
	if err != nil {
		t.Fatalf("GetFlag failed: %v", err)
	}
	if !flag {
		t.Error("expected authorization flag to be stored")
	}

	pending, err := ctx.Center.Pending()
	if err != nil {
		t.Fatalf("Pending failed: %v", err)
	}
	want := constants.DefaultWaterHorizon + constants.DefaultWalkingHorizon
	if len(pending) != want {
		t.Errorf("expected %d pending reminders, got %d", want, len(pending))
	}
	if !strings.Contains(out.String(), "authorized") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestAuthorizeCmd_Denied(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t, false)
	defer cleanup()

	ctx.Probe = func() error { return notifier.ErrTrayNotRunning }
	if err := ctx.Wire(); err != nil {
		t.Fatalf("failed to rewire: %v", err)
	}

	if err := (&AuthorizeCmd{}).Run(ctx); err != nil {
		t.Fatalf("denied authorization should not error: %v", err)
	}
	pending, err := ctx.Center.Pending()
	if err != nil {
		t.Fatalf("Pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("expected nothing scheduled, got %d", len(pending))
	}
	if !strings.Contains(out.String(), "not authorized") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func addPending(t *testing.T, ctx *cli.Context, reminders ...models.Reminder) {
	t.Helper()
	if err := ctx.Store.AddPendingReminders(reminders); err != nil {
		t.Fatalf("AddPendingReminders failed: %v", err)
	}
}

func TestNotifyCmd_DispatchesDue(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t, true)
	defer cleanup()

	sender := &recordingSender{}
	withSender(t, sender)

	addPending(t, ctx,
		models.Reminder{ID: "due", Kind: models.KindWater, FireAt: fixedNow.Add(-time.Minute), Title: "Water Reminder", Message: "drink"},
		models.Reminder{ID: "stale", Kind: models.KindWater, FireAt: fixedNow.Add(-time.Hour), Title: "Old", Message: "old"},
		models.Reminder{ID: "future", Kind: models.KindWalking, FireAt: fixedNow.Add(time.Hour), Title: "Walking Reminder", Message: "walk"},
	)

	if err := (&NotifyCmd{}).Run(ctx); err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	if len(sender.titles) != 1 || sender.titles[0] != "Water Reminder" {
		t.Errorf("expected one water notification, got %v", sender.titles)
	}
	pending, err := ctx.Center.Pending()
	if err != nil {
		t.Fatalf("Pending failed: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "future" {
		t.Errorf("expected only the future reminder to remain, got %+v", pending)
	}
}

func TestNotifyCmd_ReplenishesWhenDrained(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t, true)
	defer cleanup()

	withSender(t, &recordingSender{})
	addPending(t, ctx, models.Reminder{ID: "last", Kind: models.KindWater, FireAt: fixedNow, Title: "Water Reminder", Message: "drink"})

	if err := (&NotifyCmd{}).Run(ctx); err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	pending, err := ctx.Center.Pending()
	if err != nil {
		t.Fatalf("Pending failed: %v", err)
	}
	want := constants.DefaultWaterHorizon + constants.DefaultWalkingHorizon
	if len(pending) != want {
		t.Errorf("expected %d replenished reminders, got %d", want, len(pending))
	}
}

func TestNotifyCmd_ReplenishUsesCurrentSettings(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t, true)
	defer cleanup()

	withSender(t, &recordingSender{})
	addPending(t, ctx, models.Reminder{ID: "last", Kind: models.KindWater, FireAt: fixedNow, Title: "Water Reminder", Message: "drink"})

	// another command changes reminders after this process wired its manager
	if err := ctx.Store.SaveFlag(constants.SettingWaterReminderEnabled, false); err != nil {
		t.Fatalf("SaveFlag failed: %v", err)
	}
	if err := ctx.Store.SaveScalar(constants.SettingWalkingInterval, 900); err != nil {
		t.Fatalf("SaveScalar failed: %v", err)
	}

	if err := (&NotifyCmd{}).Run(ctx); err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	pending, err := ctx.Center.Pending()
	if err != nil {
		t.Fatalf("Pending failed: %v", err)
	}
	if len(pending) != constants.DefaultWalkingHorizon {
		t.Fatalf("expected %d walking reminders, got %d", constants.DefaultWalkingHorizon, len(pending))
	}
	for _, r := range pending {
		if r.Kind == models.KindWater {
			t.Fatalf("disabled water reminders were rescheduled: %+v", r)
		}
	}
	if gap := pending[1].FireAt.Sub(pending[0].FireAt); gap != 15*time.Minute {
		t.Errorf("expected the updated 15m walking interval, got %v", gap)
	}
}

func TestNotifyCmd_DryRunKeepsPending(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t, true)
	defer cleanup()

	sender := &recordingSender{}
	withSender(t, sender)
	addPending(t, ctx, models.Reminder{ID: "due", Kind: models.KindWater, FireAt: fixedNow, Title: "Water Reminder", Message: "drink"})

	if err := (&NotifyCmd{DryRun: true}).Run(ctx); err != nil {
		t.Fatalf("notify --dry-run failed: %v", err)
	}
	if len(sender.titles) != 0 {
		t.Errorf("dry run should not send, got %v", sender.titles)
	}
	if !strings.Contains(out.String(), "[DryRun] Water Reminder: drink") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
	pending, _ := ctx.Center.Pending()
	if len(pending) != 1 {
		t.Errorf("dry run should keep the reminder, got %d pending", len(pending))
	}
}

func TestNotifyCmd_FailedSendStaysPending(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t, true)
	defer cleanup()

	withSender(t, &recordingSender{err: errors.New("tray down")})
	addPending(t, ctx, models.Reminder{ID: "due", Kind: models.KindWater, FireAt: fixedNow, Title: "Water Reminder", Message: "drink"})

	if err := (&NotifyCmd{}).Run(ctx); err != nil {
		t.Fatalf("notify failed: %v", err)
	}
	pending, _ := ctx.Center.Pending()
	if len(pending) != 1 {
		t.Errorf("expected failed reminder to stay pending, got %d", len(pending))
	}
	if !strings.Contains(out.String(), "Failed to send 1 reminder") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestNotifyCmd_Unauthorized(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t, false)
	defer cleanup()

	sender := &recordingSender{}
	withSender(t, sender)
	addPending(t, ctx, models.Reminder{ID: "due", Kind: models.KindWater, FireAt: fixedNow, Title: "Water Reminder", Message: "drink"})

	if err := (&NotifyCmd{DryRun: true}).Run(ctx); err != nil {
		t.Fatalf("notify failed: %v", err)
	}
	if len(sender.titles) != 0 {
		t.Errorf("expected no notifications, got %v", sender.titles)
	}
	if !strings.Contains(out.String(), "not authorized") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestResetCmd(t *testing.T) {
	t.Run("confirmed with flag", func(t *testing.T) {
		ctx, _, cleanup := setupTestDB(t, false)
		defer cleanup()

		if _, err := ctx.Entries.AddWater(500); err != nil {
			t.Fatalf("AddWater failed: %v", err)
		}
		if err := (&ResetCmd{Yes: true}).Run(ctx); err != nil {
			t.Fatalf("reset failed: %v", err)
		}
		if n := len(ctx.Entries.Snapshot().Water); n != 0 {
			t.Errorf("expected no water entries, got %d", n)
		}

		backupDir := filepath.Join(filepath.Dir(ctx.Store.GetConfigPath()), constants.BackupDirName)
		files, err := os.ReadDir(backupDir)
		if err != nil {
			t.Fatalf("failed to read backup dir: %v", err)
		}
		if len(files) != 1 {
			t.Errorf("expected one automatic backup, got %d", len(files))
		}
	})

	t.Run("declined at prompt", func(t *testing.T) {
		ctx, out, cleanup := setupTestDB(t, false)
		defer cleanup()

		orig := confirmInput
		confirmInput = func() *bufio.Reader { return bufio.NewReader(strings.NewReader("n\n")) }
		defer func() { confirmInput = orig }()

		if _, err := ctx.Entries.AddWater(500); err != nil {
			t.Fatalf("AddWater failed: %v", err)
		}
		if err := (&ResetCmd{}).Run(ctx); err != nil {
			t.Fatalf("reset failed: %v", err)
		}
		if n := len(ctx.Entries.Snapshot().Water); n != 1 {
			t.Errorf("expected entries to be kept, got %d", n)
		}
		if !strings.Contains(out.String(), "Reset cancelled") {
			t.Errorf("unexpected output:\n%s", out.String())
		}
	})
}

func TestExportCmd(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t, false)
	defer cleanup()

	if _, err := ctx.Entries.AddWater(250); err != nil {
		t.Fatalf("AddWater failed: %v", err)
	}
	if _, err := ctx.Entries.AddWalk(600); err != nil {
		t.Fatalf("AddWalk failed: %v", err)
	}

	t.Run("csv to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "export.csv")
		if err := (&ExportCmd{Format: "csv", Output: path}).Run(ctx); err != nil {
			t.Fatalf("export failed: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read export: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
		}
		if !strings.HasPrefix(lines[0], "id,kind,value") {
			t.Errorf("unexpected header: %s", lines[0])
		}
	})

	t.Run("json to stdout", func(t *testing.T) {
		out.Reset()
		if err := (&ExportCmd{Format: "json"}).Run(ctx); err != nil {
			t.Fatalf("export failed: %v", err)
		}
		if !strings.Contains(out.String(), `"entries"`) {
			t.Errorf("unexpected json output:\n%s", out.String())
		}
	})

	t.Run("bad format", func(t *testing.T) {
		if err := (&ExportCmd{Format: "xml"}).Run(ctx); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}

func TestDoctorCmd_HealthyDB(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t, false)
	defer cleanup()

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor command failed on healthy database: %v\n%s", err, out.String())
	}
	// Missing backups is a warning, not a failure
	if !strings.Contains(out.String(), "⚠ Backups present: WARNING") {
		t.Errorf("expected backup warning, got:\n%s", out.String())
	}
}

func TestDoctorCmd_CorruptBlob(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t, false)
	defer cleanup()

	store := ctx.Store.(*sqlite.Store)
	if err := store.SaveRawEntries(models.KindWater, []byte("{not json")); err != nil {
		t.Fatalf("SaveRawEntries failed: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("expected doctor to fail on corrupt entries")
	}
	if !strings.Contains(out.String(), "❌ Entry data: FAIL") {
		t.Errorf("expected entry data failure, got:\n%s", out.String())
	}
}

func TestDoctorCmd_TrayUnreachableWarns(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t, false)
	defer cleanup()

	ctx.Probe = func() error { return notifier.ErrTrayNotRunning }
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("tray warning should not fail doctor: %v", err)
	}
	if !strings.Contains(out.String(), "⚠ Tray helper reachable: WARNING") {
		t.Errorf("expected tray warning, got:\n%s", out.String())
	}
}

func TestDoctorCmd_UninitializedStorage(t *testing.T) {
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "missing.db"))
	out := &bytes.Buffer{}
	ctx := &cli.Context{Store: store, Out: out, Location: time.UTC, Probe: func() error { return nil }}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("expected doctor to fail without storage")
	}
	if !strings.Contains(out.String(), "⊘ Schema version: SKIPPED") {
		t.Errorf("expected dependent checks to be skipped, got:\n%s", out.String())
	}
}

func TestDoctorCmd_JSONSkipsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	store := storage.Open(path)
	if err := store.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	out := &bytes.Buffer{}
	ctx := &cli.Context{Store: store, Out: out, Location: time.UTC, Probe: func() error { return nil }}

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor failed on JSON storage: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "⊘ Schema version: SKIPPED (JSON storage has no schema)") {
		t.Errorf("expected schema skip, got:\n%s", out.String())
	}
}
