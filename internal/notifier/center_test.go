package notifier

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/healthydesk/internal/constants"
	"github.com/julianstephens/healthydesk/internal/models"
	"github.com/julianstephens/healthydesk/internal/storage/sqlite"
)

func setupStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init storage: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCenterRequestAuthorization(t *testing.T) {
	tests := []struct {
		name  string
		probe func() error
		want  bool
	}{
		{"tray reachable", func() error { return nil }, true},
		{"tray missing", func() error { return ErrTrayNotRunning }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := setupStore(t)
			c := NewCenter(store, WithProbe(tt.probe))

			if got := <-c.RequestAuthorization(context.Background()); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			stored, err := store.GetFlag(constants.SettingNotificationsAuthorized)
			if err != nil {
				t.Fatal(err)
			}
			if stored != tt.want {
				t.Errorf("expected stored flag %v, got %v", tt.want, stored)
			}
			if got := <-c.AuthorizationStatus(context.Background()); got != tt.want {
				t.Errorf("status: expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestCenterSubmitAndCancel(t *testing.T) {
	store := setupStore(t)
	c := NewCenter(store, WithProbe(func() error { return errors.New("unused") }))
	ctx := context.Background()

	now := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	plan := models.ReminderPlan{
		Kind: models.KindWater,
		Reminders: []models.Reminder{
			{ID: "water-reminder-1", Kind: models.KindWater, FireAt: now.Add(time.Hour), Title: "Water Reminder", Message: "a"},
			{ID: "water-reminder-2", Kind: models.KindWater, FireAt: now.Add(2 * time.Hour), Title: "Water Reminder", Message: "b"},
		},
	}

	if err := c.Submit(ctx, plan); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if err := c.Submit(ctx, models.ReminderPlan{Kind: models.KindWalking}); err != nil {
		t.Fatalf("empty Submit failed: %v", err)
	}
	pending, err := c.Pending()
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending, got %d", len(pending))
	}

	if err := c.CancelAllPending(ctx); err != nil {
		t.Fatal(err)
	}
	pending, _ = c.Pending()
	if len(pending) != 0 {
		t.Errorf("expected nothing pending after cancel, got %d", len(pending))
	}
}
