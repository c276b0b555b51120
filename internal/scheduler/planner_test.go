package scheduler

import (
	"math/rand"
	"slices"
	"testing"
	"time"

	"github.com/julianstephens/healthydesk/internal/constants"
	"github.com/julianstephens/healthydesk/internal/models"
)

var fixedNow = time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)

func testPlanner() *Planner {
	return NewPlanner(
		WithClock(func() time.Time { return fixedNow }),
		WithRand(rand.New(rand.NewSource(1))),
	)
}

func TestBuildPlan_Defaults(t *testing.T) {
	p := testPlanner()
	plan := p.BuildPlan(models.KindWater, time.Hour, true, DefaultHorizon(models.KindWater), DefaultMessages(models.KindWater))

	if plan.Kind != models.KindWater || !plan.GeneratedAt.Equal(fixedNow) {
		t.Errorf("unexpected plan header %+v", plan)
	}
	if len(plan.Reminders) != 24 {
		t.Fatalf("expected 24 reminders, got %d", len(plan.Reminders))
	}

	for i, r := range plan.Reminders {
		want := fixedNow.Add(time.Duration(i+1) * time.Hour)
		if !r.FireAt.Equal(want) {
			t.Errorf("reminder %d fires at %v, want %v", i, r.FireAt, want)
		}
		if i > 0 {
			if gap := r.FireAt.Sub(plan.Reminders[i-1].FireAt); gap != 3600*time.Second {
				t.Errorf("reminder %d gap %v, want 3600s", i, gap)
			}
		}
		if r.Title != constants.WaterReminderTitle {
			t.Errorf("unexpected title %q", r.Title)
		}
		if !slices.Contains(constants.WaterReminderMessages, r.Message) {
			t.Errorf("message %q not in the water message set", r.Message)
		}
	}
	if plan.Reminders[0].ID != "water-reminder-1" || plan.Reminders[23].ID != "water-reminder-24" {
		t.Errorf("unexpected IDs %s..%s", plan.Reminders[0].ID, plan.Reminders[23].ID)
	}
}

func TestBuildPlan_WalkingHorizon(t *testing.T) {
	p := testPlanner()
	plan := p.BuildPlan(models.KindWalking, 30*time.Minute, true, DefaultHorizon(models.KindWalking), DefaultMessages(models.KindWalking))

	if len(plan.Reminders) != 48 {
		t.Fatalf("expected 48 reminders, got %d", len(plan.Reminders))
	}
	last := plan.Reminders[len(plan.Reminders)-1]
	if !last.FireAt.Equal(fixedNow.Add(24 * time.Hour)) {
		t.Errorf("last reminder should be 24h out, got %v", last.FireAt)
	}
	for _, r := range plan.Reminders {
		if r.Kind != models.KindWalking || !slices.Contains(constants.WalkingReminderMessages, r.Message) {
			t.Errorf("unexpected reminder %+v", r)
		}
	}
}

func TestBuildPlan_EmptyCases(t *testing.T) {
	tests := []struct {
		name     string
		interval time.Duration
		enabled  bool
		horizon  int
	}{
		{"disabled", time.Hour, false, 24},
		{"zero interval", 0, true, 24},
		{"negative interval", -time.Minute, true, 24},
		{"zero horizon", time.Hour, true, 0},
		{"negative horizon", time.Hour, true, -1},
	}

	p := testPlanner()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := p.BuildPlan(models.KindWater, tt.interval, tt.enabled, tt.horizon, DefaultMessages(models.KindWater))
			if !plan.Empty() {
				t.Errorf("expected empty plan, got %d reminders", len(plan.Reminders))
			}
		})
	}
}

func TestBuildPlan_FallbackMessage(t *testing.T) {
	p := testPlanner()
	plan := p.BuildPlan(models.KindWalking, time.Minute, true, 3, nil)
	for _, r := range plan.Reminders {
		if r.Message != constants.WalkingFallbackMessage {
			t.Errorf("expected fallback message, got %q", r.Message)
		}
	}
}

func TestBuildPlan_DeterministicWithSeed(t *testing.T) {
	a := testPlanner().BuildPlan(models.KindWater, time.Hour, true, 10, DefaultMessages(models.KindWater))
	b := testPlanner().BuildPlan(models.KindWater, time.Hour, true, 10, DefaultMessages(models.KindWater))
	for i := range a.Reminders {
		if a.Reminders[i].Message != b.Reminders[i].Message {
			t.Fatalf("same seed should pick the same messages")
		}
	}
}
