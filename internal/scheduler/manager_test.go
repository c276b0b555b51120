package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/healthydesk/internal/models"
)

type fakeNotifier struct {
	mu        sync.Mutex
	grant     bool
	status    bool
	submitErr error
	calls     []string
	submitted []models.ReminderPlan
}

func answer(v bool) <-chan bool {
	ch := make(chan bool, 1)
	go func() { ch <- v }()
	return ch
}

func (f *fakeNotifier) RequestAuthorization(context.Context) <-chan bool {
	f.record("request")
	return answer(f.grant)
}

func (f *fakeNotifier) AuthorizationStatus(context.Context) <-chan bool {
	f.record("status")
	return answer(f.status)
}

func (f *fakeNotifier) CancelAllPending(context.Context) error {
	f.record("cancel")
	return nil
}

func (f *fakeNotifier) Submit(_ context.Context, plan models.ReminderPlan) error {
	f.record("submit:" + string(plan.Kind))
	if f.submitErr != nil {
		return f.submitErr
	}
	f.mu.Lock()
	f.submitted = append(f.submitted, plan)
	f.mu.Unlock()
	return nil
}

func (f *fakeNotifier) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeNotifier) submissions() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.submitted)
}

func defaultSettings() models.Settings {
	return models.DefaultSettings()
}

func TestRequestAuthorization_GrantSchedulesBothKinds(t *testing.T) {
	n := &fakeNotifier{grant: true}
	m := NewManager(n, testPlanner(), defaultSettings())

	granted, err := m.RequestAuthorization(context.Background())
	if err != nil || !granted {
		t.Fatalf("expected grant, got %v (%v)", granted, err)
	}
	if !m.Authorized() {
		t.Error("manager should be authorized")
	}

	want := []string{"request", "cancel", "submit:water", "submit:walking"}
	if len(n.calls) != len(want) {
		t.Fatalf("expected calls %v, got %v", want, n.calls)
	}
	for i := range want {
		if n.calls[i] != want[i] {
			t.Errorf("call %d: expected %s, got %s", i, want[i], n.calls[i])
		}
	}

	if len(m.Plan(models.KindWater).Reminders) != 24 || len(m.Plan(models.KindWalking).Reminders) != 48 {
		t.Errorf("unexpected plan sizes %d/%d", len(m.Plan(models.KindWater).Reminders), len(m.Plan(models.KindWalking).Reminders))
	}
	for _, kind := range models.Kinds {
		if m.State(kind) != StateScheduled {
			t.Errorf("%s: expected scheduled, got %s", kind, m.State(kind))
		}
	}
}

func TestRequestAuthorization_DeniedSubmitsNothing(t *testing.T) {
	n := &fakeNotifier{grant: false}
	m := NewManager(n, testPlanner(), defaultSettings())

	granted, err := m.RequestAuthorization(context.Background())
	if err != nil || granted {
		t.Fatalf("expected denial, got %v (%v)", granted, err)
	}
	if n.submissions() != 0 {
		t.Errorf("expected no submissions, got %d", n.submissions())
	}
	if err := m.ApplySettingsChange(context.Background(), defaultSettings()); err != nil {
		t.Fatal(err)
	}
	if n.submissions() != 0 {
		t.Errorf("settings change without authorization should not submit, got %d", n.submissions())
	}
	for _, kind := range models.Kinds {
		if m.State(kind) != StateDisabled {
			t.Errorf("%s: expected disabled, got %s", kind, m.State(kind))
		}
	}
}

func TestRequestAuthorization_ContextCanceled(t *testing.T) {
	n := &blockingNotifier{}
	m := NewManager(n, testPlanner(), defaultSettings())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := m.RequestAuthorization(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if m.Authorized() {
		t.Error("authorization should be unchanged")
	}
}

type blockingNotifier struct{ fakeNotifier }

func (b *blockingNotifier) RequestAuthorization(context.Context) <-chan bool {
	return make(chan bool)
}

func TestApplySettingsChange_CancelsBeforeSubmit(t *testing.T) {
	n := &fakeNotifier{grant: true}
	m := NewManager(n, testPlanner(), defaultSettings())
	if _, err := m.RequestAuthorization(context.Background()); err != nil {
		t.Fatal(err)
	}
	n.calls = nil

	settings := defaultSettings()
	settings.WaterInterval = 1800
	settings.WalkingReminderEnabled = false
	if err := m.ApplySettingsChange(context.Background(), settings); err != nil {
		t.Fatal(err)
	}

	want := []string{"cancel", "submit:water"}
	if len(n.calls) != len(want) || n.calls[0] != want[0] || n.calls[1] != want[1] {
		t.Fatalf("expected calls %v, got %v", want, n.calls)
	}

	plan := m.Plan(models.KindWater)
	if gap := plan.Reminders[1].FireAt.Sub(plan.Reminders[0].FireAt); gap != 30*time.Minute {
		t.Errorf("expected 30m spacing, got %v", gap)
	}
	if m.State(models.KindWater) != StateRescheduled {
		t.Errorf("water: expected rescheduled, got %s", m.State(models.KindWater))
	}
	if m.State(models.KindWalking) != StateDisabled {
		t.Errorf("walking: expected disabled, got %s", m.State(models.KindWalking))
	}
	if !m.Plan(models.KindWalking).Empty() {
		t.Error("disabled walking plan should be empty")
	}

	// Re-enabling starts over from scheduled
	settings.WalkingReminderEnabled = true
	if err := m.ApplySettingsChange(context.Background(), settings); err != nil {
		t.Fatal(err)
	}
	if m.State(models.KindWalking) != StateScheduled {
		t.Errorf("walking: expected scheduled after re-enable, got %s", m.State(models.KindWalking))
	}
}

func TestApplySettingsChange_ZeroIntervalUsesDefault(t *testing.T) {
	n := &fakeNotifier{grant: true}
	m := NewManager(n, testPlanner(), defaultSettings())
	if _, err := m.RequestAuthorization(context.Background()); err != nil {
		t.Fatal(err)
	}

	settings := defaultSettings()
	settings.WaterInterval = 0
	if err := m.ApplySettingsChange(context.Background(), settings); err != nil {
		t.Fatal(err)
	}
	plan := m.Plan(models.KindWater)
	if plan.Empty() {
		t.Fatal("expected default interval plan")
	}
	if got := plan.Reminders[0].FireAt.Sub(fixedNow); got != time.Hour {
		t.Errorf("expected first reminder after 1h, got %v", got)
	}
}

func TestCheckAuthorization_DoesNotSchedule(t *testing.T) {
	n := &fakeNotifier{status: true}
	m := NewManager(n, testPlanner(), defaultSettings())

	ok, err := m.CheckAuthorization(context.Background())
	if err != nil || !ok {
		t.Fatalf("expected authorized, got %v (%v)", ok, err)
	}
	if n.submissions() != 0 {
		t.Errorf("CheckAuthorization should not submit, got %d", n.submissions())
	}
	if !m.Authorized() {
		t.Error("expected authorized flag")
	}
}

func TestCheckAuthorization_LossDisablesStates(t *testing.T) {
	n := &fakeNotifier{grant: true, status: false}
	m := NewManager(n, testPlanner(), defaultSettings())
	if _, err := m.RequestAuthorization(context.Background()); err != nil {
		t.Fatal(err)
	}

	if _, err := m.CheckAuthorization(context.Background()); err != nil {
		t.Fatal(err)
	}
	for _, kind := range models.Kinds {
		if m.State(kind) != StateDisabled {
			t.Errorf("%s: expected disabled after losing authorization, got %s", kind, m.State(kind))
		}
	}
	if err := m.Reschedule(context.Background()); err != nil {
		t.Fatal(err)
	}
	if n.submissions() != 2 {
		t.Errorf("reschedule without authorization should not submit, got %d total", n.submissions())
	}
}

func TestReschedule_SubmitErrorReported(t *testing.T) {
	n := &fakeNotifier{grant: true, submitErr: errors.New("store offline")}
	m := NewManager(n, testPlanner(), defaultSettings())

	_, err := m.RequestAuthorization(context.Background())
	if err == nil {
		t.Fatal("expected submit error")
	}
	if m.State(models.KindWater) != StateDisabled {
		t.Errorf("failed submission should not mark the kind scheduled, got %s", m.State(models.KindWater))
	}
}

func TestStateString(t *testing.T) {
	for state, want := range map[State]string{
		StateDisabled:    "disabled",
		StateScheduled:   "scheduled",
		StateRescheduled: "rescheduled",
	} {
		if state.String() != want {
			t.Errorf("expected %s, got %s", want, state.String())
		}
	}
}
