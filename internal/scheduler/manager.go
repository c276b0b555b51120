package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/julianstephens/healthydesk/internal/logger"
	"github.com/julianstephens/healthydesk/internal/models"
)

// Notifier is the delivery side of reminders. Authorization answers arrive
// on the returned channels; a closed channel counts as denied.
type Notifier interface {
	RequestAuthorization(ctx context.Context) <-chan bool
	AuthorizationStatus(ctx context.Context) <-chan bool
	CancelAllPending(ctx context.Context) error
	Submit(ctx context.Context, plan models.ReminderPlan) error
}

type State int

const (
	StateDisabled State = iota
	StateScheduled
	StateRescheduled
)

func (s State) String() string {
	switch s {
	case StateScheduled:
		return "scheduled"
	case StateRescheduled:
		return "rescheduled"
	default:
		return "disabled"
	}
}

// Manager keeps the pending reminders in line with the current settings and
// authorization.
type Manager struct {
	notifier Notifier
	planner  *Planner

	mu         sync.Mutex
	settings   models.Settings
	authorized bool
	states     map[models.Kind]State
	plans      map[models.Kind]models.ReminderPlan
}

func NewManager(notifier Notifier, planner *Planner, settings models.Settings) *Manager {
	models.ApplyDefaultSettings(&settings)
	return &Manager{
		notifier:   notifier,
		planner:    planner,
		settings:   settings,
		authorized: settings.NotificationsAuthorized,
		states:     make(map[models.Kind]State),
		plans:      make(map[models.Kind]models.ReminderPlan),
	}
}

func await(ctx context.Context, ch <-chan bool) (bool, error) {
	select {
	case v, ok := <-ch:
		return ok && v, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// CheckAuthorization refreshes the authorized flag. It never schedules.
func (m *Manager) CheckAuthorization(ctx context.Context) (bool, error) {
	granted, err := await(ctx, m.notifier.AuthorizationStatus(ctx))
	if err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.setAuthorizedLocked(granted)
	return granted, nil
}

// RequestAuthorization asks for permission and schedules every enabled kind
// once granted.
func (m *Manager) RequestAuthorization(ctx context.Context) (bool, error) {
	granted, err := await(ctx, m.notifier.RequestAuthorization(ctx))
	if err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.setAuthorizedLocked(granted)
	if !granted {
		logger.Info("Notification authorization denied")
		return false, nil
	}
	return true, m.rescheduleLocked(ctx)
}

func (m *Manager) setAuthorizedLocked(granted bool) {
	m.authorized = granted
	if !granted {
		for kind := range m.states {
			m.states[kind] = StateDisabled
		}
	}
}

// ApplySettingsChange stores settings and, when authorized, replaces every
// pending reminder with freshly built plans.
func (m *Manager) ApplySettingsChange(ctx context.Context, settings models.Settings) error {
	models.ApplyDefaultSettings(&settings)

	m.mu.Lock()
	defer m.mu.Unlock()

	settings.NotificationsAuthorized = m.authorized
	m.settings = settings
	if !m.authorized {
		logger.Debug("Settings stored, reminders not scheduled without authorization")
		return nil
	}
	return m.rescheduleLocked(ctx)
}

// Reschedule rebuilds both plans from the current settings.
func (m *Manager) Reschedule(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.authorized {
		return nil
	}
	return m.rescheduleLocked(ctx)
}

func (m *Manager) rescheduleLocked(ctx context.Context) error {
	if err := m.notifier.CancelAllPending(ctx); err != nil {
		return fmt.Errorf("failed to cancel pending reminders: %w", err)
	}

	var errs []error
	for _, kind := range models.Kinds {
		plan := m.planner.BuildPlan(
			kind,
			m.settings.Interval(kind),
			m.settings.ReminderEnabled(kind),
			DefaultHorizon(kind),
			DefaultMessages(kind),
		)
		m.plans[kind] = plan

		if plan.Empty() {
			m.states[kind] = StateDisabled
			continue
		}
		if err := m.notifier.Submit(ctx, plan); err != nil {
			errs = append(errs, fmt.Errorf("failed to submit %s reminders: %w", kind, err))
			continue
		}

		if m.states[kind] == StateDisabled {
			m.states[kind] = StateScheduled
		} else {
			m.states[kind] = StateRescheduled
		}
		logger.Debug("Scheduled reminders", "kind", kind, "count", len(plan.Reminders), "state", m.states[kind])
	}
	return errors.Join(errs...)
}

// Plan returns the most recently built plan for kind.
func (m *Manager) Plan(kind models.Kind) models.ReminderPlan {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.plans[kind]
}

func (m *Manager) State(kind models.Kind) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[kind]
}

func (m *Manager) Authorized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authorized
}

func (m *Manager) Settings() models.Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}
