package notifier

import (
	"context"

	"github.com/julianstephens/healthydesk/internal/constants"
	"github.com/julianstephens/healthydesk/internal/logger"
	"github.com/julianstephens/healthydesk/internal/models"
	"github.com/julianstephens/healthydesk/internal/storage"
)

// Center records reminder plans in storage for the dispatcher to deliver.
// Authorization is the user's consent, stored as a settings flag.
type Center struct {
	store storage.Provider
	probe func() error
}

type CenterOption func(*Center)

// WithProbe replaces the check run before granting authorization.
func WithProbe(probe func() error) CenterOption {
	return func(c *Center) { c.probe = probe }
}

func NewCenter(store storage.Provider, opts ...CenterOption) *Center {
	c := &Center{
		store: store,
		probe: New().Probe,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RequestAuthorization grants when the tray helper is reachable and stores the answer.
func (c *Center) RequestAuthorization(ctx context.Context) <-chan bool {
	ch := make(chan bool, 1)
	go func() {
		defer close(ch)
		granted := true
		if err := c.probe(); err != nil {
			logger.Warn("Tray helper unavailable, authorization denied", "error", err)
			granted = false
		}
		if err := c.store.SaveFlag(constants.SettingNotificationsAuthorized, granted); err != nil {
			logger.Error("Failed to store authorization", "error", err)
		}
		select {
		case ch <- granted:
		case <-ctx.Done():
		}
	}()
	return ch
}

func (c *Center) AuthorizationStatus(ctx context.Context) <-chan bool {
	ch := make(chan bool, 1)
	go func() {
		defer close(ch)
		granted, err := c.store.GetFlag(constants.SettingNotificationsAuthorized)
		if err != nil {
			logger.Warn("Failed to read authorization", "error", err)
		}
		select {
		case ch <- granted:
		case <-ctx.Done():
		}
	}()
	return ch
}

func (c *Center) CancelAllPending(ctx context.Context) error {
	return c.store.ClearPendingReminders()
}

func (c *Center) Submit(ctx context.Context, plan models.ReminderPlan) error {
	if plan.Empty() {
		return nil
	}
	return c.store.AddPendingReminders(plan.Reminders)
}

// Pending lists stored reminders in firing order.
func (c *Center) Pending() ([]models.Reminder, error) {
	return c.store.GetPendingReminders()
}
