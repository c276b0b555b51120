package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/healthydesk/internal/constants"
	"github.com/julianstephens/healthydesk/internal/logger"
	"github.com/julianstephens/healthydesk/internal/models"
	"github.com/julianstephens/healthydesk/internal/storage"
)

// Sender shows one notification.
type Sender interface {
	Notify(title, text string) error
}

type DispatchResult struct {
	Sent    []models.Reminder
	Dropped []models.Reminder
	Failed  []models.Reminder
}

// Dispatcher delivers due pending reminders.
type Dispatcher struct {
	store     storage.Provider
	sender    Sender
	grace     time.Duration
	interval  time.Duration
	dryRun    bool
	now       func() time.Time
	onDrained func(ctx context.Context) error
}

type DispatcherOption func(*Dispatcher)

// WithGracePeriod sets how late a reminder may be delivered before it is
// dropped. A non-positive d keeps the default.
func WithGracePeriod(d time.Duration) DispatcherOption {
	return func(x *Dispatcher) {
		if d > 0 {
			x.grace = d
		}
	}
}

func WithPollInterval(d time.Duration) DispatcherOption {
	return func(x *Dispatcher) { x.interval = d }
}

// WithDryRun reports due reminders without sending or deleting them.
func WithDryRun(dryRun bool) DispatcherOption {
	return func(x *Dispatcher) { x.dryRun = dryRun }
}

func WithDispatchClock(now func() time.Time) DispatcherOption {
	return func(x *Dispatcher) { x.now = now }
}

// WithOnDrained registers fn to run when no reminders remain pending.
func WithOnDrained(fn func(ctx context.Context) error) DispatcherOption {
	return func(x *Dispatcher) { x.onDrained = fn }
}

func NewDispatcher(store storage.Provider, sender Sender, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		store:    store,
		sender:   sender,
		grace:    constants.DefaultGracePeriodMin * time.Minute,
		interval: constants.DefaultPollIntervalSecs * time.Second,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DispatchDue sends every reminder with fire_at <= now. Reminders more than the
// grace period late are deleted unsent. Failed sends stay pending.
func (d *Dispatcher) DispatchDue(ctx context.Context, now time.Time) (DispatchResult, error) {
	var res DispatchResult

	pending, err := d.store.GetPendingReminders()
	if err != nil {
		return res, fmt.Errorf("failed to load pending reminders: %w", err)
	}

	remaining := len(pending)
	for _, r := range pending {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if r.FireAt.After(now) {
			continue
		}

		if now.Sub(r.FireAt) > d.grace {
			res.Dropped = append(res.Dropped, r)
			if !d.dryRun {
				if err := d.store.DeletePendingReminder(r.ID); err != nil {
					return res, fmt.Errorf("failed to drop reminder %s: %w", r.ID, err)
				}
				remaining--
			}
			logger.Debug("Dropped stale reminder", "id", r.ID, "fire_at", r.FireAt)
			continue
		}

		if d.dryRun {
			res.Sent = append(res.Sent, r)
			continue
		}

		if err := d.sender.Notify(r.Title, r.Message); err != nil {
			logger.Warn("Failed to deliver reminder", "id", r.ID, "error", err)
			res.Failed = append(res.Failed, r)
			continue
		}
		if err := d.store.DeletePendingReminder(r.ID); err != nil {
			return res, fmt.Errorf("failed to remove delivered reminder %s: %w", r.ID, err)
		}
		remaining--
		res.Sent = append(res.Sent, r)
		logger.Info("Delivered reminder", "id", r.ID, "kind", r.Kind)
	}

	if remaining == 0 && !d.dryRun && d.onDrained != nil {
		if err := d.onDrained(ctx); err != nil {
			return res, fmt.Errorf("failed to replenish reminders: %w", err)
		}
	}

	return res, nil
}

// Run dispatches immediately and then on every poll interval until ctx is done.
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		if _, err := d.DispatchDue(ctx, d.now()); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Error("Dispatch failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
