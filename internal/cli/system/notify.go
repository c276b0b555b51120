package system

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/healthydesk/internal/cli"
	"github.com/julianstephens/healthydesk/internal/constants"
	"github.com/julianstephens/healthydesk/internal/notifier"
)

// newSender is replaced in tests to avoid the tray helper.
var newSender = func() notifier.Sender {
	return notifier.New()
}

type NotifyCmd struct {
	DryRun bool `help:"Print due reminders instead of sending them."`
	Watch  bool `help:"Keep running and dispatch on every poll interval."`
}

// replenish rebuilds plans from the settings and authorization stored now,
// since a watcher outlives changes made by other commands.
func replenish(ctx *cli.Context) func(context.Context) error {
	return func(c context.Context) error {
		settings, err := ctx.Settings()
		if err != nil {
			return err
		}
		if _, err := ctx.Reminders.CheckAuthorization(c); err != nil {
			return fmt.Errorf("failed to check authorization: %w", err)
		}
		return ctx.Reminders.ApplySettingsChange(c, settings)
	}
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	authorized, err := ctx.Store.GetFlag(constants.SettingNotificationsAuthorized)
	if err != nil {
		return fmt.Errorf("failed to read authorization: %w", err)
	}
	if !authorized {
		if c.DryRun {
			ctx.Println("Notifications are not authorized.")
		}
		return nil
	}

	grace := constants.DefaultGracePeriodMin * time.Minute
	poll := constants.DefaultPollIntervalSecs * time.Second
	if ctx.Config != nil {
		grace = time.Duration(ctx.Config.Notify.GracePeriodMin) * time.Minute
		poll = time.Duration(ctx.Config.Notify.PollIntervalSec) * time.Second
	}

	d := notifier.NewDispatcher(ctx.Store, newSender(),
		notifier.WithGracePeriod(grace),
		notifier.WithPollInterval(poll),
		notifier.WithDryRun(c.DryRun),
		notifier.WithDispatchClock(ctx.Clock),
		notifier.WithOnDrained(replenish(ctx)),
	)

	if c.Watch {
		sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return d.Run(sigCtx)
	}

	res, err := d.DispatchDue(context.Background(), ctx.Clock())
	if err != nil {
		return err
	}

	if c.DryRun {
		for _, r := range res.Sent {
			ctx.Printf("[DryRun] %s: %s\n", r.Title, r.Message)
		}
		for _, r := range res.Dropped {
			ctx.Printf("[DryRun] stale, would drop: %s (%s)\n", r.Title, r.FireAt.In(ctx.Location).Format(constants.TimeFormat))
		}
		if len(res.Sent) == 0 && len(res.Dropped) == 0 {
			ctx.Println("[DryRun] Nothing due.")
		}
		return nil
	}

	if len(res.Failed) > 0 {
		ctx.Printf("Failed to send %d reminder(s); they will be retried.\n", len(res.Failed))
	}
	return nil
}
