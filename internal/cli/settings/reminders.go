package settings

import (
	"context"
	"fmt"

	"github.com/julianstephens/healthydesk/internal/cli"
	"github.com/julianstephens/healthydesk/internal/models"
	"github.com/julianstephens/healthydesk/internal/tui/components/dashboard"
	"github.com/julianstephens/healthydesk/internal/utils"
	"github.com/julianstephens/healthydesk/internal/validation"
)

type RemindersCmd struct {
	WaterEnabled    *bool    `help:"Enable or disable water reminders."`
	WalkingEnabled  *bool    `help:"Enable or disable walking reminders."`
	WaterInterval   *float64 `help:"Minutes between water reminders (15-240)."`
	WalkingInterval *float64 `help:"Minutes between walking reminders (15-120)."`
	Plan            bool     `help:"List pending reminders."`
}

func (c *RemindersCmd) Run(ctx *cli.Context) error {
	if c.Plan {
		return c.listPending(ctx)
	}

	settings, err := ctx.Settings()
	if err != nil {
		return err
	}

	updated := false
	if c.WaterEnabled != nil {
		settings.WaterReminderEnabled = *c.WaterEnabled
		updated = true
	}
	if c.WalkingEnabled != nil {
		settings.WalkingReminderEnabled = *c.WalkingEnabled
		updated = true
	}
	if c.WaterInterval != nil {
		if err := validation.CheckInterval(models.KindWater, *c.WaterInterval); err != nil {
			return err
		}
		settings.WaterInterval = *c.WaterInterval * 60
		updated = true
	}
	if c.WalkingInterval != nil {
		if err := validation.CheckInterval(models.KindWalking, *c.WalkingInterval); err != nil {
			return err
		}
		settings.WalkingInterval = *c.WalkingInterval * 60
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		if err := ctx.Reminders.ApplySettingsChange(context.Background(), settings); err != nil {
			return fmt.Errorf("failed to reschedule reminders: %w", err)
		}
		ctx.Println("Reminder settings updated successfully.")
	}

	ctx.Println("Reminder Settings:")
	for _, kind := range models.Kinds {
		status := "off"
		if settings.ReminderEnabled(kind) {
			status = "on"
		}
		line := fmt.Sprintf("  %s %-8s %-3s every %s", dashboard.Icon(kind), kind, status,
			utils.FormatMinutes(settings.Interval(kind).Seconds()))
		if updated {
			line += fmt.Sprintf(" [%s]", ctx.Reminders.State(kind))
		}
		ctx.Println(line)
	}
	if ctx.Reminders.Authorized() {
		ctx.Println("  Notifications: authorized")
	} else {
		ctx.Println("  Notifications: not authorized (run 'healthydesk authorize')")
	}
	return nil
}

func (c *RemindersCmd) listPending(ctx *cli.Context) error {
	pending, err := ctx.Center.Pending()
	if err != nil {
		return fmt.Errorf("failed to list pending reminders: %w", err)
	}
	if len(pending) == 0 {
		ctx.Println("No pending reminders.")
		return nil
	}

	ctx.Printf("Pending reminders (%d):\n", len(pending))
	for _, r := range pending {
		ctx.Printf("  %s %s  %s  %s\n",
			utils.FormatDate(r.FireAt, ctx.Location),
			utils.FormatClock(r.FireAt, ctx.Location),
			dashboard.Icon(r.Kind),
			r.Message)
	}
	return nil
}
