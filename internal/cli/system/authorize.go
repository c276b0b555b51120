package system

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/healthydesk/internal/cli"
	"github.com/julianstephens/healthydesk/internal/models"
	"github.com/julianstephens/healthydesk/internal/tui/components/dashboard"
)

const authorizeTimeout = 10 * time.Second

type AuthorizeCmd struct{}

func (c *AuthorizeCmd) Run(ctx *cli.Context) error {
	reqCtx, cancel := context.WithTimeout(context.Background(), authorizeTimeout)
	defer cancel()

	granted, err := ctx.Reminders.RequestAuthorization(reqCtx)
	if !granted {
		if err != nil {
			return fmt.Errorf("authorization request failed: %w", err)
		}
		ctx.Println("❌ Notifications not authorized: the tray helper is not reachable.")
		ctx.Println("   Start healthydesk-tray and run 'healthydesk authorize' again.")
		return nil
	}

	ctx.Println("✓ Notifications authorized.")
	for _, kind := range models.Kinds {
		plan := ctx.Reminders.Plan(kind)
		ctx.Printf("  %s %-8s %s (%d reminders)\n", dashboard.Icon(kind), kind, ctx.Reminders.State(kind), len(plan.Reminders))
	}
	if err != nil {
		return fmt.Errorf("failed to schedule reminders: %w", err)
	}
	return nil
}
