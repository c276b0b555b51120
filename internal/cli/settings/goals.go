package settings

import (
	"fmt"

	"github.com/julianstephens/healthydesk/internal/cli"
	"github.com/julianstephens/healthydesk/internal/constants"
	"github.com/julianstephens/healthydesk/internal/models"
	"github.com/julianstephens/healthydesk/internal/utils"
	"github.com/julianstephens/healthydesk/internal/validation"
)

type GoalsCmd struct {
	Water   *float64 `help:"Daily water goal in milliliters (500-4000)."`
	Walking *float64 `help:"Daily walking goal in minutes (15-120)."`
	Reset   bool     `help:"Restore the recommended goals."`
}

func (c *GoalsCmd) Run(ctx *cli.Context) error {
	goals := ctx.Entries.Goals()

	if c.Reset && (c.Water != nil || c.Walking != nil) {
		return fmt.Errorf("--reset cannot be combined with --water or --walking")
	}

	updated := false
	if c.Reset {
		goals = models.Goals{
			WaterML:    constants.DefaultWaterGoalML,
			WalkingSec: constants.DefaultWalkingGoalSec,
		}
		updated = true
	}
	if c.Water != nil {
		if err := validation.CheckWaterGoal(*c.Water); err != nil {
			return err
		}
		goals.WaterML = *c.Water
		updated = true
	}
	if c.Walking != nil {
		if err := validation.CheckWalkingGoal(*c.Walking); err != nil {
			return err
		}
		goals.WalkingSec = *c.Walking * 60
		updated = true
	}

	if updated {
		if err := ctx.Entries.SetGoals(goals); err != nil {
			return fmt.Errorf("failed to update goals: %w", err)
		}
		ctx.Println("Goals updated successfully.")
	}

	ctx.Println("Daily Goals:")
	ctx.Printf("  Water:   %s\n", utils.FormatMilliliters(goals.WaterML))
	ctx.Printf("  Walking: %s\n", utils.FormatMinutes(goals.WalkingSec))
	return nil
}
