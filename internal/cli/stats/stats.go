package stats

import (
	"fmt"

	"github.com/julianstephens/healthydesk/internal/cli"
	"github.com/julianstephens/healthydesk/internal/constants"
	"github.com/julianstephens/healthydesk/internal/models"
	"github.com/julianstephens/healthydesk/internal/tui/components/dashboard"
)

type TodayCmd struct {
	Width int `help:"Progress bar width." default:"40"`
}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	daily := ctx.Stats.DailyStats(ctx.Entries.Snapshot(), ctx.Clock())
	ctx.Println(dashboard.RenderToday(daily, c.Width))
	return nil
}

type WeekCmd struct{}

func (c *WeekCmd) Run(ctx *cli.Context) error {
	series := ctx.Stats.WeeklySeries(ctx.Entries.Snapshot(), ctx.Clock())
	ctx.Println(dashboard.RenderWeek(series))
	return nil
}

type AchievementsCmd struct {
	Days int `help:"Number of days to look back, including today." default:"30"`
}

func (c *AchievementsCmd) Run(ctx *cli.Context) error {
	if c.Days <= 0 {
		return fmt.Errorf("--days must be positive, got %d", c.Days)
	}

	snap := ctx.Entries.Snapshot()
	now := ctx.Clock()
	ctx.Printf("Goal days in the last %d days:\n", c.Days)
	for _, kind := range models.Kinds {
		n := ctx.Stats.AchievementDays(snap, kind, c.Days, now)
		ctx.Printf("  %s %-8s %d/%d\n", dashboard.Icon(kind), kind, n, c.Days)
	}
	return nil
}

type StreakCmd struct{}

func (c *StreakCmd) Run(ctx *cli.Context) error {
	snap := ctx.Entries.Snapshot()
	now := ctx.Clock()

	ctx.Printf("Streaks (%s mode):\n", ctx.Stats.StreakMode())
	for _, kind := range models.Kinds {
		n := ctx.Stats.Streak(snap, kind, now)
		unit := "days"
		if n == 1 {
			unit = "day"
		}
		ctx.Printf("  %s %-8s %d %s\n", dashboard.Icon(kind), kind, n, unit)
	}
	return nil
}

type RecentCmd struct {
	Limit *int `help:"Maximum number of entries to show. 0 shows everything."`
}

func (c *RecentCmd) Run(ctx *cli.Context) error {
	limit := constants.DefaultRecentLimit
	if ctx.Config != nil && ctx.Config.Stats.RecentLimit > 0 {
		limit = ctx.Config.Stats.RecentLimit
	}
	if c.Limit != nil {
		limit = *c.Limit
	}
	if limit < 0 {
		return fmt.Errorf("--limit must not be negative, got %d", limit)
	}

	list := ctx.Stats.RecentActivity(ctx.Entries.Snapshot(), limit)
	ctx.Println(dashboard.RenderRecent(list, ctx.Location))
	return nil
}
