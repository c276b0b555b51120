package entries

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/healthydesk/internal/cli"
	"github.com/julianstephens/healthydesk/internal/constants"
	"github.com/julianstephens/healthydesk/internal/models"
	"github.com/julianstephens/healthydesk/internal/tui"
	"github.com/julianstephens/healthydesk/internal/tui/components/dashboard"
	"github.com/julianstephens/healthydesk/internal/utils"
)

// runForm is replaced in tests to avoid a terminal.
var runForm = func(f *huh.Form) error {
	return f.Run()
}

type WaterCmd struct {
	Amount *float64 `arg:"" optional:"" help:"Amount in milliliters."`
	Preset string   `help:"Preset name: small-cup, regular-cup, bottle, large-bottle, 1-liter." short:"p"`
}

func (c *WaterCmd) Run(ctx *cli.Context) error {
	var amount float64
	if c.Amount != nil {
		amount = *c.Amount
	}
	return logEntry(ctx, models.KindWater, amount, c.Amount != nil, c.Preset)
}

type WalkCmd struct {
	Minutes *float64 `arg:"" optional:"" help:"Walking time in minutes."`
	Preset  string   `help:"Preset name: quick-walk, short-walk, nice-walk, good-walk, long-walk." short:"p"`
}

func (c *WalkCmd) Run(ctx *cli.Context) error {
	var seconds float64
	if c.Minutes != nil {
		seconds = *c.Minutes * 60
	}
	return logEntry(ctx, models.KindWalking, seconds, c.Minutes != nil, c.Preset)
}

func normalizePreset(name string) string {
	r := strings.NewReplacer(" ", "", "-", "", "_", "")
	return strings.ToLower(r.Replace(name))
}

// FindPreset looks up a quick-add preset by label, ignoring case and separators.
func FindPreset(kind models.Kind, name string) (constants.Preset, error) {
	want := normalizePreset(name)
	for _, p := range tui.Presets(kind) {
		if normalizePreset(p.Label) == want {
			return p, nil
		}
	}
	return constants.Preset{}, fmt.Errorf("unknown %s preset: %q", kind, name)
}

func logEntry(ctx *cli.Context, kind models.Kind, value float64, hasValue bool, preset string) error {
	switch {
	case hasValue && preset != "":
		return fmt.Errorf("specify either an amount or --preset, not both")
	case preset != "":
		p, err := FindPreset(kind, preset)
		if err != nil {
			return err
		}
		value = p.Value
	case !hasValue:
		fm := &tui.AddFormModel{Kind: kind, Value: tui.Presets(kind)[1].Value}
		if err := runForm(tui.NewPresetForm(fm)); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				ctx.Println("Cancelled.")
				return nil
			}
			return fmt.Errorf("failed to read %s amount: %w", kind, err)
		}
		value = fm.Value
	}

	var err error
	if kind == models.KindWater {
		_, err = ctx.Entries.AddWater(value)
	} else {
		_, err = ctx.Entries.AddWalk(value)
	}
	if err != nil {
		return fmt.Errorf("failed to log %s: %w", kind, err)
	}

	daily := ctx.Stats.DailyStats(ctx.Entries.Snapshot(), ctx.Clock())
	total, goal, ratio := daily.WaterIntake, daily.WaterGoal, daily.WaterProgress()
	if kind == models.KindWalking {
		total, goal, ratio = daily.WalkingTime, daily.WalkingGoal, daily.WalkingProgress()
	}

	ctx.Printf("✓ Logged %s %s\n", dashboard.Icon(kind), dashboard.FormatValue(kind, value))
	ctx.Printf("  Today: %s / %s (%s)\n",
		dashboard.FormatValue(kind, total), dashboard.FormatValue(kind, goal), utils.FormatPercent(ratio))
	if ratio >= 1 {
		ctx.Println("  🎉 Daily goal reached!")
	}
	return nil
}
