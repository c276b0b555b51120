package tui

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/healthydesk/internal/constants"
	"github.com/julianstephens/healthydesk/internal/models"
	"github.com/julianstephens/healthydesk/internal/tui/components/dashboard"
)

// AddFormModel holds the value picked in a quick-add form.
type AddFormModel struct {
	Kind  models.Kind
	Value float64
}

// Presets returns the quick-add choices for the kind.
func Presets(kind models.Kind) []constants.Preset {
	if kind == models.KindWater {
		return constants.WaterPresets
	}
	return constants.WalkPresets
}

// NewPresetForm builds a select over the kind's presets, writing the choice into fm.Value.
func NewPresetForm(fm *AddFormModel) *huh.Form {
	presets := Presets(fm.Kind)
	options := make([]huh.Option[float64], 0, len(presets))
	for _, p := range presets {
		label := fmt.Sprintf("%s (%s)", p.Label, dashboard.FormatValue(fm.Kind, p.Value))
		options = append(options, huh.NewOption(label, p.Value))
	}

	title := "How much water?"
	if fm.Kind == models.KindWalking {
		title = "How long did you walk?"
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[float64]().
				Title(title).
				Options(options...).
				Value(&fm.Value),
		),
	).WithTheme(huh.ThemeDracula())
}
