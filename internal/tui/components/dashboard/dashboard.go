// Package dashboard renders progress views shared by the CLI and the TUI.
package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/healthydesk/internal/models"
	"github.com/julianstephens/healthydesk/internal/stats"
	"github.com/julianstephens/healthydesk/internal/utils"
)

const (
	DefaultBarWidth = 40
	weekBarWidth    = 14
)

var (
	labelStyle = lipgloss.NewStyle().
			Width(10).
			Bold(true)

	dayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(5)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	metStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			MarginBottom(1)
)

func waterBar(width int) progress.Model {
	return progress.New(
		progress.WithGradient("#5A9BD5", "#1F4E79"),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
}

func walkingBar(width int) progress.Model {
	return progress.New(
		progress.WithGradient("#A8E063", "#56AB2F"),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
}

func barFor(kind models.Kind, width int) progress.Model {
	if kind == models.KindWater {
		return waterBar(width)
	}
	return walkingBar(width)
}

// Icon returns the glyph shown next to a kind.
func Icon(kind models.Kind) string {
	if kind == models.KindWater {
		return "💧"
	}
	return "🚶"
}

// FormatValue renders an entry value in the kind's display unit.
func FormatValue(kind models.Kind, value float64) string {
	if kind == models.KindWater {
		return utils.FormatMilliliters(value)
	}
	return utils.FormatMinutes(value)
}

func progressLine(kind models.Kind, name string, total, goal, ratio float64, width int) string {
	amount := fmt.Sprintf("%s / %s (%s)", FormatValue(kind, total), FormatValue(kind, goal), utils.FormatPercent(ratio))
	style := valueStyle
	if ratio >= 1 {
		style = metStyle
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Render(Icon(kind)+" "+name),
		barFor(kind, width).ViewAs(stats.Clamp01(ratio)),
		"  ",
		style.Render(amount),
	)
}

// RenderToday shows both kinds' progress for a single day. The percentage
// text is unclamped so overachievement stays visible; the bar is not.
func RenderToday(d models.DailyStats, width int) string {
	if width <= 0 {
		width = DefaultBarWidth
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render("Today "+d.Date.Format("Mon, Jan 2")),
		progressLine(models.KindWater, "Water", d.WaterIntake, d.WaterGoal, d.WaterProgress(), width),
		progressLine(models.KindWalking, "Walking", d.WalkingTime, d.WalkingGoal, d.WalkingProgress(), width),
	)
}

// RenderWeek shows one row per day, oldest first.
func RenderWeek(series []models.DayStats) string {
	water := waterBar(weekBarWidth)
	walking := walkingBar(weekBarWidth)

	rows := []string{headerStyle.Render("Last 7 days")}
	for _, day := range series {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			dayStyle.Render(day.Label),
			Icon(models.KindWater)+" ",
			water.ViewAs(day.WaterProgress),
			valueStyle.Render(fmt.Sprintf(" %7s  ", utils.FormatMilliliters(day.WaterIntake))),
			Icon(models.KindWalking)+" ",
			walking.ViewAs(day.WalkingProgress),
			valueStyle.Render(fmt.Sprintf(" %6s", utils.FormatMinutes(day.WalkingTime))),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// RenderRecent lists entries in the order given.
func RenderRecent(list []models.Entry, loc *time.Location) string {
	if len(list) == 0 {
		return mutedStyle.Render("No activity logged yet.")
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Recent activity"))
	b.WriteString("\n")
	for i, entry := range list {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s %s  %s  %s",
			Icon(entry.Kind),
			dayStyle.Render(utils.FormatClock(entry.Timestamp, loc)),
			mutedStyle.Render(utils.FormatDate(entry.Timestamp, loc)),
			valueStyle.Render(FormatValue(entry.Kind, entry.Value)),
		)
	}
	return b.String()
}

// RenderSummary shows streak and goal-day counts per kind.
func RenderSummary(streaks, achieved map[models.Kind]int, lookbackDays int) string {
	rows := make([]string, 0, len(models.Kinds))
	for _, kind := range models.Kinds {
		rows = append(rows, fmt.Sprintf("%s streak: %s   goal met %d/%d days",
			Icon(kind),
			metStyle.Render(fmt.Sprintf("%d", streaks[kind])),
			achieved[kind], lookbackDays,
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
