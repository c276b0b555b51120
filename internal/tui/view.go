package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/healthydesk/internal/constants"
	"github.com/julianstephens/healthydesk/internal/models"
	"github.com/julianstephens/healthydesk/internal/tui/components/dashboard"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateToday:
		content = m.viewToday()
	case constants.StateWeek:
		content = m.viewWeek()
	case constants.StateRecent:
		content = docStyle.Render(m.recentModel.View())
	case constants.StateAddWater, constants.StateAddWalk:
		content = docStyle.Render(m.form.View())
	}

	parts := []string{m.viewTabs(), content}
	if m.status != "" {
		parts = append(parts, statusStyle.Render(m.status))
	}
	if m.warning != "" {
		parts = append(parts, warningStyle.Render(m.warning))
	}
	parts = append(parts, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	active := m.state
	if active == constants.StateAddWater || active == constants.StateAddWalk {
		active = m.previousState
	}

	var tabs []string
	for i, title := range tabTitles {
		if active == constants.SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) barWidth() int {
	if m.width <= 0 {
		return dashboard.DefaultBarWidth
	}
	return min(dashboard.DefaultBarWidth, max(10, m.width-50))
}

func (m Model) viewToday() string {
	now := m.now()
	snap := m.entries.Snapshot()

	streaks := make(map[models.Kind]int, len(models.Kinds))
	achieved := make(map[models.Kind]int, len(models.Kinds))
	for _, kind := range models.Kinds {
		streaks[kind] = m.engine.Streak(snap, kind, now)
		achieved[kind] = m.engine.AchievementDays(snap, kind, constants.DefaultLookbackDays, now)
	}

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		dashboard.RenderToday(m.engine.DailyStats(snap, now), m.barWidth()),
		"",
		dashboard.RenderSummary(streaks, achieved, constants.DefaultLookbackDays),
	))
}

func (m Model) viewWeek() string {
	return docStyle.Render(dashboard.RenderWeek(m.engine.WeeklySeries(m.entries.Snapshot(), m.now())))
}
