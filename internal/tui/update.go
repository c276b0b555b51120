package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/healthydesk/internal/constants"
	"github.com/julianstephens/healthydesk/internal/models"
	"github.com/julianstephens/healthydesk/internal/tui/components/dashboard"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.recentModel.SetSize(msg.Width-4, msg.Height-6)
	case tickMsg:
		m.entries.Load()
		m.refresh()
		return m, tick()
	}

	if m.state == constants.StateAddWater || m.state == constants.StateAddWalk {
		return m.updateAddForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.AddWater):
			return m.openAddForm(models.KindWater)
		case key.Matches(msg, m.keys.AddWalk):
			return m.openAddForm(models.KindWalking)
		case key.Matches(msg, m.keys.Refresh):
			m.entries.Load()
			m.refresh()
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.state == constants.StateRecent {
		m.recentModel, cmd = m.recentModel.Update(msg)
	}
	return m, cmd
}

func (m Model) openAddForm(kind models.Kind) (tea.Model, tea.Cmd) {
	m.previousState = m.state
	m.state = constants.StateAddWater
	if kind == models.KindWalking {
		m.state = constants.StateAddWalk
	}
	m.addForm = &AddFormModel{Kind: kind, Value: Presets(kind)[1].Value}
	m.form = NewPresetForm(m.addForm)
	m.status = ""
	m.warning = ""
	return m, m.form.Init()
}

func (m Model) updateAddForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.logEntry(m.addForm.Kind, m.addForm.Value)
		m.state = m.previousState
		m.refresh()
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, cmd
}

func (m *Model) logEntry(kind models.Kind, value float64) {
	var err error
	if kind == models.KindWater {
		_, err = m.entries.AddWater(value)
	} else {
		_, err = m.entries.AddWalk(value)
	}
	if err != nil {
		m.warning = fmt.Sprintf("⚠ Could not log %s: %v", kind, err)
		return
	}
	m.status = fmt.Sprintf("✓ Logged %s %s", dashboard.Icon(kind), dashboard.FormatValue(kind, value))
}
