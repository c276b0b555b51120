package recent

import (
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/healthydesk/internal/models"
	"github.com/julianstephens/healthydesk/internal/tui/components/dashboard"
)

// Model is a scrollable list of logged entries, newest first.
type Model struct {
	viewport viewport.Model
	Entries  []models.Entry
	loc      *time.Location
	width    int
	height   int
}

func New(width, height int, loc *time.Location) Model {
	if loc == nil {
		loc = time.Local
	}
	return Model{
		viewport: viewport.New(width, height),
		loc:      loc,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) SetEntries(list []models.Entry) {
	m.Entries = list
	m.Render()
}

func (m *Model) Render() {
	m.viewport.SetContent(dashboard.RenderRecent(m.Entries, m.loc))
}
