package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/healthydesk/internal/constants"
	"github.com/julianstephens/healthydesk/internal/entries"
	"github.com/julianstephens/healthydesk/internal/stats"
	"github.com/julianstephens/healthydesk/internal/tui/components/recent"
)

const (
	tabCount        = 3
	refreshInterval = time.Minute
)

var tabTitles = []string{"Today", "Week", "Recent"}

type tickMsg time.Time

type Option func(*Model)

func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// WithRecentLimit caps the Recent tab. A limit <= 0 shows everything.
func WithRecentLimit(limit int) Option {
	return func(m *Model) { m.recentLimit = limit }
}

type Model struct {
	entries       *entries.Store
	engine        *stats.Engine
	now           func() time.Time
	state         constants.SessionState
	previousState constants.SessionState
	keys          KeyMap
	help          help.Model
	form          *huh.Form
	addForm       *AddFormModel
	recentModel   recent.Model
	recentLimit   int
	status        string
	warning       string
	quitting      bool
	width         int
	height        int
}

func NewModel(store *entries.Store, engine *stats.Engine, opts ...Option) Model {
	m := Model{
		entries:     store,
		engine:      engine,
		now:         time.Now,
		state:       constants.StateToday,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		recentModel: recent.New(0, 0, engine.Location()),
		recentLimit: constants.DefaultRecentLimit,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.refresh()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.AddWater, m.keys.AddWalk, m.keys.Quit, m.keys.Help}
	if m.state == constants.StateRecent {
		keys = append(keys, m.keys.Up, m.keys.Down)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	actions := []key.Binding{m.keys.AddWater, m.keys.AddWalk, m.keys.Refresh}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}
	return [][]key.Binding{global, actions, navigation}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the periodic refresh so totals roll over at local midnight.
func (m Model) Init() tea.Cmd {
	return tick()
}

// refresh reloads the list views from the entry store.
func (m *Model) refresh() {
	snap := m.entries.Snapshot()
	m.recentModel.SetEntries(m.engine.RecentActivity(snap, m.recentLimit))
}
