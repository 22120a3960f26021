package models

import (
	"time"

	"github.com/allbin/pandad/internal/tui/components"
	"github.com/allbin/pandad/internal/tui/keys"
	"github.com/allbin/pandad/internal/tui/styles"
	"github.com/allbin/pandad/internal/usbdev"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Describe lists the currently attached boards. Injected so the model
// never touches sysfs directly.
type Describe func() ([]usbdev.BoardInfo, error)

type tickMsg time.Time

type boardsMsg struct {
	boards []usbdev.BoardInfo
	err    error
}

// MonitorModel is the bubbletea model for the live board monitor: a
// table of attached boards refreshed on a fixed interval.
type MonitorModel struct {
	describe Describe
	interval time.Duration

	table     *components.BoardTable
	statusBar *components.StatusBar
	spinner   spinner.Model
	keys      keys.MonitorKeyMap
}

// NewMonitorModel creates a monitor refreshing at the given interval.
func NewMonitorModel(describe Describe, interval time.Duration) *MonitorModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.TitleStyle.GetForeground())

	return &MonitorModel{
		describe:  describe,
		interval:  interval,
		table:     components.NewBoardTable(),
		statusBar: components.NewStatusBar(),
		spinner:   sp,
		keys:      keys.DefaultMonitorKeyMap(),
	}
}

func (m *MonitorModel) Init() tea.Cmd {
	return tea.Batch(m.refresh, m.tick(), m.spinner.Tick)
}

func (m *MonitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			return m, m.refresh
		}

	case tickMsg:
		return m, tea.Batch(m.refresh, m.tick())

	case boardsMsg:
		if msg.err != nil {
			m.statusBar.SetError(msg.err)
			return m, nil
		}
		m.table.SetBoards(msg.boards)
		m.statusBar.SetBoards(msg.boards)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *MonitorModel) View() string {
	title := styles.TitleStyle.Render("pandad board monitor")
	help := styles.HelpStyle.Render("r refresh  •  q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.table.View(),
		m.statusBar.View(m.spinner.View()),
		help,
	)
}

// refresh scans for boards once.
func (m *MonitorModel) refresh() tea.Msg {
	boards, err := m.describe()
	return boardsMsg{boards: boards, err: err}
}

// tick schedules the next automatic refresh.
func (m *MonitorModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
