package cli

import (
	"fmt"
	"strings"

	"github.com/bastiangx/geoserve/pkg/autocomplete"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#58a6ff")).Bold(true)
	itemStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#c9d1d9")).PaddingLeft(1)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#58a6ff")).Background(lipgloss.Color("#21262d")).Bold(true).PaddingLeft(1)
	sourceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#484f58"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8b949e"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#f85149"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#484f58"))
	listStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#30363d")).Padding(0, 1)
)

// listRenderer draws result rows for the terminal.
type listRenderer struct{}

func (listRenderer) RenderItem(item autocomplete.Item, _ int) string {
	tag := sourceStyle.Render(" " + string(item.Result.Source))
	if item.Selected {
		return selectedStyle.Render("› "+item.Label) + tag
	}
	return itemStyle.Render("  "+item.Label) + tag
}

type model struct {
	ctrl     *autocomplete.Controller
	input    textinput.Model
	spinner  spinner.Model
	state    autocomplete.SearchState
	selected *selectedMsg
	lastErr  error
	width    int
}

func newModel(ctrl *autocomplete.Controller, maxQuery int) model {
	ti := textinput.New()
	ti.Placeholder = "Search for a place..."
	ti.Prompt = "› "
	ti.PromptStyle = titleStyle
	ti.CharLimit = maxQuery
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = statusStyle

	ctrl.Open()
	return model{
		ctrl:    ctrl,
		input:   ti,
		spinner: sp,
		state:   ctrl.State(),
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(10, msg.Width-6)
		return m, nil

	case stateMsg:
		m.state = autocomplete.SearchState(msg)
		if m.state.Err == nil {
			m.lastErr = nil
		}
		if m.state.Loading {
			return m, m.spinner.Tick
		}
		return m, nil

	case selectedMsg:
		m.selected = &msg
		log.Debug("selected", "name", msg.result.Label(), "viewport", msg.vp.String())
		return m, nil

	case errMsg:
		m.lastErr = msg.err
		m.state = m.ctrl.State()
		return m, nil

	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		if !m.state.ShowList() {
			return m, tea.Quit
		}
		fallthrough
	case "up", "down", "enter":
		t, err := m.ctrl.KeyDown(autocomplete.ParseKey(msg.String()))
		if err != nil {
			return m, tea.Quit
		}
		m.state = m.ctrl.State()
		if t.Action == autocomplete.ActionConfirm {
			m.input.SetValue(m.state.Query)
		}
		if t.CaretToEnd || t.Action == autocomplete.ActionConfirm {
			m.input.CursorEnd()
		}
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if q := m.input.Value(); q != before {
		if !m.state.Focused || !m.state.Visible {
			m.ctrl.Open()
		}
		if err := m.ctrl.Input(q); err != nil {
			return m, tea.Quit
		}
		m.state = m.ctrl.State()
	}
	return m, cmd
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("geoserve"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.state.ShowList() {
		b.WriteString(listStyle.Render(strings.Join(m.ctrl.Render(listRenderer{}), "\n")))
		b.WriteString("\n")
	}

	switch {
	case m.state.Loading:
		b.WriteString(m.spinner.View() + statusStyle.Render(" searching"))
	case m.lastErr != nil:
		b.WriteString(errorStyle.Render("lookup failed: " + m.lastErr.Error()))
	case m.selected != nil:
		vp := m.selected.vp
		b.WriteString(statusStyle.Render(fmt.Sprintf("%s → %s (%dms)",
			m.selected.result.Label(), vp.String(), vp.TransitionDuration.Milliseconds())))
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("↑↓ navigate  enter select  esc close  ctrl+c quit"))
	return b.String()
}
