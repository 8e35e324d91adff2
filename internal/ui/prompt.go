package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func newPathPrompt() textinput.Model {
	ti := textinput.New()
	ti.Prompt = "go to: "
	ti.Placeholder = "/clients/1/datasources/2"
	ti.CharLimit = 256
	return ti
}

func (m *Model) stylePrompt() {
	bg := lipgloss.Color(m.theme.Surface)
	m.prompt.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent)).Background(bg).Bold(true)
	m.prompt.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Text)).Background(bg)
	m.prompt.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Faint)).Background(bg)
}

// openPrompt starts editing with the current path filled in.
func (m *Model) openPrompt() tea.Cmd {
	m.prompting = true
	m.prompt.SetValue(m.path)
	m.prompt.CursorEnd()
	return m.prompt.Focus()
}

func (m *Model) closePrompt() {
	m.prompting = false
	m.prompt.Blur()
	m.prompt.Reset()
}

// handlePromptKey edits the path; enter navigates and esc cancels.
func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		path := strings.TrimSpace(m.prompt.Value())
		m.closePrompt()
		if path == "" {
			return m, nil
		}
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		return m, m.navigate(path)
	case tea.KeyEsc, tea.KeyCtrlC:
		m.closePrompt()
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}
