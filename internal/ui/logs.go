package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap/zapcore"

	"github.com/pantopia/console/internal/logtail"
)

// logState holds the tail of the console's own log file.
type logState struct {
	entries  []logtail.Entry
	err      error
	follow   bool
	minLevel zapcore.Level
	viewport viewport.Model
}

var logLevels = []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}

func newLogState() logState {
	return logState{
		follow:   true,
		minLevel: zapcore.InfoLevel,
		viewport: viewport.New(80, 20),
	}
}

func nextLevel(l zapcore.Level) zapcore.Level {
	for i, lvl := range logLevels {
		if lvl == l {
			return logLevels[(i+1)%len(logLevels)]
		}
	}
	return zapcore.InfoLevel
}

func (m *Model) handleLogs(msg logsMsg) {
	m.logs.err = msg.err
	if msg.err == nil {
		m.logs.entries = msg.entries
	}
	m.refreshLogViewport()
}

// refreshLogViewport re-renders the entries and keeps the tail in view while
// following.
func (m *Model) refreshLogViewport() {
	styles := m.theme.Styles()
	lines := make([]string, 0, len(m.logs.entries))
	for _, e := range m.logs.entries {
		lines = append(lines, m.levelStyle(e.Level, styles).Render(logtail.Format(e)))
	}
	m.logs.viewport.SetContent(strings.Join(lines, "\n"))
	if m.logs.follow {
		m.logs.viewport.GotoBottom()
	}
}

func (m Model) levelStyle(level zapcore.Level, styles Styles) lipgloss.Style {
	switch {
	case level >= zapcore.ErrorLevel:
		return styles.DangerText
	case level == zapcore.WarnLevel:
		return styles.WarningText
	case level == zapcore.DebugLevel:
		return styles.FaintText
	default:
		return styles.Text
	}
}

// renderLogs renders the log box and the status line below it.
func (m Model) renderLogs(width, height int) string {
	styles := m.theme.Styles()

	var content string
	switch {
	case m.logs.err != nil:
		content = styles.DangerText.Render("Failed to read log: " + m.logs.err.Error())
	case len(m.logs.entries) == 0:
		content = styles.MutedText.Render("No log entries at " + m.logs.minLevel.CapitalString() + " or above")
	default:
		content = m.logs.viewport.View()
	}
	box := m.renderBox("Console log", content, width, max(height-1, 3), true)

	mode := "following"
	if !m.logs.follow {
		mode = "paused"
	}
	status := styles.MutedText.Render(" " + truncate(m.cfg.LogPath(), max(width-30, 10)) +
		" · " + mode + " · ≥ " + m.logs.minLevel.CapitalString())
	return box + "\n" + status
}

// handleLogsKey processes keyboard input for the logs view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	vp := &m.logs.viewport
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logs.follow = !m.logs.follow
		if m.logs.follow {
			vp.GotoBottom()
			return m, fetchLogsCmd(m.cfg.LogPath(), m.logs.minLevel)
		}
	case key.Matches(msg, m.keys.CycleLevel):
		m.logs.minLevel = nextLevel(m.logs.minLevel)
		return m, fetchLogsCmd(m.cfg.LogPath(), m.logs.minLevel)
	case key.Matches(msg, m.keys.Top):
		vp.GotoTop()
		m.logs.follow = false
	case key.Matches(msg, m.keys.Bottom):
		vp.GotoBottom()
		m.logs.follow = true
	case key.Matches(msg, m.keys.Down):
		vp.ScrollDown(1)
		m.logs.follow = false
	case key.Matches(msg, m.keys.Up):
		vp.ScrollUp(1)
		m.logs.follow = false
	case key.Matches(msg, m.keys.HalfPageDown):
		vp.HalfPageDown()
		m.logs.follow = false
	case key.Matches(msg, m.keys.HalfPageUp):
		vp.HalfPageUp()
		m.logs.follow = false
	}
	return m, nil
}
