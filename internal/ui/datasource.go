package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pantopia/console/internal/pantopia"
)

// processPanelHeight is the boxed processing panel above the paragraphs.
const processPanelHeight = 5

// sourceContent renders the data source metadata and its paragraphs.
func (m Model) sourceContent() string {
	styles := m.theme.Styles()
	st := m.source
	if st.source.ID == "" {
		switch {
		case st.err != nil:
			return styles.DangerText.Render("Failed to load data source, please try again") +
				"\n" + styles.MutedText.Render(st.err.Error())
		default:
			return styles.MutedText.Render("Loading data source...")
		}
	}

	ds := st.source
	lines := []string{
		field(styles, "Kind", string(ds.Kind)),
		field(styles, "Location", ds.Location()),
		field(styles, "Status", ds.Status.Label()),
		field(styles, "Created", formatDate(ds.ParsedCreatedAt(), ds.CreatedAt)),
		"",
	}

	switch {
	case ds.Status != pantopia.StatusProcessed:
		lines = append(lines, styles.MutedText.Render("Paragraphs appear once extraction finishes."))
	case st.err != nil:
		lines = append(lines, styles.DangerText.Render("Failed to load paragraphs, please try again"))
	case len(st.paragraphs) == 0:
		lines = append(lines, styles.MutedText.Render("No paragraphs were extracted."))
	default:
		lines = append(lines, styles.AccentText.Bold(true).Render(fmt.Sprintf("Paragraphs (%d)", len(st.paragraphs))), "")
		for i, p := range st.paragraphs {
			lines = append(lines, m.paragraphBlock(i+1, p, styles), "")
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) paragraphBlock(n int, p pantopia.Paragraph, styles Styles) string {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		title = fmt.Sprintf("Paragraph %d", n)
	}
	parts := []string{styles.Text.Bold(true).Render(fmt.Sprintf("%d. %s", n, title))}
	if idea := strings.TrimSpace(p.MainIdea); idea != "" {
		parts = append(parts, styles.InfoText.Italic(true).Render(idea))
	}
	if body := strings.TrimSpace(p.Body); body != "" {
		parts = append(parts, m.renderer.RenderOrPlain(body))
	}
	return strings.Join(parts, "\n")
}

// renderDataSource stacks the processing panel over the scrollable detail.
func (m Model) renderDataSource(width, height int) string {
	styles := m.theme.Styles()
	title := m.detailTitle()

	var panelBody string
	if m.panel != nil {
		panelBody = m.panel.view(m.source.source.Status, max(width-4, 10), styles)
	} else {
		panelBody = styles.MutedText.Render("Processing is unavailable offline")
	}
	panel := m.renderBox("Processing", panelBody, width, processPanelHeight, false)

	body := m.renderBox(title, m.detail.View(), width, max(height-processPanelHeight, 3), true)
	return panel + "\n" + body
}

// handleSourceKey starts, retries or scrolls.
func (m Model) handleSourceKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Process):
		if m.panel == nil {
			return m, nil
		}
		if m.panel.machine.Running() {
			return m, m.setFlash("Already processing")
		}
		if st := m.source.source.Status; st.Active() {
			return m, m.panel.watch(st)
		}
		return m, m.panel.start()
	case key.Matches(msg, m.keys.Retry):
		if m.panel == nil {
			return m, nil
		}
		return m, m.panel.retry()
	}
	m.scrollDetail(msg)
	return m, nil
}
