package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pantopia/console/internal/pantopia"
)

// refreshDetail rebuilds the scrollable content of detail screens. Paragraph
// bodies go through glamour here, not in View, so scrolling stays cheap.
func (m *Model) refreshDetail() {
	var content string
	switch m.route.kind {
	case routeContact:
		content = m.contactContent()
	case routeProjectDetail:
		content = m.projectContent()
	case routeBrief:
		content = m.briefContent()
	case routeDataSource:
		content = m.sourceContent()
	default:
		return
	}
	m.detail.SetContent(content)
}

func (m Model) detailTitle() string {
	if len(m.trail) > 0 {
		return m.trail[len(m.trail)-1].Label
	}
	return ""
}

// field renders a "label  value" line.
func field(styles Styles, label, value string) string {
	return styles.MutedText.Render(padRight(label, 12)) + styles.Text.Render(orDash(value))
}

func (m Model) contactContent() string {
	styles := m.theme.Styles()
	for _, c := range m.snapshot.Contacts {
		if c.ID != m.route.id {
			continue
		}
		return strings.Join([]string{
			styles.Text.Bold(true).Render(c.DisplayName()),
			"",
			field(styles, "Title", c.Title),
			field(styles, "Email", c.Email),
			field(styles, "Phone", c.Phone),
			field(styles, "Client", m.companyName(c.CompanyID)),
		}, "\n")
	}
	return m.missing("contact")
}

func (m Model) projectContent() string {
	styles := m.theme.Styles()
	for _, p := range m.snapshot.Projects {
		if p.ID != m.route.id {
			continue
		}
		lines := []string{
			styles.Text.Bold(true).Render(p.Name) + " " + styles.StatusStyle(p.Status).Render(orDash(p.Status)),
			"",
			field(styles, "Client", m.companyName(p.CompanyID)),
			field(styles, "Start", p.StartDate),
			field(styles, "End", p.EndDate),
		}
		if strings.TrimSpace(p.Description) != "" {
			lines = append(lines, "", m.renderer.RenderOrPlain(p.Description))
		}
		return strings.Join(lines, "\n")
	}
	return m.missing("project")
}

func (m Model) currentBrief() (pantopia.Brief, bool) {
	for _, b := range m.snapshot.Briefs {
		if b.ID == m.route.id {
			return b, true
		}
	}
	return pantopia.Brief{}, false
}

// briefMoves lists the statuses a brief may move to, in menu order.
func briefMoves(b pantopia.Brief) []pantopia.BriefStatus {
	var out []pantopia.BriefStatus
	for _, next := range []pantopia.BriefStatus{
		pantopia.BriefDraft,
		pantopia.BriefInProgress,
		pantopia.BriefReview,
		pantopia.BriefComplete,
		pantopia.BriefArchived,
	} {
		if b.Status.CanTransition(next) {
			out = append(out, next)
		}
	}
	return out
}

func (m Model) briefContent() string {
	styles := m.theme.Styles()
	b, ok := m.currentBrief()
	if !ok {
		return m.missing("brief")
	}
	lines := []string{
		styles.Text.Bold(true).Render(b.Title) + " " + styles.StatusStyle(string(b.Status)).Render(string(b.Status)),
		"",
		field(styles, "Client", m.companyName(b.ClientID)),
		field(styles, "Project", b.ProjectID),
		field(styles, "Updated", formatDate(b.ParsedUpdatedAt(), b.UpdatedAt)),
	}
	if moves := briefMoves(b); len(moves) > 0 {
		opts := make([]string, len(moves))
		for i, next := range moves {
			opts[i] = styles.AccentText.Render(strconv.Itoa(i+1)) + " " + styles.Text.Render(string(next))
		}
		lines = append(lines, styles.MutedText.Render(padRight("Move to", 12))+strings.Join(opts, "   "))
	} else if b.Status.Terminal() {
		lines = append(lines, field(styles, "Move to", "closed"))
	}
	if strings.TrimSpace(b.Summary) != "" {
		lines = append(lines, "", m.renderer.RenderOrPlain(b.Summary))
	}
	return strings.Join(lines, "\n")
}

func (m Model) missing(kind string) string {
	styles := m.theme.Styles()
	if !m.snapshot.HasData {
		return styles.MutedText.Render("Waiting for data...")
	}
	return styles.MutedText.Render(fmt.Sprintf("No %s with id %s", kind, m.route.id))
}

// scrollDetail moves the detail viewport.
func (m *Model) scrollDetail(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.detail.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.detail.ScrollUp(1)
	case key.Matches(msg, m.keys.Top):
		m.detail.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.detail.GotoBottom()
	case key.Matches(msg, m.keys.HalfPageDown):
		m.detail.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.detail.HalfPageUp()
	}
}

// handleBriefKey applies a numbered transition or scrolls.
func (m Model) handleBriefKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !key.Matches(msg, m.keys.Transition) {
		m.scrollDetail(msg)
		return m, nil
	}
	b, ok := m.currentBrief()
	if !ok || m.client == nil {
		return m, nil
	}
	n, err := strconv.Atoi(msg.String())
	moves := briefMoves(b)
	if err != nil || n < 1 || n > len(moves) {
		return m, nil
	}
	next := moves[n-1]
	return m, tea.Batch(
		updateBriefCmd(m.ctx, m.client, b.ID, next),
		m.setFlash(fmt.Sprintf("Moving brief to %s...", next)),
	)
}

func (m Model) handleBriefUpdated(msg briefUpdatedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, m.noteAPIError(msg.err, "Failed to update brief")
	}
	// Patch the local copy; the next refresh brings the server's view.
	for i := range m.snapshot.Briefs {
		if m.snapshot.Briefs[i].ID == msg.brief.ID {
			m.snapshot.Briefs[i] = msg.brief
		}
	}
	m.refreshDetail()
	return m, m.setFlash("Brief moved to " + string(msg.brief.Status))
}
