package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/pantopia/console/internal/breadcrumb"
)

const crumbSeparator = " › "

// headerHeight is the status line, the breadcrumb line and, after a 401,
// the login banner.
func (m Model) headerHeight() int {
	if m.loginRequiredNow() {
		return 3
	}
	return 2
}

func (m Model) loginRequiredNow() bool {
	return m.loginURL != "" || m.snapshot.Unauthorized
}

// renderHeader renders the status line, the trail and the login banner.
func (m Model) renderHeader() string {
	lines := []string{m.renderStatusLine(), m.renderTrail()}
	if m.loginRequiredNow() {
		lines = append(lines, m.renderLoginBanner())
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderStatusLine() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := newPainter(m.theme.Surface)
	sep := bg.gap(2)
	snap := m.snapshot

	parts := []string{bg.text("pantopia", styles.Logo)}
	switch {
	case snap.Unauthorized:
		parts = append(parts, bg.text("● LOGIN REQUIRED", styles.DangerText))
	case snap.IsOffline():
		parts = append(parts,
			bg.text("● OFFLINE", styles.DangerText),
			bg.text("Retrying...", styles.WarningText.Bold(true)))
	case !snap.HasData && snap.LastError == nil:
		parts = append(parts, bg.text("Connecting...", styles.WarningText.Bold(true)))
	case snap.LastError != nil:
		parts = append(parts, bg.text("● DEGRADED", styles.WarningText.Bold(true)))
	default:
		parts = append(parts, bg.text("● ONLINE", styles.SuccessText))
	}

	if snap.HasData && m.width >= LayoutCompactWidth {
		counts := []struct {
			label string
			n     int
		}{
			{"Clients", len(snap.Companies)},
			{"Contacts", len(snap.Contacts)},
			{"Projects", len(snap.Projects)},
			{"Briefs", len(snap.Briefs)},
		}
		for _, c := range counts {
			parts = append(parts,
				bg.text(c.label+":", styles.MutedText)+bg.gap(1)+
					bg.text(fmt.Sprintf("%d", c.n), styles.Text))
		}
	}
	if !snap.LastUpdated.IsZero() {
		parts = append(parts, bg.text("Updated "+formatAge(snap.LastUpdated, time.Now()), styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

// renderTrail renders the breadcrumb line. Ancestors are muted and the
// current page is highlighted.
func (m Model) renderTrail() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := newPainter(m.theme.Background)
	items := m.trail
	if len(items) == 0 {
		items = []breadcrumb.Item{breadcrumb.Home}
	}

	labels := make([]string, len(items))
	budget := max(m.width/len(items)-3, 8)
	for i, item := range items {
		style := styles.MutedText
		if i == len(items)-1 {
			style = styles.AccentText.Bold(true)
		}
		labels[i] = bg.text(truncate(item.Label, budget), style)
	}
	line := strings.Join(labels, bg.text(crumbSeparator, styles.FaintText))
	return bg.line(bg.gap(1)+line, m.width)
}

func (m Model) renderLoginBanner() string {
	styles := m.theme.Styles().WithBackground(m.theme.Danger)
	bg := newPainter(m.theme.Danger)
	url := m.loginURL
	if url == "" && m.client != nil {
		url = m.client.LoginURL()
	}
	text := "Session expired. Sign in at " + url + " then run `pantopia login --token <token>`"
	return bg.line(bg.gap(1)+bg.text(truncate(text, m.width-2), styles.Text.Bold(true)), m.width)
}

// renderCommandBar lists the keys that matter on the current screen.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := newPainter(m.theme.Surface)
	if m.prompting {
		return bg.line(bg.gap(1)+m.prompt.View(), m.width)
	}

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.route.kind {
	case routeDataSource:
		commands = []cmd{{"x", "Process"}, {"r", "Retry"}, {"j/k", "Scroll"}, {"esc", "Back"}}
	case routeBrief:
		commands = []cmd{{"1-3", "Move"}, {"j/k", "Scroll"}, {"esc", "Back"}}
	case routeLogs:
		follow := "Pause"
		if !m.logs.follow {
			follow = "Follow"
		}
		commands = []cmd{{"Space", follow}, {"v", m.logs.minLevel.CapitalString()}, {"esc", "Back"}}
	case routeHome, routeCompanies, routeCompany, routeContacts, routeProjects, routeBriefs:
		commands = []cmd{{"j/k", "Navigate"}, {"enter", "Open"}, {"esc", "Back"}}
	default:
		commands = []cmd{{"j/k", "Scroll"}, {"esc", "Back"}}
	}
	commands = append(commands, cmd{"c/o/p/b", "Sections"}, cmd{":", "Go to"}, cmd{"y", "Copy path"}, cmd{"?", "More"})

	colon := bg.raw(":")
	segments := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		segments = append(segments, bg.text(c.key, styles.AccentText)+colon+bg.text(c.desc, styles.MutedText))
	}
	segments = append(segments, bg.text("T", styles.AccentText)+colon+bg.text(m.theme.Name, styles.FaintText))
	if m.flash != "" {
		segments = append(segments, bg.text(truncate(m.flash, 60), styles.WarningText.Bold(true)))
	}

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.gap(2)))
}
