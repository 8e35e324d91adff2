package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pantopia/console/internal/pantopia"
)

// column is a table column with a relative width.
type column struct {
	title  string
	weight int
	// wide columns are dropped below LayoutCompactWidth.
	wide bool
}

// row is one selectable table line. status, when set, is drawn as a badge in
// the last column.
type row struct {
	cells  []string
	status string
	target string
}

// table returns the title, columns and rows for the list screen on display.
func (m Model) table() (string, []column, []row) {
	snap := m.snapshot
	switch m.route.kind {
	case routeHome:
		return "Home", []column{{title: "Section", weight: 2}, {title: "Items", weight: 1}}, []row{
			{cells: []string{"Clients", fmt.Sprint(len(snap.Companies))}, target: "/clients"},
			{cells: []string{"Contacts", fmt.Sprint(len(snap.Contacts))}, target: "/contacts"},
			{cells: []string{"Projects", fmt.Sprint(len(snap.Projects))}, target: "/projects"},
			{cells: []string{"Briefs", fmt.Sprint(len(snap.Briefs))}, target: "/briefs"},
			{cells: []string{"Logs", ""}, target: "/logs"},
		}

	case routeCompanies:
		companies := append([]pantopia.Company(nil), snap.Companies...)
		sort.SliceStable(companies, func(i, j int) bool {
			return strings.ToLower(companies[i].Name) < strings.ToLower(companies[j].Name)
		})
		rows := make([]row, 0, len(companies))
		for _, c := range companies {
			rows = append(rows, row{
				cells:  []string{c.Name, c.Industry, c.Website},
				target: companyPath(c.ID),
			})
		}
		return "Clients", []column{
			{title: "Name", weight: 3},
			{title: "Industry", weight: 2},
			{title: "Website", weight: 3, wide: true},
		}, rows

	case routeCompany:
		rows := make([]row, 0, len(m.company.sources))
		for _, ds := range m.company.sources {
			rows = append(rows, row{
				cells:  []string{ds.Name, string(ds.Kind), ds.Location(), ds.Status.Label()},
				status: string(ds.Status),
				target: dataSourcePath(m.route.id, ds.ID),
			})
		}
		title := "Data Sources"
		if c, ok := snap.Company(m.route.id); ok {
			title = c.Name + " · Data Sources"
		}
		return title, []column{
			{title: "Name", weight: 3},
			{title: "Kind", weight: 1},
			{title: "Location", weight: 4, wide: true},
			{title: "Status", weight: 2},
		}, rows

	case routeContacts:
		rows := make([]row, 0, len(snap.Contacts))
		for _, c := range snap.Contacts {
			rows = append(rows, row{
				cells:  []string{c.DisplayName(), c.Title, c.Email, m.companyName(c.CompanyID)},
				target: "/contacts/" + c.ID,
			})
		}
		return "Contacts", []column{
			{title: "Name", weight: 3},
			{title: "Title", weight: 2, wide: true},
			{title: "Email", weight: 3},
			{title: "Client", weight: 2},
		}, rows

	case routeProjects:
		rows := make([]row, 0, len(snap.Projects))
		for _, p := range snap.Projects {
			rows = append(rows, row{
				cells:  []string{p.Name, m.companyName(p.CompanyID), p.StartDate + " → " + p.EndDate, p.Status},
				status: p.Status,
				target: "/projects/" + p.ID,
			})
		}
		return "Projects", []column{
			{title: "Name", weight: 3},
			{title: "Client", weight: 2},
			{title: "Dates", weight: 2, wide: true},
			{title: "Status", weight: 2},
		}, rows

	case routeBriefs:
		briefs := append([]pantopia.Brief(nil), snap.Briefs...)
		sort.SliceStable(briefs, func(i, j int) bool {
			return briefs[i].ParsedUpdatedAt().After(briefs[j].ParsedUpdatedAt())
		})
		rows := make([]row, 0, len(briefs))
		for _, b := range briefs {
			rows = append(rows, row{
				cells:  []string{b.Title, m.companyName(b.ClientID), formatDate(b.ParsedUpdatedAt(), b.UpdatedAt), string(b.Status)},
				status: string(b.Status),
				target: "/briefs/" + b.ID,
			})
		}
		return "Briefs", []column{
			{title: "Title", weight: 4},
			{title: "Client", weight: 2},
			{title: "Updated", weight: 2, wide: true},
			{title: "Status", weight: 2},
		}, rows
	}
	return "", nil, nil
}

func (m Model) companyName(id string) string {
	if c, ok := m.snapshot.Company(id); ok {
		return c.Name
	}
	return id
}

func (m Model) selectedRow() int {
	return m.cursor[m.path]
}

// clampCursor keeps the selection inside the current table.
func (m *Model) clampCursor() {
	if !m.route.listRoute() {
		return
	}
	_, _, rows := m.table()
	cur := m.cursor[m.path]
	switch {
	case len(rows) == 0:
		cur = 0
	case cur >= len(rows):
		cur = len(rows) - 1
	}
	m.cursor[m.path] = max(cur, 0)
}

// handleListKey processes keyboard input for table screens.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	_, _, rows := m.table()
	if len(rows) == 0 {
		return m, nil
	}
	cur := m.selectedRow()
	_, height := m.contentSize()
	page := max((height-3)/2, 1)

	switch {
	case key.Matches(msg, m.keys.Down):
		cur++
	case key.Matches(msg, m.keys.Up):
		cur--
	case key.Matches(msg, m.keys.Top):
		cur = 0
	case key.Matches(msg, m.keys.Bottom):
		cur = len(rows) - 1
	case key.Matches(msg, m.keys.HalfPageDown):
		cur += page
	case key.Matches(msg, m.keys.HalfPageUp):
		cur -= page
	case key.Matches(msg, m.keys.Open):
		cur = min(max(cur, 0), len(rows)-1)
		return m, m.navigate(rows[cur].target)
	default:
		return m, nil
	}
	m.cursor[m.path] = min(max(cur, 0), len(rows)-1)
	return m, nil
}

// renderList renders the current table inside a box.
func (m Model) renderList(width, height int) string {
	styles := m.theme.Styles()
	title, columns, rows := m.table()

	if m.route.kind == routeCompany {
		switch {
		case m.company.loading && len(rows) == 0:
			return m.renderBox(title, styles.MutedText.Render("Loading data sources..."), width, height, true)
		case m.company.err != nil && len(rows) == 0:
			return m.renderBox(title, styles.DangerText.Render("Failed to load data sources, please try again")+
				"\n"+styles.MutedText.Render(m.company.err.Error()), width, height, true)
		}
	}
	if len(rows) == 0 {
		empty := "Nothing here yet"
		if !m.snapshot.HasData {
			empty = "Waiting for data..."
		}
		return m.renderBox(title, styles.MutedText.Render(empty), width, height, true)
	}

	if width < LayoutCompactWidth {
		columns, rows = dropWideColumns(columns, rows)
	}
	inner := max(width-4, 10)
	widths := columnWidths(columns, inner)

	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = fitColumn(col.title, widths[i])
	}
	lines := []string{styles.FaintText.Bold(true).Render(strings.Join(header, " "))}

	visible := max(height-3, 1)
	cur := min(m.selectedRow(), len(rows)-1)
	offset := 0
	if cur >= visible {
		offset = cur - visible + 1
	}
	for i := offset; i < len(rows) && i < offset+visible; i++ {
		lines = append(lines, m.renderRow(rows[i], widths, inner, i == cur, styles))
	}

	title = fmt.Sprintf("%s (%d)", title, len(rows))
	return m.renderBox(title, strings.Join(lines, "\n"), width, height, true)
}

func (m Model) renderRow(r row, widths []int, width int, selected bool, styles Styles) string {
	cells := make([]string, len(r.cells))
	for i, cell := range r.cells {
		if i >= len(widths) {
			break
		}
		cells[i] = fitColumn(cell, widths[i])
	}
	if r.status != "" && len(cells) > 0 {
		last := len(cells) - 1
		label := truncate(r.cells[last], max(widths[last]-2, 1))
		badge := styles.StatusStyle(r.status).Render(label)
		cells[last] = badge
	}

	line := strings.Join(cells, " ")
	if selected {
		return styles.Selected.Width(width).Render(line)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Text)).Render(line)
}

// columnWidths splits width between columns by weight, one space between.
func columnWidths(columns []column, width int) []int {
	total := 0
	for _, c := range columns {
		total += c.weight
	}
	avail := max(width-(len(columns)-1), len(columns))
	widths := make([]int, len(columns))
	used := 0
	for i, c := range columns {
		widths[i] = max(avail*c.weight/max(total, 1), 1)
		used += widths[i]
	}
	if len(widths) > 0 && used < avail {
		widths[0] += avail - used
	}
	return widths
}

func dropWideColumns(columns []column, rows []row) ([]column, []row) {
	keep := make([]int, 0, len(columns))
	out := make([]column, 0, len(columns))
	for i, c := range columns {
		if !c.wide {
			keep = append(keep, i)
			out = append(out, c)
		}
	}
	if len(out) == len(columns) {
		return columns, rows
	}
	trimmed := make([]row, len(rows))
	for i, r := range rows {
		cells := make([]string, 0, len(keep))
		for _, k := range keep {
			if k < len(r.cells) {
				cells = append(cells, r.cells[k])
			}
		}
		trimmed[i] = row{cells: cells, status: r.status, target: r.target}
	}
	return out, trimmed
}
