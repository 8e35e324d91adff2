package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pantopia/console/internal/breadcrumb"
	"github.com/pantopia/console/internal/pantopia"
	"github.com/pantopia/console/internal/prefs"
	"github.com/pantopia/console/internal/processing"
	"github.com/pantopia/console/internal/state"
)

func newTestModel(t *testing.T, start string) (Model, string) {
	t.Helper()

	ds := pantopia.SampleDataset()
	store := &state.Store{}
	store.Update(&state.Lists{
		Companies: ds.Companies,
		Contacts:  ds.Contacts,
		Projects:  ds.Projects,
		Briefs:    ds.Briefs,
	}, nil)

	prefsPath := filepath.Join(t.TempDir(), "prefs.toml")
	m := New(Options{
		Context:   context.Background(),
		Client:    newFakeBackend(),
		Store:     store,
		Prefs:     prefs.Default(),
		PrefsPath: prefsPath,
		Logger:    zap.NewNop(),
		StartPath: start,
	})
	m = send(t, m, snapshotMsg(store.Snapshot()))
	m = send(t, m, tea.WindowSizeMsg{Width: 160, Height: 40})
	return m, prefsPath
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok, "Update returned %T", next)
	return out
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func trailLabels(items []breadcrumb.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Label
	}
	return out
}

func TestNew_ShowsStaticTrailImmediately(t *testing.T) {
	m, _ := newTestModel(t, "/clients/1")

	assert.Equal(t, "/clients/1", m.path)
	assert.Equal(t, routeCompany, m.route.kind)
	assert.Equal(t, []string{"Home", "Clients", "1"}, trailLabels(m.trail))
}

func TestTrailMsg_AppliesResolvedNames(t *testing.T) {
	m, _ := newTestModel(t, "/clients/1")

	resolver := breadcrumb.SampleResolver(zap.NewNop())
	msg := resolveTrailCmd(context.Background(), resolver, m.path, m.trailSeq)()
	m = send(t, m, msg)

	assert.Equal(t, []string{"Home", "Clients", "Tech Innovations Inc"}, trailLabels(m.trail))
}

func TestTrailMsg_DropsStaleResults(t *testing.T) {
	m, _ := newTestModel(t, "/clients/1")
	before := m.trail

	stale := trailMsg{
		seq:   m.trailSeq - 1,
		path:  m.path,
		items: []breadcrumb.Item{breadcrumb.Home, {Label: "Stale", Path: "/clients"}},
	}
	m = send(t, m, stale)
	assert.Equal(t, before, m.trail)

	wrongPath := trailMsg{seq: m.trailSeq, path: "/clients/2", items: stale.items}
	m = send(t, m, wrongPath)
	assert.Equal(t, before, m.trail)
}

func TestKeys_NavigateListsAndBack(t *testing.T) {
	m, _ := newTestModel(t, "/")

	m = send(t, m, runeKey("c"))
	require.Equal(t, "/clients", m.path)

	// Sorted by name: Digital Dynamics, Global Solutions Ltd, ...
	m = send(t, m, runeKey("j"))
	assert.Equal(t, 1, m.selectedRow())
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, "/clients/2", m.path)
	assert.Equal(t, routeCompany, m.route.kind)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, "/clients", m.path)
	assert.Equal(t, 1, m.selectedRow(), "cursor is remembered per list")

	m = send(t, m, runeKey("H"))
	assert.Equal(t, "/", m.path)
}

func TestKeys_CursorStaysInBounds(t *testing.T) {
	m, _ := newTestModel(t, "/clients")

	m = send(t, m, runeKey("k"))
	assert.Equal(t, 0, m.selectedRow())

	m = send(t, m, runeKey("G"))
	assert.Equal(t, 3, m.selectedRow())
	m = send(t, m, runeKey("j"))
	assert.Equal(t, 3, m.selectedRow())
}

func TestCycleTheme_SavesPrefs(t *testing.T) {
	m, prefsPath := newTestModel(t, "/briefs")

	m = send(t, m, runeKey("T"))
	assert.Equal(t, "Slate", m.theme.Name)

	saved := prefs.Load(prefsPath)
	assert.Equal(t, "Slate", saved.Theme)
	assert.Equal(t, "/briefs", saved.LastView)
}

func TestLeavingDataSource_ClosesPanel(t *testing.T) {
	m, _ := newTestModel(t, "/clients/1/datasources/1")
	require.NotNil(t, m.panel)
	panel := m.panel
	defer panel.machine.Stop()

	m = send(t, m, runeKey("c"))
	assert.Nil(t, m.panel)
	assert.Error(t, panel.ctx.Err(), "panel context should be cancelled")
}

func TestStaleProcessUpdate_Ignored(t *testing.T) {
	m, _ := newTestModel(t, "/clients/1/datasources/1")
	require.NotNil(t, m.panel)
	defer m.panel.machine.Stop()

	m = send(t, m, processUpdateMsg{
		seq:    m.panel.seq + 1,
		update: processing.Update{State: processing.Stalled},
	})
	assert.Equal(t, processing.Idle, m.panel.last.State)

	m = send(t, m, processUpdateMsg{
		seq:    m.panel.seq,
		update: processing.Update{State: processing.Queued, Progress: 25},
	})
	assert.Equal(t, processing.Queued, m.panel.last.State)
}

func TestProcessAction_NotRetryableFlashes(t *testing.T) {
	m, _ := newTestModel(t, "/clients/1/datasources/1")
	require.NotNil(t, m.panel)
	defer m.panel.machine.Stop()

	m = send(t, m, processActionMsg{
		seq:    m.panel.seq,
		action: "retry",
		err:    fmt.Errorf("%w: processed", processing.ErrNotRetryable),
	})
	assert.Equal(t, "Nothing to retry", m.flash)
}

func TestSourceMsg_LoadsParagraphs(t *testing.T) {
	m, _ := newTestModel(t, "/clients/1/datasources/2")
	require.NotNil(t, m.panel)
	defer m.panel.machine.Stop()

	msg := fetchSourceCmd(context.Background(), newFakeBackend(), "2")()
	m = send(t, m, msg)

	assert.False(t, m.source.loading)
	assert.Equal(t, pantopia.StatusProcessed, m.source.source.Status)
	assert.Len(t, m.source.paragraphs, 3)
}

func TestLoginRequired_ShowsBanner(t *testing.T) {
	m, _ := newTestModel(t, "/")
	assert.NotContains(t, m.View(), "Session expired")

	m = send(t, m, loginRequiredMsg("http://pantopia.test/login"))
	assert.Equal(t, 3, m.headerHeight())
	assert.Contains(t, m.View(), "Session expired")
}

func TestView_RendersEveryRoute(t *testing.T) {
	for _, path := range []string{
		"/", "/clients", "/clients/1", "/contacts", "/contacts/1",
		"/projects", "/projects/1", "/briefs", "/briefs/1", "/logs", "/nowhere",
	} {
		t.Run(path, func(t *testing.T) {
			m, _ := newTestModel(t, path)
			view := m.View()
			assert.NotEmpty(t, view)
			assert.True(t, strings.Contains(view, "pantopia"), "status line missing")
		})
	}
}

func TestView_LoadingBeforeSize(t *testing.T) {
	m := New(Options{Client: newFakeBackend(), PrefsPath: filepath.Join(t.TempDir(), "p.toml")})
	assert.Equal(t, "Loading...", m.View())
}

func TestGoToPrompt(t *testing.T) {
	m, _ := newTestModel(t, "/clients")

	m = send(t, m, runeKey(":"))
	require.True(t, m.prompting)
	assert.Equal(t, "/clients", m.prompt.Value())
	assert.Contains(t, m.View(), "go to:")

	m.prompt.SetValue("briefs/2")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.prompting)
	assert.Equal(t, "/briefs/2", m.path)
	assert.Equal(t, routeBrief, m.route.kind)

	m = send(t, m, runeKey(":"))
	m = send(t, m, runeKey("c"))
	assert.Equal(t, "/briefs/2", m.path, "keys go to the prompt while it is open")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.prompting)
	assert.Equal(t, "/briefs/2", m.path)
}
