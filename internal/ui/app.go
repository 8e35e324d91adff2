package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/pantopia/console/internal/breadcrumb"
	"github.com/pantopia/console/internal/config"
	"github.com/pantopia/console/internal/pantopia"
	"github.com/pantopia/console/internal/prefs"
	"github.com/pantopia/console/internal/processing"
	"github.com/pantopia/console/internal/render"
	"github.com/pantopia/console/internal/session"
	"github.com/pantopia/console/internal/state"
)

// Backend is the slice of the API client the UI uses. *pantopia.Client
// implements it.
type Backend interface {
	pantopia.Directory
	pantopia.Processor
	UpdateBriefStatus(ctx context.Context, id string, next pantopia.BriefStatus) (pantopia.Brief, error)
	LoginURL() string
}

var _ Backend = (*pantopia.Client)(nil)

// Options configures the UI.
type Options struct {
	Context  context.Context
	Client   Backend
	Store    *state.Store
	Resolver *breadcrumb.Resolver
	Session  *session.Store
	Config   config.Config
	Prefs    prefs.Prefs
	// PrefsPath is where theme changes are saved; empty uses the default.
	PrefsPath string
	Logger    *zap.Logger
	// LoginRequired delivers the login URL after the API rejects the token.
	LoginRequired <-chan string
	StartPath     string
	PollTick      time.Duration
}

// companyState is the data source list of the company on screen.
type companyState struct {
	id      string
	sources []pantopia.DataSource
	loading bool
	err     error
}

// sourceState is the data source on screen and its extracted paragraphs.
type sourceState struct {
	id         string
	source     pantopia.DataSource
	paragraphs []pantopia.Paragraph
	loading    bool
	err        error
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx           context.Context
	client        Backend
	store         *state.Store
	resolver      *breadcrumb.Resolver
	session       *session.Store
	cfg           config.Config
	prefs         prefs.Prefs
	prefsPath     string
	logger        *zap.Logger
	loginRequired <-chan string
	pollTick      time.Duration
	keys          keyMap

	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool

	path     string
	route    route
	trail    []breadcrumb.Item
	trailSeq int
	// cursor remembers the selected row per list path.
	cursor map[string]int

	snapshot state.Snapshot
	company  companyState
	source   sourceState
	panel    *processPanel
	panelSeq int
	renderer *render.Renderer

	detail viewport.Model
	logs   logState

	// prompt reads a path to jump to; it owns the keyboard while prompting.
	prompt    textinput.Model
	prompting bool

	// loginURL is set once the API rejects the token.
	loginURL string
	flash    string
	flashSeq int

	initCmd tea.Cmd
}

// New creates the root model and navigates to opts.StartPath.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	m := Model{
		ctx:           ctx,
		client:        opts.Client,
		store:         opts.Store,
		resolver:      opts.Resolver,
		session:       opts.Session,
		cfg:           opts.Config,
		prefs:         opts.Prefs,
		prefsPath:     prefsPath,
		logger:        logger,
		loginRequired: opts.LoginRequired,
		pollTick:      pollTick,
		keys:          DefaultKeyMap(),
		theme:         GetTheme(opts.Prefs.Theme),
		cursor:        make(map[string]int),
		renderer:      render.New("dark", 80),
		detail:        viewport.New(80, 20),
		logs:          newLogState(),
		prompt:        newPathPrompt(),
	}
	m.stylePrompt()
	m.setPath(opts.StartPath)
	m.initCmd = m.enterRoute()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.pollTick),
		waitForLoginCmd(m.loginRequired),
		m.initCmd,
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		if m.snapshot.Unauthorized && m.loginURL == "" && m.client != nil {
			m.loginURL = m.client.LoginURL()
		}
		if !m.snapshot.Unauthorized && m.snapshot.HasData && m.snapshot.LastError == nil {
			m.loginURL = ""
		}
		m.clampCursor()
		m.refreshDetail()
		return m, nil

	case trailMsg:
		if msg.seq != m.trailSeq || msg.path != m.path {
			return m, nil
		}
		if msg.err != nil {
			m.logger.Debug("breadcrumb resolve failed", zap.String("path", msg.path), zap.Error(msg.err))
			return m, nil
		}
		m.trail = breadcrumb.WithLabels(msg.items, m.prefs.Labels)
		return m, nil

	case dataSourcesMsg:
		if m.route.kind != routeCompany || msg.companyID != m.company.id {
			return m, nil
		}
		m.company.loading = false
		m.company.err = msg.err
		if msg.err == nil {
			m.company.sources = msg.sources
		}
		m.clampCursor()
		return m, m.noteAPIError(msg.err, "Failed to load data sources")

	case sourceMsg:
		return m.handleSource(msg)

	case processUpdateMsg:
		if m.panel == nil || msg.seq != m.panel.seq {
			return m, nil
		}
		m.panel.last = msg.update
		return m, tea.Batch(m.panel.listen(), m.panel.spinCmd())

	case processCompleteMsg:
		if m.panel == nil || msg.seq != m.panel.seq {
			return m, nil
		}
		m.source.loading = true
		return m, tea.Batch(
			m.panel.listen(),
			fetchSourceCmd(m.ctx, m.client, m.source.id),
			m.setFlash("Processing complete"),
		)

	case processActionMsg:
		return m.handleProcessAction(msg)

	case spinner.TickMsg:
		if m.panel == nil || !m.panel.busy() {
			if m.panel != nil {
				m.panel.spinning = false
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.panel.spin, cmd = m.panel.spin.Update(msg)
		return m, cmd

	case briefUpdatedMsg:
		return m.handleBriefUpdated(msg)

	case logsMsg:
		m.handleLogs(msg)
		return m, nil

	case loginRequiredMsg:
		m.loginURL = string(msg)
		return m, waitForLoginCmd(m.loginRequired)

	case flashMsg:
		return m, m.setFlash(string(msg))

	case flashExpiredMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil
	}

	// Cursor blinks.
	if m.prompting {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.prompting {
		return m.handlePromptKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.savePrefs()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		if m.panel != nil {
			m.panel.applyTheme(m.theme)
		}
		m.stylePrompt()
		m.savePrefs()
		return m, nil
	case key.Matches(msg, m.keys.CopyPath):
		return m, copyPathCmd(m.path)
	case key.Matches(msg, m.keys.Refresh):
		return m, m.reload()
	case key.Matches(msg, m.keys.Back):
		if m.path == breadcrumb.Home.Path {
			return m, nil
		}
		return m, m.navigate(breadcrumb.Parent(breadcrumb.FromPath(m.path, nil)))
	case key.Matches(msg, m.keys.GoHome):
		return m, m.navigate("/")
	case key.Matches(msg, m.keys.GoClients):
		return m, m.navigate("/clients")
	case key.Matches(msg, m.keys.GoContacts):
		return m, m.navigate("/contacts")
	case key.Matches(msg, m.keys.GoProjects):
		return m, m.navigate("/projects")
	case key.Matches(msg, m.keys.GoBriefs):
		return m, m.navigate("/briefs")
	case key.Matches(msg, m.keys.GoLogs):
		return m, m.navigate("/logs")
	case key.Matches(msg, m.keys.GoTo):
		return m, m.openPrompt()
	}

	switch {
	case m.route.listRoute():
		return m.handleListKey(msg)
	case m.route.kind == routeDataSource:
		return m.handleSourceKey(msg)
	case m.route.kind == routeBrief:
		return m.handleBriefKey(msg)
	case m.route.kind == routeLogs:
		return m.handleLogsKey(msg)
	default:
		m.scrollDetail(msg)
		return m, nil
	}
}

// navigate moves to path and starts everything the new screen needs.
func (m *Model) navigate(path string) tea.Cmd {
	prev := m.path
	closed := m.setPath(path)
	if m.path == prev {
		return tea.Batch(closed, m.reload())
	}
	return tea.Batch(closed, m.enterRoute(), saveLastPathCmd(m.session, m.path))
}

// setPath switches screens. When the data source on screen changes the
// processing panel is cancelled and the returned command reaps its loop.
func (m *Model) setPath(path string) tea.Cmd {
	clean := breadcrumb.Clean(path)
	next := parseRoute(clean)
	var closed tea.Cmd
	if m.panel != nil && (next.kind != routeDataSource || next.sourceID != m.panel.id) {
		closed = m.panel.close()
		m.panel = nil
	}
	m.path = clean
	m.route = next
	m.trailSeq++
	m.trail = breadcrumb.FromPath(clean, m.prefs.Labels)
	m.detail.GotoTop()
	if m.ready {
		m.sizeDetail()
	}
	return closed
}

// enterRoute returns the commands that load the current screen.
func (m *Model) enterRoute() tea.Cmd {
	cmds := []tea.Cmd{resolveTrailCmd(m.ctx, m.resolver, m.path, m.trailSeq)}

	switch m.route.kind {
	case routeCompany:
		if m.company.id != m.route.id {
			m.company = companyState{id: m.route.id}
		}
		m.company.loading = true
		if m.client != nil {
			cmds = append(cmds, fetchDataSourcesCmd(m.ctx, m.client, m.route.id))
		}
	case routeDataSource:
		if m.source.id != m.route.sourceID {
			m.source = sourceState{id: m.route.sourceID}
		}
		m.source.loading = true
		if m.client != nil {
			if m.panel == nil {
				m.panelSeq++
				m.panel = newProcessPanel(m.ctx, m.client, m.route.sourceID, m.panelSeq,
					m.cfg.PollerConfig(), m.logger.Named("processing"), m.theme)
				cmds = append(cmds, m.panel.listen())
			}
			cmds = append(cmds, fetchSourceCmd(m.ctx, m.client, m.route.sourceID))
		}
	case routeLogs:
		cmds = append(cmds, fetchLogsCmd(m.cfg.LogPath(), m.logs.minLevel))
	}
	m.refreshDetail()
	return tea.Batch(cmds...)
}

// reload refetches the current screen.
func (m *Model) reload() tea.Cmd {
	cmds := []tea.Cmd{m.enterRoute()}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.route.kind == routeLogs && m.logs.follow {
		cmds = append(cmds, fetchLogsCmd(m.cfg.LogPath(), m.logs.minLevel))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleSource(msg sourceMsg) (tea.Model, tea.Cmd) {
	if m.route.kind != routeDataSource || msg.id != m.source.id {
		return m, nil
	}
	m.source.loading = false
	m.source.err = msg.err
	if msg.err != nil && msg.source.ID == "" {
		m.refreshDetail()
		return m, m.noteAPIError(msg.err, "Failed to load data source")
	}
	m.source.source = msg.source
	m.source.paragraphs = msg.paragraphs
	m.refreshDetail()

	var cmds []tea.Cmd
	if m.panel != nil && msg.source.Status.Active() && !m.panel.machine.Running() {
		cmds = append(cmds, m.panel.watch(msg.source.Status))
	}
	if msg.err != nil {
		cmds = append(cmds, m.noteAPIError(msg.err, "Failed to load paragraphs"))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleProcessAction(msg processActionMsg) (tea.Model, tea.Cmd) {
	if m.panel == nil || msg.seq != m.panel.seq {
		return m, nil
	}
	m.panel.last = m.panel.machine.Snapshot()
	spin := m.panel.spinCmd()
	switch {
	case msg.err == nil:
		return m, spin
	case errors.Is(msg.err, context.Canceled):
		return m, nil
	case errors.Is(msg.err, processing.ErrRunning):
		return m, m.setFlash("Already processing")
	case errors.Is(msg.err, processing.ErrNotRetryable):
		return m, m.setFlash("Nothing to retry")
	default:
		m.logger.Warn("processing action failed", zap.String("action", msg.action), zap.Error(msg.err))
		return m, tea.Batch(spin, m.noteAPIError(msg.err, ""))
	}
}

// noteAPIError records an unauthorized response and flashes prefix plus the
// error. An empty prefix only handles the unauthorized case.
func (m *Model) noteAPIError(err error, prefix string) tea.Cmd {
	if err == nil {
		return nil
	}
	if errors.Is(err, pantopia.ErrUnauthorized) && m.client != nil {
		m.loginURL = m.client.LoginURL()
	}
	if prefix == "" {
		return nil
	}
	return m.setFlash(prefix + ", please try again")
}

func (m *Model) setFlash(text string) tea.Cmd {
	m.flash = text
	m.flashSeq++
	return expireFlashCmd(m.flashSeq)
}

func (m *Model) savePrefs() {
	m.prefs.Theme = m.theme.Name
	m.prefs.LastView = m.path
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn("save prefs failed", zap.Error(err))
	}
}

// resize propagates the terminal size to the viewports and renderer.
func (m *Model) resize() {
	w, h := m.contentSize()
	m.detail.Width = max(w-4, 10)
	m.sizeDetail()
	m.renderer.SetWidth(max(w-6, 20))
	m.logs.viewport.Width = m.detail.Width
	m.logs.viewport.Height = max(h-3, 1)
	m.refreshDetail()
	m.refreshLogViewport()
}

// sizeDetail fits the detail viewport to its box; data sources give up
// rows to the processing panel.
func (m *Model) sizeDetail() {
	_, h := m.contentSize()
	if m.route.kind == routeDataSource {
		h -= processPanelHeight
	}
	m.detail.Height = max(h-2, 1)
}

// contentSize is the area below the header and above the command bar.
func (m Model) contentSize() (int, int) {
	return m.width, max(m.height-m.headerHeight()-1, 3)
}

// renderMain renders the full screen.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	return b.String()
}

// renderContent renders the area for the current route.
func (m Model) renderContent() string {
	width, height := m.contentSize()
	switch m.route.kind {
	case routeHome, routeCompanies, routeContacts, routeProjects, routeBriefs, routeCompany:
		return m.renderList(width, height)
	case routeDataSource:
		return m.renderDataSource(width, height)
	case routeLogs:
		return m.renderLogs(width, height)
	case routeNotFound:
		return m.renderBox("Not found", m.theme.Styles().MutedText.Render("Nothing lives at "+m.path), width, height, true)
	default:
		return m.renderBox(m.detailTitle(), m.detail.View(), width, height, true)
	}
}

// Run starts the Bubble Tea program and blocks until the user quits.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	final, err := p.Run()
	if fm, ok := final.(Model); ok && fm.panel != nil {
		fm.panel.cancel()
		fm.panel.machine.Stop()
	}
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
