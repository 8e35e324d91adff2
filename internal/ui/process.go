package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/pantopia/console/internal/pantopia"
	"github.com/pantopia/console/internal/processing"
)

// processPanel owns the processing machine of the data source on screen. The
// machine's callbacks only poke buffered channels; listen turns those pokes
// into messages carrying a fresh snapshot, so the poll loop never waits on the
// UI and the last state is never lost.
type processPanel struct {
	seq     int
	id      string
	machine *processing.Machine

	ctx    context.Context
	cancel context.CancelFunc

	changed  chan struct{}
	complete chan struct{}

	last     processing.Update
	spin     spinner.Model
	spinning bool
	bar      progress.Model
}

// Panel messages carry seq so a closed panel's stragglers are ignored.
type (
	processUpdateMsg struct {
		seq    int
		update processing.Update
	}
	processCompleteMsg struct{ seq int }
	processActionMsg   struct {
		seq    int
		action string
		err    error
	}
)

func newProcessPanel(parent context.Context, proc pantopia.Processor, id string, seq int, cfg processing.Config, logger *zap.Logger, theme Theme) *processPanel {
	ctx, cancel := context.WithCancel(parent)
	p := &processPanel{
		seq:      seq,
		id:       id,
		ctx:      ctx,
		cancel:   cancel,
		changed:  make(chan struct{}, 1),
		complete: make(chan struct{}, 1),
		spin:     spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	p.machine = processing.New(proc, id,
		processing.WithConfig(cfg),
		processing.WithLogger(logger),
		processing.OnUpdate(func(processing.Update) { poke(p.changed) }),
		processing.OnComplete(func() { poke(p.complete) }),
	)
	p.last = p.machine.Snapshot()
	p.applyTheme(theme)
	return p
}

func poke(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

func (p *processPanel) applyTheme(theme Theme) {
	p.spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Accent))
	width := p.bar.Width
	p.bar = progress.New(
		progress.WithSolidFill(theme.Accent),
		progress.WithoutPercentage(),
	)
	p.bar.EmptyColor = theme.Faint
	if width > 0 {
		p.bar.Width = width
	}
}

// listen waits for the next machine event.
func (p *processPanel) listen() tea.Cmd {
	seq, machine := p.seq, p.machine
	changed, complete, done := p.changed, p.complete, p.ctx.Done()
	return func() tea.Msg {
		select {
		case <-complete:
			return processCompleteMsg{seq: seq}
		case <-changed:
			return processUpdateMsg{seq: seq, update: machine.Snapshot()}
		case <-done:
			return nil
		}
	}
}

// start submits the data source. Start blocks for the submit request, so it
// runs off the UI goroutine.
func (p *processPanel) start() tea.Cmd {
	return p.action("process", p.machine.Start)
}

func (p *processPanel) retry() tea.Cmd {
	return p.action("retry", p.machine.Retry)
}

func (p *processPanel) watch(status pantopia.Status) tea.Cmd {
	return p.action("watch", func(ctx context.Context) error {
		return p.machine.Watch(ctx, status)
	})
}

func (p *processPanel) action(name string, fn func(context.Context) error) tea.Cmd {
	ctx, seq := p.ctx, p.seq
	return func() tea.Msg {
		return processActionMsg{seq: seq, action: name, err: fn(ctx)}
	}
}

// close cancels the poll loop; the returned command reaps it.
func (p *processPanel) close() tea.Cmd {
	p.cancel()
	machine := p.machine
	return func() tea.Msg {
		machine.Stop()
		return nil
	}
}

// busy reports whether a submit or poll is in flight.
func (p *processPanel) busy() bool {
	switch p.last.State {
	case processing.Submitting, processing.Queued, processing.Extracting:
		return true
	}
	return false
}

// spinCmd starts the spinner if the panel just became busy.
func (p *processPanel) spinCmd() tea.Cmd {
	if !p.busy() || p.spinning {
		return nil
	}
	p.spinning = true
	return p.spin.Tick
}

// display returns the update to render. Until the machine does anything the
// backend's own status is shown.
func (p *processPanel) display(status pantopia.Status) processing.Update {
	if p.last.State != processing.Idle || !status.Valid() {
		return p.last
	}
	state := processing.FromStatus(status)
	return processing.Update{
		DataSourceID: p.id,
		State:        state,
		Status:       status,
		Progress:     state.Progress(),
	}
}

// view renders the panel body: message line, bar, and a detail line.
func (p *processPanel) view(status pantopia.Status, width int, styles Styles) string {
	u := p.display(status)

	stateLabel := styles.StatusStyle(u.State.String()).Render(strings.ToUpper(u.State.String()))
	msgStyle := styles.Text
	switch u.State {
	case processing.SubmitFailed, processing.Stalled:
		msgStyle = styles.DangerText
	case processing.Processed:
		msgStyle = styles.SuccessText
	}
	line := stateLabel + " " + msgStyle.Render(u.Message())
	if p.busy() {
		line = p.spin.View() + " " + line
	}

	pct := max(u.Progress, 0)
	p.bar.Width = max(width-8, 10)
	bar := p.bar.ViewAs(float64(pct)/100) + styles.MutedText.Render(fmt.Sprintf(" %3d%%", pct))

	var detail string
	switch {
	case u.Err != nil && u.State == processing.Stalled:
		detail = styles.DangerText.Render(fmt.Sprintf("%d failed checks: %s", u.Failures, u.Err))
	case u.Err != nil:
		detail = styles.WarningText.Render(truncate(u.Err.Error(), width))
	case u.Failures > 0:
		detail = styles.WarningText.Render(fmt.Sprintf("%d failed checks, next in %s", u.Failures, u.NextPoll.Round(time.Millisecond)))
	case u.NextPoll > 0:
		detail = styles.MutedText.Render("Next check in " + u.NextPoll.Round(time.Millisecond).String())
	case u.State == processing.Idle:
		detail = styles.MutedText.Render("Press x to extract this source")
	}

	return strings.Join([]string{line, bar, detail}, "\n")
}
