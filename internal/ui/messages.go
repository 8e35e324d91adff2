package ui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap/zapcore"

	"github.com/pantopia/console/internal/breadcrumb"
	"github.com/pantopia/console/internal/logtail"
	"github.com/pantopia/console/internal/pantopia"
	"github.com/pantopia/console/internal/session"
	"github.com/pantopia/console/internal/state"
)

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// trailMsg carries a resolved breadcrumb trail. seq matches the navigation
// that asked for it; older results are dropped.
type trailMsg struct {
	seq   int
	path  string
	items []breadcrumb.Item
	err   error
}

type dataSourcesMsg struct {
	companyID string
	sources   []pantopia.DataSource
	err       error
}

type sourceMsg struct {
	id         string
	source     pantopia.DataSource
	paragraphs []pantopia.Paragraph
	err        error
}

type briefUpdatedMsg struct {
	brief pantopia.Brief
	err   error
}

type logsMsg struct {
	entries []logtail.Entry
	err     error
}

type loginRequiredMsg string

type flashMsg string

type flashExpiredMsg struct{ seq int }

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func resolveTrailCmd(ctx context.Context, resolver *breadcrumb.Resolver, path string, seq int) tea.Cmd {
	if resolver == nil {
		return nil
	}
	return func() tea.Msg {
		items, err := resolver.Resolve(ctx, path)
		return trailMsg{seq: seq, path: path, items: items, err: err}
	}
}

func fetchDataSourcesCmd(ctx context.Context, dir pantopia.Directory, companyID string) tea.Cmd {
	return func() tea.Msg {
		sources, err := dir.ListDataSources(ctx, companyID)
		return dataSourcesMsg{companyID: companyID, sources: sources, err: err}
	}
}

// fetchSourceCmd loads a data source and, once processed, its paragraphs.
func fetchSourceCmd(ctx context.Context, dir pantopia.Directory, id string) tea.Cmd {
	return func() tea.Msg {
		ds, err := dir.GetDataSource(ctx, id)
		if err != nil {
			return sourceMsg{id: id, err: err}
		}
		msg := sourceMsg{id: id, source: ds}
		if ds.Status == pantopia.StatusProcessed {
			msg.paragraphs, msg.err = dir.ListParagraphs(ctx, id)
		}
		return msg
	}
}

func updateBriefCmd(ctx context.Context, client Backend, id string, next pantopia.BriefStatus) tea.Cmd {
	return func() tea.Msg {
		brief, err := client.UpdateBriefStatus(ctx, id, next)
		return briefUpdatedMsg{brief: brief, err: err}
	}
}

func fetchLogsCmd(path string, minLevel zapcore.Level) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogFetchLimit)
		if err != nil {
			return logsMsg{err: err}
		}
		return logsMsg{entries: logtail.ParseLines(lines, minLevel)}
	}
}

func waitForLoginCmd(ch <-chan string) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		url, ok := <-ch
		if !ok {
			return nil
		}
		return loginRequiredMsg(url)
	}
}

func copyPathCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(path); err != nil {
			return flashMsg("Copy failed: " + err.Error())
		}
		return flashMsg("Copied " + path)
	}
}

func saveLastPathCmd(store *session.Store, path string) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		if err := store.SetLastPath(path); err != nil {
			return flashMsg("Could not save session: " + err.Error())
		}
		return nil
	}
}

func expireFlashCmd(seq int) tea.Cmd {
	return tea.Tick(FlashDuration, func(time.Time) tea.Msg {
		return flashExpiredMsg{seq: seq}
	})
}
