package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pantopia/console/internal/pantopia"
	"github.com/pantopia/console/internal/processing"
)

func newProcessCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process <data-source-id>",
		Short: "Process a data source and follow it to completion",
		Long: `process submits a data source for extraction and prints each state change
until it is processed. A source the backend is already working on is followed
without resubmitting. Exits non-zero when the submit is rejected or polling
stalls.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := flags.bootstrap(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			return runProcess(cmd, env.Client, args[0], env.Config.PollerConfig(), env.Logger.Named("processing"))
		},
	}
	return cmd
}

// runProcess drives one Machine to a terminal state. A source that is
// already queued or extracting is watched instead of resubmitted.
func runProcess(cmd *cobra.Command, proc processingBackend, id string, cfg processing.Config, logger *zap.Logger) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	printer := &statePrinter{out: out, last: -1}
	machine := processing.New(proc, id,
		processing.WithConfig(cfg),
		processing.WithLogger(logger),
		processing.OnUpdate(printer.print),
	)
	defer machine.Stop()

	ds, err := proc.GetDataSource(ctx, id)
	if err != nil {
		return fmt.Errorf("load data source %s: %w", id, err)
	}
	fmt.Fprintf(out, "%s (%s) is %s\n", ds.Name, ds.Kind, ds.Status.Label())

	if ds.Status.Active() {
		err = machine.Watch(ctx, ds.Status)
	} else {
		err = machine.Start(ctx)
	}
	if err != nil {
		return err
	}

	final, err := machine.Wait(ctx)
	if err != nil {
		return err
	}
	switch final.State {
	case processing.Processed:
		paragraphs, err := proc.ListParagraphs(ctx, id)
		if err != nil {
			return fmt.Errorf("list paragraphs: %w", err)
		}
		fmt.Fprintf(out, "%d paragraphs extracted\n", len(paragraphs))
		return nil
	case processing.Stalled:
		return fmt.Errorf("processing stalled: %w", final.Err)
	default:
		return errors.New("processing ended in state " + final.State.String())
	}
}

// processingBackend is what the process command needs from the API.
type processingBackend interface {
	pantopia.Processor
	GetDataSource(ctx context.Context, id string) (pantopia.DataSource, error)
	ListParagraphs(ctx context.Context, dataSourceID string) ([]pantopia.Paragraph, error)
}

// statePrinter prints an update whenever the state changes. Machine calls it
// from one goroutine at a time.
type statePrinter struct {
	out  io.Writer
	last processing.State
}

func (p *statePrinter) print(u processing.Update) {
	if u.State == p.last {
		return
	}
	p.last = u.State
	fmt.Fprintf(p.out, "%-13s %3d%%  %s\n", u.State, u.Progress, u.Message())
}
