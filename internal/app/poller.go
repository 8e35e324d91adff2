package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pantopia/console/internal/pantopia"
	"github.com/pantopia/console/internal/processing"
	"github.com/pantopia/console/internal/state"
)

const (
	defaultPollInterval = 5 * time.Second
	maxBackoff          = processing.DefaultMaxBackoff
)

// StartPoller launches a background goroutine that refreshes the store at a
// fixed cadence, backing off while the API is failing. It returns immediately;
// the returned channel closes once ctx is cancelled and the goroutine exits.
func StartPoller(ctx context.Context, store *state.Store, dir pantopia.Directory, interval time.Duration, logger *zap.Logger) <-chan struct{} {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		failures := 0
		for {
			if err := refresh(ctx, store, dir, logger); err != nil {
				failures++
			} else {
				failures = 0
			}

			wait := interval
			if failures > 0 {
				wait = calculateBackoff(failures, interval)
			}
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()
	return done
}

// calculateBackoff doubles base for every consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	return processing.Backoff(failures, base, maxBackoff)
}

// refresh loads every list concurrently and stores them as one snapshot. Any
// failure keeps the previous snapshot.
func refresh(ctx context.Context, store *state.Store, dir pantopia.Directory, logger *zap.Logger) error {
	var lists state.Lists
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := dir.ListCompanies(gctx)
		if err != nil {
			return fmt.Errorf("list companies: %w", err)
		}
		lists.Companies = items
		return nil
	})
	g.Go(func() error {
		items, err := dir.ListContacts(gctx)
		if err != nil {
			return fmt.Errorf("list contacts: %w", err)
		}
		lists.Contacts = items
		return nil
	})
	g.Go(func() error {
		items, err := dir.ListProjects(gctx)
		if err != nil {
			return fmt.Errorf("list projects: %w", err)
		}
		lists.Projects = items
		return nil
	})
	g.Go(func() error {
		items, err := dir.ListBriefs(gctx)
		if err != nil {
			return fmt.Errorf("list briefs: %w", err)
		}
		lists.Briefs = items
		return nil
	})

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		store.Update(nil, err)
		logger.Warn("refresh failed", zap.Error(err))
		return err
	}
	store.Update(&lists, nil)
	logger.Debug("refresh complete",
		zap.Int("companies", len(lists.Companies)),
		zap.Int("contacts", len(lists.Contacts)),
		zap.Int("projects", len(lists.Projects)),
		zap.Int("briefs", len(lists.Briefs)))
	return nil
}
