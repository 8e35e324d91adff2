package processing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pantopia/console/internal/pantopia"
)

// SubmitFailedMessage is shown when the process request is rejected.
const SubmitFailedMessage = "Failed to process data source, please try again"

const (
	DefaultPollInterval = 3 * time.Second
	DefaultMaxFailures  = 5
)

var (
	// ErrRunning is returned when a run is already in flight.
	ErrRunning = errors.New("processing already running")
	// ErrNotActive is returned by Watch for a source the backend is not working on.
	ErrNotActive = errors.New("data source is not being processed")
	// ErrNotRetryable is returned by Retry unless the last run was rejected or stalled.
	ErrNotRetryable = errors.New("nothing to retry")
)

// Config tunes the poll loop.
type Config struct {
	PollInterval time.Duration
	MaxFailures  int
	MaxBackoff   time.Duration
}

// DefaultConfig returns the stock poll settings.
func DefaultConfig() Config {
	return Config{
		PollInterval: DefaultPollInterval,
		MaxFailures:  DefaultMaxFailures,
		MaxBackoff:   DefaultMaxBackoff,
	}
}

func (c Config) normalized() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.MaxFailures <= 0 {
		c.MaxFailures = DefaultMaxFailures
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = DefaultMaxBackoff
	}
	if c.MaxBackoff < c.PollInterval {
		c.MaxBackoff = c.PollInterval
	}
	return c
}

// Option configures a Machine.
type Option func(*Machine)

// WithConfig overrides the poll settings.
func WithConfig(cfg Config) Option {
	return func(m *Machine) { m.cfg = cfg }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// OnUpdate registers a callback for every state or progress change. It runs on
// the goroutine that caused the change and must not block.
func OnUpdate(fn func(Update)) Option {
	return func(m *Machine) { m.onUpdate = fn }
}

// OnComplete registers a callback that fires once when the backend reports
// Processed.
func OnComplete(fn func()) Option {
	return func(m *Machine) { m.onComplete = fn }
}

// Machine drives processing of one data source: submit, poll until the
// backend reports Processed, and back off while polls fail.
type Machine struct {
	id         string
	proc       pantopia.Processor
	cfg        Config
	logger     *zap.Logger
	onUpdate   func(Update)
	onComplete func()

	mu       sync.Mutex
	state    State
	status   pantopia.Status
	progress int
	failures int
	err      error
	nextPoll time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

// New returns an idle Machine for the data source id.
func New(proc pantopia.Processor, id string, opts ...Option) *Machine {
	m := &Machine{
		id:     id,
		proc:   proc,
		cfg:    DefaultConfig(),
		logger: zap.NewNop(),
		status: pantopia.StatusNotExtracted,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.cfg = m.cfg.normalized()
	m.logger = m.logger.With(zap.String("datasource", id))
	return m
}

// Snapshot returns the current state.
func (m *Machine) Snapshot() Update {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Machine) snapshotLocked() Update {
	return Update{
		DataSourceID: m.id,
		State:        m.state,
		Status:       m.status,
		Progress:     m.progress,
		Failures:     m.failures,
		Err:          m.err,
		NextPoll:     m.nextPoll,
	}
}

// Running reports whether a submit or poll loop is in flight.
func (m *Machine) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runningLocked()
}

func (m *Machine) runningLocked() bool {
	if m.state == Submitting {
		return true
	}
	if m.done == nil {
		return false
	}
	select {
	case <-m.done:
		return false
	default:
		return true
	}
}

// Start submits the data source for processing and, once accepted, polls its
// status in the background until ctx is cancelled or the run finishes. Start
// blocks only for the submit request. A rejected submit leaves the machine in
// SubmitFailed and returns the error; Start may be called again.
func (m *Machine) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.runningLocked() {
		m.mu.Unlock()
		return ErrRunning
	}
	m.state = Submitting
	m.progress = Submitting.Progress()
	m.failures = 0
	m.err = nil
	m.nextPoll = 0
	u := m.snapshotLocked()
	m.mu.Unlock()
	m.emit(u)

	m.logger.Info("submitting data source for processing")
	if err := m.proc.ProcessDataSource(ctx, m.id); err != nil {
		m.logger.Warn("process request failed", zap.Error(err))
		m.mu.Lock()
		m.state = SubmitFailed
		m.progress = SubmitFailed.Progress()
		m.err = err
		u := m.snapshotLocked()
		m.mu.Unlock()
		m.emit(u)
		return fmt.Errorf("process data source %s: %w", m.id, err)
	}

	m.launch(ctx)
	return nil
}

// Watch resumes polling for a source the backend already reports as queued or
// extracting. Nothing is submitted.
func (m *Machine) Watch(ctx context.Context, current pantopia.Status) error {
	if !current.Active() {
		return ErrNotActive
	}
	m.mu.Lock()
	if m.runningLocked() {
		m.mu.Unlock()
		return ErrRunning
	}
	m.status = current
	m.state = FromStatus(current)
	m.progress = m.state.Progress()
	m.failures = 0
	m.err = nil
	u := m.snapshotLocked()
	m.mu.Unlock()
	m.emit(u)

	m.logger.Debug("watching processing status", zap.String("status", string(current)))
	m.launch(ctx)
	return nil
}

// Retry starts over after a failure. A rejected submit is resubmitted; a
// stalled run resumes polling. Any other state returns ErrNotRetryable.
func (m *Machine) Retry(ctx context.Context) error {
	m.mu.Lock()
	state, status, progress := m.state, m.status, m.progress
	m.mu.Unlock()

	if state == SubmitFailed {
		return m.Start(ctx)
	}
	if state != Stalled {
		return fmt.Errorf("%w: %s", ErrNotRetryable, state)
	}

	m.mu.Lock()
	if m.runningLocked() {
		m.mu.Unlock()
		return ErrRunning
	}
	resumed := FromStatus(status)
	if resumed.rank() == 0 {
		resumed = Submitting
	}
	m.state = resumed
	m.progress = max(progress, resumed.Progress())
	m.failures = 0
	m.err = nil
	u := m.snapshotLocked()
	m.mu.Unlock()
	m.emit(u)

	m.logger.Info("resuming stalled processing")
	m.launch(ctx)
	return nil
}

// Stop cancels the poll loop and waits for it to exit.
func (m *Machine) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Wait blocks until the poll loop exits or ctx is done and returns the final
// snapshot.
func (m *Machine) Wait(ctx context.Context) (Update, error) {
	m.mu.Lock()
	done := m.done
	m.mu.Unlock()
	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			return m.Snapshot(), ctx.Err()
		}
	}
	return m.Snapshot(), nil
}

func (m *Machine) launch(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})

	m.mu.Lock()
	m.cancel = cancel
	m.done = done
	m.nextPoll = m.cfg.PollInterval
	u := m.snapshotLocked()
	m.mu.Unlock()
	m.emit(u)

	go m.run(ctx, cancel, done)
}

func (m *Machine) run(ctx context.Context, cancel context.CancelFunc, done chan struct{}) {
	defer close(done)
	defer cancel()

	timer := time.NewTimer(m.cfg.PollInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			m.mu.Lock()
			m.nextPoll = 0
			m.mu.Unlock()
			return
		case <-timer.C:
		}

		status, err := m.proc.ProcessingStatus(ctx, m.id)
		if ctx.Err() != nil {
			m.mu.Lock()
			m.nextPoll = 0
			m.mu.Unlock()
			return
		}

		next, finished := m.observe(status, err)
		if finished {
			return
		}
		timer.Reset(next)
	}
}

// observe records one poll result and returns the wait before the next poll.
func (m *Machine) observe(status pantopia.Status, err error) (time.Duration, bool) {
	m.mu.Lock()
	var (
		completed bool
		next      time.Duration
	)
	if err != nil {
		m.failures++
		m.err = err
		if m.failures >= m.cfg.MaxFailures || errors.Is(err, pantopia.ErrUnauthorized) {
			m.state = Stalled
			m.nextPoll = 0
		} else {
			next = Backoff(m.failures, m.cfg.PollInterval, m.cfg.MaxBackoff)
			m.nextPoll = next
		}
	} else {
		m.failures = 0
		m.err = nil
		m.status = status
		m.state = advance(m.state, status)
		m.progress = max(m.progress, m.state.Progress())
		if m.state == Processed {
			completed = true
			m.nextPoll = 0
		} else {
			next = m.cfg.PollInterval
			m.nextPoll = next
		}
	}
	u := m.snapshotLocked()
	m.mu.Unlock()

	switch {
	case err != nil && u.State == Stalled:
		m.logger.Warn("processing status polling stalled",
			zap.Int("failures", u.Failures),
			zap.Error(err))
	case err != nil:
		m.logger.Debug("processing status poll failed",
			zap.Int("failures", u.Failures),
			zap.Duration("backoff", next),
			zap.Error(err))
	default:
		m.logger.Debug("processing status",
			zap.String("status", string(status)),
			zap.Int("progress", u.Progress))
	}

	m.emit(u)
	if completed {
		m.logger.Info("data source processed")
		if m.onComplete != nil {
			m.onComplete()
		}
	}
	return next, u.State.Terminal()
}

func (m *Machine) emit(u Update) {
	if m.onUpdate != nil {
		m.onUpdate(u)
	}
}
