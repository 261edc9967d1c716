package scanner

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"portlens/report"
)

// Config tunes the engine.
type Config struct {
	Workers int
	Timeout time.Duration
}

// Option customizes a Controller.
type Option func(*Controller)

// WithProbe replaces the TCP connect probe.
func WithProbe(probe ProbeFunc) Option {
	return func(c *Controller) {
		c.coord.Probe = probe
	}
}

// WithLookup replaces the system DNS lookup.
func WithLookup(lookup LookupFunc) Option {
	return func(c *Controller) {
		c.coord.Resolver = NewResolver(lookup)
	}
}

// WithLogger sets the logger used by runs.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.coord.Logger = logger
	}
}

// Controller owns the scan lifecycle and enforces that at most one run is
// resolving or scanning at a time. A start while a run is active is rejected
// with ErrScanInProgress; the active run is never superseded.
type Controller struct {
	coord Coordinator
	gate  *semaphore.Weighted

	mu      sync.RWMutex
	current *Run
}

// NewController builds a Controller. Zero values in cfg fall back to
// DefaultWorkers and DefaultTimeout.
func NewController(cfg Config, opts ...Option) *Controller {
	c := &Controller{
		coord: Coordinator{
			Resolver: NewResolver(nil),
			Probe:    TCPProbe,
			Workers:  cfg.Workers,
			Timeout:  cfg.Timeout,
		},
		gate: semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start validates req and launches a run in the background. Validation and
// single-flight failures are returned synchronously and start no I/O. The run
// outlives ctx; use Cancel to stop it.
func (c *Controller) Start(ctx context.Context, req Request) (*Run, error) {
	req, err := NewRequest(req.Host, int(req.Range.Start), int(req.Range.End))
	if err != nil {
		return nil, err
	}
	if !c.gate.TryAcquire(1) {
		return nil, ErrScanInProgress
	}

	id, err := generateUUID()
	if err != nil {
		c.gate.Release(1)
		return nil, fmt.Errorf("generate run id: %w", err)
	}

	run := newRun(id, req)
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	run.cancel = cancel
	run.setState(StateResolving)

	c.mu.Lock()
	c.current = run
	c.mu.Unlock()

	go func() {
		defer close(run.done)
		defer c.gate.Release(1)
		defer cancel()
		c.coord.Execute(runCtx, run)
	}()

	return run, nil
}

// Cancel stops dispatch of further probes for the active run. It does not wait
// for in-flight probes; wait on Run.Done for that.
func (c *Controller) Cancel() error {
	run := c.CurrentRun()
	if run == nil {
		return ErrNoActiveScan
	}
	select {
	case <-run.Done():
		return ErrNoActiveScan
	default:
	}
	run.cancel()
	return nil
}

// CurrentRun returns the most recently started run, or nil.
func (c *Controller) CurrentRun() *Run {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Current returns a snapshot of the most recent run.
func (c *Controller) Current() (RunSnapshot, bool) {
	run := c.CurrentRun()
	if run == nil {
		return RunSnapshot{}, false
	}
	return run.Snapshot(), true
}

// Progress returns the status readout of the most recent run.
func (c *Controller) Progress() (Progress, bool) {
	run := c.CurrentRun()
	if run == nil {
		return Progress{}, false
	}
	return run.Progress(), true
}

// SaveSummary writes the header and event log of the most recent run to
// dir/portscan-<target>.txt and returns the path. With nothing logged it
// returns ErrNothingToSave and writes nothing. Write failures are *IOError.
func (c *Controller) SaveSummary(dir string) (string, error) {
	run := c.CurrentRun()
	if run == nil {
		return "", ErrNothingToSave
	}
	events := run.Events().Log()
	if len(events) == 0 {
		return "", ErrNothingToSave
	}

	snap := run.Snapshot()
	lines := make([]string, 0, len(events))
	for _, ev := range events {
		lines = append(lines, ev.Message)
	}
	header := report.Header{
		Target:     snap.Target.HostSpec,
		ResolvedIP: snap.Target.Display(),
		StartPort:  int(snap.Range.Start),
		EndPort:    int(snap.Range.End),
	}

	path := filepath.Join(dir, report.FileName(snap.Target.Display()))
	if err := report.WriteAtomic(path, report.Render(header, lines)); err != nil {
		return "", &IOError{Path: path, Err: err}
	}
	c.coord.logger().Info("summary saved", "run_id", snap.ID, "path", path, "events", len(lines))
	return path, nil
}

func generateUUID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	// Variant bits; version 4 UUID.
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16]), nil
}
