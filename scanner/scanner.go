package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/netip"
	"sync"
	"time"

	"portlens/logging"
)

const (
	// DefaultWorkers caps in-flight probes, and with them open sockets.
	DefaultWorkers = 100
	// DefaultTimeout bounds every connect attempt.
	DefaultTimeout = 2 * time.Second
)

// Coordinator executes a single run: resolve once, then probe every port of
// the range on a fixed pool of workers.
type Coordinator struct {
	Resolver *Resolver
	Probe    ProbeFunc
	Workers  int
	Timeout  time.Duration
	Logger   *slog.Logger
}

// Execute drives run to a terminal state. It blocks until every scheduled
// probe has completed. Cancelling ctx stops dispatch of ports that have not
// started yet; probes already connecting finish on their own timeout.
func (c *Coordinator) Execute(ctx context.Context, run *Run) {
	logger := c.logger().With("run_id", run.ID())
	events := run.Events()
	host := run.Snapshot().Target.HostSpec
	rng := run.Range()

	run.setState(StateResolving)
	addr, err := c.resolver().Resolve(ctx, host)
	if err != nil {
		if ctx.Err() != nil {
			c.terminate(ctx, run, logger)
			return
		}
		cause := err
		var rerr *ResolutionError
		if errors.As(err, &rerr) {
			cause = rerr.Err
		}
		logger.Warn("target resolution failed", "host", host, "error", cause)
		events.Finish(ResultEvent{
			Kind:    EventError,
			Message: fmt.Sprintf("> Could not resolve target '%s': %v", host, cause),
		})
		run.finish(StateFinished)
		return
	}

	run.setAddress(addr)
	run.setState(StateScanning)
	total := rng.Len()
	events.SetTotal(total)
	events.Publish(infoEvent("> Scanning %s (%s) ports %d-%d (total %d)", host, addr, rng.Start, rng.End, total))
	logger.Info("scan started", "host", host, "address", addr.String(), "start_port", rng.Start, "end_port", rng.End, "total", total)

	c.dispatch(ctx, run, addr, logger)
	c.terminate(ctx, run, logger)
}

func (c *Coordinator) dispatch(ctx context.Context, run *Run, addr netip.Addr, logger *slog.Logger) {
	rng := run.Range()
	workers := c.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > rng.Len() {
		workers = rng.Len()
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	probe := c.Probe
	if probe == nil {
		probe = TCPProbe
	}

	// In-flight connects are not aborted by cancellation.
	probeCtx := context.WithoutCancel(ctx)
	jobs := make(chan uint16, workers)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for port := range jobs {
				c.route(run, probe(probeCtx, addr, port, timeout), logger)
			}
		}()
	}

dispatch:
	for p := int(rng.Start); p <= int(rng.End); p++ {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- uint16(p):
		}
	}
	close(jobs)
	wg.Wait()
}

func (c *Coordinator) route(run *Run, out Outcome, logger *slog.Logger) {
	run.record(out)
	switch out.Kind {
	case Open:
		run.Events().Publish(openEvent(out.Port))
	case Errored:
		if out.Err == nil {
			out.Err = &ProbeError{Port: out.Port, Err: errors.New("unclassified probe failure")}
		}
		logger.Debug("probe failed", "port", out.Port, "error", out.Err.Err)
		run.Events().Publish(errorEvent(out.Port, out.Err))
	}
}

func (c *Coordinator) terminate(ctx context.Context, run *Run, logger *slog.Logger) {
	snap := run.Snapshot()
	if ctx.Err() != nil {
		run.Events().Finish(infoEvent("> Scan cancelled."))
		run.finish(StateCancelled)
		logger.Info("scan cancelled", "probed", snap.TotalProbed, "open", len(snap.OpenPorts))
		return
	}
	run.Events().Finish(infoEvent("> Scan finished."))
	run.finish(StateFinished)
	logger.Info("scan finished", "probed", snap.TotalProbed, "open", len(snap.OpenPorts))
}

func (c *Coordinator) resolver() *Resolver {
	if c.Resolver == nil {
		return NewResolver(nil)
	}
	return c.Resolver
}

func (c *Coordinator) logger() *slog.Logger {
	if c.Logger == nil {
		return logging.Logger()
	}
	return c.Logger
}
