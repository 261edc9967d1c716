package scanner

import (
	"context"
	"fmt"
	"net/netip"
	"slices"
	"sync"
	"time"
)

// State is the lifecycle stage of a Run.
type State string

const (
	StateIdle      State = "idle"
	StateResolving State = "resolving"
	StateScanning  State = "scanning"
	StateFinished  State = "finished"
	StateCancelled State = "cancelled"
)

// Active reports whether the state counts against the single-flight limit.
func (s State) Active() bool {
	return s == StateResolving || s == StateScanning
}

// Target is the host as typed by the user plus the address it resolved to.
type Target struct {
	HostSpec string     `json:"host"`
	Address  netip.Addr `json:"resolved_address"`
}

// Display is the resolved address once known, the host spec before that.
func (t Target) Display() string {
	if t.Address.IsValid() {
		return t.Address.String()
	}
	return t.HostSpec
}

// RunSnapshot is a point-in-time copy of a Run, safe to hand to other goroutines.
type RunSnapshot struct {
	ID          string     `json:"id"`
	Target      Target     `json:"target"`
	Range       PortRange  `json:"range"`
	State       State      `json:"state"`
	OpenPorts   []uint16   `json:"open_ports"`
	TotalProbed int        `json:"total_probed"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

// Progress is the status readout "[ open / total ] ~ target".
type Progress struct {
	Open   int    `json:"open"`
	Total  int    `json:"total"`
	Target string `json:"target"`
}

func (p Progress) String() string {
	return fmt.Sprintf("[ %d / %d ] ~ %s", p.Open, p.Total, p.Target)
}

// Run is one scan. Its state and counters are written only by the Coordinator;
// everyone else reads them through Snapshot and Progress.
type Run struct {
	id     string
	rng    PortRange
	events *Aggregator
	cancel context.CancelFunc
	done   chan struct{}

	mu         sync.RWMutex
	target     Target
	state      State
	openPorts  map[uint16]struct{}
	probed     int
	startedAt  time.Time
	finishedAt time.Time
}

func newRun(id string, req Request) *Run {
	return &Run{
		id:        id,
		rng:       req.Range,
		events:    NewAggregator(),
		done:      make(chan struct{}),
		target:    Target{HostSpec: req.Host},
		state:     StateIdle,
		openPorts: make(map[uint16]struct{}),
		startedAt: time.Now().UTC(),
	}
}

// ID returns the run identifier.
func (r *Run) ID() string { return r.id }

// Range returns the port range being scanned.
func (r *Run) Range() PortRange { return r.rng }

// Events returns the run's event log.
func (r *Run) Events() *Aggregator { return r.events }

// Done is closed once the terminal event has been published and the run has
// released the single-flight slot.
func (r *Run) Done() <-chan struct{} { return r.done }

// Snapshot copies the current run state.
func (r *Run) Snapshot() RunSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	open := make([]uint16, 0, len(r.openPorts))
	for p := range r.openPorts {
		open = append(open, p)
	}
	slices.Sort(open)

	snap := RunSnapshot{
		ID:          r.id,
		Target:      r.target,
		Range:       r.rng,
		State:       r.state,
		OpenPorts:   open,
		TotalProbed: r.probed,
		StartedAt:   r.startedAt,
	}
	if !r.finishedAt.IsZero() {
		finished := r.finishedAt
		snap.FinishedAt = &finished
	}
	return snap
}

// Progress returns open and scheduled counts plus the target display string.
func (r *Run) Progress() Progress {
	r.mu.RLock()
	display := r.target.Display()
	r.mu.RUnlock()
	return Progress{
		Open:   r.events.OpenCount(),
		Total:  r.events.Total(),
		Target: display,
	}
}

func (r *Run) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

func (r *Run) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// setAddress records the resolved address. It can only be set once.
func (r *Run) setAddress(addr netip.Addr) {
	r.mu.Lock()
	if !r.target.Address.IsValid() {
		r.target.Address = addr
	}
	r.mu.Unlock()
}

func (r *Run) record(out Outcome) {
	r.mu.Lock()
	r.probed++
	if out.Kind == Open {
		r.openPorts[out.Port] = struct{}{}
	}
	r.mu.Unlock()
}

func (r *Run) finish(s State) {
	r.mu.Lock()
	r.state = s
	r.finishedAt = time.Now().UTC()
	r.mu.Unlock()
}
