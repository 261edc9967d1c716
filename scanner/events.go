package scanner

import (
	"errors"
	"fmt"
	"sync"
)

// EventKind tags a ResultEvent.
type EventKind string

const (
	EventInfo  EventKind = "info"
	EventOpen  EventKind = "open"
	EventError EventKind = "error"
)

// ResultEvent is one entry in a run's append-only event log.
type ResultEvent struct {
	Kind    EventKind `json:"kind"`
	Port    uint16    `json:"port"`
	Message string    `json:"message"`
}

func infoEvent(format string, args ...any) ResultEvent {
	return ResultEvent{Kind: EventInfo, Message: fmt.Sprintf(format, args...)}
}

func openEvent(port uint16) ResultEvent {
	return ResultEvent{Kind: EventOpen, Port: port, Message: fmt.Sprintf(" Port %d \t[open]", port)}
}

func errorEvent(port uint16, err error) ResultEvent {
	return ResultEvent{Kind: EventError, Port: port, Message: fmt.Sprintf("> error on port %d: %v", port, unwrapProbe(err))}
}

func unwrapProbe(err error) error {
	var pe *ProbeError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}

// Aggregator collects events from many producers for a single polling consumer.
// Publishing never blocks on the consumer, and TryReceive never blocks on producers.
// The full log is retained for summaries and for readers that track their own offset.
type Aggregator struct {
	mu       sync.Mutex
	log      []ResultEvent
	cursor   int
	open     int
	total    int
	finished bool
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Publish appends ev. Events published after Finish are dropped.
func (a *Aggregator) Publish(ev ResultEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.appendLocked(ev)
}

// Finish publishes the terminal event. Only the first call has any effect.
func (a *Aggregator) Finish(ev ResultEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.appendLocked(ev) {
		a.finished = true
	}
}

func (a *Aggregator) appendLocked(ev ResultEvent) bool {
	if a.finished {
		return false
	}
	a.log = append(a.log, ev)
	if ev.Kind == EventOpen {
		a.open++
	}
	return true
}

// SetTotal records how many ports were scheduled.
func (a *Aggregator) SetTotal(n int) {
	a.mu.Lock()
	a.total = n
	a.mu.Unlock()
}

// TryReceive returns the next undelivered event, or false when none is pending.
func (a *Aggregator) TryReceive() (ResultEvent, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cursor >= len(a.log) {
		return ResultEvent{}, false
	}
	ev := a.log[a.cursor]
	a.cursor++
	return ev, true
}

// Drain returns every undelivered event and marks them delivered.
func (a *Aggregator) Drain() []ResultEvent {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cursor >= len(a.log) {
		return nil
	}
	out := make([]ResultEvent, len(a.log)-a.cursor)
	copy(out, a.log[a.cursor:])
	a.cursor = len(a.log)
	return out
}

// Since returns a copy of the log starting at offset. It does not move the
// TryReceive/Drain cursor.
func (a *Aggregator) Since(offset int) []ResultEvent {
	a.mu.Lock()
	defer a.mu.Unlock()
	if offset < 0 {
		offset = 0
	}
	if offset >= len(a.log) {
		return nil
	}
	out := make([]ResultEvent, len(a.log)-offset)
	copy(out, a.log[offset:])
	return out
}

// Log returns a copy of every event in emission order.
func (a *Aggregator) Log() []ResultEvent {
	return a.Since(0)
}

// Len returns the number of events emitted so far.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.log)
}

// OpenCount returns the number of Open events seen.
func (a *Aggregator) OpenCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.open
}

// Total returns the number of ports scheduled for the run.
func (a *Aggregator) Total() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.total
}

// Finished reports whether the terminal event has been published.
func (a *Aggregator) Finished() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.finished
}
