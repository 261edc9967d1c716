package scanner

import (
	"errors"
	"sync"
	"testing"
)

func TestAggregator_TryReceiveEmpty(t *testing.T) {
	a := NewAggregator()
	if _, ok := a.TryReceive(); ok {
		t.Fatalf("expected no event from an empty aggregator")
	}
	if got := a.Drain(); got != nil {
		t.Fatalf("expected nil drain, got %v", got)
	}
}

func TestAggregator_OrderAndCounts(t *testing.T) {
	a := NewAggregator()
	a.SetTotal(3)
	a.Publish(infoEvent("> start"))
	a.Publish(openEvent(22))
	a.Publish(errorEvent(23, &ProbeError{Port: 23, Err: errors.New("boom")}))

	ev, ok := a.TryReceive()
	if !ok || ev.Kind != EventInfo {
		t.Fatalf("expected info first, got %+v", ev)
	}
	rest := a.Drain()
	if len(rest) != 2 || rest[0].Port != 22 || rest[1].Port != 23 {
		t.Fatalf("unexpected drain: %+v", rest)
	}
	if rest[0].Message != " Port 22 \t[open]" {
		t.Fatalf("unexpected open message %q", rest[0].Message)
	}
	if rest[1].Message != "> error on port 23: boom" {
		t.Fatalf("unexpected error message %q", rest[1].Message)
	}
	if a.OpenCount() != 1 || a.Total() != 3 || a.Len() != 3 {
		t.Fatalf("counts: open=%d total=%d len=%d", a.OpenCount(), a.Total(), a.Len())
	}
	if _, ok := a.TryReceive(); ok {
		t.Fatalf("everything should be delivered")
	}
	if len(a.Log()) != 3 {
		t.Fatalf("log must retain delivered events")
	}
}

func TestAggregator_FinishIsTerminal(t *testing.T) {
	a := NewAggregator()
	a.Finish(infoEvent("> Scan finished."))
	a.Finish(infoEvent("> Scan finished."))
	a.Publish(openEvent(80))

	if !a.Finished() {
		t.Fatalf("expected finished")
	}
	if a.Len() != 1 {
		t.Fatalf("events after the terminal event must be dropped, len=%d", a.Len())
	}
}

func TestAggregator_Since(t *testing.T) {
	a := NewAggregator()
	for p := uint16(1); p <= 5; p++ {
		a.Publish(openEvent(p))
	}
	if got := a.Since(3); len(got) != 2 || got[0].Port != 4 {
		t.Fatalf("unexpected since(3): %+v", got)
	}
	if got := a.Since(-1); len(got) != 5 {
		t.Fatalf("negative offset should start at zero, got %d", len(got))
	}
	if got := a.Since(10); got != nil {
		t.Fatalf("offset past the end should be nil, got %+v", got)
	}
	// Since does not consume.
	if len(a.Drain()) != 5 {
		t.Fatalf("since must not move the consumer cursor")
	}
}

func TestAggregator_ConcurrentProducers(t *testing.T) {
	a := NewAggregator()
	const producers, perProducer = 50, 40

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				a.Publish(openEvent(uint16(base*perProducer + j + 1)))
			}
		}(i)
	}

	seen := make(map[uint16]bool)
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	collect := func() {
		for _, ev := range a.Drain() {
			if seen[ev.Port] {
				t.Errorf("duplicate delivery of port %d", ev.Port)
			}
			seen[ev.Port] = true
		}
	}
	for {
		select {
		case <-done:
			collect()
			if len(seen) != producers*perProducer {
				t.Fatalf("lost events: got %d want %d", len(seen), producers*perProducer)
			}
			if a.OpenCount() != producers*perProducer {
				t.Fatalf("open count %d", a.OpenCount())
			}
			return
		default:
			collect()
		}
	}
}
