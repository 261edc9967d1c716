package scanner

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"strings"
	"syscall"
	"time"
)

// OutcomeKind classifies a single probe.
type OutcomeKind int

const (
	// Closed covers refusals, resets and timeouts. It produces no event.
	Closed OutcomeKind = iota
	Open
	Errored
)

func (k OutcomeKind) String() string {
	switch k {
	case Open:
		return "open"
	case Errored:
		return "error"
	default:
		return "closed"
	}
}

// Outcome is the result of probing one port. Err is set only for Errored.
type Outcome struct {
	Kind OutcomeKind
	Port uint16
	Err  *ProbeError
}

// ProbeFunc probes one port. TCPProbe is the production implementation.
type ProbeFunc func(ctx context.Context, addr netip.Addr, port uint16, timeout time.Duration) Outcome

// TCPProbe attempts a full TCP handshake with addr:port. The connection is
// closed immediately; no data is exchanged.
func TCPProbe(ctx context.Context, addr netip.Addr, port uint16, timeout time.Duration) Outcome {
	dialer := net.Dialer{Timeout: timeout, KeepAlive: -1}
	conn, err := dialer.DialContext(ctx, "tcp", netip.AddrPortFrom(addr, port).String())
	if conn != nil {
		_ = conn.Close()
	}
	return classify(port, err)
}

func classify(port uint16, err error) Outcome {
	if err == nil {
		return Outcome{Kind: Open, Port: port}
	}
	if isClosed(err) {
		return Outcome{Kind: Closed, Port: port}
	}
	return Outcome{Kind: Errored, Port: port, Err: &ProbeError{Port: port, Err: err}}
}

// isClosed reports whether err is an ordinary non-open result: refused, reset
// or timed out.
func isClosed(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	// Windows reports WSAECONNREFUSED with a different errno.
	errStr := err.Error()
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "actively refused")
}
