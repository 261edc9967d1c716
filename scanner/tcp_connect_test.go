package scanner

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"os"
	"syscall"
	"testing"
	"time"
)

func TestTCPProbe_OpenAndClosed(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	portNum := uint16(l.Addr().(*net.TCPAddr).Port)
	loopback := netip.MustParseAddr("127.0.0.1")

	out := TCPProbe(context.Background(), loopback, portNum, time.Second)
	if out.Kind != Open || out.Port != portNum {
		t.Fatalf("expected open on %d, got %+v", portNum, out)
	}

	_ = l.Close()
	time.Sleep(50 * time.Millisecond)

	out = TCPProbe(context.Background(), loopback, portNum, 500*time.Millisecond)
	if out.Kind != Closed {
		t.Fatalf("expected closed after listener shut down, got %v (err=%v)", out.Kind, out.Err)
	}
	if out.Err != nil {
		t.Fatalf("closed outcome must not carry an error: %v", out.Err)
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	opErr := func(errno syscall.Errno) error {
		return &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", errno)}
	}
	cases := []struct {
		name string
		err  error
		want OutcomeKind
	}{
		{"success", nil, Open},
		{"refused", opErr(syscall.ECONNREFUSED), Closed},
		{"reset", opErr(syscall.ECONNRESET), Closed},
		{"timeout", &net.OpError{Op: "dial", Net: "tcp", Err: timeoutErr{}}, Closed},
		{"deadline", fmt.Errorf("dial: %w", context.DeadlineExceeded), Closed},
		{"refused text", errors.New("No connection could be made because the target machine actively refused it."), Closed},
		{"too many files", opErr(syscall.EMFILE), Errored},
		{"unreachable", opErr(syscall.ENETUNREACH), Errored},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := classify(443, tc.err)
			if out.Kind != tc.want {
				t.Fatalf("got %v want %v", out.Kind, tc.want)
			}
			if out.Port != 443 {
				t.Fatalf("port not carried: %d", out.Port)
			}
			if tc.want == Errored {
				if out.Err == nil || !errors.Is(out.Err, tc.err) {
					t.Fatalf("errored outcome must wrap the cause, got %v", out.Err)
				}
			} else if out.Err != nil {
				t.Fatalf("unexpected error on %v outcome: %v", out.Kind, out.Err)
			}
		})
	}
}
