package cli

import (
	"bytes"
	"context"
	"net"
	"net/netip"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"portlens/scanner"
)

func TestParseTarget(t *testing.T) {
	cases := []struct {
		args  []string
		host  string
		start uint16
		end   uint16
	}{
		{nil, "localhost", 1, 1024},
		{[]string{"scanme.nmap.org"}, "scanme.nmap.org", 1, 1024},
		{[]string{"10.0.0.1", "22-80"}, "10.0.0.1", 22, 80},
		{[]string{"10.0.0.1", "443"}, "10.0.0.1", 443, 443},
		{[]string{"10.0.0.1", "20", "25"}, "10.0.0.1", 20, 25},
	}
	for _, tc := range cases {
		t.Run(strings.Join(tc.args, " "), func(t *testing.T) {
			req, err := parseTarget(tc.args)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if req.Host != tc.host || req.Range.Start != tc.start || req.Range.End != tc.end {
				t.Fatalf("got %+v", req)
			}
		})
	}

	for _, args := range [][]string{{"h", "80-22"}, {"h", "x", "10"}, {" ", "1", "2"}, {"a", "b", "c", "d"}} {
		t.Run("invalid "+strings.Join(args, " "), func(t *testing.T) {
			if _, err := parseTarget(args); err == nil {
				t.Fatalf("expected error for %v", args)
			}
		})
	}
}

func TestPortList(t *testing.T) {
	got := portList([]uint16{22, 40001})
	parts := strings.Split(got, ", ")
	if len(parts) != 2 || !strings.HasPrefix(parts[0], "22") || !strings.HasPrefix(parts[1], "40001") {
		t.Fatalf("unexpected port list %q", got)
	}
}

func TestRun_InvalidInputExitsWithoutScanning(t *testing.T) {
	var stdout, stderr bytes.Buffer
	probed := false
	probe := func(ctx context.Context, addr netip.Addr, port uint16, timeout time.Duration) scanner.Outcome {
		probed = true
		return scanner.Outcome{Kind: scanner.Closed, Port: port}
	}
	code := run([]string{"localhost", "10", "1"}, &stdout, &stderr, scanner.WithProbe(probe))
	if code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
	if !strings.Contains(stderr.String(), "start port must be <= end port") {
		t.Fatalf("unexpected stderr %q", stderr.String())
	}
	if probed {
		t.Fatalf("invalid input must not start a scan")
	}
}

func TestRun_ScansLoopbackAndSaves(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()
	port := strconv.Itoa(l.Addr().(*net.TCPAddr).Port)

	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	code := run([]string{"-poll", "10ms", "-timeout", "1s", "-save", "-dir", dir, "127.0.0.1", port + "-" + port}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}

	out := stdout.String()
	for _, want := range []string{
		"> Scanning 127.0.0.1 (127.0.0.1) ports " + port + "-" + port + " (total 1)",
		" Port " + port + " \t[open]",
		"> Scan finished.",
		"[ 1 / 1 ] ~ 127.0.0.1",
		"> Open ports: " + port,
		"> Results saved to:",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "portscan-127.0.0.1.txt"))
	if err != nil {
		t.Fatalf("summary not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "> Port Scanner\n") {
		t.Fatalf("unexpected summary:\n%s", data)
	}
}
