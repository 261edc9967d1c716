package scanner

import (
	"errors"
	"testing"
)

func TestParseRequest_Valid(t *testing.T) {
	req, err := ParseRequest("  localhost ", " 1", "1024 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Host != "localhost" {
		t.Fatalf("host not trimmed: %q", req.Host)
	}
	if req.Range.Start != 1 || req.Range.End != 1024 || req.Range.Len() != 1024 {
		t.Fatalf("unexpected range: %+v", req.Range)
	}
}

func TestParseRequest_Invalid(t *testing.T) {
	cases := []struct {
		name       string
		host       string
		start, end string
		want       string
	}{
		{"empty host", "   ", "1", "10", "target cannot be empty"},
		{"non-integer start", "localhost", "a", "10", "start and end ports must be integers"},
		{"non-integer end", "localhost", "1", "1.5", "start and end ports must be integers"},
		{"zero", "localhost", "0", "10", "ports must be in 1-65535"},
		{"too large", "localhost", "1", "65536", "ports must be in 1-65535"},
		{"negative", "localhost", "-5", "10", "ports must be in 1-65535"},
		{"reversed", "localhost", "10", "1", "start port must be <= end port"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseRequest(tc.host, tc.start, tc.end)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Error() != tc.want {
				t.Fatalf("got %q want %q", verr.Error(), tc.want)
			}
		})
	}
}

func TestNewPortRange_Bounds(t *testing.T) {
	r, err := NewPortRange(1, 65535)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Len() != 65535 {
		t.Fatalf("got len %d", r.Len())
	}
	r, err = NewPortRange(80, 80)
	if err != nil || r.Len() != 1 {
		t.Fatalf("single port range: %+v %v", r, err)
	}
}

func TestParsePortRange(t *testing.T) {
	valid := map[string]PortRange{
		"22-80":   {Start: 22, End: 80},
		"443":     {Start: 443, End: 443},
		" 1-1024": {Start: 1, End: 1024},
	}
	for in, want := range valid {
		t.Run(in, func(t *testing.T) {
			got, err := ParsePortRange(in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != want {
				t.Fatalf("got %+v want %+v", got, want)
			}
		})
	}

	for _, in := range []string{"", "1-2-3", "a-10", "10-b", "80-22", "0-10", "1-70000"} {
		t.Run("invalid "+in, func(t *testing.T) {
			if _, err := ParsePortRange(in); err == nil {
				t.Fatalf("expected error for %q", in)
			}
		})
	}
}
