package scanner

import (
	"strconv"
	"strings"
)

const (
	minPort = 1
	maxPort = 65535
)

// PortRange is an inclusive range of TCP ports with 1 <= Start <= End <= 65535.
type PortRange struct {
	Start uint16 `json:"start"`
	End   uint16 `json:"end"`
}

// Len returns the number of ports in the range.
func (r PortRange) Len() int {
	return int(r.End) - int(r.Start) + 1
}

// NewPortRange validates start and end and returns the range.
func NewPortRange(start, end int) (PortRange, error) {
	if start < minPort || end < minPort || start > maxPort || end > maxPort {
		return PortRange{}, &ValidationError{Field: "ports", Reason: "ports must be in 1-65535"}
	}
	if start > end {
		return PortRange{}, &ValidationError{Field: "ports", Reason: "start port must be <= end port"}
	}
	return PortRange{Start: uint16(start), End: uint16(end)}, nil
}

// Request is a validated scan request.
type Request struct {
	Host  string
	Range PortRange
}

// NewRequest trims host and validates the numeric range.
func NewRequest(host string, start, end int) (Request, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return Request{}, &ValidationError{Field: "host", Reason: "target cannot be empty"}
	}
	r, err := NewPortRange(start, end)
	if err != nil {
		return Request{}, err
	}
	return Request{Host: host, Range: r}, nil
}

// ParseRequest validates raw user input. Each failure has its own message.
func ParseRequest(host, start, end string) (Request, error) {
	startPort, err := strconv.Atoi(strings.TrimSpace(start))
	if err != nil {
		return Request{}, &ValidationError{Field: "start_port", Reason: "start and end ports must be integers"}
	}
	endPort, err := strconv.Atoi(strings.TrimSpace(end))
	if err != nil {
		return Request{}, &ValidationError{Field: "end_port", Reason: "start and end ports must be integers"}
	}
	return NewRequest(host, startPort, endPort)
}

// ParsePortRange parses the "start-end" form used on the command line. A single
// port is accepted as a range of one.
func ParsePortRange(portRange string) (PortRange, error) {
	parts := strings.Split(strings.TrimSpace(portRange), "-")
	switch len(parts) {
	case 1:
		parts = append(parts, parts[0])
	case 2:
	default:
		return PortRange{}, &ValidationError{Field: "ports", Reason: "invalid port range format. Use startPort-endPort"}
	}

	startPort, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return PortRange{}, &ValidationError{Field: "start_port", Reason: "start port is not a number: " + parts[0]}
	}
	endPort, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return PortRange{}, &ValidationError{Field: "end_port", Reason: "end port is not a number: " + parts[1]}
	}
	return NewPortRange(startPort, endPort)
}
