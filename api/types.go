package api

import "portlens/scanner"

// StartScanRequest is the payload for starting a scan.
type StartScanRequest struct {
	// Host is a hostname or IP literal.
	Host string `json:"host" example:"scanme.nmap.org" description:"Hostname, IPv4 or IPv6 literal. Surrounding whitespace is ignored. Resolved once per run."`
	// StartPort is the first port of the inclusive range.
	StartPort int `json:"start_port" example:"1" description:"First port of the inclusive range, 1-65535."`
	// EndPort is the last port of the inclusive range.
	EndPort int `json:"end_port" example:"1024" description:"Last port of the inclusive range, 1-65535, not lower than start_port."`
}

// ScanStatusResponse is a snapshot of the current run plus its progress readout.
type ScanStatusResponse struct {
	Run          scanner.RunSnapshot `json:"run"`
	Progress     scanner.Progress    `json:"progress"`
	ProgressLine string              `json:"progress_line" example:"[ 1 / 1024 ] ~ 45.33.32.156"`
	Events       int                 `json:"events" example:"3" description:"Number of events emitted so far. Use it as the offset for the next events poll."`
}

// EventsResponse carries events emitted since the requested offset.
type EventsResponse struct {
	Events   []scanner.ResultEvent `json:"events"`
	Next     int                   `json:"next" example:"3" description:"Offset to pass on the next poll."`
	Finished bool                  `json:"finished" description:"True once the terminal event has been emitted. No further events follow."`
}

// SummaryResponse reports where a summary was written, or why nothing was written.
type SummaryResponse struct {
	Path    string `json:"path,omitempty" example:"results/portscan-45.33.32.156.txt"`
	Warning string `json:"warning,omitempty" example:"no scan results to save"`
}

// ErrorResponse provides a consistent structure for API error payloads.
type ErrorResponse struct {
	Error string `json:"error" example:"start port must be <= end port"`
	Field string `json:"field,omitempty" example:"ports"`
}
