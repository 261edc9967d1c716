package scanner

import (
	"errors"
	"fmt"
)

var (
	// ErrScanInProgress is returned when a start is requested while another run is resolving or scanning.
	ErrScanInProgress = errors.New("a scan is already in progress")
	// ErrNoActiveScan is returned by Cancel when nothing is running.
	ErrNoActiveScan = errors.New("no scan is in progress")
	// ErrNothingToSave is a warning: the event log is empty and no summary file was written.
	ErrNothingToSave = errors.New("no scan results to save")
)

// ValidationError reports bad user input. It is returned before any network I/O happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// ResolutionError reports that a host specification could not be turned into an address.
type ResolutionError struct {
	HostSpec string
	Err      error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("could not resolve target '%s': %v", e.HostSpec, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// ProbeError is a per-port failure that is not an ordinary refusal or timeout.
type ProbeError struct {
	Port uint16
	Err  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe port %d: %v", e.Port, e.Err)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

// IOError reports a failed summary write.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("save summary to %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
