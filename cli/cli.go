package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"portlens/config"
	"portlens/logging"
	"portlens/scanner"
)

const (
	defaultHost  = "localhost"
	defaultStart = 1
	defaultEnd   = 1024
)

// Run parses args (without the program name), performs one scan while polling
// its event log, and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	return run(args, stdout, stderr)
}

func run(args []string, stdout, stderr io.Writer, opts ...scanner.Option) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	fs := flag.NewFlagSet("portlens", flag.ContinueOnError)
	fs.SetOutput(stderr)
	workers := fs.Int("workers", cfg.Workers, "maximum concurrent probes")
	timeout := fs.Duration("timeout", cfg.Timeout, "per-probe connect timeout")
	poll := fs.Duration("poll", cfg.PollInterval, "event polling interval")
	save := fs.Bool("save", false, "write a summary file when the scan ends")
	dir := fs.String("dir", cfg.SummaryDir, "directory for summary files")
	logLevel := fs.String("log-level", "warn", "log level written to stderr (debug, info, warn, error)")
	fs.Usage = func() {
		printUsage(stderr)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *workers < 1 || *timeout <= 0 || *poll <= 0 {
		fmt.Fprintln(stderr, "> Error: workers, timeout and poll must be positive.")
		return 2
	}

	req, err := parseTarget(fs.Args())
	if err != nil {
		fmt.Fprintf(stderr, "> Error: %v.\n", err)
		return 2
	}

	logger := logging.Configure(stderr, logging.ParseLevel(*logLevel))
	opts = append([]scanner.Option{scanner.WithLogger(logger)}, opts...)
	ctrl := scanner.NewController(scanner.Config{Workers: *workers, Timeout: *timeout}, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	current, err := ctrl.Start(ctx, req)
	if err != nil {
		fmt.Fprintf(stderr, "> Error: %v\n", err)
		return 1
	}

	out := newPrinter(stdout)
	watch(ctx, ctrl, current, out, *poll)

	if *save {
		saveSummary(ctrl, *dir, out)
	}
	return 0
}

// watch drains the run's events on every tick until the run is done.
func watch(ctx context.Context, ctrl *scanner.Controller, current *scanner.Run, out *printer, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	interrupted := ctx.Done()
	for {
		select {
		case <-interrupted:
			_ = ctrl.Cancel()
			interrupted = nil
		case <-current.Done():
			out.events(current.Events().Drain())
			out.summary(current.Snapshot(), current.Progress())
			return
		case <-ticker.C:
			out.events(current.Events().Drain())
			out.progress(current.Progress())
		}
	}
}

func saveSummary(ctrl *scanner.Controller, dir string, out *printer) {
	path, err := ctrl.SaveSummary(dir)
	switch {
	case errors.Is(err, scanner.ErrNothingToSave):
		out.line(scanner.EventInfo, "> No scan results to save.")
	case err != nil:
		out.line(scanner.EventError, fmt.Sprintf("> Error saving file: %v", err))
	default:
		out.line(scanner.EventInfo, "> Results saved to:\n"+path)
	}
}

// parseTarget accepts [host] [start-end] or host start end.
func parseTarget(args []string) (scanner.Request, error) {
	switch len(args) {
	case 0:
		return scanner.NewRequest(defaultHost, defaultStart, defaultEnd)
	case 1:
		return scanner.NewRequest(args[0], defaultStart, defaultEnd)
	case 2:
		rng, err := scanner.ParsePortRange(args[1])
		if err != nil {
			return scanner.Request{}, err
		}
		return scanner.NewRequest(args[0], int(rng.Start), int(rng.End))
	case 3:
		return scanner.ParseRequest(args[0], args[1], args[2])
	default:
		return scanner.Request{}, fmt.Errorf("too many arguments: %s", strings.Join(args, " "))
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: portlens [flags] [host] [startPort-endPort]")
	fmt.Fprintln(w, "       portlens [flags] host startPort endPort")
	fmt.Fprintln(w, "       portlens serve")
	fmt.Fprintln(w, "Example: portlens scanme.nmap.org 20-443")
	fmt.Fprintln(w, "Example: portlens -save -dir results 127.0.0.1 1 1024")
}
