package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/gopacket/layers"
	"github.com/mattn/go-isatty"

	"portlens/scanner"
)

// printer writes events as they arrive. On a terminal it also keeps a
// progress line at the bottom that is redrawn every tick.
type printer struct {
	w      io.Writer
	tty    bool
	drawn  bool
	styles map[scanner.EventKind]lipgloss.Style
	status lipgloss.Style
}

func newPrinter(w io.Writer) *printer {
	tty := false
	if f, ok := w.(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	r := lipgloss.NewRenderer(w)
	base := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return &printer{
		w:   w,
		tty: tty,
		styles: map[scanner.EventKind]lipgloss.Style{
			scanner.EventOpen:  base.Foreground(lipgloss.Color("10")).Bold(true),
			scanner.EventError: base.Foreground(lipgloss.Color("9")),
			scanner.EventInfo:  base,
		},
		status: base.Faint(true),
	}
}

func (p *printer) events(evs []scanner.ResultEvent) {
	for _, ev := range evs {
		p.line(ev.Kind, ev.Message)
	}
}

func (p *printer) line(kind scanner.EventKind, msg string) {
	p.clearProgress()
	fmt.Fprintln(p.w, p.styles[kind].Render(msg))
}

func (p *printer) progress(pr scanner.Progress) {
	if !p.tty {
		return
	}
	fmt.Fprintf(p.w, "\r\033[K%s", p.status.Render(" "+pr.String()))
	p.drawn = true
}

func (p *printer) clearProgress() {
	if p.drawn {
		fmt.Fprint(p.w, "\r\033[K")
		p.drawn = false
	}
}

func (p *printer) summary(snap scanner.RunSnapshot, pr scanner.Progress) {
	p.line(scanner.EventInfo, " "+pr.String())
	if len(snap.OpenPorts) == 0 {
		return
	}
	p.line(scanner.EventOpen, "> Open ports: "+portList(snap.OpenPorts))
}

// portList labels each port with its IANA service name where one is registered.
func portList(ports []uint16) string {
	names := make([]string, 0, len(ports))
	for _, port := range ports {
		names = append(names, layers.TCPPort(port).String())
	}
	return strings.Join(names, ", ")
}
