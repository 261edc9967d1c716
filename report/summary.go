// Package report renders scan summaries as plain text and writes them to disk.
package report

import (
	"fmt"
	"strings"
)

const title = "> Port Scanner"

// Header is the fixed preamble of a summary file.
type Header struct {
	Target     string
	ResolvedIP string
	StartPort  int
	EndPort    int
}

var unsafeChars = strings.NewReplacer("/", "_", ":", "_")

// FileName derives the summary file name from the resolved target.
func FileName(target string) string {
	return fmt.Sprintf("portscan-%s.txt", unsafeChars.Replace(target))
}

// Render produces the summary text: header, blank line, then one log line per event.
func Render(h Header, lines []string) []byte {
	var b strings.Builder
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", 14) + "\n")
	fmt.Fprintf(&b, " Target: %s\n", h.Target)
	fmt.Fprintf(&b, " Resolved IP: %s\n", h.ResolvedIP)
	fmt.Fprintf(&b, " Ports: %d / %d\n", h.StartPort, h.EndPort)
	b.WriteString("\n")
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return []byte(b.String())
}
