// Package reporter renders scan progress and the final summary.
package reporter

import (
	"fmt"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"go-portprobe/models"
	"io"
	"os"
	"strconv"
	"strings"
)

// Reporter consumes the results of one scan as they arrive.
type Reporter interface {
	Start(target models.ScanTarget)
	Result(res models.ProbeResult)
	Summary(summary models.ScanSummary)
	Failure(err error)
}

// Options tunes the plain reporter.
type Options struct {
	OpenOnly bool // skip CLOSED lines
	Color    bool
}

// Plain writes one line per port followed by a summary block.
type Plain struct {
	out    io.Writer
	errOut io.Writer
	opts   Options

	open   *color.Color
	closed *color.Color
	failed *color.Color
	title  *color.Color
}

// New returns the reporter for format. Structured formats are accepted but
// rendered the same way as plain.
func New(format models.OutputFormat, out, errOut io.Writer, opts Options) Reporter {
	if format != models.FormatPlain {
		logrus.Debugf("Output format %q has no structured renderer, using plain", format)
	}

	p := &Plain{
		out:    out,
		errOut: errOut,
		opts:   opts,
		open:   color.New(color.FgGreen, color.Bold),
		closed: color.New(color.FgRed),
		failed: color.New(color.FgRed, color.Bold),
		title:  color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.open, p.closed, p.failed, p.title} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Start prints the scan header.
func (p *Plain) Start(target models.ScanTarget) {
	p.title.Fprintf(p.out, "Scanning %s ports %s (concurrency=%d, timeout=%dms)\n",
		target.Host, target.Range, target.Concurrency, target.Timeout.Milliseconds())
}

// Result prints the outcome of one port.
func (p *Plain) Result(res models.ProbeResult) {
	switch res.Outcome {
	case models.Open:
		p.open.Fprintf(p.out, "[OPEN]  Port %5d is open\n", res.Port)
	case models.Closed:
		if !p.opts.OpenOnly {
			p.closed.Fprintf(p.out, "[CLOSED] Port %5d is closed\n", res.Port)
		}
	}
}

// Summary prints totals and the open ports in the order they were found.
func (p *Plain) Summary(s models.ScanSummary) {
	fmt.Fprintln(p.out)
	p.title.Fprintln(p.out, "Scan finished.")
	fmt.Fprintf(p.out, "Total ports scanned: %d\n", s.Total)
	fmt.Fprintf(p.out, "Open ports: %d  Closed ports: %d\n", len(s.OpenPorts), s.ClosedCount)
	if len(s.OpenPorts) > 0 {
		fmt.Fprintf(p.out, "Open port list: %s\n", FormatPorts(s.OpenPorts))
	}
}

// Failure prints a scan-level error to the error stream.
func (p *Plain) Failure(err error) {
	p.failed.Fprintf(p.errOut, "[ERROR] %v\n", err)
}

// FormatPorts renders ports as "[22, 80, 443]".
func FormatPorts(ports []uint16) string {
	parts := make([]string, len(ports))
	for i, port := range ports {
		parts[i] = strconv.Itoa(int(port))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
