package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Defaults used when neither the user nor the stored settings provide a value.
const (
	DefaultHost          = "127.0.0.1"
	DefaultPorts         = "80"
	DefaultConcurrency   = 100
	DefaultTimeoutMillis = 1000
)

// ErrUnknownFormat is returned for an output format outside plain, json and csv.
var ErrUnknownFormat = errors.New("unknown output format")

// OutputFormat defines how a scan is rendered.
type OutputFormat string

const (
	FormatPlain OutputFormat = "plain"
	FormatJSON  OutputFormat = "json"
	FormatCSV   OutputFormat = "csv"
)

// ParseOutputFormat validates a user supplied format name. An empty name is plain.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatPlain, nil
	case FormatPlain, FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// PortRange is an inclusive range of TCP ports, 1 <= Start <= End <= 65535.
type PortRange struct {
	Start uint16 `json:"start"`
	End   uint16 `json:"end"`
}

// Len returns the number of ports covered by the range.
func (r PortRange) Len() int {
	return int(r.End) - int(r.Start) + 1
}

func (r PortRange) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// ScanTarget holds everything a single scan needs. It is built once from
// validated settings and never modified afterwards.
type ScanTarget struct {
	Host        string        `json:"host"`
	Range       PortRange     `json:"range"`
	Concurrency int           `json:"concurrency"`
	Timeout     time.Duration `json:"timeout"`
}

// Outcome classifies a single probe.
type Outcome uint8

const (
	// Closed covers refused connections, unreachable hosts and timeouts.
	Closed Outcome = iota
	// Open means the TCP handshake completed before the deadline.
	Open
	// Failed marks a probe that could not be carried out at all.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Open:
		return "open"
	case Closed:
		return "closed"
	default:
		return "error"
	}
}

// MarshalText renders the outcome by name in JSON payloads.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// ProbeResult is produced exactly once per scanned port.
type ProbeResult struct {
	Port    uint16  `json:"port"`
	Outcome Outcome `json:"outcome"`
	Err     error   `json:"-"` // reason, set only when Outcome is Failed
}

// ScanSummary aggregates every ProbeResult of a completed scan.
// OpenPorts is in completion order, not numeric order.
type ScanSummary struct {
	Total       int      `json:"total"`
	OpenPorts   []uint16 `json:"open_ports"`
	ClosedCount int      `json:"closed_count"`
}

// Settings defines the parameters an end-user can set for a scan, either
// from the command line or through the HTTP API.
type Settings struct {
	Host          string `json:"host"`
	Ports         string `json:"ports"`
	Concurrency   int    `json:"concurrency"`
	TimeoutMillis int    `json:"timeout_ms"`
	Output        string `json:"output"`
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		Host:          DefaultHost,
		Ports:         DefaultPorts,
		Concurrency:   DefaultConcurrency,
		TimeoutMillis: DefaultTimeoutMillis,
		Output:        string(FormatPlain),
	}
}

// Merge returns s with every zero field taken from base.
func (s Settings) Merge(base Settings) Settings {
	if strings.TrimSpace(s.Host) == "" {
		s.Host = base.Host
	}
	if strings.TrimSpace(s.Ports) == "" {
		s.Ports = base.Ports
	}
	if s.Concurrency == 0 {
		s.Concurrency = base.Concurrency
	}
	if s.TimeoutMillis == 0 {
		s.TimeoutMillis = base.TimeoutMillis
	}
	if strings.TrimSpace(s.Output) == "" {
		s.Output = base.Output
	}
	return s
}
