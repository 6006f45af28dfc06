package port_scanner

import (
	"fmt"
	"go-portprobe/models"
	"strconv"
	"strings"
	"time"
)

// ParsePortRange parses a port specification into an inclusive range.
// Supported forms:
//   - single: "80"
//   - range: "80-100"
func ParsePortRange(spec string) (models.PortRange, error) {
	spec = strings.TrimSpace(spec)

	first, last, isRange := strings.Cut(spec, "-")
	if !isRange {
		last = first
	}

	start, err := parsePort(first)
	if err != nil {
		return models.PortRange{}, err
	}
	end, err := parsePort(last)
	if err != nil {
		return models.PortRange{}, err
	}

	if start == 0 || end == 0 || start > end {
		return models.PortRange{}, fmt.Errorf("%w: %q", ErrInvalidPortRange, spec)
	}
	return models.PortRange{Start: start, End: end}, nil
}

func parsePort(token string) (uint16, error) {
	token = strings.TrimSpace(token)
	v, err := strconv.ParseUint(token, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPort, token)
	}
	return uint16(v), nil
}

// NewTarget validates settings and builds the target of a single scan.
// The host is taken as-is; resolving it is up to the caller.
func NewTarget(s models.Settings) (models.ScanTarget, error) {
	r, err := ParsePortRange(s.Ports)
	if err != nil {
		return models.ScanTarget{}, err
	}
	if s.Concurrency < 1 {
		return models.ScanTarget{}, fmt.Errorf("%w: concurrency must be at least 1, got %d", ErrInvalidSettings, s.Concurrency)
	}
	if s.TimeoutMillis < 1 {
		return models.ScanTarget{}, fmt.Errorf("%w: timeout must be positive, got %dms", ErrInvalidSettings, s.TimeoutMillis)
	}
	host := strings.TrimSpace(s.Host)
	if host == "" {
		return models.ScanTarget{}, fmt.Errorf("%w: empty host", ErrInvalidSettings)
	}

	return models.ScanTarget{
		Host:        host,
		Range:       r,
		Concurrency: s.Concurrency,
		Timeout:     time.Duration(s.TimeoutMillis) * time.Millisecond,
	}, nil
}
