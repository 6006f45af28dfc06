package reporter

import (
	"bytes"
	"errors"
	"github.com/stretchr/testify/assert"
	"go-portprobe/models"
	"strings"
	"testing"
	"time"
)

func scanTarget() models.ScanTarget {
	return models.ScanTarget{
		Host:        "127.0.0.1",
		Range:       models.PortRange{Start: 20, End: 23},
		Concurrency: 2,
		Timeout:     1500 * time.Millisecond,
	}
}

func TestPlain_Report(t *testing.T) {
	var out, errOut bytes.Buffer
	r := New(models.FormatPlain, &out, &errOut, Options{})

	r.Start(scanTarget())
	r.Result(models.ProbeResult{Port: 22, Outcome: models.Open})
	r.Result(models.ProbeResult{Port: 20, Outcome: models.Closed})
	r.Summary(models.ScanSummary{Total: 2, OpenPorts: []uint16{22}, ClosedCount: 1})

	want := strings.Join([]string{
		"Scanning 127.0.0.1 ports 20-23 (concurrency=2, timeout=1500ms)",
		"[OPEN]  Port    22 is open",
		"[CLOSED] Port    20 is closed",
		"",
		"Scan finished.",
		"Total ports scanned: 2",
		"Open ports: 1  Closed ports: 1",
		"Open port list: [22]",
		"",
	}, "\n")
	assert.Equal(t, want, out.String())
	assert.Empty(t, errOut.String())
}

func TestPlain_OpenOnly(t *testing.T) {
	var out bytes.Buffer
	r := New(models.FormatPlain, &out, &out, Options{OpenOnly: true})

	r.Result(models.ProbeResult{Port: 20, Outcome: models.Closed})
	r.Result(models.ProbeResult{Port: 443, Outcome: models.Open})

	assert.Equal(t, "[OPEN]  Port   443 is open\n", out.String())
}

func TestPlain_NoOpenPorts(t *testing.T) {
	var out bytes.Buffer
	r := New(models.FormatPlain, &out, &out, Options{})

	r.Summary(models.ScanSummary{Total: 10, OpenPorts: []uint16{}, ClosedCount: 10})

	assert.NotContains(t, out.String(), "Open port list")
	assert.Contains(t, out.String(), "Open ports: 0  Closed ports: 10")
}

func TestPlain_StructuredFormatsRenderPlain(t *testing.T) {
	for _, f := range []models.OutputFormat{models.FormatJSON, models.FormatCSV} {
		var plain, other bytes.Buffer
		New(models.FormatPlain, &plain, &plain, Options{}).Result(models.ProbeResult{Port: 80, Outcome: models.Open})
		New(f, &other, &other, Options{}).Result(models.ProbeResult{Port: 80, Outcome: models.Open})
		assert.Equal(t, plain.String(), other.String(), f)
	}
}

func TestPlain_Failure(t *testing.T) {
	var out, errOut bytes.Buffer
	r := New(models.FormatPlain, &out, &errOut, Options{})

	r.Failure(errors.New("probe task failed: port 81"))

	assert.Empty(t, out.String())
	assert.Equal(t, "[ERROR] probe task failed: port 81\n", errOut.String())
}

func TestPlain_Color(t *testing.T) {
	var out bytes.Buffer
	r := New(models.FormatPlain, &out, &out, Options{Color: true})

	r.Result(models.ProbeResult{Port: 80, Outcome: models.Open})

	assert.Contains(t, out.String(), "\x1b[")
	assert.Contains(t, out.String(), "Port    80 is open")
}

func TestFormatPorts(t *testing.T) {
	assert.Equal(t, "[]", FormatPorts(nil))
	assert.Equal(t, "[443, 22, 80]", FormatPorts([]uint16{443, 22, 80}))
}

func TestProgress_ForwardsToReporter(t *testing.T) {
	var out, bar bytes.Buffer
	r := WithProgress(New(models.FormatPlain, &out, &out, Options{}), &bar)

	r.Start(scanTarget())
	r.Result(models.ProbeResult{Port: 21, Outcome: models.Open})
	r.Summary(models.ScanSummary{Total: 1, OpenPorts: []uint16{21}})

	assert.Contains(t, out.String(), "[OPEN]  Port    21 is open")
	assert.Contains(t, out.String(), "Open port list: [21]")
	assert.NotEmpty(t, bar.String())
}
