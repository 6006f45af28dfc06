package models

import (
	"encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestParseOutputFormat(t *testing.T) {
	cases := map[string]OutputFormat{
		"":       FormatPlain,
		"plain":  FormatPlain,
		" JSON ": FormatJSON,
		"csv":    FormatCSV,
	}
	for in, want := range cases {
		got, err := ParseOutputFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseOutputFormat("xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestPortRange_Len(t *testing.T) {
	assert.Equal(t, 1, PortRange{Start: 80, End: 80}.Len())
	assert.Equal(t, 21, PortRange{Start: 80, End: 100}.Len())
	assert.Equal(t, 65535, PortRange{Start: 1, End: 65535}.Len())
	assert.Equal(t, "80-100", PortRange{Start: 80, End: 100}.String())
}

func TestSettings_Merge(t *testing.T) {
	got := Settings{Ports: "22-25", Concurrency: 5}.Merge(DefaultSettings())

	assert.Equal(t, Settings{
		Host:          DefaultHost,
		Ports:         "22-25",
		Concurrency:   5,
		TimeoutMillis: DefaultTimeoutMillis,
		Output:        "plain",
	}, got)
}

func TestProbeResult_JSON(t *testing.T) {
	b, err := json.Marshal(ProbeResult{Port: 443, Outcome: Open})
	require.NoError(t, err)
	assert.JSONEq(t, `{"port":443,"outcome":"open"}`, string(b))
}
