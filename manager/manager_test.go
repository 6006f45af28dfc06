package manager

import (
	"bytes"
	"context"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-portprobe/database"
	dr "go-portprobe/dns-resolver"
	"go-portprobe/models"
	ps "go-portprobe/port-scanner"
	"go-portprobe/reporter"
	"net"
	"path/filepath"
	"strconv"
	"testing"
	"time"
)

type staticResolver map[string]string

func (r staticResolver) Resolve(_ context.Context, host string) (string, error) {
	if ip, ok := r[host]; ok {
		return ip, nil
	}
	return "", dr.ErrResolve
}

func newDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "portprobe.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func listen(t *testing.T) uint16 {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()
	return uint16(ln.Addr().(*net.TCPAddr).Port)
}

func TestManager_Plan_Defaults(t *testing.T) {
	m := NewManager(nil, dr.New(""))

	plan, err := m.Plan(models.Settings{})
	require.NoError(t, err)

	assert.Equal(t, models.DefaultSettings(), plan.Settings)
	assert.Equal(t, models.PortRange{Start: 80, End: 80}, plan.Target.Range)
	assert.Equal(t, time.Second, plan.Target.Timeout)
	assert.Equal(t, models.FormatPlain, plan.Format)
}

func TestManager_Plan_Invalid(t *testing.T) {
	m := NewManager(nil, dr.New(""))

	_, err := m.Plan(models.Settings{Ports: "100-50"})
	assert.ErrorIs(t, err, ps.ErrInvalidPortRange)

	_, err = m.Plan(models.Settings{Ports: "abc"})
	assert.ErrorIs(t, err, ps.ErrInvalidPort)

	_, err = m.Plan(models.Settings{Output: "yaml"})
	assert.ErrorIs(t, err, models.ErrUnknownFormat)

	_, err = m.Plan(models.Settings{Concurrency: -1})
	assert.ErrorIs(t, err, ps.ErrInvalidSettings)
}

func TestManager_Scan_RecordsCompletedRun(t *testing.T) {
	db := newDB(t)
	port := listen(t)
	m := NewManager(db, staticResolver{"scanner.test": "127.0.0.1"})

	plan, err := m.Plan(models.Settings{
		Host:          "scanner.test",
		Ports:         strconv.Itoa(int(port)),
		Concurrency:   1,
		TimeoutMillis: 200,
	})
	require.NoError(t, err)

	var out bytes.Buffer
	rec, err := m.Scan(context.Background(), plan, reporter.New(plan.Format, &out, &out, reporter.Options{}))
	require.NoError(t, err)

	assert.Equal(t, database.StatusCompleted, rec.Status)
	assert.Equal(t, "scanner.test", rec.Host)
	assert.Equal(t, "127.0.0.1", rec.Address)
	assert.Equal(t, []uint16{port}, []uint16(rec.OpenPorts))
	assert.Contains(t, out.String(), "Scanning scanner.test ports")
	assert.Contains(t, out.String(), "is open")

	history, err := m.History(10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, rec.ID, history[0].ID)

	got, err := m.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Total)
}

func TestManager_Scan_RecordsAbortedRun(t *testing.T) {
	db := newDB(t)
	failing := ps.ProberFunc(func(context.Context, string, uint16, time.Duration) (models.Outcome, error) {
		return models.Failed, errors.New("no descriptors left")
	})
	m := NewManager(db, staticResolver{"127.0.0.1": "127.0.0.1"}, ps.WithProber(failing))

	plan, err := m.Plan(models.Settings{Ports: "1-10", Concurrency: 2})
	require.NoError(t, err)

	var out, errOut bytes.Buffer
	rec, err := m.Scan(context.Background(), plan, reporter.New(plan.Format, &out, &errOut, reporter.Options{}))
	assert.ErrorIs(t, err, ps.ErrTaskFailure)
	require.NotNil(t, rec)
	assert.Equal(t, database.StatusAborted, rec.Status)
	assert.Contains(t, rec.Error, "no descriptors left")
	assert.NotContains(t, out.String(), "Scan finished.")
	assert.Contains(t, errOut.String(), "[ERROR]")

	history, err := m.History(0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, database.StatusAborted, history[0].Status)
}

func TestManager_Scan_ResolveFailure(t *testing.T) {
	db := newDB(t)
	m := NewManager(db, staticResolver{})

	plan, err := m.Plan(models.Settings{Host: "nowhere.test"})
	require.NoError(t, err)

	rec, err := m.Scan(context.Background(), plan, nil)
	assert.ErrorIs(t, err, dr.ErrResolve)
	assert.Nil(t, rec)

	history, err := m.History(0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestManager_UpdateSettings(t *testing.T) {
	db := newDB(t)
	m := NewManager(db, dr.New(""))

	saved, err := m.UpdateSettings(models.Settings{Ports: "1-100", Output: "JSON"})
	require.NoError(t, err)
	assert.Equal(t, "json", saved.Output)

	defaults := m.Defaults()
	assert.Equal(t, "1-100", defaults.Ports)
	assert.Equal(t, models.DefaultHost, defaults.Host)
	assert.Equal(t, models.DefaultConcurrency, defaults.Concurrency)

	_, err = m.UpdateSettings(models.Settings{Ports: "0"})
	assert.ErrorIs(t, err, ps.ErrInvalidPortRange)
	assert.Equal(t, "1-100", m.Defaults().Ports)
}

func TestManager_WithoutDatabase(t *testing.T) {
	m := NewManager(nil, dr.New(""))

	history, err := m.History(5)
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = m.Get(1)
	assert.ErrorIs(t, err, database.ErrNotFound)
}
