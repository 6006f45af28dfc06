package manager

import (
	"context"
	"fmt"
	"github.com/sirupsen/logrus"
	"go-portprobe/database"
	"go-portprobe/models"
	ps "go-portprobe/port-scanner"
	"go-portprobe/reporter"
	"time"
)

// Resolver turns the configured host into the address probes dial.
type Resolver interface {
	Resolve(ctx context.Context, host string) (string, error)
}

// Plan is a validated scan request.
type Plan struct {
	Settings models.Settings
	Target   models.ScanTarget
	Format   models.OutputFormat
}

// Manager runs scans and keeps their history.
type Manager struct {
	db       *database.DB
	resolver Resolver
	opts     []ps.Option
}

// NewManager initializes a new *Manager. db may be nil, in which case
// nothing is persisted.
func NewManager(db *database.DB, resolver Resolver, opts ...ps.Option) *Manager {
	return &Manager{
		db:       db,
		resolver: resolver,
		opts:     opts,
	}
}

// Defaults returns the built-in settings overlaid with the last saved ones.
func (m *Manager) Defaults() models.Settings {
	defaults := models.DefaultSettings()
	if m.db == nil {
		return defaults
	}

	stored, ok, err := m.db.FetchSettings()
	if err != nil {
		logrus.Errorf("failed to fetch settings: %v", err)
		return defaults
	}
	if !ok {
		return defaults
	}
	return stored.Merge(defaults)
}

// Plan fills zero fields of s from the defaults and validates the result.
func (m *Manager) Plan(s models.Settings) (*Plan, error) {
	s = s.Merge(m.Defaults())

	format, err := models.ParseOutputFormat(s.Output)
	if err != nil {
		return nil, err
	}
	target, err := ps.NewTarget(s)
	if err != nil {
		return nil, err
	}

	return &Plan{Settings: s, Target: target, Format: format}, nil
}

// Scan resolves the plan's host, runs the scan while streaming results to
// rep and records the run. The record is returned even when the scan fails.
func (m *Manager) Scan(ctx context.Context, plan *Plan, rep reporter.Reporter) (*database.ScanRecord, error) {
	if rep == nil {
		rep = reporter.Nop{}
	}

	address, err := m.resolver.Resolve(ctx, plan.Target.Host)
	if err != nil {
		return nil, err
	}

	rec := &database.ScanRecord{
		Host:          plan.Target.Host,
		Address:       address,
		StartPort:     plan.Target.Range.Start,
		EndPort:       plan.Target.Range.End,
		Concurrency:   plan.Target.Concurrency,
		TimeoutMillis: int(plan.Target.Timeout.Milliseconds()),
	}

	// Probes dial the resolved address; the report keeps the name the user gave.
	probeTarget := plan.Target
	probeTarget.Host = address

	rep.Start(plan.Target)
	start := time.Now()
	summary, err := ps.New(probeTarget, m.opts...).Run(ctx, rep.Result)
	rec.Duration = time.Since(start).String()

	if err != nil {
		rec.Status = database.StatusAborted
		rec.Error = err.Error()
		rep.Failure(err)
		if saveErr := m.save(rec); saveErr != nil {
			logrus.Errorf("failed to save aborted scan: %v", saveErr)
		}
		return rec, err
	}

	rec.Fill(summary)
	rep.Summary(*summary)

	if err := m.save(rec); err != nil {
		return rec, fmt.Errorf("save scan: %w", err)
	}
	return rec, nil
}

// UpdateSettings validates s and stores it as the new defaults.
func (m *Manager) UpdateSettings(s models.Settings) (models.Settings, error) {
	plan, err := m.Plan(s)
	if err != nil {
		return models.Settings{}, err
	}
	plan.Settings.Output = string(plan.Format)

	if m.db == nil {
		return plan.Settings, nil
	}
	if err := m.db.SaveSettings(plan.Settings); err != nil {
		return models.Settings{}, err
	}
	return plan.Settings, nil
}

// History returns up to limit past scans, newest first.
func (m *Manager) History(limit int) ([]database.ScanRecord, error) {
	if m.db == nil {
		return []database.ScanRecord{}, nil
	}
	return m.db.ListScans(limit)
}

// Get returns a single past scan.
func (m *Manager) Get(id uint) (*database.ScanRecord, error) {
	if m.db == nil {
		return nil, database.ErrNotFound
	}
	return m.db.GetScan(id)
}

func (m *Manager) save(rec *database.ScanRecord) error {
	if m.db == nil {
		return nil
	}
	return m.db.SaveScan(rec)
}
