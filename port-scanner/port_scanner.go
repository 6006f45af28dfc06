package port_scanner

import (
	"context"
	"errors"
	"fmt"
	"github.com/sirupsen/logrus"
	"go-portprobe/models"
	"sync"
	"sync/atomic"
)

// PortScanner runs one connect scan over a target's port range, bounding the
// number of in-flight probes with a Limiter. A PortScanner is single-use.
type PortScanner struct {
	target models.ScanTarget
	prober Prober
	state  atomic.Int32
}

// New returns a *PortScanner for the given target.
func New(target models.ScanTarget, opts ...Option) *PortScanner {
	ps := &PortScanner{
		target: target,
		prober: ConnectProber{},
	}
	for _, opt := range opts {
		opt(ps)
	}
	return ps
}

// Name returns the scanner name.
func (ps *PortScanner) Name() string {
	return "Port Scanner"
}

// State returns the current lifecycle state.
func (ps *PortScanner) State() State {
	return State(ps.state.Load())
}

// Target returns the target the scanner was built for.
func (ps *PortScanner) Target() models.ScanTarget {
	return ps.target
}

// Run probes every port of the target and calls onResult for each result in
// completion order. The first failed probe aborts the scan with ErrTaskFailure;
// results already passed to onResult stay reported but no summary is returned.
func (ps *PortScanner) Run(ctx context.Context, onResult func(models.ProbeResult)) (*models.ScanSummary, error) {
	if !ps.state.CompareAndSwap(int32(Idle), int32(Scanning)) {
		return nil, ErrAlreadyRun
	}

	// Never more probes in flight than there are ports to scan.
	slots := min(ps.target.Concurrency, ps.target.Range.Len())
	limiter, err := NewLimiter(slots)
	if err != nil {
		ps.state.Store(int32(Aborted))
		return nil, err
	}
	if ps.target.Timeout <= 0 {
		ps.state.Store(int32(Aborted))
		return nil, fmt.Errorf("%w: probe timeout must be positive", ErrRuntimeInit)
	}

	logrus.Infof("Starting connect scan on %s ports %s (concurrency=%d, timeout=%v)",
		ps.target.Host, ps.target.Range, ps.target.Concurrency, ps.target.Timeout)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan models.ProbeResult, slots)
	go ps.dispatch(ctx, limiter, results)

	summary := &models.ScanSummary{OpenPorts: make([]uint16, 0)}
	for res := range results {
		if err := ctx.Err(); err != nil {
			return nil, ps.interrupted(summary.Total, err)
		}

		switch res.Outcome {
		case models.Open:
			summary.OpenPorts = append(summary.OpenPorts, res.Port)
		case models.Closed:
			summary.ClosedCount++
		default:
			// Stop dispatching and interrupt in-flight dials; their results are dropped.
			cancel()
			ps.state.Store(int32(Aborted))
			logrus.Errorf("Probe of %s:%d failed: %v", ps.target.Host, res.Port, res.Err)
			return nil, fmt.Errorf("%w: port %d: %v", ErrTaskFailure, res.Port, res.Err)
		}
		summary.Total++

		if onResult != nil {
			onResult(res)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, ps.interrupted(summary.Total, err)
	}
	if summary.Total != ps.target.Range.Len() {
		ps.state.Store(int32(Aborted))
		return nil, fmt.Errorf("%w: %d of %d ports reported", ErrTaskFailure, summary.Total, ps.target.Range.Len())
	}

	ps.state.Store(int32(Completed))
	logrus.Infof("Open ports on %s: %v", ps.target.Host, summary.OpenPorts)
	return summary, nil
}

// interrupted marks the scan aborted after the caller's context ended.
func (ps *PortScanner) interrupted(reported int, err error) error {
	ps.state.Store(int32(Aborted))
	return fmt.Errorf("scan of %s interrupted after %d ports: %w", ps.target.Host, reported, err)
}

// dispatch starts one probe per port, each holding a permit until its result
// has been handed over. results is closed once every started probe returned.
func (ps *PortScanner) dispatch(ctx context.Context, limiter *Limiter, results chan<- models.ProbeResult) {
	var wg sync.WaitGroup
	defer func() {
		wg.Wait()
		close(results)
	}()

	for port := int(ps.target.Range.Start); port <= int(ps.target.Range.End); port++ {
		if ctx.Err() != nil {
			return
		}
		permit, err := limiter.Acquire(ctx)
		if err != nil {
			logrus.Debugf("Dispatch stopped before port %d: %v", port, err)
			return
		}

		wg.Add(1)
		go func(p uint16) {
			defer wg.Done()
			defer permit.Release()

			res := ps.probe(ctx, p)
			if ctx.Err() != nil {
				// The probe may have been cut short; its outcome is meaningless.
				return
			}
			select {
			case results <- res:
			case <-ctx.Done():
			}
		}(uint16(port))
	}
}

// probe runs the prober for one port. A panicking prober is reported as a
// failed result rather than taking the process down.
func (ps *PortScanner) probe(ctx context.Context, port uint16) (res models.ProbeResult) {
	res.Port = port
	defer func() {
		if r := recover(); r != nil {
			res.Outcome = models.Failed
			res.Err = fmt.Errorf("probe panicked: %v", r)
		}
	}()

	outcome, err := ps.prober.Probe(ctx, ps.target.Host, port, ps.target.Timeout)
	switch {
	case err != nil:
		res.Outcome = models.Failed
		res.Err = err
	case outcome == models.Failed:
		res.Outcome = models.Failed
		res.Err = errors.New("prober reported failure without a reason")
	default:
		res.Outcome = outcome
	}

	if res.Outcome == models.Open {
		logrus.Debugf("Port %d open", port)
	} else if res.Outcome == models.Closed {
		logrus.Tracef("Port %d closed", port)
	}
	return res
}

// Scan is a shorthand for New(target, opts...).Run(ctx, onResult).
func Scan(ctx context.Context, target models.ScanTarget, onResult func(models.ProbeResult), opts ...Option) (*models.ScanSummary, error) {
	return New(target, opts...).Run(ctx, onResult)
}
