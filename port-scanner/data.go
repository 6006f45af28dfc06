package port_scanner

// State defines the lifecycle of a PortScanner. A scanner moves from Idle to
// Scanning once and ends in either Completed or Aborted.
type State int32

const (
	Idle State = iota
	Scanning
	Completed
	Aborted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scanning:
		return "scanning"
	case Completed:
		return "completed"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Option customizes a PortScanner.
type Option func(*PortScanner)

// WithProber replaces the TCP connect prober.
func WithProber(p Prober) Option {
	return func(ps *PortScanner) {
		ps.prober = p
	}
}
