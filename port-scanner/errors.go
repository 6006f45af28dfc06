package port_scanner

import "errors"

var (
	// ErrInvalidPort is returned when a port token is not an unsigned 16-bit integer.
	ErrInvalidPort = errors.New("invalid port")
	// ErrInvalidPortRange is returned for a zero endpoint or an inverted range.
	ErrInvalidPortRange = errors.New("port range is invalid")
	// ErrInvalidSettings is returned when concurrency or timeout is not positive.
	ErrInvalidSettings = errors.New("invalid scan settings")
	// ErrRuntimeInit is returned when the scan machinery cannot be set up.
	ErrRuntimeInit = errors.New("scan runtime could not be initialized")
	// ErrTaskFailure is returned when a probe task terminates abnormally.
	ErrTaskFailure = errors.New("probe task failed")
	// ErrAlreadyRun is returned when a PortScanner is run more than once.
	ErrAlreadyRun = errors.New("port scanner already used")
)
