package dns_resolver

import (
	"errors"
	"time"
)

// DefaultTimeout bounds a single lookup.
const DefaultTimeout = 3 * time.Second

// ErrResolve is returned when a host yields no IPv4 address.
var ErrResolve = errors.New("failed to resolve host")
