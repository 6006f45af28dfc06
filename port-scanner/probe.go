package port_scanner

import (
	"context"
	"errors"
	"fmt"
	"go-portprobe/models"
	"net"
	"strconv"
	"syscall"
	"time"
)

// Prober performs one bounded-time probe of host:port.
// A non-nil error means the probe itself could not be carried out, including
// when ctx was cancelled; ordinary network failures are reported as models.Closed.
type Prober interface {
	Probe(ctx context.Context, host string, port uint16, timeout time.Duration) (models.Outcome, error)
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(ctx context.Context, host string, port uint16, timeout time.Duration) (models.Outcome, error)

// Probe calls f.
func (f ProberFunc) Probe(ctx context.Context, host string, port uint16, timeout time.Duration) (models.Outcome, error) {
	return f(ctx, host, port, timeout)
}

// ConnectProber classifies a port by completing a full TCP handshake.
type ConnectProber struct{}

// Probe dials host:port and closes the connection as soon as it is established.
func (ConnectProber) Probe(ctx context.Context, host string, port uint16, timeout time.Duration) (models.Outcome, error) {
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	d := net.Dialer{
		Timeout:   timeout,
		KeepAlive: -1,
	}

	address := net.JoinHostPort(host, strconv.Itoa(int(port)))
	conn, err := d.DialContext(dialCtx, "tcp", address)
	if err != nil {
		if ctx.Err() != nil {
			// Cancelled by the caller, not by the probe deadline: the port
			// was never classified.
			return models.Failed, fmt.Errorf("dial %s: %w", address, ctx.Err())
		}
		if isResourceExhausted(err) {
			return models.Failed, fmt.Errorf("dial %s: %w", address, err)
		}
		return models.Closed, nil
	}
	conn.Close()
	return models.Open, nil
}

// isResourceExhausted reports whether the dial failed because the process
// ran out of descriptors, as opposed to the remote side rejecting it.
func isResourceExhausted(err error) bool {
	return errors.Is(err, syscall.EMFILE) || errors.Is(err, syscall.ENFILE)
}
