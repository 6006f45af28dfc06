package dns_resolver

import (
	"context"
	"fmt"
	"github.com/miekg/dns"
	"github.com/sirupsen/logrus"
	"net"
	"time"
)

// DNSResolver turns a scan host into the IPv4 address every probe dials, so
// a scan performs one lookup instead of one per port.
type DNSResolver struct {
	// Nameserver, when set, is queried directly ("host" or "host:port").
	// Otherwise the system resolver is used.
	Nameserver string
	Timeout    time.Duration
}

// New returns a *DNSResolver using the given nameserver, or the system
// resolver when nameserver is empty.
func New(nameserver string) *DNSResolver {
	return &DNSResolver{
		Nameserver: nameserver,
		Timeout:    DefaultTimeout,
	}
}

// Name returns the resolver name.
func (d *DNSResolver) Name() string {
	return "DNS Resolver"
}

// Resolve returns host unchanged when it is an IP literal, otherwise its
// first IPv4 address.
func (d *DNSResolver) Resolve(ctx context.Context, host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		return host, nil
	}

	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		ip  string
		err error
	)
	if d.Nameserver != "" {
		ip, err = d.queryA(ctx, host, timeout)
	} else {
		ip, err = lookupSystem(ctx, host)
	}
	if err != nil {
		logrus.Debugf("Lookup failed for %s: %v", host, err)
		return "", err
	}

	logrus.Infof("Resolved %s -> %s", host, ip)
	return ip, nil
}

// queryA sends an A query for host to the configured nameserver.
func (d *DNSResolver) queryA(ctx context.Context, host string, timeout time.Duration) (string, error) {
	server := d.Nameserver
	if _, _, err := net.SplitHostPort(server); err != nil {
		server = net.JoinHostPort(server, "53")
	}

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(host), dns.TypeA)
	msg.RecursionDesired = true

	client := &dns.Client{Timeout: timeout}
	resp, _, err := client.ExchangeContext(ctx, msg, server)
	if err != nil {
		return "", fmt.Errorf("%w: %s via %s: %v", ErrResolve, host, server, err)
	}
	if resp.Rcode != dns.RcodeSuccess {
		return "", fmt.Errorf("%w: %s via %s: %s", ErrResolve, host, server, dns.RcodeToString[resp.Rcode])
	}

	for _, rr := range resp.Answer {
		if a, ok := rr.(*dns.A); ok {
			return a.A.String(), nil
		}
	}
	return "", fmt.Errorf("%w: %s via %s: no A record", ErrResolve, host, server)
}

func lookupSystem(ctx context.Context, host string) (string, error) {
	ips, err := net.DefaultResolver.LookupIP(ctx, "ip4", host)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrResolve, host, err)
	}
	if len(ips) == 0 {
		return "", fmt.Errorf("%w: %s: no IPv4 address", ErrResolve, host)
	}
	return ips[0].String(), nil
}
