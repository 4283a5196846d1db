// Package transport implements socket setup for snc.
//
// This file implements address resolution: turning a textual host (or the
// wildcard) and a port or service name into an ordered list of candidate
// TCP endpoints.
package transport

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"strings"

	"github.com/sirupsen/logrus"
)

// Lookup is the subset of *net.Resolver used for resolution. It exists so
// tests can substitute a deterministic resolver.
type Lookup interface {
	// LookupIPAddr returns the addresses of host, in resolver preference order
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)

	// LookupPort maps a numeric port or a service name to a port number
	LookupPort(ctx context.Context, network, service string) (int, error)
}

// Endpoint is the result of a resolution: the stream network and the
// candidate addresses to try in order. The first one that binds or connects wins.
type Endpoint struct {
	Host       string // host as given, empty for the wildcard
	Service    string // port number or service name as given
	Network    string // tcp, tcp4 or tcp6
	Candidates []*net.TCPAddr
}

// Passive reports whether the endpoint was resolved for listening on all
// local addresses.
func (e *Endpoint) Passive() bool {
	return e.Host == ""
}

// String returns host:service as the user wrote it.
func (e *Endpoint) String() string {
	host := e.Host
	if host == "" {
		host = "*"
	}
	return net.JoinHostPort(host, e.Service)
}

// Resolver resolves hosts and services for one stream network.
type Resolver struct {
	lookup  Lookup
	network string
}

// NewResolver creates a resolver for network ("tcp", "tcp4" or "tcp6"; empty
// means "tcp"). A nil lookup uses net.DefaultResolver.
func NewResolver(network string, lookup Lookup) (*Resolver, error) {
	if network == "" {
		network = "tcp"
	}
	switch network {
	case "tcp", "tcp4", "tcp6":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedNetwork, network)
	}
	if lookup == nil {
		lookup = net.DefaultResolver
	}
	return &Resolver{lookup: lookup, network: network}, nil
}

// Network returns the stream network this resolver filters candidates for.
func (r *Resolver) Network() string {
	return r.network
}

// Resolve produces the candidate endpoints for host and service. An empty
// host resolves to the wildcard addresses allowed by the network, IPv4 first.
// Every failure is a *ResolutionError carrying the resolver diagnostic, except
// when ctx is cancelled, which returns ErrInterrupted.
func (r *Resolver) Resolve(ctx context.Context, host, service string) (*Endpoint, error) {
	logrus.WithFields(logrus.Fields{
		"function": "Resolver.Resolve",
		"host":     host,
		"service":  service,
		"network":  r.network,
	}).Debug("Resolving endpoint")

	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")

	port, err := r.resolvePort(ctx, service)
	if err != nil {
		return nil, r.fail(ctx, host, service, err)
	}

	var ips []netip.Addr
	if host == "" {
		ips = r.wildcards()
	} else {
		ips, err = r.resolveHost(ctx, host)
		if err != nil {
			return nil, r.fail(ctx, host, service, err)
		}
	}

	ep := &Endpoint{Host: host, Service: service, Network: r.network}
	for _, ip := range ips {
		ep.Candidates = append(ep.Candidates, &net.TCPAddr{
			IP:   net.IP(ip.AsSlice()),
			Port: port,
			Zone: ip.Zone(),
		})
	}

	logrus.WithFields(logrus.Fields{
		"function":   "Resolver.Resolve",
		"endpoint":   ep.String(),
		"candidates": len(ep.Candidates),
	}).Debug("Endpoint resolved")

	return ep, nil
}

// resolvePort maps service to a port number.
func (r *Resolver) resolvePort(ctx context.Context, service string) (int, error) {
	if service == "" {
		return 0, ErrEmptyService
	}
	return r.lookup.LookupPort(ctx, r.network, service)
}

// resolveHost returns the addresses of host allowed by the network, keeping
// resolver order. IP literals bypass the resolver.
func (r *Resolver) resolveHost(ctx context.Context, host string) ([]netip.Addr, error) {
	if literal, err := netip.ParseAddr(host); err == nil {
		literal = literal.Unmap()
		if !r.accepts(literal) {
			return nil, fmt.Errorf("%w: %s is not usable on %s", ErrNoCandidates, host, r.network)
		}
		return []netip.Addr{literal}, nil
	}

	found, err := r.lookup.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, err
	}

	var ips []netip.Addr
	for _, ipAddr := range found {
		ip, ok := netip.AddrFromSlice(ipAddr.IP)
		if !ok {
			continue
		}
		ip = ip.Unmap().WithZone(ipAddr.Zone)
		if r.accepts(ip) {
			ips = append(ips, ip)
		}
	}
	if len(ips) == 0 {
		return nil, fmt.Errorf("%w: %s has no %s address", ErrNoCandidates, host, r.network)
	}
	return ips, nil
}

// wildcards returns the unspecified addresses for passive resolution.
func (r *Resolver) wildcards() []netip.Addr {
	switch r.network {
	case "tcp4":
		return []netip.Addr{netip.IPv4Unspecified()}
	case "tcp6":
		return []netip.Addr{netip.IPv6Unspecified()}
	default:
		return []netip.Addr{netip.IPv4Unspecified(), netip.IPv6Unspecified()}
	}
}

// accepts reports whether ip belongs to the resolver's network.
func (r *Resolver) accepts(ip netip.Addr) bool {
	switch r.network {
	case "tcp4":
		return ip.Is4()
	case "tcp6":
		return ip.Is6()
	default:
		return true
	}
}

// fail logs and wraps a resolution failure. A failure caused by ctx being
// cancelled is an interruption, not a resolution error.
func (r *Resolver) fail(ctx context.Context, host, service string, err error) error {
	if ctx.Err() != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Resolver.Resolve",
			"host":     host,
			"service":  service,
		}).Info("Resolution interrupted")
		return ErrInterrupted
	}

	logrus.WithFields(logrus.Fields{
		"function": "Resolver.Resolve",
		"host":     host,
		"service":  service,
		"error":    err.Error(),
	}).Debug("Endpoint resolution failed")

	return &ResolutionError{Host: host, Service: service, Err: err}
}

// CandidateNetwork returns "tcp4" or "tcp6" for a resolved candidate.
func CandidateNetwork(addr *net.TCPAddr) string {
	if addr.IP == nil || addr.IP.To4() != nil {
		return "tcp4"
	}
	return "tcp6"
}
