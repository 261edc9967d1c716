package scanner

import (
	"context"
	"errors"
	"net"
	"net/netip"
)

// LookupFunc resolves a hostname to its IP addresses. net.DefaultResolver.LookupNetIP
// has this shape.
type LookupFunc func(ctx context.Context, network, host string) ([]netip.Addr, error)

// Resolver turns a user supplied host string into a single address.
type Resolver struct {
	lookup LookupFunc
}

// NewResolver returns a Resolver using lookup, or the system resolver when lookup is nil.
func NewResolver(lookup LookupFunc) *Resolver {
	if lookup == nil {
		lookup = net.DefaultResolver.LookupNetIP
	}
	return &Resolver{lookup: lookup}
}

// Resolve accepts IP literals and hostnames. For hostnames the first IPv4
// address wins; an IPv6 address is used only when no IPv4 address exists.
func (r *Resolver) Resolve(ctx context.Context, hostSpec string) (netip.Addr, error) {
	if addr, err := netip.ParseAddr(hostSpec); err == nil {
		if addr.Zone() != "" {
			return netip.Addr{}, &ResolutionError{HostSpec: hostSpec, Err: errors.New("scoped IPv6 addresses are not supported")}
		}
		return addr.Unmap(), nil
	}

	addrs, err := r.lookup(ctx, "ip", hostSpec)
	if err != nil {
		return netip.Addr{}, &ResolutionError{HostSpec: hostSpec, Err: err}
	}

	var firstV6 netip.Addr
	for _, addr := range addrs {
		addr = addr.Unmap()
		if addr.Is4() {
			return addr, nil
		}
		if addr.Is6() && addr.Zone() == "" && !firstV6.IsValid() {
			firstV6 = addr
		}
	}
	if firstV6.IsValid() {
		return firstV6, nil
	}
	return netip.Addr{}, &ResolutionError{HostSpec: hostSpec, Err: errors.New("no usable addresses found for host")}
}
