package robot

import (
	"context"
	"net"
	"strings"
)

// HostLookup is the name-resolution backend. *net.Resolver satisfies it.
// network is "ip4" for A records only, "ip" for every family.
type HostLookup interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
}

// Resolver turns a host name or literal into an IPv4 address.
// Dual-stack hosts often answer with ::1 or ::ffff: first, so the family is fixed.
// IPv4-mapped IPv6 answers (AAAA records) are not IPv4.
type Resolver struct {
	lookup HostLookup
}

// NewResolver returns a Resolver backed by lookup, or net.DefaultResolver when nil.
func NewResolver(lookup HostLookup) *Resolver {
	if lookup == nil {
		lookup = net.DefaultResolver
	}
	return &Resolver{lookup: lookup}
}

// Resolve returns hostOrIP unchanged when it is an IPv4 literal; otherwise the
// first IPv4 candidate from name resolution. An IPv6 literal goes through the
// lookup as well and normally ends in a *ResolutionError.
func (r *Resolver) Resolve(ctx context.Context, hostOrIP string) (net.IP, error) {
	if ip := net.ParseIP(hostOrIP); ip != nil {
		if v4 := ip.To4(); v4 != nil && !isMappedLiteral(hostOrIP) {
			return v4, nil
		}
	}

	v4s, err := r.lookup.LookupIP(ctx, "ip4", hostOrIP)
	if err == nil {
		for _, ip := range v4s {
			if v4 := ip.To4(); v4 != nil {
				return v4, nil
			}
		}
	}

	// no A record: list whatever the name does resolve to
	all, aerr := r.lookup.LookupIP(ctx, "ip", hostOrIP)
	if aerr != nil {
		if err == nil {
			err = aerr
		}
		return nil, &ResolutionError{Host: hostOrIP, Err: err}
	}
	candidates := make([]string, 0, len(all))
	for _, ip := range all {
		candidates = append(candidates, ip.String())
	}
	return nil, &ResolutionError{Host: hostOrIP, Candidates: candidates}
}

// isMappedLiteral reports textual IPv4-mapped IPv6 forms like "::ffff:10.0.0.1",
// which To4 would otherwise accept as IPv4.
func isMappedLiteral(s string) bool {
	return strings.Contains(s, ":")
}
