package resolve

import (
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/miekg/dns"

	"github.com/ifweave/ifweave/src/internal/errors"
	"github.com/ifweave/ifweave/src/internal/log"
)

// Family is an address-family hint for resolution.
type Family int

const (
	FamilyAny Family = iota
	FamilyIPv4
	FamilyIPv6
)

// ParseFamily maps the configuration spelling of a family hint.
func ParseFamily(s string) (Family, error) {
	switch s {
	case "", "any":
		return FamilyAny, nil
	case "ipv4":
		return FamilyIPv4, nil
	case "ipv6":
		return FamilyIPv6, nil
	}
	return FamilyAny, fmt.Errorf("bad address family %q", s)
}

func (f Family) String() string {
	switch f {
	case FamilyIPv4:
		return "ipv4"
	case FamilyIPv6:
		return "ipv6"
	}
	return "any"
}

// Resolver turns a hostname into a single address, honoring a family hint.
type Resolver interface {
	Resolve(hostname string, family Family, timeout time.Duration) (netip.Addr, error)
}

// Prober reports whether an address is currently reachable.
type Prober interface {
	Probe(addr netip.Addr) bool
}

// DNSResolver resolves hostnames against the system resolver configuration.
// The configuration file is re-read on every call so that resolver updates
// take effect without restarting.
type DNSResolver struct {
	confPath string
}

// NewDNSResolver creates a resolver using the given resolv.conf path
// (empty for the system default).
func NewDNSResolver(confPath string) *DNSResolver {
	if confPath == "" {
		confPath = "/etc/resolv.conf"
	}
	return &DNSResolver{confPath: confPath}
}

// Resolve queries the configured nameservers and returns the first
// answer matching the family hint.
func (r *DNSResolver) Resolve(hostname string, family Family, timeout time.Duration) (netip.Addr, error) {
	conf, err := dns.ClientConfigFromFile(r.confPath)
	if err != nil {
		return netip.Addr{}, errors.NewResolveError("cannot read resolver configuration", err)
	}
	if len(conf.Servers) == 0 {
		return netip.Addr{}, errors.Newf(errors.ErrCodeResolve, "no nameservers configured in %s", r.confPath)
	}

	var qtypes []uint16
	switch family {
	case FamilyIPv4:
		qtypes = []uint16{dns.TypeA}
	case FamilyIPv6:
		qtypes = []uint16{dns.TypeAAAA}
	default:
		qtypes = []uint16{dns.TypeA, dns.TypeAAAA}
	}

	client := &dns.Client{Timeout: timeout}
	fqdn := dns.Fqdn(hostname)

	for _, qtype := range qtypes {
		msg := new(dns.Msg)
		msg.SetQuestion(fqdn, qtype)
		msg.RecursionDesired = true

		for _, server := range conf.Servers {
			resp, _, err := client.Exchange(msg, net.JoinHostPort(server, conf.Port))
			if err != nil {
				log.Debugf("resolve %s: server %s: %v", hostname, server, err)
				continue
			}
			if resp.Rcode == dns.RcodeNameError {
				// NXDOMAIN is surfaced in the log so "still propagating"
				// can be told apart from "no such host"; the caller
				// retries either way.
				log.Debugf("resolve %s: no such host (NXDOMAIN)", hostname)
				continue
			}
			if addr, ok := firstAddr(resp, qtype); ok {
				return addr, nil
			}
		}
	}

	return netip.Addr{}, errors.Newf(errors.ErrCodeResolve, "cannot resolve %s (%s)", hostname, family)
}

func firstAddr(resp *dns.Msg, qtype uint16) (netip.Addr, bool) {
	for _, rr := range resp.Answer {
		switch record := rr.(type) {
		case *dns.A:
			if qtype == dns.TypeA {
				if addr, ok := netip.AddrFromSlice(record.A.To4()); ok {
					return addr, true
				}
			}
		case *dns.AAAA:
			if qtype == dns.TypeAAAA {
				if addr, ok := netip.AddrFromSlice(record.AAAA); ok {
					return addr, true
				}
			}
		}
	}
	return netip.Addr{}, false
}
