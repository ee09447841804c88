package resolve

import (
	"net"
	"net/netip"
	"strconv"
	"time"

	"github.com/ifweave/ifweave/src/internal/log"
)

const (
	// probePort is an arbitrary unprivileged port; connecting a UDP
	// socket performs a route lookup without sending a datagram.
	probePort = 33434

	probeTimeout = time.Second
)

// RouteProber checks reachability by connecting a UDP socket to the
// target. The connect succeeds when the kernel has a route to the
// address; no traffic reaches the host.
type RouteProber struct{}

// NewRouteProber creates the default prober.
func NewRouteProber() *RouteProber {
	return &RouteProber{}
}

// Probe reports whether the address is routable right now.
func (p *RouteProber) Probe(addr netip.Addr) bool {
	target := net.JoinHostPort(addr.String(), strconv.Itoa(probePort))

	conn, err := net.DialTimeout("udp", target, probeTimeout)
	if err != nil {
		log.Debugf("cannot connect to %s: %v", addr, err)
		return false
	}
	_ = conn.Close()
	return true
}
