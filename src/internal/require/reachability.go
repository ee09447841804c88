package require

import (
	"net/netip"
	"time"

	"github.com/ifweave/ifweave/src/internal/events"
	"github.com/ifweave/ifweave/src/internal/log"
	"github.com/ifweave/ifweave/src/internal/resolve"
)

// resolveTimeout bounds one resolution attempt during a requirement test.
const resolveTimeout = time.Second

// Reachability is the requirement "host X must be reachable". It owns a
// cached resolved address so that the expensive lookup is only repeated
// when the resolver configuration changed underneath it.
type Reachability struct {
	hostname string
	family   resolve.Family

	resolver resolve.Resolver
	prober   resolve.Prober

	eventSeq  uint64
	addr      netip.Addr
	addrValid bool
}

// NewReachability creates a reachability requirement for a hostname with
// an optional address-family hint.
func NewReachability(hostname string, family resolve.Family, resolver resolve.Resolver, prober resolve.Prober) *Reachability {
	return &Reachability{
		hostname: hostname,
		family:   family,
		resolver: resolver,
		prober:   prober,
	}
}

// Hostname returns the probed hostname.
func (c *Reachability) Hostname() string {
	return c.hostname
}

// Family returns the address-family hint.
func (c *Reachability) Family() resolve.Family {
	return c.family
}

// Test evaluates reachability, caching against the event counters.
//
// If nothing address-related happened since the last evaluation there is
// no point wasting time on another lookup: the check is skipped and "not
// yet" is re-reported, because only a fresh relevant event can newly
// satisfy the condition. A resolver update that occurred after the last
// evaluation invalidates the cached address first.
func (c *Reachability) Test(w *Worker, evt events.Counts) bool {
	if c.eventSeq == evt.AddressAcquired {
		log.Debugf("check reachability: %s SKIP", c.hostname)
		return false
	}
	if c.eventSeq < evt.ResolverUpdated {
		c.addrValid = false
	}
	c.eventSeq = evt.Seq

	if !c.addrValid {
		addr, err := c.resolver.Resolve(c.hostname, c.family, resolveTimeout)
		if err != nil {
			log.Debugf("check reachability: %s not resolvable", c.hostname)
			return false
		}
		c.addr = addr
	}
	c.addrValid = true

	if !c.prober.Probe(c.addr) {
		log.Debugf("check reachability: %s not reachable at %s", c.hostname, c.addr)
		return false
	}

	log.Debugf("check reachability: %s OK", c.hostname)
	return true
}

// Destroy releases the requirement's state.
func (c *Reachability) Destroy() {
	c.resolver = nil
	c.prober = nil
	c.addrValid = false
}
