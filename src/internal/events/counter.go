package events

import "sync"

// Kind identifies a class of relevant state change.
type Kind int

const (
	// AddressAcquired fires when an interface obtains a usable address
	// (static, DHCP or auto-configured).
	AddressAcquired Kind = iota

	// ResolverUpdated fires when the system resolver configuration changes.
	ResolverUpdated

	// LinkUp fires when an interface reports carrier.
	LinkUp

	kindCount
)

func (k Kind) String() string {
	switch k {
	case AddressAcquired:
		return "address-acquired"
	case ResolverUpdated:
		return "resolver-updated"
	case LinkUp:
		return "link-up"
	}
	return "unknown"
}

// Counts is a point-in-time snapshot of the event counters, passed to
// requirement evaluation as plain values. Seq is the global sequence of
// the most recent event of any kind; the per-kind fields record the
// sequence at which that kind last fired (zero if never).
type Counts struct {
	Seq             uint64 `json:"seq"`
	AddressAcquired uint64 `json:"address_acquired"`
	ResolverUpdated uint64 `json:"resolver_updated"`
	LinkUp          uint64 `json:"link_up"`
}

// Counter maintains the per-kind monotonic event sequence numbers.
// Bumping is reserved for the event monitor; everything else only reads
// snapshots.
type Counter struct {
	mu   sync.Mutex
	seq  uint64
	last [kindCount]uint64
}

// NewCounter creates a counter with no recorded events.
func NewCounter() *Counter {
	return &Counter{}
}

// Bump records one occurrence of the given kind and returns the new
// global sequence number.
func (c *Counter) Bump(kind Kind) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	if kind >= 0 && kind < kindCount {
		c.last[kind] = c.seq
	}
	return c.seq
}

// Snapshot returns the current counter values.
func (c *Counter) Snapshot() Counts {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Counts{
		Seq:             c.seq,
		AddressAcquired: c.last[AddressAcquired],
		ResolverUpdated: c.last[ResolverUpdated],
		LinkUp:          c.last[LinkUp],
	}
}
