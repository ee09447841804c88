package events

import (
	"context"
	"net"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/vishvananda/netlink"

	"github.com/ifweave/ifweave/src/internal/log"
)

// DefaultResolvConfPath is the resolver configuration watched for
// ResolverUpdated events.
const DefaultResolvConfPath = "/etc/resolv.conf"

// Monitor feeds the event counter from the kernel and the filesystem:
// netlink address/link notifications and resolver configuration rewrites.
type Monitor struct {
	counter    *Counter
	resolvPath string
}

// NewMonitor creates a monitor that bumps the given counter.
func NewMonitor(counter *Counter, resolvPath string) *Monitor {
	if resolvPath == "" {
		resolvPath = DefaultResolvConfPath
	}
	return &Monitor{counter: counter, resolvPath: resolvPath}
}

// Run blocks until the context is done, translating kernel and resolver
// notifications into counter bumps.
func (m *Monitor) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)

	addrCh := make(chan netlink.AddrUpdate, 16)
	if err := netlink.AddrSubscribe(addrCh, done); err != nil {
		return err
	}

	linkCh := make(chan netlink.LinkUpdate, 16)
	if err := netlink.LinkSubscribe(linkCh, done); err != nil {
		return err
	}

	// resolv.conf is typically replaced via rename, so the watch goes on
	// the parent directory and events are filtered by name.
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(m.resolvPath)); err != nil {
		return err
	}

	log.Debugf("event monitor started (resolver config: %s)", m.resolvPath)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case update, ok := <-addrCh:
			if !ok {
				return nil
			}
			if update.NewAddr {
				seq := m.counter.Bump(AddressAcquired)
				log.Debugf("event %s: %s (seq %d)",
					AddressAcquired, update.LinkAddress.IP, seq)
			}

		case update, ok := <-linkCh:
			if !ok {
				return nil
			}
			if update.Link != nil && update.Link.Attrs().Flags&net.FlagUp != 0 {
				seq := m.counter.Bump(LinkUp)
				log.Debugf("event %s: %s (seq %d)",
					LinkUp, update.Link.Attrs().Name, seq)
			}

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != filepath.Base(m.resolvPath) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				seq := m.counter.Bump(ResolverUpdated)
				log.Debugf("event %s: %s (seq %d)", ResolverUpdated, ev.Name, seq)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warnf("resolver watch error: %v", err)
		}
	}
}
