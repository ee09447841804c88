// Package netif wraps netlink link access behind a small interface
// surface so bonding reconciliation and the CLI can be tested without a
// live kernel.
package netif

import (
	"net"

	"github.com/vishvananda/netlink"
)

// Interface is a kernel network interface.
type Interface struct {
	netlink.Link
}

// GetInterface looks up one interface by name.
func GetInterface(interfaceName string) (*Interface, error) {
	link, err := netlink.LinkByName(interfaceName)
	if err != nil {
		return nil, err
	}
	return &Interface{link}, nil
}

// GetInterfaceList returns all kernel interfaces.
func GetInterfaceList() ([]Interface, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, err
	}
	var interfaces []Interface
	for _, link := range links {
		interfaces = append(interfaces, Interface{link})
	}
	return interfaces, nil
}

// Name returns the interface name.
func (iface *Interface) Name() string {
	return iface.Attrs().Name
}

// IsUp reports whether the interface is administratively up.
func (iface *Interface) IsUp() bool {
	return iface.Attrs().Flags&net.FlagUp != 0
}

// IsLoopback reports whether the interface is a loopback device.
func (iface *Interface) IsLoopback() bool {
	return iface.Attrs().Flags&net.FlagLoopback != 0
}

// AddrsIps returns all addresses assigned to the interface.
func (iface *Interface) AddrsIps() ([]net.IP, error) {
	addrs, err := netlink.AddrList(iface.Link, netlink.FAMILY_ALL)
	if err != nil {
		return nil, err
	}
	var ips []net.IP
	for _, addr := range addrs {
		ips = append(ips, addr.IP)
	}
	return ips, nil
}
