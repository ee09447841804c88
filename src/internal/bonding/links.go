package bonding

import "github.com/ifweave/ifweave/src/internal/netif"

// NetlinkChecker checks link existence through netlink.
type NetlinkChecker struct{}

// LinkExists reports whether the kernel knows the named interface.
func (NetlinkChecker) LinkExists(name string) bool {
	_, err := netif.GetInterface(name)
	return err == nil
}
