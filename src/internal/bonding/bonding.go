package bonding

import (
	"fmt"

	"github.com/ifweave/ifweave/src/internal/errors"
	"github.com/ifweave/ifweave/src/internal/log"
	"github.com/ifweave/ifweave/src/internal/sysfs"
)

const mastersPath = sysfs.ClassNetPath + "/bonding_masters"

// Store is the attribute-store surface bonding needs on top of the
// reconciler's backend contract.
type Store interface {
	sysfs.Backend
	ReadLine(path string) (string, error)
	Exists(path string) bool
}

// LinkChecker reports whether a named kernel interface exists. Satisfied
// by netif lookups in production and by fakes in tests.
type LinkChecker interface {
	LinkExists(name string) bool
}

// Manager reconciles declared bond devices against the kernel's bonding
// sysfs attributes.
type Manager struct {
	store      Store
	reconciler *sysfs.Reconciler
	links      LinkChecker
}

// NewManager creates a bonding manager over an attribute store.
func NewManager(store Store, links LinkChecker) *Manager {
	return &Manager{
		store:      store,
		reconciler: sysfs.NewReconciler(store),
		links:      links,
	}
}

// Available reports whether the kernel exposes the bonding driver.
func (m *Manager) Available() bool {
	return m.store.Exists(mastersPath)
}

// Masters lists the configured bond master devices.
func (m *Manager) Masters() ([]string, error) {
	return m.store.ReadList(mastersPath)
}

// IsMaster reports whether the named interface is a bond master.
func (m *Manager) IsMaster(ifname string) bool {
	return m.store.Exists(sysfs.NetifAttrPath(ifname, "bonding"))
}

// AddMaster creates a bond master device.
func (m *Manager) AddMaster(ifname string) error {
	return m.store.WriteLine(mastersPath, "+"+ifname)
}

// DeleteMaster destroys a bond master device.
func (m *Manager) DeleteMaster(ifname string) error {
	return m.store.WriteLine(mastersPath, "-"+ifname)
}

// Slaves lists the current slave devices of a bond.
func (m *Manager) Slaves(master string) ([]string, error) {
	return m.store.ReadList(slavesPath(master))
}

// AddSlave enslaves a device to a bond.
func (m *Manager) AddSlave(master, slave string) error {
	return m.store.WriteLine(slavesPath(master), "+"+slave)
}

// DeleteSlave releases a device from a bond.
func (m *Manager) DeleteSlave(master, slave string) error {
	return m.store.WriteLine(slavesPath(master), "-"+slave)
}

// ARPTargets lists the bond's ARP monitoring targets.
func (m *Manager) ARPTargets(master string) ([]string, error) {
	return m.store.ReadList(arpTargetsPath(master))
}

// GetAttr reads a scalar bonding attribute such as "mode" or "miimon".
func (m *Manager) GetAttr(ifname, attr string) (string, error) {
	return m.store.ReadLine(sysfs.NetifAttrPath(ifname, "bonding/"+attr))
}

// SetAttr writes a scalar bonding attribute.
func (m *Manager) SetAttr(ifname, attr, value string) error {
	return m.store.WriteLine(sysfs.NetifAttrPath(ifname, "bonding/"+attr), value)
}

// ReconcileSlaves brings the bond's slave list into agreement with the
// desired list, removals before additions.
func (m *Manager) ReconcileSlaves(master string, desired []string) error {
	return m.reconciler.ReconcileList(slavesPath(master), desired)
}

// ReconcileARPTargets brings the bond's ARP target list into agreement
// with the desired list.
func (m *Manager) ReconcileARPTargets(master string, desired []string) error {
	return m.reconciler.ReconcileList(arpTargetsPath(master), desired)
}

// Bond is one declared bond device.
type Bond struct {
	Name       string
	Slaves     []string
	ARPTargets []string
	Mode       string
	MIIMonMS   int
}

// Apply creates the bond if needed and reconciles its attribute lists.
// Slave devices that do not exist in the kernel fail the whole bond;
// enslaving a nonexistent device would only produce a less readable
// error from the driver.
func (m *Manager) Apply(bond Bond) error {
	if !m.Available() {
		return errors.Newf(errors.ErrCodeBackend, "bonding driver not available (%s missing)", mastersPath)
	}

	for _, slave := range bond.Slaves {
		if !m.links.LinkExists(slave) {
			return errors.Newf(errors.ErrCodeConfig, "bond %s: slave interface %s does not exist", bond.Name, slave)
		}
	}

	if !m.IsMaster(bond.Name) {
		log.Infof("creating bond master %s", bond.Name)
		if err := m.AddMaster(bond.Name); err != nil {
			return errors.NewBackendError(fmt.Sprintf("could not create bond %s", bond.Name), err)
		}
	}

	// Mode changes are rejected by the kernel while slaves are attached,
	// so scalar attributes are written before the slave list.
	if bond.Mode != "" {
		if current, err := m.GetAttr(bond.Name, "mode"); err == nil && !modeMatches(current, bond.Mode) {
			if err := m.SetAttr(bond.Name, "mode", bond.Mode); err != nil {
				return errors.NewBackendError(fmt.Sprintf("bond %s: could not set mode %s", bond.Name, bond.Mode), err)
			}
		}
	}
	if bond.MIIMonMS > 0 {
		if err := m.SetAttr(bond.Name, "miimon", fmt.Sprintf("%d", bond.MIIMonMS)); err != nil {
			return errors.NewBackendError(fmt.Sprintf("bond %s: could not set miimon", bond.Name), err)
		}
	}

	if err := m.ReconcileSlaves(bond.Name, bond.Slaves); err != nil {
		return err
	}
	if len(bond.ARPTargets) > 0 {
		if err := m.ReconcileARPTargets(bond.Name, bond.ARPTargets); err != nil {
			return err
		}
	}

	log.Infof("bond %s reconciled (%d slaves)", bond.Name, len(bond.Slaves))
	return nil
}

// modeMatches compares a desired mode against the kernel's "name index"
// representation (e.g. "active-backup 1").
func modeMatches(kernelValue, want string) bool {
	if kernelValue == want {
		return true
	}
	for i := 0; i < len(kernelValue); i++ {
		if kernelValue[i] == ' ' {
			return kernelValue[:i] == want
		}
	}
	return false
}

func slavesPath(master string) string {
	return sysfs.NetifAttrPath(master, "bonding/slaves")
}

func arpTargetsPath(master string) string {
	return sysfs.NetifAttrPath(master, "bonding/arp_ip_target")
}
