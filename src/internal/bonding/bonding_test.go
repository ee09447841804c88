package bonding

import (
	"fmt"
	"reflect"
	"testing"
)

type fakeStore struct {
	lists  map[string][]string
	lines  map[string]string
	exists map[string]bool
	writes []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		lists:  make(map[string][]string),
		lines:  make(map[string]string),
		exists: make(map[string]bool),
	}
}

func (f *fakeStore) ReadList(path string) ([]string, error) {
	list, ok := f.lists[path]
	if !ok {
		return nil, fmt.Errorf("no such attribute: %s", path)
	}
	return list, nil
}

func (f *fakeStore) ReadLine(path string) (string, error) {
	line, ok := f.lines[path]
	if !ok {
		return "", fmt.Errorf("no such attribute: %s", path)
	}
	return line, nil
}

func (f *fakeStore) WriteLine(path string, line string) error {
	f.writes = append(f.writes, path+" <- "+line)

	// Creating a master makes its bonding directory appear.
	if path == mastersPath && len(line) > 0 && line[0] == '+' {
		name := line[1:]
		f.exists["/sys/class/net/"+name+"/bonding"] = true
		f.lists[slavesPath(name)] = nil
	}
	return nil
}

func (f *fakeStore) Exists(path string) bool {
	return f.exists[path]
}

type allLinks struct{}

func (allLinks) LinkExists(name string) bool { return true }

type noLinks struct{}

func (noLinks) LinkExists(name string) bool { return false }

func TestApply_CreatesMasterAndEnslaves(t *testing.T) {
	store := newFakeStore()
	store.exists[mastersPath] = true
	store.lines["/sys/class/net/bond0/bonding/mode"] = "balance-rr 0"

	mgr := NewManager(store, allLinks{})
	bond := Bond{
		Name:   "bond0",
		Slaves: []string{"eth0", "eth1"},
	}

	if err := mgr.Apply(bond); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	expected := []string{
		mastersPath + " <- +bond0",
		slavesPath("bond0") + " <- +eth0",
		slavesPath("bond0") + " <- +eth1",
	}
	if !reflect.DeepEqual(store.writes, expected) {
		t.Errorf("Expected writes %v, got %v", expected, store.writes)
	}
}

func TestApply_SetsModeAndMiimonBeforeSlaves(t *testing.T) {
	store := newFakeStore()
	store.exists[mastersPath] = true
	store.exists["/sys/class/net/bond0/bonding"] = true
	store.lines["/sys/class/net/bond0/bonding/mode"] = "balance-rr 0"
	store.lists[slavesPath("bond0")] = nil

	mgr := NewManager(store, allLinks{})
	bond := Bond{
		Name:     "bond0",
		Slaves:   []string{"eth0"},
		Mode:     "active-backup",
		MIIMonMS: 100,
	}

	if err := mgr.Apply(bond); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	expected := []string{
		"/sys/class/net/bond0/bonding/mode <- active-backup",
		"/sys/class/net/bond0/bonding/miimon <- 100",
		slavesPath("bond0") + " <- +eth0",
	}
	if !reflect.DeepEqual(store.writes, expected) {
		t.Errorf("Expected writes %v, got %v", expected, store.writes)
	}
}

func TestApply_ModeAlreadySetIsNotRewritten(t *testing.T) {
	store := newFakeStore()
	store.exists[mastersPath] = true
	store.exists["/sys/class/net/bond0/bonding"] = true
	store.lines["/sys/class/net/bond0/bonding/mode"] = "active-backup 1"
	store.lists[slavesPath("bond0")] = []string{"eth0"}

	mgr := NewManager(store, allLinks{})
	bond := Bond{
		Name:   "bond0",
		Slaves: []string{"eth0"},
		Mode:   "active-backup",
	}

	if err := mgr.Apply(bond); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if len(store.writes) != 0 {
		t.Errorf("Expected no writes for a converged bond, got %v", store.writes)
	}
}

func TestApply_ReconcilesSlavesRemovalsFirst(t *testing.T) {
	store := newFakeStore()
	store.exists[mastersPath] = true
	store.exists["/sys/class/net/bond0/bonding"] = true
	store.lists[slavesPath("bond0")] = []string{"eth0", "eth1"}

	mgr := NewManager(store, allLinks{})
	bond := Bond{
		Name:   "bond0",
		Slaves: []string{"eth1", "eth2"},
	}

	if err := mgr.Apply(bond); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	expected := []string{
		slavesPath("bond0") + " <- -eth0",
		slavesPath("bond0") + " <- +eth2",
	}
	if !reflect.DeepEqual(store.writes, expected) {
		t.Errorf("Expected writes %v, got %v", expected, store.writes)
	}
}

func TestApply_ReconcilesARPTargets(t *testing.T) {
	store := newFakeStore()
	store.exists[mastersPath] = true
	store.exists["/sys/class/net/bond0/bonding"] = true
	store.lists[slavesPath("bond0")] = []string{"eth0"}
	store.lists[arpTargetsPath("bond0")] = []string{"10.0.0.1"}

	mgr := NewManager(store, allLinks{})
	bond := Bond{
		Name:       "bond0",
		Slaves:     []string{"eth0"},
		ARPTargets: []string{"10.0.0.2"},
	}

	if err := mgr.Apply(bond); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	expected := []string{
		arpTargetsPath("bond0") + " <- -10.0.0.1",
		arpTargetsPath("bond0") + " <- +10.0.0.2",
	}
	if !reflect.DeepEqual(store.writes, expected) {
		t.Errorf("Expected writes %v, got %v", expected, store.writes)
	}
}

func TestApply_FailsWithoutDriver(t *testing.T) {
	store := newFakeStore()

	mgr := NewManager(store, allLinks{})
	if err := mgr.Apply(Bond{Name: "bond0", Slaves: []string{"eth0"}}); err == nil {
		t.Error("Expected error when the bonding driver is missing")
	}
	if len(store.writes) != 0 {
		t.Errorf("Expected no writes without driver, got %v", store.writes)
	}
}

func TestApply_FailsOnMissingSlaveInterface(t *testing.T) {
	store := newFakeStore()
	store.exists[mastersPath] = true

	mgr := NewManager(store, noLinks{})
	if err := mgr.Apply(Bond{Name: "bond0", Slaves: []string{"eth7"}}); err == nil {
		t.Error("Expected error for nonexistent slave interface")
	}
	if len(store.writes) != 0 {
		t.Errorf("Expected no writes for invalid bond, got %v", store.writes)
	}
}

func TestModeMatches(t *testing.T) {
	cases := []struct {
		kernel string
		want   string
		match  bool
	}{
		{"active-backup 1", "active-backup", true},
		{"active-backup", "active-backup", true},
		{"balance-rr 0", "active-backup", false},
		{"", "active-backup", false},
	}

	for _, c := range cases {
		if got := modeMatches(c.kernel, c.want); got != c.match {
			t.Errorf("modeMatches(%q, %q) = %v, expected %v", c.kernel, c.want, got, c.match)
		}
	}
}
