package events

import "testing"

func TestCounter_StartsEmpty(t *testing.T) {
	c := NewCounter()

	snap := c.Snapshot()
	if snap.Seq != 0 || snap.AddressAcquired != 0 || snap.ResolverUpdated != 0 || snap.LinkUp != 0 {
		t.Errorf("Expected zero snapshot, got %+v", snap)
	}
}

func TestCounter_BumpAdvancesGlobalSequence(t *testing.T) {
	c := NewCounter()

	if seq := c.Bump(AddressAcquired); seq != 1 {
		t.Errorf("Expected seq 1, got %d", seq)
	}
	if seq := c.Bump(ResolverUpdated); seq != 2 {
		t.Errorf("Expected seq 2, got %d", seq)
	}
	if seq := c.Bump(AddressAcquired); seq != 3 {
		t.Errorf("Expected seq 3, got %d", seq)
	}

	snap := c.Snapshot()
	if snap.Seq != 3 {
		t.Errorf("Expected Seq 3, got %d", snap.Seq)
	}
	if snap.AddressAcquired != 3 {
		t.Errorf("Expected AddressAcquired at seq 3, got %d", snap.AddressAcquired)
	}
	if snap.ResolverUpdated != 2 {
		t.Errorf("Expected ResolverUpdated at seq 2, got %d", snap.ResolverUpdated)
	}
	if snap.LinkUp != 0 {
		t.Errorf("Expected LinkUp never fired, got %d", snap.LinkUp)
	}
}

func TestKind_String(t *testing.T) {
	if AddressAcquired.String() != "address-acquired" {
		t.Errorf("Unexpected name: %s", AddressAcquired.String())
	}
	if ResolverUpdated.String() != "resolver-updated" {
		t.Errorf("Unexpected name: %s", ResolverUpdated.String())
	}
	if LinkUp.String() != "link-up" {
		t.Errorf("Unexpected name: %s", LinkUp.String())
	}
}
