// Package bonding applies declared bond devices to the kernel through
// the sysfs bonding attribute files, using the list reconciler for the
// slave and ARP target sets.
package bonding
