package sysfs

import (
	"os"
	"path/filepath"
	"strings"
)

// ClassNetPath is the sysfs directory exposing network interface
// attributes.
const ClassNetPath = "/sys/class/net"

// Backend abstracts the attribute store the reconciler works against.
// ReadList returns the current members of a list attribute in the order
// the store reports them; WriteLine submits one complete line, using the
// store's `+name`/`-name` convention for additions and removals.
type Backend interface {
	ReadList(path string) ([]string, error)
	WriteLine(path string, line string) error
}

// FS is the production backend reading and writing sysfs files.
type FS struct{}

// NewFS creates the sysfs-backed attribute store.
func NewFS() *FS {
	return &FS{}
}

// ReadList reads a whitespace-separated list attribute.
func (f *FS) ReadList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return strings.Fields(string(data)), nil
}

// ReadLine reads a single-line attribute with the trailing newline
// stripped.
func (f *FS) ReadLine(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// WriteLine writes one complete line to an attribute file. Sysfs
// attributes want a single write per operation, so the line is written
// in one syscall including the newline.
func (f *FS) WriteLine(path string, line string) error {
	file, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	_, werr := file.WriteString(line)
	if cerr := file.Close(); werr == nil {
		werr = cerr
	}
	return werr
}

// Exists reports whether a sysfs path is present.
func (f *FS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// NetifAttrPath builds the sysfs path of a per-interface attribute.
func NetifAttrPath(ifname string, attr string) string {
	return filepath.Join(ClassNetPath, ifname, attr)
}
