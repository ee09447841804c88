package extension

// Family is a bitmask of the address families an extension supports.
type Family uint

const (
	FamilyIPv4 Family = 1 << iota
	FamilyIPv6

	FamilyAll = FamilyIPv4 | FamilyIPv6
)

// ParseFamily maps the configuration spelling of a family to its mask.
// The empty string and "any" mean both families.
func ParseFamily(s string) (Family, bool) {
	switch s {
	case "", "any":
		return FamilyAll, true
	case "ipv4":
		return FamilyIPv4, true
	case "ipv6":
		return FamilyIPv6, true
	}
	return 0, false
}

// String returns the configuration spelling of the mask.
func (f Family) String() string {
	switch f {
	case FamilyIPv4:
		return "ipv4"
	case FamilyIPv6:
		return "ipv6"
	}
	return "any"
}

// Op selects which of an extension's commands to run.
type Op string

const (
	OpStart Op = "start"
	OpStop  Op = "stop"
)

// Extension describes an external helper program configuring one aspect
// of network setup (a DHCP client, a VPN daemon). All fields are
// templates evaluated against the interface's context document at run
// time. Extensions are immutable once registered.
type Extension struct {
	// Name is unique within (Type, Families).
	Name string

	// Type tags the class of network aspect configured, e.g. "dhcp".
	Type string

	// Families is the address-family mask the extension supports.
	Families Family

	// StartCommand and StopCommand are shell command templates; an empty
	// template makes the corresponding operation a no-op.
	StartCommand string
	StopCommand  string

	// PIDFile, when set, is a path template whose existence after a
	// command verifies the service's running state independent of the
	// exit code.
	PIDFile string

	// Environment is an ordered list of NAME=value templates exported to
	// the child process only.
	Environment []string
}

func (ex *Extension) command(op Op) string {
	if op == OpStop {
		return ex.StopCommand
	}
	return ex.StartCommand
}

// Registry holds extensions in declaration order.
type Registry struct {
	extensions []*Extension
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Append adds an extension at the tail. The registry is assembled during
// configuration load and read-only afterwards.
func (r *Registry) Append(ex *Extension) {
	r.extensions = append(r.extensions, ex)
}

// Find returns the first declared extension matching the type whose
// family mask overlaps the requested one, or nil.
func (r *Registry) Find(typ string, family Family) *Extension {
	for _, ex := range r.extensions {
		if ex.Type == typ && ex.Families&family != 0 {
			return ex
		}
	}
	return nil
}

// FindByName returns the extension with the given name, or nil.
func (r *Registry) FindByName(name string) *Extension {
	for _, ex := range r.extensions {
		if ex.Name == name {
			return ex
		}
	}
	return nil
}

// All returns the extensions in declaration order.
func (r *Registry) All() []*Extension {
	return r.extensions
}

// Len returns the number of registered extensions.
func (r *Registry) Len() int {
	return len(r.extensions)
}
