package config

import (
	"path/filepath"
)

type Config struct {
	// ConfigVersion is the configuration file version.
	ConfigVersion uint8 `toml:"config_version" json:"config_version"`
	// General holds general configuration.
	General *GeneralConfig `toml:"general" json:"general"`
	// Extensions declares the external helper programs. Declaration order
	// matters: lookups by (type, family) return the first match.
	Extensions []*ExtensionConfig `toml:"extension,omitempty" json:"extension,omitempty"`
	// Requirements declares preconditions gating interface bring-up.
	Requirements []*RequirementConfig `toml:"requirement,omitempty" json:"requirement,omitempty"`
	// Bonds declares bond devices reconciled against the kernel.
	Bonds []*BondConfig `toml:"bond,omitempty" json:"bond,omitempty"`

	_absConfigFilePath string
}

type GeneralConfig struct {
	// PollIntervalSeconds is the interval between requirement evaluation
	// rounds in service mode (default: 5).
	PollIntervalSeconds int `toml:"poll_interval_seconds" json:"poll_interval_seconds" validate:"gte=0"`
	// ResolvConfPath overrides the resolver configuration path watched for
	// resolver-updated events (default: /etc/resolv.conf).
	ResolvConfPath string `toml:"resolv_conf_path" json:"resolv_conf_path"`
	// APIListen is the status API listen address (default: 127.0.0.1:8737).
	APIListen string `toml:"api_listen" json:"api_listen" validate:"hostport_or_empty"`
}

type ExtensionConfig struct {
	// Name identifies the extension, unique within its type and family.
	Name string `toml:"name" json:"name" validate:"required,extension_name"`
	// Type tags the class of network aspect this extension configures (e.g. "dhcp", "vpn", "firewall").
	Type string `toml:"type" json:"type" validate:"required"`
	// Family restricts the extension to one address family: "ipv4", "ipv6" or "any" (default).
	Family string `toml:"family" json:"family" validate:"omitempty,oneof=ipv4 ipv6 any"`
	// StartCommand is the shell command template run to start the extension. Available variables come from the interface context document, e.g. {{ifname}}.
	StartCommand string `toml:"start_command" json:"start_command"`
	// StopCommand is the shell command template run to stop the extension.
	StopCommand string `toml:"stop_command" json:"stop_command"`
	// PIDFile is a path template checked for existence to verify the service state after a command.
	PIDFile string `toml:"pid_file,omitempty" json:"pid_file,omitempty"`
	// Environment is an ordered list of NAME=value templates exported to the child process.
	Environment []string `toml:"environment,omitempty" json:"environment,omitempty"`
}

type RequirementConfig struct {
	// Interface names the worker whose bring-up this requirement gates.
	Interface string `toml:"interface" json:"interface" validate:"required"`
	// ReachableHost must resolve and be reachable before the gated transition proceeds.
	ReachableHost string `toml:"reachable_host" json:"reachable_host" validate:"required,hostname_rfc1123"`
	// Family is an optional address-family hint for resolution: "ipv4", "ipv6" or "any" (default).
	Family string `toml:"family" json:"family" validate:"omitempty,oneof=ipv4 ipv6 any"`
}

type BondConfig struct {
	// Name is the bond master device name.
	Name string `toml:"name" json:"name" validate:"required"`
	// Slaves lists the devices enslaved to this bond.
	Slaves []string `toml:"slaves" json:"slaves" validate:"required,min=1"`
	// ARPTargets lists IP addresses for ARP link monitoring.
	ARPTargets []string `toml:"arp_ip_targets,omitempty" json:"arp_ip_targets,omitempty" validate:"dive,ip"`
	// Mode is the bonding mode (e.g. "active-backup"); empty keeps the kernel default.
	Mode string `toml:"mode,omitempty" json:"mode,omitempty"`
	// MIIMonMS is the MII link monitoring interval in milliseconds.
	MIIMonMS int `toml:"miimon,omitempty" json:"miimon,omitempty" validate:"gte=0"`
}

const (
	DefaultPollIntervalSeconds = 5
	DefaultAPIListen           = "127.0.0.1:8737"
)

// GetConfigDir returns the directory holding the loaded configuration
// file.
func (c *Config) GetConfigDir() string {
	return filepath.Dir(c._absConfigFilePath)
}

// PollIntervalOrDefault returns the configured poll interval, falling
// back to the default when unset.
func (c *Config) PollIntervalOrDefault() int {
	if c.General == nil || c.General.PollIntervalSeconds == 0 {
		return DefaultPollIntervalSeconds
	}
	return c.General.PollIntervalSeconds
}

// APIListenOrDefault returns the configured API listen address, falling
// back to the default when unset.
func (c *Config) APIListenOrDefault() string {
	if c.General == nil || c.General.APIListen == "" {
		return DefaultAPIListen
	}
	return c.General.APIListen
}

// ResolvConfPathOrDefault returns the configured resolver path, falling
// back to the system default when unset.
func (c *Config) ResolvConfPathOrDefault() string {
	if c.General == nil || c.General.ResolvConfPath == "" {
		return "/etc/resolv.conf"
	}
	return c.General.ResolvConfPath
}
