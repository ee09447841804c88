// Package config loads, validates and converts the ifweave TOML
// configuration: extension declarations, interface requirements and bond
// definitions.
package config
