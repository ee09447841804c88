// Package commands implements the ifweave CLI subcommands.
package commands
