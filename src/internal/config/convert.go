package config

import (
	"fmt"

	"github.com/ifweave/ifweave/src/internal/bonding"
	"github.com/ifweave/ifweave/src/internal/extension"
)

// BuildRegistry assembles the extension registry in declaration order.
func (c *Config) BuildRegistry() (*extension.Registry, error) {
	registry := extension.NewRegistry()

	for _, ext := range c.Extensions {
		families, ok := extension.ParseFamily(ext.Family)
		if !ok {
			return nil, fmt.Errorf("extension %s: bad family %q", ext.Name, ext.Family)
		}

		registry.Append(&extension.Extension{
			Name:         ext.Name,
			Type:         ext.Type,
			Families:     families,
			StartCommand: ext.StartCommand,
			StopCommand:  ext.StopCommand,
			PIDFile:      ext.PIDFile,
			Environment:  append([]string(nil), ext.Environment...),
		})
	}

	return registry, nil
}

// ToBond converts the declared bond to its reconciliation form.
func (b *BondConfig) ToBond() bonding.Bond {
	return bonding.Bond{
		Name:       b.Name,
		Slaves:     append([]string(nil), b.Slaves...),
		ARPTargets: append([]string(nil), b.ARPTargets...),
		Mode:       b.Mode,
		MIIMonMS:   b.MIIMonMS,
	}
}
