package commands

import (
	"flag"
	"fmt"

	"github.com/ifweave/ifweave/src/internal/bonding"
	"github.com/ifweave/ifweave/src/internal/config"
	"github.com/ifweave/ifweave/src/internal/log"
	"github.com/ifweave/ifweave/src/internal/sysfs"
)

func CreateApplyCommand() *ApplyCommand {
	gc := &ApplyCommand{
		fs: flag.NewFlagSet("apply", flag.ExitOnError),
	}

	gc.fs.StringVar(&gc.OnlyBond, "only-bond", "", "Only apply the named bond (if it is present in ifweave config)")

	return gc
}

type ApplyCommand struct {
	fs  *flag.FlagSet
	cfg *config.Config

	OnlyBond string
}

func (g *ApplyCommand) Name() string {
	return g.fs.Name()
}

func (g *ApplyCommand) Init(args []string, ctx *AppContext) error {
	if err := g.fs.Parse(args); err != nil {
		return err
	}

	if cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath); err != nil {
		return err
	} else {
		g.cfg = cfg
	}

	if g.OnlyBond != "" {
		found := false
		for _, bond := range g.cfg.Bonds {
			if bond.Name == g.OnlyBond {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("bond %s is not declared in configuration", g.OnlyBond)
		}
	}

	return nil
}

func (g *ApplyCommand) Run() error {
	if len(g.cfg.Bonds) == 0 {
		log.Warnf("Nothing to apply")
		return nil
	}

	mgr := bonding.NewManager(sysfs.NewFS(), bonding.NetlinkChecker{})

	failed := 0
	for _, bondCfg := range g.cfg.Bonds {
		if g.OnlyBond != "" && bondCfg.Name != g.OnlyBond {
			continue
		}

		if err := mgr.Apply(bondCfg.ToBond()); err != nil {
			log.Errorf("Failed to apply bond %s: %v", bondCfg.Name, err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("failed to apply %d bond(s)", failed)
	}

	return nil
}
