package commands

import (
	"flag"
	"fmt"
	"os"
	"os/exec"

	"github.com/coreos/go-iptables/iptables"
	"github.com/miekg/dns"

	"github.com/ifweave/ifweave/src/internal/bonding"
	"github.com/ifweave/ifweave/src/internal/config"
	"github.com/ifweave/ifweave/src/internal/log"
	"github.com/ifweave/ifweave/src/internal/netif"
	"github.com/ifweave/ifweave/src/internal/sysfs"
)

func CreateSelfCheckCommand() *SelfCheckCommand {
	gc := &SelfCheckCommand{
		fs: flag.NewFlagSet("self-check", flag.ExitOnError),
	}
	return gc
}

// SelfCheckCommand verifies that the environment provides everything the
// daemon depends on: a shell for extensions, a parseable resolver
// configuration, the bonding driver when bonds are declared and a
// working iptables for firewall-type extensions.
type SelfCheckCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config
}

func (g *SelfCheckCommand) Name() string {
	return g.fs.Name()
}

func (g *SelfCheckCommand) Init(args []string, ctx *AppContext) error {
	g.ctx = ctx

	if err := g.fs.Parse(args); err != nil {
		return err
	}

	if cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath); err != nil {
		return err
	} else {
		g.cfg = cfg
	}

	return nil
}

func (g *SelfCheckCommand) Run() error {
	log.Infof("Running self-check...")
	log.Infof("---------------- Configuration START -----------------")

	if buf, err := g.cfg.SerializeConfig(); err != nil {
		log.Errorf("Failed to serialize config: %v", err)
		return err
	} else {
		os.Stdout.Write(buf.Bytes())
	}

	log.Infof("----------------- Configuration END ------------------")

	hasFailures := false

	if !g.checkShell() {
		hasFailures = true
	}
	if !g.checkResolver() {
		hasFailures = true
	}
	if !g.checkInterfaces() {
		hasFailures = true
	}
	if !g.checkBonding() {
		hasFailures = true
	}
	if !g.checkIptables() {
		hasFailures = true
	}

	if hasFailures {
		log.Errorf("Self-check completed with failures")
		return fmt.Errorf("self-check failed")
	}

	log.Infof("Self-check completed successfully")
	return nil
}

func (g *SelfCheckCommand) checkShell() bool {
	shell, err := exec.LookPath("sh")
	if err != nil {
		log.Errorf("[FAIL] No shell available, extensions can not run: %v", err)
		return false
	}
	log.Infof("[ OK ] Shell: %s", shell)
	return true
}

func (g *SelfCheckCommand) checkResolver() bool {
	path := g.cfg.ResolvConfPathOrDefault()
	conf, err := dns.ClientConfigFromFile(path)
	if err != nil {
		log.Errorf("[FAIL] Resolver config %s: %v", path, err)
		return false
	}
	if len(conf.Servers) == 0 {
		log.Errorf("[FAIL] Resolver config %s lists no nameservers", path)
		return false
	}
	log.Infof("[ OK ] Resolver: %d nameserver(s) in %s", len(conf.Servers), path)
	return true
}

func (g *SelfCheckCommand) checkInterfaces() bool {
	ifaces, err := netif.GetInterfaceList()
	if err != nil {
		log.Errorf("[FAIL] Could not list interfaces: %v", err)
		return false
	}
	log.Infof("[ OK ] Interfaces: %d present", len(ifaces))

	if log.IsVerbose() {
		for i := range ifaces {
			iface := &ifaces[i]
			if iface.IsLoopback() {
				continue
			}
			state := "down"
			if iface.IsUp() {
				state = "up"
			}
			ips, _ := iface.AddrsIps()
			log.Debugf("    %s: %s, %d address(es)", iface.Name(), state, len(ips))
		}
	}

	// Missing requirement interfaces are only a warning: they may appear
	// later (hotplug, VPN devices).
	for _, req := range g.cfg.Requirements {
		if _, err := netif.GetInterface(req.Interface); err != nil {
			log.Warnf("[WARN] Interface %s from requirements is not present", req.Interface)
		}
	}
	return true
}

func (g *SelfCheckCommand) checkBonding() bool {
	if len(g.cfg.Bonds) == 0 {
		log.Infof("[SKIP] Bonding: no bonds declared")
		return true
	}

	mgr := bonding.NewManager(sysfs.NewFS(), bonding.NetlinkChecker{})
	if !mgr.Available() {
		log.Errorf("[FAIL] Bonding driver not available (bonds are declared)")
		return false
	}

	masters, err := mgr.Masters()
	if err != nil {
		log.Errorf("[FAIL] Could not list bond masters: %v", err)
		return false
	}
	log.Infof("[ OK ] Bonding driver: %d master(s) present", len(masters))
	return true
}

func (g *SelfCheckCommand) checkIptables() bool {
	ipt, err := iptables.New()
	if err != nil {
		log.Warnf("[WARN] iptables not available, firewall extensions may fail: %v", err)
		return true
	}

	chains, err := ipt.ListChains("filter")
	if err != nil {
		log.Warnf("[WARN] iptables filter table not readable: %v", err)
		return true
	}
	log.Infof("[ OK ] iptables: %d chain(s) in filter table", len(chains))
	return true
}
