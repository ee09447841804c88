package service

import (
	"fmt"
	"sync"

	"github.com/ifweave/ifweave/src/internal/config"
	"github.com/ifweave/ifweave/src/internal/events"
	"github.com/ifweave/ifweave/src/internal/expr"
	"github.com/ifweave/ifweave/src/internal/extension"
	"github.com/ifweave/ifweave/src/internal/log"
	"github.com/ifweave/ifweave/src/internal/require"
	"github.com/ifweave/ifweave/src/internal/resolve"
)

// GateStatus describes one requirement gate for reporting.
type GateStatus struct {
	Interface string `json:"interface"`
	Host      string `json:"host"`
	Family    string `json:"family"`
	Satisfied bool   `json:"satisfied"`
}

type gate struct {
	worker    require.Worker
	req       require.Requirement
	host      string
	family    resolve.Family
	satisfied bool
}

// Service owns the runtime state of the orchestrator core: the event
// counter, the extension registry and the requirement gates built from
// configuration. Evaluation rounds are serialized by an internal mutex;
// a satisfied gate is terminal and is not re-tested.
type Service struct {
	mu sync.Mutex

	cfg      *config.Config
	counter  *events.Counter
	registry *extension.Registry
	runner   *extension.Runner
	gates    []*gate
}

// New builds a service from validated configuration.
func New(cfg *config.Config) (*Service, error) {
	registry, err := cfg.BuildRegistry()
	if err != nil {
		return nil, err
	}

	resolver := resolve.NewDNSResolver(cfg.ResolvConfPathOrDefault())
	prober := resolve.NewRouteProber()

	s := &Service{
		cfg:      cfg,
		counter:  events.NewCounter(),
		registry: registry,
		runner:   extension.NewRunner(),
	}

	for _, rc := range cfg.Requirements {
		family, ferr := resolve.ParseFamily(rc.Family)
		if ferr != nil {
			return nil, fmt.Errorf("requirement for %s: %v", rc.Interface, ferr)
		}
		s.gates = append(s.gates, &gate{
			worker: require.Worker{
				Name: rc.Interface,
				Doc:  expr.NewDocument().Set("ifname", rc.Interface),
			},
			req:    require.NewReachability(rc.ReachableHost, family, resolver, prober),
			host:   rc.ReachableHost,
			family: family,
		})
	}

	return s, nil
}

// Counter returns the event counter fed by the monitor.
func (s *Service) Counter() *events.Counter {
	return s.counter
}

// Registry returns the extension registry.
func (s *Service) Registry() *extension.Registry {
	return s.registry
}

// EvaluateAll runs one evaluation round over the pending gates and
// returns the resulting statuses.
func (s *Service) EvaluateAll() []GateStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.counter.Snapshot()
	for _, g := range s.gates {
		if g.satisfied {
			continue
		}
		if g.req.Test(&g.worker, snapshot) {
			g.satisfied = true
			log.Infof("requirement satisfied for %s: %s reachable", g.worker.Name, g.host)
		}
	}
	return s.statusesLocked()
}

// Statuses reports the gates without evaluating them.
func (s *Service) Statuses() []GateStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusesLocked()
}

func (s *Service) statusesLocked() []GateStatus {
	statuses := make([]GateStatus, 0, len(s.gates))
	for _, g := range s.gates {
		statuses = append(statuses, GateStatus{
			Interface: g.worker.Name,
			Host:      g.host,
			Family:    g.family.String(),
			Satisfied: g.satisfied,
		})
	}
	return statuses
}

// AllSatisfied reports whether every gate has been satisfied.
func (s *Service) AllSatisfied() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, g := range s.gates {
		if !g.satisfied {
			return false
		}
	}
	return true
}

// RunExtension runs one operation of a named extension for an interface.
func (s *Service) RunExtension(name string, op extension.Op, ifname string, doc *expr.Document) (extension.Result, error) {
	ex := s.registry.FindByName(name)
	if ex == nil {
		return extension.Result{}, fmt.Errorf("unknown extension: %s", name)
	}
	if doc == nil {
		doc = expr.NewDocument()
	}
	doc.Set("ifname", ifname)
	return s.runner.Run(ex, op, ifname, doc), nil
}

// Close destroys the requirement gates. The service must not be used
// afterwards.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, g := range s.gates {
		g.req.Destroy()
	}
	s.gates = nil
}
