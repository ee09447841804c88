package service

import (
	"testing"

	"github.com/ifweave/ifweave/src/internal/config"
	"github.com/ifweave/ifweave/src/internal/extension"
)

func testConfig() *config.Config {
	return &config.Config{
		Extensions: []*config.ExtensionConfig{
			{Name: "noop", Type: "addrconf", Family: "any"},
		},
		Requirements: []*config.RequirementConfig{
			{Interface: "eth0", ReachableHost: "gw.example.com", Family: "ipv4"},
		},
	}
}

func TestNew_BuildsGatesAndRegistry(t *testing.T) {
	svc, err := New(testConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer svc.Close()

	statuses := svc.Statuses()
	if len(statuses) != 1 {
		t.Fatalf("Expected 1 gate, got %d", len(statuses))
	}
	if statuses[0].Interface != "eth0" || statuses[0].Host != "gw.example.com" {
		t.Errorf("Unexpected gate: %+v", statuses[0])
	}
	if statuses[0].Satisfied {
		t.Error("Expected gate to start unsatisfied")
	}

	if svc.Registry().FindByName("noop") == nil {
		t.Error("Expected extension registry to contain noop")
	}
}

func TestNew_RejectsBadFamily(t *testing.T) {
	cfg := testConfig()
	cfg.Requirements[0].Family = "ipx"

	if _, err := New(cfg); err == nil {
		t.Error("Expected error for unknown requirement family")
	}
}

func TestAllSatisfied_EmptyConfiguration(t *testing.T) {
	svc, err := New(&config.Config{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer svc.Close()

	if !svc.AllSatisfied() {
		t.Error("Expected no gates to mean all satisfied")
	}
}

func TestEvaluateAll_SkipsWithoutEvents(t *testing.T) {
	svc, err := New(testConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer svc.Close()

	// Fresh counter: the gate skips its check and stays unsatisfied
	// without any network activity.
	statuses := svc.EvaluateAll()
	if statuses[0].Satisfied {
		t.Error("Expected gate to remain unsatisfied without events")
	}
}

func TestRunExtension_UnknownName(t *testing.T) {
	svc, err := New(testConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer svc.Close()

	if _, err := svc.RunExtension("missing", extension.OpStart, "eth0", nil); err == nil {
		t.Error("Expected error for unknown extension")
	}
}

func TestRunExtension_NoopCommand(t *testing.T) {
	svc, err := New(testConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer svc.Close()

	result, err := svc.RunExtension("noop", extension.OpStart, "eth0", nil)
	if err != nil {
		t.Fatalf("RunExtension failed: %v", err)
	}
	if !result.OK {
		t.Errorf("Expected no-op success, got %+v", result)
	}
}
