package expr

import (
	"testing"
)

func TestEvaluate_SolePlaceholderExpandsPerValue(t *testing.T) {
	doc := NewDocument()
	doc.Set("dns_server", "10.0.0.1", "10.0.0.2")

	results, err := Evaluate("{{dns_server}}", doc)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0] != "10.0.0.1" || results[1] != "10.0.0.2" {
		t.Errorf("Expected values in insertion order, got %v", results)
	}
}

func TestEvaluate_SolePlaceholderMissingKeyYieldsZeroResults(t *testing.T) {
	results, err := Evaluate("{{gateway}}", NewDocument())
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected 0 results for missing key, got %v", results)
	}
}

func TestEvaluate_MixedTemplateYieldsOneResult(t *testing.T) {
	doc := NewDocument()
	doc.Set("ifname", "eth0")
	doc.Set("ipaddr", "192.168.1.10")

	results, err := Evaluate("ip addr add {{ipaddr}} dev {{ifname}}", doc)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0] != "ip addr add 192.168.1.10 dev eth0" {
		t.Errorf("Unexpected expansion: %q", results[0])
	}
}

func TestEvaluate_MixedTemplateMissingKeyYieldsZeroResults(t *testing.T) {
	doc := NewDocument()
	doc.Set("ifname", "eth0")

	results, err := Evaluate("ip addr add {{ipaddr}} dev {{ifname}}", doc)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected 0 results when a referenced key is empty, got %v", results)
	}
}

func TestEvaluate_MixedTemplateMultiValuedKeyFails(t *testing.T) {
	doc := NewDocument()
	doc.Set("ifname", "eth0")
	doc.Set("dns_server", "10.0.0.1", "10.0.0.2")

	if _, err := Evaluate("echo {{dns_server}} > /etc/resolv.conf.{{ifname}}", doc); err == nil {
		t.Error("Expected error for multi-valued key in mixed template, got nil")
	}
}

func TestEvaluate_NoPlaceholdersPassesThrough(t *testing.T) {
	results, err := Evaluate("/usr/sbin/dhclient -r", NewDocument())
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(results) != 1 || results[0] != "/usr/sbin/dhclient -r" {
		t.Errorf("Expected literal passthrough, got %v", results)
	}
}

func TestEvaluate_PlaceholderWhitespaceIsTrimmed(t *testing.T) {
	doc := NewDocument()
	doc.Set("ifname", "eth0")

	results, err := Evaluate("{{ ifname }}", doc)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(results) != 1 || results[0] != "eth0" {
		t.Errorf("Expected trimmed placeholder lookup, got %v", results)
	}
}

func TestDocument_AppendPreservesOrder(t *testing.T) {
	doc := NewDocument()
	doc.Append("dns_server", "a")
	doc.Append("dns_server", "b", "c")

	values := doc.Get("dns_server")
	if len(values) != 3 {
		t.Fatalf("Expected 3 values, got %d", len(values))
	}
	if values[0] != "a" || values[1] != "b" || values[2] != "c" {
		t.Errorf("Expected insertion order, got %v", values)
	}
}

func TestDocument_SetReplaces(t *testing.T) {
	doc := NewDocument()
	doc.Set("ipaddr", "10.0.0.1")
	doc.Set("ipaddr", "10.0.0.2")

	values := doc.Get("ipaddr")
	if len(values) != 1 || values[0] != "10.0.0.2" {
		t.Errorf("Expected Set to replace, got %v", values)
	}
}
