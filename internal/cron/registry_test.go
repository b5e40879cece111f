package cron

import (
	"context"
	"strings"
	"testing"
)

type namedJob string

func (n namedJob) Name() string              { return string(n) }
func (n namedJob) Run(context.Context) error { return nil }

func TestRegistryKeepsRunOrder(t *testing.T) {
	registry, err := NewRegistry(namedJob("cart-sweep"), nil, namedJob("low-stock-report"))
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if got := strings.Join(registry.Names(), ","); got != "cart-sweep,low-stock-report" {
		t.Fatalf("unexpected order %q", got)
	}

	jobs := registry.Jobs()
	jobs[0] = nil
	if registry.Jobs()[0] == nil {
		t.Fatal("caller mutated the registry's jobs")
	}
}

func TestRegistryRejectsBlankAndDuplicateNames(t *testing.T) {
	if _, err := NewRegistry(namedJob("cart-sweep"), namedJob("cart-sweep")); err == nil {
		t.Fatal("expected duplicate name to be rejected")
	}

	registry, _ := NewRegistry()
	if !registry.Empty() {
		t.Fatal("expected empty registry")
	}
	if err := registry.Register(namedJob("  ")); err == nil {
		t.Fatal("expected blank name to be rejected")
	}
	if err := registry.Register(nil); err == nil {
		t.Fatal("expected nil job to be rejected")
	}
	if !registry.Empty() {
		t.Fatal("rejected jobs must not be registered")
	}
}
