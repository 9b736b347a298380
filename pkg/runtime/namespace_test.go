package runtime

import (
	"context"
	"testing"
)

func TestIdentifiers(t *testing.T) {
	valid := []string{"x", "_x", "abc_1", "A"}
	for _, name := range valid {
		if !IsVisibleName(name) {
			t.Fatalf("expected %q to be a visible name", name)
		}
	}
	invalid := []string{"", "1a", "a-b", "__x", "a b"}
	for _, name := range invalid {
		if IsVisibleName(name) {
			t.Fatalf("expected %q to be rejected", name)
		}
	}
}

func TestNamespaceOrderAndHiddenKeys(t *testing.T) {
	ns := NewNamespace()
	ns.Set("b", Number(1))
	ns.Set("__meta", String("m"))
	ns.Set("a", Number(2))
	ns.Set("b", Number(3))
	keys := ns.Keys()
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Fatalf("expected [b a], got %v", keys)
	}
	if ns.Len() != 2 {
		t.Fatalf("expected hidden keys to be excluded from size, got %d", ns.Len())
	}
	if len(ns.AllKeys()) != 3 {
		t.Fatalf("expected 3 stored keys, got %v", ns.AllKeys())
	}
	v, err := ns.Lookup(context.Background(), "__meta")
	if err != nil || Classify(v) != KindNothing {
		t.Fatalf("expected hidden key lookup to yield Nothing, got %#v (%v)", v, err)
	}
}

func TestNamespaceResolver(t *testing.T) {
	ns := NamespaceFrom("a", Number(1))
	ns.Resolver = func(_ context.Context, key string) (Value, error) {
		return String("resolved " + key), nil
	}
	v, err := ns.Lookup(context.Background(), "zzz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s, ok := v.(StringValue); !ok || s.Val != "resolved zzz" {
		t.Fatalf("expected resolver result, got %#v", v)
	}
	v, _ = ns.Lookup(context.Background(), "a")
	if n, ok := v.(NumberValue); !ok || n.Val != 1 {
		t.Fatalf("expected stored key to win over resolver, got %#v", v)
	}
}
