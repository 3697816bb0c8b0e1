package util

import (
	"strings"
	"testing"
)

func TestNewIDPrefix(t *testing.T) {
	id := NewID("page")
	if !strings.HasPrefix(id, "page_") {
		t.Fatalf("expected page_ prefix, got %q", id)
	}
	if bare := NewID(""); strings.Contains(bare, "_") {
		t.Fatalf("expected no separator without prefix, got %q", bare)
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := NewID("page")
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate id %q after %d iterations", id, i)
		}
		seen[id] = struct{}{}
	}
}
