package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadGeneratesAndPersists(t *testing.T) {
	store := NewStore(t.TempDir())

	first, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !strings.HasPrefix(first, "session_") {
		t.Errorf("id = %q, want session_ prefix", first)
	}

	second, err := store.Load()
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	if second != first {
		t.Errorf("second Load() = %q, want the persisted id %q", second, first)
	}
}

func TestCurrentWithoutSession(t *testing.T) {
	store := NewStore(t.TempDir())
	if id, ok := store.Current(); ok {
		t.Errorf("Current() = %q, want absent before first Load", id)
	}
}

func TestResetDiscardsID(t *testing.T) {
	store := NewStore(t.TempDir())

	first, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if err := store.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if _, ok := store.Current(); ok {
		t.Error("Current() still reports an id after Reset")
	}

	second, err := store.Load()
	if err != nil {
		t.Fatalf("Load() after Reset error = %v", err)
	}
	if second == first {
		t.Error("Load() after Reset returned the old id")
	}
}

func TestResetWithoutSessionIsFine(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := store.Reset(); err != nil {
		t.Errorf("Reset() on fresh store error = %v", err)
	}
}

func TestLoadRegeneratesEmptyFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "session_id"), []byte("  \n"), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	store := NewStore(dir)
	id, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if id == "" {
		t.Error("Load() returned an empty id for a blank file")
	}
}

func TestNewIDShape(t *testing.T) {
	id := NewID()
	parts := strings.Split(id, "_")
	if len(parts) != 3 || parts[0] != "session" {
		t.Fatalf("id = %q, want session_<millis>_<suffix>", id)
	}
	if parts[1] == "" || parts[2] == "" {
		t.Errorf("id = %q has empty components", id)
	}

	if NewID() == id {
		t.Error("consecutive ids should differ")
	}
}
