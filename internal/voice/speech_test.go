package voice

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// writeStubCommand creates an executable shell script named like a real
// player so the suffix-based argument dispatch applies to it.
func writeStubCommand(t *testing.T, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stub commands require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatalf("writing stub command: %v", err)
	}
	return path
}

func TestCommandPlayerPipesClipToStdin(t *testing.T) {
	out := filepath.Join(t.TempDir(), "captured")
	// Stdin players are invoked with "-"; the stub copies stdin out.
	stub := writeStubCommand(t, "mpg123", `[ "$1" = "-" ] || exit 1
cat > `+out)

	p, err := NewCommandPlayer(stub)
	if err != nil {
		t.Fatalf("NewCommandPlayer() error = %v", err)
	}
	if err := p.Play(context.Background(), []byte("clip-bytes")); err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading captured clip: %v", err)
	}
	if string(data) != "clip-bytes" {
		t.Errorf("captured clip = %q, want %q", data, "clip-bytes")
	}
}

func TestCommandPlayerWritesClipToFileForAfplay(t *testing.T) {
	out := filepath.Join(t.TempDir(), "captured")
	// afplay-style players get a readable file path, never stdin.
	stub := writeStubCommand(t, "afplay", `[ -f "$1" ] || exit 1
cat "$1" > `+out)

	p, err := NewCommandPlayer(stub)
	if err != nil {
		t.Fatalf("NewCommandPlayer() error = %v", err)
	}
	if p.useStdin {
		t.Fatal("afplay player should use a file argument, not stdin")
	}
	if err := p.Play(context.Background(), []byte("clip-bytes")); err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading captured clip: %v", err)
	}
	if string(data) != "clip-bytes" {
		t.Errorf("captured clip = %q, want %q", data, "clip-bytes")
	}
}

func TestCommandPlayerReportsFailure(t *testing.T) {
	stub := writeStubCommand(t, "mpg123", "exit 3")

	p, err := NewCommandPlayer(stub)
	if err != nil {
		t.Fatalf("NewCommandPlayer() error = %v", err)
	}
	if err := p.Play(context.Background(), []byte("clip")); err == nil {
		t.Error("expected error from a failing playback command")
	}
}

func TestNewCommandPlayerUnknownCommand(t *testing.T) {
	if _, err := NewCommandPlayer("definitely-not-a-real-player"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
}
