package pathresolve

import (
	"path/filepath"
	"runtime"
	"testing"
)

func TestResolveExplicitPathWins(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/should-not-be-used")
	got, err := Resolve("/explicit/path", "xdg")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != "/explicit/path" {
		t.Fatalf("expected explicit path to win, got %q", got)
	}
}

func TestResolveXDGLocationPOSIX(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX-only")
	}
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	got, err := Resolve("", "xdg")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := filepath.Join("/cfg", dirName)
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestResolveXDGLocationFallsBackToHomeConfig(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX-only")
	}
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/tester")
	got, err := Resolve("", "xdg")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := filepath.Join("/home/tester", ".config", dirName)
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestResolveAmbientXDGConfigHomeWithoutExplicitLocation(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX-only")
	}
	t.Setenv("XDG_CONFIG_HOME", "/ambient-cfg")
	got, err := Resolve("", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := filepath.Join("/ambient-cfg", dirName)
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestResolveDefaultHomeFallback(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX-only")
	}
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/tester")
	got, err := Resolve("", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := filepath.Join("/home/tester", ".secrets-engine")
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
