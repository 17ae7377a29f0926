package fsguard

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/wgtechlabs/secrets-engine/internal/apperrors"
)

func TestEnsureDirCreatesWithStrictMode(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != DirMode {
		t.Fatalf("expected mode %04o, got %04o", DirMode, info.Mode().Perm())
	}
}

func TestEnsureDirRejectsLoosenedMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX-only mode check")
	}
	dir := filepath.Join(t.TempDir(), "store")
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	if err := os.Chmod(dir, 0o755); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	err := EnsureDir(dir)
	if err == nil {
		t.Fatal("expected SecurityError")
	}
	var secErr *apperrors.SecurityError
	if !errors.As(err, &secErr) {
		t.Fatalf("expected *apperrors.SecurityError, got %T: %v", err, err)
	}
	if secErr.Expected != DirMode || secErr.Actual != 0o755 {
		t.Fatalf("unexpected mode fields: %+v", secErr)
	}
}

func TestEnsureKeyfileGeneratesOnceAndPersists(t *testing.T) {
	dir := t.TempDir()
	k1, err := EnsureKeyfile(dir)
	if err != nil {
		t.Fatalf("ensure keyfile: %v", err)
	}
	if len(k1) != 32 {
		t.Fatalf("expected 32 bytes, got %d", len(k1))
	}
	k2, err := EnsureKeyfile(dir)
	if err != nil {
		t.Fatalf("ensure keyfile again: %v", err)
	}
	if string(k1) != string(k2) {
		t.Fatal("expected keyfile to persist across calls")
	}
	if runtime.GOOS != "windows" {
		info, err := os.Stat(filepath.Join(dir, KeyfileName))
		if err != nil {
			t.Fatalf("stat keyfile: %v", err)
		}
		if info.Mode().Perm() != KeyfileMode {
			t.Fatalf("expected mode %04o, got %04o", KeyfileMode, info.Mode().Perm())
		}
	}
}

func TestReadMetaMissingReturnsNil(t *testing.T) {
	dir := t.TempDir()
	data, err := ReadMeta(dir)
	if err != nil {
		t.Fatalf("ReadMeta: %v", err)
	}
	if data != nil {
		t.Fatalf("expected nil, got %q", data)
	}
}

func TestWriteThenReadMeta(t *testing.T) {
	dir := t.TempDir()
	want := []byte(`{"version":"1"}`)
	if err := WriteMeta(dir, want); err != nil {
		t.Fatalf("WriteMeta: %v", err)
	}
	got, err := ReadMeta(dir)
	if err != nil {
		t.Fatalf("ReadMeta: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	if runtime.GOOS != "windows" {
		info, err := os.Stat(MetaPath(dir))
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if info.Mode().Perm() != DataMode {
			t.Fatalf("expected mode %04o, got %04o", DataMode, info.Mode().Perm())
		}
	}
}
