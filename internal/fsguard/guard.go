// Package fsguard creates and verifies the three fixed files of a secrets
// store directory (.keyfile, store.db, meta.json) under strict permission
// modes.
package fsguard

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"

	"github.com/wgtechlabs/secrets-engine/internal/apperrors"
	"github.com/wgtechlabs/secrets-engine/internal/crypto"
)

const (
	// DirMode is the required mode for the storage directory.
	DirMode os.FileMode = 0o700
	// KeyfileMode is the required mode for .keyfile.
	KeyfileMode os.FileMode = 0o400
	// DataMode is the required mode for store.db and meta.json.
	DataMode os.FileMode = 0o600
)

const (
	KeyfileName = ".keyfile"
	DBName      = "store.db"
	MetaName    = "meta.json"
)

func checkModes() bool {
	return runtime.GOOS != "windows"
}

// EnsureDir creates dirPath (recursively) with DirMode if it does not exist,
// then re-stats it and asserts its mode is exactly DirMode (POSIX only).
func EnsureDir(dirPath string) error {
	if err := os.MkdirAll(dirPath, DirMode); err != nil {
		return &apperrors.InitializationError{Reason: "cannot create storage directory", Err: err}
	}
	if !checkModes() {
		return nil
	}
	info, err := os.Stat(dirPath)
	if err != nil {
		return &apperrors.InitializationError{Reason: "cannot stat storage directory", Err: err}
	}
	actual := info.Mode().Perm()
	if actual != DirMode {
		return &apperrors.SecurityError{Path: dirPath, Expected: DirMode, Actual: actual}
	}
	return nil
}

// EnsureKeyfile returns the 32 random bytes of dirPath/.keyfile, generating
// and writing it with KeyfileMode if it does not already exist.
func EnsureKeyfile(dirPath string) ([]byte, error) {
	path := filepath.Join(dirPath, KeyfileName)

	info, err := os.Stat(path)
	if err == nil {
		if checkModes() {
			actual := info.Mode().Perm()
			if actual != KeyfileMode {
				return nil, &apperrors.SecurityError{Path: path, Expected: KeyfileMode, Actual: actual}
			}
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &apperrors.InitializationError{Reason: "cannot read keyfile", Err: err}
		}
		return data, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, &apperrors.InitializationError{Reason: "cannot stat keyfile", Err: err}
	}

	key, err := crypto.RandomKeyfile()
	if err != nil {
		return nil, &apperrors.InitializationError{Reason: "cannot generate keyfile", Err: err}
	}
	// Write first, then chmod explicitly: WriteFile's perm argument is
	// filtered through umask, so the final mode is set here instead.
	if err := os.WriteFile(path, key, KeyfileMode); err != nil {
		return nil, &apperrors.InitializationError{Reason: "cannot write keyfile", Err: err}
	}
	if checkModes() {
		if err := os.Chmod(path, KeyfileMode); err != nil {
			return nil, &apperrors.InitializationError{Reason: "cannot chmod keyfile", Err: err}
		}
	}
	return key, nil
}

// ReadMeta returns the raw contents of dirPath/meta.json, or nil if it does
// not exist.
func ReadMeta(dirPath string) ([]byte, error) {
	path := filepath.Join(dirPath, MetaName)
	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return nil, &apperrors.InitializationError{Reason: "cannot read meta file", Err: err}
}

// WriteMeta writes data to dirPath/meta.json with DataMode, chmod'ing
// explicitly on POSIX to defeat umask.
func WriteMeta(dirPath string, data []byte) error {
	path := filepath.Join(dirPath, MetaName)
	if err := os.WriteFile(path, data, DataMode); err != nil {
		return &apperrors.InitializationError{Reason: "cannot write meta file", Err: err}
	}
	if checkModes() {
		if err := os.Chmod(path, DataMode); err != nil {
			return &apperrors.InitializationError{Reason: "cannot chmod meta file", Err: err}
		}
	}
	return nil
}

// ChmodDataFile sets path's mode to DataMode explicitly (POSIX only). Used
// right after a file the store does not write itself (store.db, created by
// the database driver) first comes into existence, since its creation mode
// is subject to umask rather than to this package's write path.
func ChmodDataFile(path string) error {
	if !checkModes() {
		return nil
	}
	if err := os.Chmod(path, DataMode); err != nil {
		return &apperrors.InitializationError{Reason: "cannot chmod " + filepath.Base(path), Err: err}
	}
	return nil
}

// CheckDataMode asserts that path (store.db or meta.json) has DataMode
// (POSIX only).
func CheckDataMode(path string) error {
	if !checkModes() {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return &apperrors.InitializationError{Reason: "cannot stat " + filepath.Base(path), Err: err}
	}
	actual := info.Mode().Perm()
	if actual != DataMode {
		return &apperrors.SecurityError{Path: path, Expected: DataMode, Actual: actual}
	}
	return nil
}

// DBPath returns the absolute path to the store's database file.
func DBPath(dirPath string) string { return filepath.Join(dirPath, DBName) }

// MetaPath returns the absolute path to the store's meta file.
func MetaPath(dirPath string) string { return filepath.Join(dirPath, MetaName) }
