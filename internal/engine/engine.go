// Package engine orchestrates the storage directory, master key, and
// in-memory name index that together implement the public secrets-engine
// API. It composes the crypto, fsguard, identity, rowstore, seal,
// pathresolve, and glob packages into open/close/get/set/has/delete/
// keys/destroy.
package engine

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/wgtechlabs/secrets-engine/internal/apperrors"
	"github.com/wgtechlabs/secrets-engine/internal/crypto"
	"github.com/wgtechlabs/secrets-engine/internal/fsguard"
	"github.com/wgtechlabs/secrets-engine/internal/identity"
	"github.com/wgtechlabs/secrets-engine/internal/pathresolve"
	"github.com/wgtechlabs/secrets-engine/internal/rowstore"
	"github.com/wgtechlabs/secrets-engine/internal/seal"
)

// errClosed is the fatal runtime error panicked by every operation except
// Close, Destroy, and StoragePath once the engine is closed.
type errClosed struct{}

func (errClosed) Error() string { return "secrets-engine: instance is closed" }

// Engine is an open, machine-bound secrets store. Not safe for concurrent
// use from multiple goroutines; callers that need concurrency must
// serialize externally.
type Engine struct {
	masterKey [32]byte
	salt      string
	dirPath   string
	closed    bool

	nameIndex map[string]string // key_hash -> plaintext name
	store     *rowstore.Store
	logSink   func(string)
}

// Open resolves the storage directory, ensures its on-disk layout, derives
// the machine-bound master key, opens the row store, verifies (or lays
// down) the integrity seal, and builds the in-memory name index.
func Open(opts Options) (*Engine, error) {
	logSink := opts.LogSink
	if logSink == nil {
		logSink = func(string) {}
	}

	dirPath, err := pathresolve.Resolve(opts.Path, opts.Location)
	if err != nil {
		return nil, err
	}

	if err := fsguard.EnsureDir(dirPath); err != nil {
		return nil, err
	}
	keyfile, err := fsguard.EnsureKeyfile(dirPath)
	if err != nil {
		return nil, err
	}
	rawMeta, err := fsguard.ReadMeta(dirPath)
	if err != nil {
		return nil, err
	}
	if rawMeta != nil {
		if err := fsguard.CheckDataMode(fsguard.MetaPath(dirPath)); err != nil {
			return nil, err
		}
	}

	isNew := rawMeta == nil
	var saltHex string
	if !isNew {
		m, err := seal.ParseMeta(rawMeta)
		if err != nil {
			return nil, err
		}
		saltHex = m.Salt
	} else {
		saltBytes, err := crypto.RandomSalt()
		if err != nil {
			return nil, &apperrors.InitializationError{Reason: "cannot generate salt", Err: err}
		}
		saltHex = hex.EncodeToString(saltBytes)
	}

	saltBytes, err := hex.DecodeString(saltHex)
	if err != nil {
		return nil, &apperrors.IntegrityError{Reason: "meta.json salt is not valid hex", Err: err}
	}

	machineID, err := identity.Gather()
	if err != nil {
		return nil, &apperrors.InitializationError{Reason: "cannot gather machine identity", Err: err}
	}

	masterKey, err := crypto.DeriveMasterKey([]byte(machineID), keyfile, saltBytes)
	if err != nil {
		return nil, &apperrors.InitializationError{Reason: "cannot derive master key", Err: err}
	}

	store, err := rowstore.Open(fsguard.DBPath(dirPath))
	if err != nil {
		return nil, &apperrors.InitializationError{Reason: "cannot open database", Err: err}
	}
	if isNew {
		// The database driver creates store.db itself, subject to umask,
		// not through fsguard's write path, so chmod it explicitly the same
		// way EnsureKeyfile/WriteMeta do for the files they write directly.
		if err := fsguard.ChmodDataFile(fsguard.DBPath(dirPath)); err != nil {
			_ = store.Close()
			return nil, err
		}
	} else if err := fsguard.CheckDataMode(fsguard.DBPath(dirPath)); err != nil {
		_ = store.Close()
		return nil, err
	}

	e := &Engine{
		masterKey: masterKey,
		salt:      saltHex,
		dirPath:   dirPath,
		nameIndex: make(map[string]string),
		store:     store,
		logSink:   logSink,
	}

	// Best-effort: pin the master key's backing memory so it is never
	// written to swap. A failure here (e.g. a constrained RLIMIT_MEMLOCK)
	// is not a reason to refuse to open.
	_ = crypto.LockKey(&e.masterKey)

	if !isNew {
		if _, err := seal.VerifyOnOpen(masterKey, store, rawMeta); err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	if err := e.buildNameIndex(); err != nil {
		_ = store.Close()
		return nil, err
	}

	if isNew {
		if _, err := seal.InitialSeal(masterKey, store, saltHex, e.writeMeta); err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	return e, nil
}

// buildNameIndex decrypts every row's key_enc (12-byte IV prefix, the rest
// ciphertext‖tag) and populates nameIndex. A single row's decryption
// failure is logged and skipped, not fatal.
func (e *Engine) buildNameIndex() error {
	rows, err := e.store.FindAll()
	if err != nil {
		return &apperrors.InitializationError{Reason: "cannot read rows", Err: err}
	}
	for _, row := range rows {
		if len(row.KeyEnc) < crypto.NonceSize {
			e.logSink(fmt.Sprintf("skipping row %s…: key_enc too short", truncate(row.KeyHash)))
			continue
		}
		nonce := row.KeyEnc[:crypto.NonceSize]
		ct := row.KeyEnc[crypto.NonceSize:]
		name, err := crypto.Decrypt(e.masterKey, nonce, ct, row.KeyHash)
		if err != nil {
			e.logSink(fmt.Sprintf("skipping row %s…: %v", truncate(row.KeyHash), err))
			continue
		}
		e.nameIndex[row.KeyHash] = name
	}
	return nil
}

func truncate(s string) string {
	if len(s) <= 16 {
		return s
	}
	return s[:16]
}

// writeMeta is seal's injected persistence hook.
func (e *Engine) writeMeta(data []byte) error {
	return fsguard.WriteMeta(e.dirPath, data)
}

func (e *Engine) requireOpen() {
	if e.closed {
		panic(errClosed{})
	}
}

// Close checkpoints the WAL, writes a final checkpointed seal, closes the
// row store, clears the name index, and marks the engine closed. Idempotent.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	if err := seal.UpdateOnClose(e.masterKey, e.store, e.salt, e.writeMeta); err != nil {
		return err
	}
	if err := e.store.Close(); err != nil {
		return err
	}
	_ = crypto.UnlockKey(&e.masterKey)
	crypto.Zero(e.masterKey[:])
	e.nameIndex = nil
	e.closed = true
	return nil
}

// Destroy closes the engine (if open) and removes the storage directory
// and everything under it, retrying on busy/permission errors to
// accommodate platforms that briefly retain file handles.
func (e *Engine) Destroy() error {
	if !e.closed {
		if err := e.Close(); err != nil {
			return err
		}
	}

	time.Sleep(150 * time.Millisecond)
	return removeAllWithRetry(e.dirPath)
}

// StoragePath returns the resolved storage directory. Valid even after
// Close, invalid (empty) after Destroy only in the sense that the
// directory no longer exists on disk.
func (e *Engine) StoragePath() string { return e.dirPath }
