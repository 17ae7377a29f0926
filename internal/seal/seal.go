// Package seal computes and verifies the tamper-evident HMAC seal stored in
// meta.json, covering the on-disk bytes of the database file.
package seal

import (
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/wgtechlabs/secrets-engine/internal/apperrors"
	"github.com/wgtechlabs/secrets-engine/internal/crypto"
)

// metaVersion is the only meta.json schema version this engine understands.
const metaVersion = "1"

// checkpointer is the subset of *rowstore.Store the sealer needs. Defined
// here rather than imported to keep the dependency direction leaf-ward.
type checkpointer interface {
	Checkpoint() error
	FilePath() string
}

// Meta is the decoded contents of meta.json.
type Meta struct {
	Version   string `json:"version"`
	Salt      string `json:"salt"`
	Integrity string `json:"integrity"`
}

// Compute returns the hex HMAC-SHA256(masterKey, SHA256(file bytes)) seal
// for the database file at path.
func Compute(masterKey [32]byte, dbPath string) (string, error) {
	data, err := os.ReadFile(dbPath)
	if err != nil {
		return "", fmt.Errorf("read database file: %w", err)
	}
	digest := crypto.SHA256(data)
	return crypto.HMACHex(masterKey, digest[:]), nil
}

// ParseMeta decodes raw meta.json bytes, validating the version field.
func ParseMeta(raw []byte) (*Meta, error) {
	var m Meta
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, &apperrors.IntegrityError{Reason: "meta.json is not valid JSON", Err: err}
	}
	if m.Version != metaVersion {
		return nil, &apperrors.IntegrityError{Reason: fmt.Sprintf("unsupported meta version %q", m.Version)}
	}
	if len(m.Salt) != 64 {
		return nil, &apperrors.IntegrityError{Reason: "meta.json salt is not 64 hex characters"}
	}
	if _, err := hex.DecodeString(m.Salt); err != nil {
		return nil, &apperrors.IntegrityError{Reason: "meta.json salt is not valid hex", Err: err}
	}
	if len(m.Integrity) != 64 {
		return nil, &apperrors.IntegrityError{Reason: "meta.json integrity is not 64 hex characters"}
	}
	if _, err := hex.DecodeString(m.Integrity); err != nil {
		return nil, &apperrors.IntegrityError{Reason: "meta.json integrity is not valid hex", Err: err}
	}
	return &m, nil
}

// Encode renders a Meta as pretty-printed JSON.
func Encode(m *Meta) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode meta.json: %w", err)
	}
	return data, nil
}

// VerifyOnOpen checkpoints the WAL, recomputes the seal over the now-current
// main database file, and constant-time compares it against raw's decoded
// meta.integrity. Returns the parsed meta on success.
func VerifyOnOpen(masterKey [32]byte, store checkpointer, raw []byte) (*Meta, error) {
	m, err := ParseMeta(raw)
	if err != nil {
		return nil, err
	}
	if err := store.Checkpoint(); err != nil {
		return nil, &apperrors.IntegrityError{Reason: "checkpoint failed", Err: err}
	}
	seal, err := Compute(masterKey, store.FilePath())
	if err != nil {
		return nil, &apperrors.IntegrityError{Reason: "cannot compute seal", Err: err}
	}
	if subtle.ConstantTimeCompare([]byte(seal), []byte(m.Integrity)) != 1 {
		return nil, &apperrors.IntegrityError{Reason: "integrity seal mismatch"}
	}
	return m, nil
}

// InitialSeal computes the first seal for a freshly created store (schema
// already applied, name index already built, a no-op on an empty store)
// and writes meta.json.
func InitialSeal(masterKey [32]byte, store checkpointer, salt string, writeMeta func([]byte) error) (*Meta, error) {
	seal, err := Compute(masterKey, store.FilePath())
	if err != nil {
		return nil, fmt.Errorf("compute initial seal: %w", err)
	}
	m := &Meta{Version: metaVersion, Salt: salt, Integrity: seal}
	raw, err := Encode(m)
	if err != nil {
		return nil, err
	}
	if err := writeMeta(raw); err != nil {
		return nil, err
	}
	return m, nil
}

// UpdateOnMutation recomputes the seal over the current (unchecked-pointed)
// database file and rewrites meta.json, preserving version and salt.
func UpdateOnMutation(masterKey [32]byte, store checkpointer, salt string, writeMeta func([]byte) error) error {
	seal, err := Compute(masterKey, store.FilePath())
	if err != nil {
		return fmt.Errorf("compute seal: %w", err)
	}
	m := &Meta{Version: metaVersion, Salt: salt, Integrity: seal}
	raw, err := Encode(m)
	if err != nil {
		return err
	}
	return writeMeta(raw)
}

// UpdateOnClose checkpoints the WAL first, then recomputes and writes the
// seal so the store verifies cleanly on the next open regardless of
// whether the WAL is empty.
func UpdateOnClose(masterKey [32]byte, store checkpointer, salt string, writeMeta func([]byte) error) error {
	if err := store.Checkpoint(); err != nil {
		return &apperrors.IntegrityError{Reason: "checkpoint failed", Err: err}
	}
	return UpdateOnMutation(masterKey, store, salt, writeMeta)
}
