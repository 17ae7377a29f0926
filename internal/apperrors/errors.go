// Package apperrors defines the fixed error taxonomy shared by every
// component of the engine. Each type carries a stable Code and wraps the
// underlying cause, if any, for errors.Is/errors.As.
package apperrors

import (
	"errors"
	"fmt"
	"io/fs"
)

// SecurityError reports an on-disk permission mode more permissive than the
// store requires (POSIX only).
type SecurityError struct {
	Path     string
	Expected fs.FileMode
	Actual   fs.FileMode
}

func (e *SecurityError) Error() string {
	return fmt.Sprintf("security: %s has mode %04o, expected %04o", e.Path, e.Actual, e.Expected)
}

// Code implements CodedError.
func (e *SecurityError) Code() string { return "SECURITY_ERROR" }

// IntegrityError reports a missing, corrupted, version-mismatched, or
// seal-mismatched store.
type IntegrityError struct {
	Reason string
	Err    error
}

func (e *IntegrityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("integrity: %s: %v", e.Reason, e.Err)
	}
	return "integrity: " + e.Reason
}

// Code implements CodedError.
func (e *IntegrityError) Code() string { return "INTEGRITY_ERROR" }

// Unwrap exposes the wrapped cause, if any.
func (e *IntegrityError) Unwrap() error { return e.Err }

// KeyNotFoundError reports GetOrThrow called for an absent name.
type KeyNotFoundError struct {
	Name string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("key not found: %s", e.Name)
}

// Code implements CodedError.
func (e *KeyNotFoundError) Code() string { return "KEY_NOT_FOUND" }

// DecryptionError reports an AEAD tag mismatch, malformed ciphertext, or
// non-UTF-8 plaintext. It never carries plaintext; HashPrefix is the
// truncated key hash for diagnostics only.
type DecryptionError struct {
	HashPrefix string
	Err        error
}

func (e *DecryptionError) Error() string {
	if e.HashPrefix == "" {
		return fmt.Sprintf("decryption failed: %v", e.Err)
	}
	return fmt.Sprintf("decryption failed for key_hash=%s…: %v", e.HashPrefix, e.Err)
}

// Code implements CodedError.
func (e *DecryptionError) Code() string { return "DECRYPTION_ERROR" }

// Unwrap exposes the wrapped cause, if any.
func (e *DecryptionError) Unwrap() error { return e.Err }

// InitializationError reports a directory/keyfile creation failure or a
// missing environment prerequisite (e.g. APPDATA on Windows with "xdg").
type InitializationError struct {
	Reason string
	Err    error
}

func (e *InitializationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("initialization: %s: %v", e.Reason, e.Err)
	}
	return "initialization: " + e.Reason
}

// Code implements CodedError.
func (e *InitializationError) Code() string { return "INITIALIZATION_ERROR" }

// Unwrap exposes the wrapped cause, if any.
func (e *InitializationError) Unwrap() error { return e.Err }

// CodedError is implemented by every error type in this taxonomy.
type CodedError interface {
	error
	Code() string
}

// CodeOf returns the stable taxonomy code for err, if it (or something it
// wraps) implements CodedError.
func CodeOf(err error) (string, bool) {
	var ce CodedError
	if errors.As(err, &ce) {
		return ce.Code(), true
	}
	return "", false
}
