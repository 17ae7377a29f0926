package secretsengine

import "github.com/wgtechlabs/secrets-engine/internal/apperrors"

// SecurityError reports an on-disk permission mode more permissive than the
// store requires (POSIX only).
type SecurityError = apperrors.SecurityError

// IntegrityError reports a missing, corrupted, version-mismatched, or
// seal-mismatched store.
type IntegrityError = apperrors.IntegrityError

// KeyNotFoundError reports GetOrThrow called for an absent name.
type KeyNotFoundError = apperrors.KeyNotFoundError

// DecryptionError reports an AEAD tag mismatch, malformed ciphertext, or
// non-UTF-8 plaintext surfaced from an explicit Get. It never carries
// plaintext.
type DecryptionError = apperrors.DecryptionError

// InitializationError reports a directory/keyfile creation failure or a
// missing environment prerequisite.
type InitializationError = apperrors.InitializationError

// CodeOf returns the stable taxonomy code ("SECURITY_ERROR",
// "INTEGRITY_ERROR", "KEY_NOT_FOUND", "DECRYPTION_ERROR",
// "INITIALIZATION_ERROR") for err, if it or something it wraps carries one.
func CodeOf(err error) (string, bool) {
	return apperrors.CodeOf(err)
}
