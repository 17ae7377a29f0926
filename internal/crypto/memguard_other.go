//go:build !linux && !darwin

package crypto

// LockKey is a no-op on platforms without mlock (notably Windows); the
// engine treats it the same as a failed mlock on POSIX: best-effort only.
func LockKey(key *[32]byte) error { return nil }

// UnlockKey is the matching no-op for LockKey.
func UnlockKey(key *[32]byte) error { return nil }
