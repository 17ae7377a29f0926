//go:build linux || darwin

package crypto

import "golang.org/x/sys/unix"

// LockKey best-effort pins the master key's backing memory so it is never
// written to swap. Failures (e.g. under a constrained RLIMIT_MEMLOCK) are
// the caller's to ignore; losing mlock is not a reason to refuse to open.
func LockKey(key *[32]byte) error {
	return unix.Mlock(key[:])
}

// UnlockKey releases a page pinned by LockKey.
func UnlockKey(key *[32]byte) error {
	return unix.Munlock(key[:])
}
