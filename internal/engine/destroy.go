package engine

import (
	"os"
	"strings"
	"time"
)

const maxRemoveAttempts = 5

// removeAllWithRetry removes dirPath, retrying up to maxRemoveAttempts
// times with 200ms*attempt backoff on busy/permission errors (platforms
// like Windows may briefly retain handles on WAL/SHM sidecar files).
func removeAllWithRetry(dirPath string) error {
	var lastErr error
	for attempt := 1; attempt <= maxRemoveAttempts; attempt++ {
		err := os.RemoveAll(dirPath)
		if err == nil {
			return nil
		}
		lastErr = err
		if !isRetryable(err) {
			return err
		}
		time.Sleep(time.Duration(attempt) * 200 * time.Millisecond)
	}
	return lastErr
}

// isRetryable reports whether err looks like a transient busy/permission
// condition worth retrying, rather than a real failure (e.g. wrong path).
// The underlying syscall errno differs by platform, so this matches on the
// wrapped os.IsPermission classification and common "busy" phrasing.
func isRetryable(err error) bool {
	if os.IsPermission(err) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "busy") || strings.Contains(msg, "being used by another process")
}
