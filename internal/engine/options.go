package engine

// Options configures Open. Path takes priority over Location; an empty
// Options resolves the directory from the ambient environment.
type Options struct {
	// Path, if non-empty, is used verbatim as the storage directory.
	Path string
	// Location is either "xdg" or "" (unset). Ignored if Path is set.
	Location string
	// LogSink, if non-nil, receives one line for each row skipped during
	// name-index build because its key_enc could not be decrypted. Never
	// receives plaintext names, values, or key hashes beyond a truncated
	// diagnostic prefix. Defaults to a no-op.
	LogSink func(string)
}
