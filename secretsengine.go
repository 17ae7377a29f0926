// Package secretsengine is an embedded secret-management library: a
// zero-configuration local credential vault that persists name/value
// string pairs encrypted under a machine-bound master key, with both
// names and values kept confidential on disk.
//
// There is no passphrase prompt and no external service. The store is
// bound to the machine it was created on (host name, primary network MAC,
// and OS username all feed the key derivation); moving or copying the
// storage directory to another machine makes its contents permanently
// unreadable.
package secretsengine

import "github.com/wgtechlabs/secrets-engine/internal/engine"

// Engine is an open, machine-bound secrets store returned by Open. It is
// not safe for concurrent use from multiple goroutines.
type Engine = engine.Engine

// Options configures Open.
type Options = engine.Options

// Open resolves the storage directory, derives the machine-bound master
// key, and opens (or creates) the store at that location.
//
// If opts.Path is set, it is used verbatim. Otherwise opts.Location == "xdg"
// selects the platform's XDG/APPDATA config directory; with no path and no
// explicit location, an ambient XDG_CONFIG_HOME is honored on non-Windows
// platforms, falling back to $HOME/.secrets-engine.
func Open(opts Options) (*Engine, error) {
	return engine.Open(opts)
}
