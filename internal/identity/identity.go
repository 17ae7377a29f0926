// Package identity composes a stable machine-identity string from host
// name, primary network MAC, and OS username.
package identity

import (
	"fmt"
	"net"
	"os"
	"os/user"
)

const noMAC = "no-mac-available"

// Gather returns "hostname:primaryMAC:username". Any individual source that
// cannot be read falls back to a fixed placeholder rather than failing the
// whole composition, except username, which is required.
func Gather() (string, error) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown-host"
	}

	mac := primaryMAC()

	username, err := currentUsername()
	if err != nil {
		return "", fmt.Errorf("resolve username: %w", err)
	}

	return fmt.Sprintf("%s:%s:%s", hostname, mac, username), nil
}

// primaryMAC returns the MAC of the first interface that is up, not a
// loopback, and has a non-zero hardware address; noMAC otherwise.
func primaryMAC() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return noMAC
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		if len(iface.HardwareAddr) == 0 || isZeroMAC(iface.HardwareAddr) {
			continue
		}
		return iface.HardwareAddr.String()
	}
	return noMAC
}

func isZeroMAC(mac net.HardwareAddr) bool {
	for _, b := range mac {
		if b != 0 {
			return false
		}
	}
	return true
}

// currentUsername resolves the OS username, falling back to USER/USERNAME
// environment variables if os/user is unavailable (e.g. in some
// minimal/cross-compiled environments).
func currentUsername() (string, error) {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username, nil
	}
	if v := os.Getenv("USER"); v != "" {
		return v, nil
	}
	if v := os.Getenv("USERNAME"); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("no username available from os/user or USER/USERNAME")
}
