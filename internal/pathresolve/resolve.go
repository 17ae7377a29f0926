// Package pathresolve chooses the storage directory from the caller's
// options and the ambient environment, following a fixed priority order.
package pathresolve

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/wgtechlabs/secrets-engine/internal/apperrors"
)

const dirName = "secrets-engine"

// Resolve returns the absolute storage directory for the given path/location
// options.
//
// Priority, first match wins:
//  1. path, if non-empty, used verbatim.
//  2. location == "xdg": %APPDATA%/secrets-engine on Windows (missing
//     APPDATA is a fatal InitializationError); $XDG_CONFIG_HOME/secrets-engine
//     or $HOME/.config/secrets-engine on POSIX.
//  3. non-Windows and XDG_CONFIG_HOME is set ambiently (location unset):
//     $XDG_CONFIG_HOME/secrets-engine.
//  4. $HOME/.secrets-engine.
func Resolve(path, location string) (string, error) {
	if path != "" {
		return path, nil
	}

	if location == "xdg" {
		return resolveXDG()
	}

	if runtime.GOOS != "windows" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, dirName), nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", &apperrors.InitializationError{Reason: "cannot resolve home directory", Err: err}
	}
	return filepath.Join(home, ".secrets-engine"), nil
}

func resolveXDG() (string, error) {
	if runtime.GOOS == "windows" {
		appdata := os.Getenv("APPDATA")
		if appdata == "" {
			return "", &apperrors.InitializationError{Reason: "APPDATA is not set"}
		}
		return filepath.Join(appdata, dirName), nil
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, dirName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", &apperrors.InitializationError{Reason: "cannot resolve home directory", Err: err}
	}
	return filepath.Join(home, ".config", dirName), nil
}
