// Package glob implements the engine's single-metacharacter pattern
// language: "*" matches any run of characters excluding ".", anchored at
// both ends, all other characters literal.
package glob

import (
	"regexp"
	"strings"
)

// Compile turns pattern into a matcher. An empty pattern matches everything.
func Compile(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return regexp.Compile(".*")
	}
	parts := strings.Split(pattern, "*")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	expr := "^" + strings.Join(parts, "[^.]*") + "$"
	return regexp.Compile(expr)
}
