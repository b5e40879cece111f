// Package env reads the few settings consulted before config.Load runs, such
// as the log format and the instance name.
package env

import (
	"os"
	"strings"
)

// First returns the first non-blank value among keys, trimmed, or fallback
// when none is set. Keys are checked in order so a PDV_ name can shadow a
// platform default.
func First(fallback string, keys ...string) string {
	for _, key := range keys {
		if val := strings.TrimSpace(os.Getenv(key)); val != "" {
			return val
		}
	}
	return fallback
}
