// Package security provides transport-security validation for the HTTP
// serving surface.
//
// The only check this server needs is Host-header validation: the streamable
// MCP endpoint may run on localhost, and a malicious page could otherwise use
// DNS rebinding to drive a victim's browser against it. Requests whose Host
// does not match an allowed pattern are rejected before reaching the MCP
// handler.
package security

import (
	"fmt"
	"log/slog"
	"strings"
)

// defaultAllowedHosts are always permitted: local development and the
// loopback deployments the server is bound to by default.
var defaultAllowedHosts = []string{
	"localhost:*",
	"127.0.0.1:*",
}

// Hosts validates HTTP Host headers against a set of allowed patterns.
// A pattern is either an exact "host" / "host:port" value or a "host:*"
// wildcard matching any port. Matching is case-insensitive.
type Hosts struct {
	patterns []string
	enabled  bool
}

// NewHosts creates a Host-header validator.
// extra patterns are appended to the built-in localhost entries.
// When enabled is false, every host is accepted.
func NewHosts(extra []string, enabled bool) *Hosts {
	patterns := make([]string, 0, len(defaultAllowedHosts)+len(extra))
	patterns = append(patterns, defaultAllowedHosts...)
	for _, p := range extra {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, strings.ToLower(p))
		}
	}
	return &Hosts{patterns: patterns, enabled: enabled}
}

// Enabled reports whether validation is active.
func (v *Hosts) Enabled() bool {
	return v.enabled
}

// ValidateHost checks a Host header value.
func (v *Hosts) ValidateHost(host string) error {
	if !v.enabled {
		return nil
	}
	if host == "" {
		return fmt.Errorf("missing Host header")
	}

	host = strings.ToLower(host)
	for _, pattern := range v.patterns {
		if matchHost(pattern, host) {
			return nil
		}
	}

	slog.Warn("rejected request host",
		"host", host,
		"security_event", "dns_rebinding_host")
	return fmt.Errorf("host %q is not allowed", host)
}

// matchHost matches one pattern against a host value.
// "name:*" matches "name" with any or no port; other patterns are exact.
func matchHost(pattern, host string) bool {
	if name, ok := strings.CutSuffix(pattern, ":*"); ok {
		return host == name || strings.HasPrefix(host, name+":")
	}
	return host == pattern
}
