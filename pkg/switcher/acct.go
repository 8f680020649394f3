// Copyright 2025-2026 Aiku AI

package switcher

import (
	"net/url"
	"strings"
)

// parseAcct splits an account handle into user and host. Accepted forms are
// "user", "@user", "user@host" and "@user@host". The host part, when
// present, is normalized. An empty host means "use the active host".
func parseAcct(acct string) (user, host string, err error) {
	if acct == "" {
		return "", "", ErrNoAcct
	}
	parts := strings.Split(strings.TrimPrefix(acct, "@"), "@")
	switch len(parts) {
	case 1:
		user = parts[0]
	case 2:
		user, host = parts[0], parts[1]
		if host == "" {
			return "", "", ErrMalformedAcct
		}
	default:
		return "", "", ErrMalformedAcct
	}
	if user == "" {
		return "", "", ErrMalformedAcct
	}
	return user, normalizeHost(host), nil
}

// normalizeHost reduces a hostname or URL to a lowercase host[:port] cache
// key: "https://Fosstodon.org/about" and "fosstodon.org" key the same client.
func normalizeHost(hostname string) string {
	h := strings.TrimSpace(hostname)
	if h == "" {
		return ""
	}
	if !strings.Contains(h, "://") {
		h = "https://" + h
	}
	u, err := url.Parse(h)
	if err != nil || u.Host == "" {
		return strings.ToLower(strings.Trim(strings.TrimSpace(hostname), "/"))
	}
	return strings.ToLower(u.Host)
}

// serverURL turns a host cache key back into a base URL for the API client.
func serverURL(host string) string {
	if strings.Contains(host, "://") {
		return host
	}
	return "https://" + host
}
