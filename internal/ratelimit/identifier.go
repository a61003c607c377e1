package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Proxy headers checked for the real client address, most trustworthy
// first. Each candidate must be a plausible public IP before it is
// accepted.
var ipHeaders = []string{
	"CF-Connecting-IP", // Cloudflare
	"Client-IP",
	"X-Forwarded-For",
	"X-Forwarded",
	"X-Cluster-Client-IP",
	"Forwarded-For",
	"X-Real-IP",
}

// UserIdentifier derives the rate-limit key for an authenticated caller.
func UserIdentifier(userID int64) string {
	return fmt.Sprintf("user_%d", userID)
}

// IPIdentifier derives the rate-limit key for an anonymous caller from the
// resolved client address.
func IPIdentifier(r *http.Request) string {
	return "ip_" + ClientIP(r)
}

// ClientIP resolves the client address by walking the proxy headers and
// falling back to the raw connection address. The fallback is used even
// when it is a private address, so local deployments still get a stable
// identifier.
func ClientIP(r *http.Request) string {
	for _, header := range ipHeaders {
		value := r.Header.Get(header)
		if value == "" {
			continue
		}

		// Proxies may append comma-separated hops; the first entry is the
		// originating client.
		candidate := strings.TrimSpace(strings.Split(value, ",")[0])
		if isPublicIP(candidate) {
			return candidate
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host == "" {
		return "unknown"
	}
	return host
}

func isPublicIP(candidate string) bool {
	ip := net.ParseIP(candidate)
	if ip == nil {
		return false
	}
	return !ip.IsPrivate() && !ip.IsLoopback() && !ip.IsLinkLocalUnicast() &&
		!ip.IsLinkLocalMulticast() && !ip.IsUnspecified()
}
