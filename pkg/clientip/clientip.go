package clientip

import (
	"net"
	"net/http"
	"strings"
)

// RealClientIP returns the normalized client IP for rate-limit keys and audit
// rows. X-Forwarded-For wins when a proxy sets it (first hop), then
// X-Real-IP, then RemoteAddr. IPv4-mapped IPv6 addresses are reduced to their
// IPv4 form so the same client never occupies two buckets.
func RealClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return normalize(strings.TrimSpace(parts[0]))
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return normalize(strings.TrimSpace(realIP))
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return normalize(strings.TrimSpace(r.RemoteAddr))
	}
	return normalize(host)
}

func normalize(ip string) string {
	if strings.HasPrefix(ip, "::ffff:") {
		return strings.TrimPrefix(ip, "::ffff:")
	}
	return ip
}
