package geo

import (
	"net"
	"strings"
)

// IsLoopback reports whether ip is a loopback address (127.0.0.0/8, ::1,
// an IPv4-mapped loopback) or the literal "localhost".
func IsLoopback(ip string) bool {
	ip = strings.TrimSpace(ip)
	if strings.EqualFold(ip, "localhost") {
		return true
	}
	parsed := net.ParseIP(ip)
	return parsed != nil && parsed.IsLoopback()
}
