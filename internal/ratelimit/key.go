package ratelimit

import "strings"

// KeyForClient builds the limiter key for a console client address.
func KeyForClient(clientIP string) string {
	clientIP = strings.TrimSpace(clientIP)
	if clientIP == "" {
		return ""
	}
	return "ip:" + clientIP
}
