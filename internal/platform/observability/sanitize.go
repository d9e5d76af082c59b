package observability

import (
	"strings"
	"unicode"
)

// Length caps, in runes, for request-derived values written to logs.
const (
	maxRouteLen    = 180
	maxMethodLen   = 10
	maxRenderIDLen = 64
	maxAddrLen     = 64
)

// clip drops control characters other than whitespace and truncates value to limit runes.
func clip(value string, limit int) string {
	var b strings.Builder
	n := 0
	for _, r := range value {
		if n == limit {
			break
		}
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

// SanitizeRoute bounds a route pattern or path for logging. Empty routes log as "/".
func SanitizeRoute(route string) string {
	if route == "" {
		return "/"
	}
	return clip(route, maxRouteLen)
}

// SanitizeMethod bounds an HTTP method for logging.
func SanitizeMethod(method string) string {
	return clip(method, maxMethodLen)
}

// SanitizeRenderID bounds render identifiers echoed from response headers.
func SanitizeRenderID(id string) string {
	return clip(id, maxRenderIDLen)
}
