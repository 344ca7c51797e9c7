package line

import (
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the LINE platform API root.
const DefaultBaseURL = "https://api.line.me"

const defaultTimeout = 10 * time.Second

// NewHTTPClient returns the client used for outbound LINE calls.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultTimeout}
}

func normalizeBaseURL(base string) string {
	base = strings.TrimSuffix(strings.TrimSpace(base), "/")
	if base == "" {
		return DefaultBaseURL
	}
	return base
}
