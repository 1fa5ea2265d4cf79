package utils

import (
	"net/http"
	"strings"
)

const (
	// HeaderRoomToken carries the capability token for clients that
	// cannot set an Authorization header (browser WebSocket upgrades).
	HeaderRoomToken = "X-Room-Token"

	bearerPrefix = "Bearer "
)

// GetBearerToken extracts the capability token from a request. The
// Authorization header wins; X-Room-Token and the "token" query
// parameter are accepted as fallbacks.
func GetBearerToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if strings.HasPrefix(auth, bearerPrefix) {
			return strings.TrimSpace(strings.TrimPrefix(auth, bearerPrefix))
		}
	}

	if token := r.Header.Get(HeaderRoomToken); token != "" {
		return token
	}

	return r.URL.Query().Get("token")
}
