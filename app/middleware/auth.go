package appMiddleware

import (
	"net/http"
	"strings"
)

// BearerToken returns the token from an "Authorization: Bearer <token>"
// header. ok is false when the header is absent or has another shape.
func BearerToken(r *http.Request) (token string, ok bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	headerParts := strings.Fields(authHeader)
	if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "bearer") {
		return "", false
	}
	return headerParts[1], true
}
