package httpx

import (
	"net/http"
	"strings"
)

// BearerToken extracts a bearer token from the Authorization header. The
// second return is false when the header is absent or uses another scheme.
func BearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if authz == "" {
		return "", false
	}

	scheme, token, found := strings.Cut(authz, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

// WriteBearerError writes an RFC 6750 style unauthorized response alongside
// the JSON error body.
func WriteBearerError(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="unable to verify token"`)
	ErrInvalidToken.WriteError(w)
}
