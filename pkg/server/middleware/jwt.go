package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/loandesk/loandesk/pkg/identity"
	"github.com/loandesk/loandesk/pkg/token"
)

const bearerPrefix = "Bearer "

// TokenParser validates a raw bearer token.
type TokenParser interface {
	Parse(raw string) (*token.Claims, error)
}

// JWTAuthenticator is middleware that validates bearer tokens and attaches
// the caller's identity to the request context.
type JWTAuthenticator struct {
	Parser TokenParser
	// TrustedProxy reports whether X-Forwarded-For may be honoured for a
	// request arriving from ip. Nil trusts nobody.
	TrustedProxy func(ip string) bool
}

// NewJWTAuthenticator creates a new JWT authenticator middleware
func NewJWTAuthenticator(parser TokenParser, trustedProxy func(ip string) bool) *JWTAuthenticator {
	return &JWTAuthenticator{Parser: parser, TrustedProxy: trustedProxy}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// Middleware returns an HTTP middleware that validates bearer tokens
func (j *JWTAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			unauthorized(w, "Unauthorized")
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if raw == "" {
			unauthorized(w, "Unauthorized")
			return
		}

		claims, err := j.Parser.Parse(raw)
		if err != nil {
			unauthorized(w, "Invalid token")
			return
		}

		id := identity.FromClaims(claims).
			WithRemoteIP(net.ParseIP(ClientIP(r, j.TrustedProxy)))

		next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), id)))
	})
}

// ClientIP returns the address of the client. The left-most
// X-Forwarded-For entry is used only when the direct peer is trusted.
func ClientIP(r *http.Request, trustedProxy func(ip string) bool) string {
	peer := r.RemoteAddr
	if host, _, err := net.SplitHostPort(peer); err == nil {
		peer = host
	}

	if trustedProxy == nil || !trustedProxy(peer) {
		return peer
	}

	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded == "" {
		return peer
	}
	first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
	if net.ParseIP(first) == nil {
		return peer
	}
	return first
}
