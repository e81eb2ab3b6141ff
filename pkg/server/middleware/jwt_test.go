package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loandesk/loandesk/pkg/identity"
	"github.com/loandesk/loandesk/pkg/model"
	"github.com/loandesk/loandesk/pkg/token"
)

func newIssuer(t *testing.T, opts ...token.Option) *token.Issuer {
	t.Helper()
	issuer, err := token.NewIssuer([]byte("middleware-secret"), opts...)
	require.NoError(t, err)
	return issuer
}

func serve(t *testing.T, auth *JWTAuthenticator, header string) (*httptest.ResponseRecorder, *identity.Identity) {
	t.Helper()

	var seen *identity.Identity
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = identity.Get(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/loans/status", nil)
	req.RemoteAddr = "10.0.0.5:41234"
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w, seen
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["message"]
}

func TestMiddleware_Rejects(t *testing.T) {
	issuer := newIssuer(t)
	other, err := token.NewIssuer([]byte("someone-else"))
	require.NoError(t, err)
	forged, _, err := other.Issue("user-1", model.RoleAdmin)
	require.NoError(t, err)

	past := time.Now().Add(-48 * time.Hour)
	expired, _, err := newIssuer(t, token.WithClock(func() time.Time { return past })).Issue("user-1", model.RoleUser)
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{"missing header", "", "Unauthorized"},
		{"wrong scheme", "Token abc", "Unauthorized"},
		{"empty bearer", "Bearer ", "Unauthorized"},
		{"garbage", "Bearer not-a-jwt", "Invalid token"},
		{"wrong secret", "Bearer " + forged, "Invalid token"},
		{"expired", "Bearer " + expired, "Invalid token"},
	}

	auth := NewJWTAuthenticator(issuer, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, seen := serve(t, auth, tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.message, message(t, w))
			assert.Nil(t, seen)
		})
	}
}

func TestMiddleware_AttachesIdentity(t *testing.T) {
	issuer := newIssuer(t)
	raw, _, err := issuer.Issue("user-1", model.RoleVerifier)
	require.NoError(t, err)

	w, seen := serve(t, NewJWTAuthenticator(issuer, nil), "Bearer "+raw)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "user-1", seen.SubjectID)
	assert.Equal(t, model.RoleVerifier, seen.Role)
	assert.Equal(t, "10.0.0.5", seen.RemoteIP.String())
}

func TestClientIP(t *testing.T) {
	trusted := func(ip string) bool { return ip == "10.0.0.5" }

	tests := []struct {
		name      string
		remote    string
		forwarded string
		trusted   func(string) bool
		want      string
	}{
		{"no proxy", "192.168.1.9:5000", "", trusted, "192.168.1.9"},
		{"untrusted peer ignores header", "192.168.1.9:5000", "1.2.3.4", trusted, "192.168.1.9"},
		{"trusted peer", "10.0.0.5:5000", "1.2.3.4, 10.0.0.5", trusted, "1.2.3.4"},
		{"trusted peer bad header", "10.0.0.5:5000", "nonsense", trusted, "10.0.0.5"},
		{"nil trust", "10.0.0.5:5000", "1.2.3.4", nil, "10.0.0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, ClientIP(req, tt.trusted))
		})
	}
}
