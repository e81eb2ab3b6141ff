package identity

import (
	"context"
	"net"
	"time"

	"github.com/loandesk/loandesk/pkg/model"
	"github.com/loandesk/loandesk/pkg/token"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// Identity represents the authenticated identity for a request.
type Identity struct {
	// Token claims
	SubjectID string
	Role      model.Role
	IssuedAt  time.Time
	ExpiresAt time.Time

	// Request context
	RemoteIP net.IP
}

// FromClaims creates an Identity from verified token claims.
func FromClaims(claims *token.Claims) *Identity {
	id := &Identity{
		SubjectID: claims.ID,
		Role:      claims.Role,
	}
	if claims.IssuedAt != nil {
		id.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id
}

// WithRemoteIP sets the client IP address.
func (id *Identity) WithRemoteIP(ip net.IP) *Identity {
	id.RemoteIP = ip
	return id
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}
