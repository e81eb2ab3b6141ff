// Package accounts implements self-service registration and login.
//
// Login is delegated to an authenticator.Registry so the configured
// super-admin is provisioned by the bootstrap authenticator before regular
// password authentication is tried.
package accounts

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/loandesk/loandesk/pkg/apierr"
	"github.com/loandesk/loandesk/pkg/authenticator"
	"github.com/loandesk/loandesk/pkg/model"
	"github.com/loandesk/loandesk/pkg/server/store"
	"github.com/loandesk/loandesk/pkg/token"
)

// Keys are the shared secrets required to self-register as admin or
// verifier. An empty key disables registration for that role.
// SuperAdminEmail is reserved for the bootstrap authenticator and cannot be
// registered under any role.
type Keys struct {
	AdminKey        string
	VerifierKey     string
	SuperAdminEmail string
}

// Registration is the input for Register.
type Registration struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	AdminKey    string `json:"adminKey,omitempty"`
	VerifierKey string `json:"verifierKey,omitempty"`
}

// Credentials is the input for Login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *model.Identity
	// Authenticator names the authenticator that accepted the credentials.
	Authenticator string
}

// Accounts registers and logs in identities.
type Accounts struct {
	identities store.IdentitiesStore
	registry   *authenticator.Registry
	issuer     *token.Issuer
	keys       func() Keys
	cost       func() int
}

// New creates Accounts. keys and cost are read on every call.
func New(
	identities store.IdentitiesStore,
	registry *authenticator.Registry,
	issuer *token.Issuer,
	keys func() Keys,
	cost func() int,
) *Accounts {
	if cost == nil {
		cost = func() int { return authenticator.DefaultCost }
	}
	return &Accounts{
		identities: identities,
		registry:   registry,
		issuer:     issuer,
		keys:       keys,
		cost:       cost,
	}
}

const superAdminDenied = "Access denied: super-admin cannot be registered"

func keyMatches(configured, supplied string) bool {
	if configured == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(configured), []byte(supplied)) == 1
}

// Register creates an identity. The role defaults to user; admin and
// verifier require the matching key and super-admin cannot be registered.
func (a *Accounts) Register(ctx context.Context, in Registration) (*model.Identity, error) {
	role := model.RoleUser
	if in.Role != "" {
		parsed, err := model.ParseRole(in.Role)
		if err != nil {
			return nil, apierr.Validation("invalid role", "role")
		}
		role = parsed
	}

	keys := a.keys()
	switch role {
	case model.RoleAdmin:
		if !keyMatches(keys.AdminKey, in.AdminKey) {
			return nil, apierr.Forbidden("Invalid admin key")
		}
	case model.RoleVerifier:
		if !keyMatches(keys.VerifierKey, in.VerifierKey) {
			return nil, apierr.Forbidden("Invalid verifier key")
		}
	case model.RoleSuperAdmin:
		return nil, apierr.Forbidden(superAdminDenied)
	}
	if keys.SuperAdminEmail != "" && strings.EqualFold(strings.TrimSpace(in.Email), keys.SuperAdminEmail) {
		return nil, apierr.Forbidden(superAdminDenied)
	}

	var fields []string
	if strings.TrimSpace(in.Name) == "" {
		fields = append(fields, "name")
	}
	if strings.TrimSpace(in.Email) == "" {
		fields = append(fields, "email")
	}
	if in.Password == "" || len(in.Password) > authenticator.MaxPasswordBytes {
		fields = append(fields, "password")
	}
	if len(fields) > 0 {
		return nil, apierr.Validation("invalid registration", fields...)
	}

	if _, err := a.identities.FetchIdentityByEmail(ctx, in.Email); err == nil {
		return nil, apierr.Conflict("User already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, apierr.Internal(err)
	}

	hash, err := authenticator.HashPassword(in.Password, a.cost())
	if err != nil {
		return nil, apierr.Internal(err)
	}

	id := &model.Identity{
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := a.identities.CreateIdentity(ctx, id); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, apierr.Conflict("User already exists")
		}
		return nil, apierr.Internal(err)
	}
	return id, nil
}

// Login authenticates the credentials and issues a session token.
func (a *Accounts) Login(ctx context.Context, in Credentials, clientIP string) (*Session, error) {
	id, name, err := a.registry.AuthenticateNamed(ctx, authenticator.Input{
		Email:    strings.TrimSpace(in.Email),
		Password: in.Password,
		ClientIP: clientIP,
	})
	switch {
	case errors.Is(err, authenticator.ErrUnknownIdentity):
		return nil, apierr.NotFound("User not found")
	case errors.Is(err, authenticator.ErrBadCredentials):
		return nil, apierr.Unauthenticated("Invalid credentials")
	case errors.Is(err, authenticator.ErrRoleMismatch):
		return nil, apierr.Forbidden("Access denied")
	case err != nil:
		return nil, apierr.Internal(err)
	}

	signed, expiresAt, err := a.issuer.Issue(id.ID, id.Role)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return &Session{Token: signed, ExpiresAt: expiresAt, User: id, Authenticator: name}, nil
}
