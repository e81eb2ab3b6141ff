// Package bootstrap provisions the super-admin account from configured
// credentials the first time they are used to log in.
package bootstrap

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/loandesk/loandesk/pkg/authenticator"
	"github.com/loandesk/loandesk/pkg/model"
	"github.com/loandesk/loandesk/pkg/server/store"
)

// DefaultName is the display name given to a freshly provisioned super-admin.
const DefaultName = "Super Admin"

// Credentials are the configured super-admin email and password.
type Credentials struct {
	Email    string
	Password string
}

// Store abstracts the storage operations needed by the bootstrap authenticator
type Store interface {
	FetchIdentityByEmail(ctx context.Context, email string) (*model.Identity, error)
	CreateIdentity(ctx context.Context, identity *model.Identity) error
}

// Authenticator logs the configured super-admin in, creating the account
// on first use.
type Authenticator struct {
	store       Store
	credentials func() Credentials
	cost        func() int
}

// New creates a bootstrap authenticator. credentials and cost are consulted
// on every attempt so rotated settings apply without a restart.
func New(store Store, credentials func() Credentials, cost func() int) *Authenticator {
	return &Authenticator{store: store, credentials: credentials, cost: cost}
}

// Name returns the authenticator name
func (a *Authenticator) Name() string {
	return "bootstrap"
}

// Authenticate returns ErrNotApplicable unless input matches the configured
// credentials exactly. An existing super-admin with the configured email is
// returned as-is; an existing account holding any other role yields
// ErrRoleMismatch.
func (a *Authenticator) Authenticate(ctx context.Context, input authenticator.Input) (*model.Identity, error) {
	creds := a.credentials()
	if creds.Email == "" || creds.Password == "" {
		return nil, authenticator.ErrNotApplicable
	}
	if !strings.EqualFold(strings.TrimSpace(input.Email), creds.Email) ||
		subtle.ConstantTimeCompare([]byte(input.Password), []byte(creds.Password)) != 1 {
		return nil, authenticator.ErrNotApplicable
	}

	id, err := a.store.FetchIdentityByEmail(ctx, creds.Email)
	if err == nil {
		return superAdmin(id)
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up super-admin: %w", err)
	}

	hash, err := authenticator.HashPassword(creds.Password, a.cost())
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id = &model.Identity{
		Name:         DefaultName,
		Email:        creds.Email,
		PasswordHash: hash,
		Role:         model.RoleSuperAdmin,
	}
	err = a.store.CreateIdentity(ctx, id)
	if errors.Is(err, store.ErrDuplicateEmail) {
		// lost a race with a concurrent first login
		id, err = a.store.FetchIdentityByEmail(ctx, creds.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to look up super-admin: %w", err)
		}
		return superAdmin(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create super-admin: %w", err)
	}
	return id, nil
}

func superAdmin(id *model.Identity) (*model.Identity, error) {
	if !id.IsSuperAdmin() {
		return nil, fmt.Errorf("%w: %s holds role %s", authenticator.ErrRoleMismatch, id.Email, id.Role)
	}
	return id, nil
}
