package authn

import (
	"context"
	"errors"
	"fmt"

	"github.com/loandesk/loandesk/pkg/authenticator"
	"github.com/loandesk/loandesk/pkg/model"
	"github.com/loandesk/loandesk/pkg/server/store"
)

// Store abstracts the storage operations needed by the password authenticator
type Store interface {
	FetchIdentityByEmail(ctx context.Context, email string) (*model.Identity, error)
}

// Authenticator implements email and password authentication
type Authenticator struct {
	store Store
}

// New creates a new password authenticator
func New(store Store) *Authenticator {
	return &Authenticator{store: store}
}

// Name returns the authenticator name
func (a *Authenticator) Name() string {
	return "authn"
}

// Authenticate looks the identity up by email and checks the password
// against its stored bcrypt hash.
func (a *Authenticator) Authenticate(ctx context.Context, input authenticator.Input) (*model.Identity, error) {
	if input.Email == "" {
		return nil, authenticator.ErrUnknownIdentity
	}

	id, err := a.store.FetchIdentityByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, authenticator.ErrUnknownIdentity
		}
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	if !authenticator.ComparePassword(id.PasswordHash, input.Password) {
		return nil, authenticator.ErrBadCredentials
	}
	return id, nil
}
