package store

import (
	"context"

	"github.com/loandesk/loandesk/pkg/model"
)

// IdentitiesStore abstracts identity storage operations
type IdentitiesStore interface {
	// CreateIdentity inserts a new identity.
	// Returns ErrDuplicateEmail if the email is already taken.
	CreateIdentity(ctx context.Context, identity *model.Identity) error

	// FetchIdentity retrieves an identity by ID.
	// Returns ErrNotFound if it doesn't exist.
	FetchIdentity(ctx context.Context, id string) (*model.Identity, error)

	// FetchIdentityByEmail retrieves an identity by email.
	// Returns ErrNotFound if it doesn't exist.
	FetchIdentityByEmail(ctx context.Context, email string) (*model.Identity, error)

	// ListIdentitiesByRole returns every identity holding role, oldest first.
	ListIdentitiesByRole(ctx context.Context, role model.Role) ([]model.Identity, error)

	// DeleteIdentity removes an identity.
	// Returns ErrNotFound if it doesn't exist.
	DeleteIdentity(ctx context.Context, id string) error
}
