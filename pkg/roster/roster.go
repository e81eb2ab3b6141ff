// Package roster manages the set of admin accounts. Every operation requires
// a super-admin caller.
package roster

import (
	"context"
	"errors"
	"strings"

	"github.com/loandesk/loandesk/pkg/apierr"
	"github.com/loandesk/loandesk/pkg/authenticator"
	"github.com/loandesk/loandesk/pkg/authz"
	"github.com/loandesk/loandesk/pkg/identity"
	"github.com/loandesk/loandesk/pkg/model"
	"github.com/loandesk/loandesk/pkg/server/store"
)

// NewAdmin is the input for Add.
type NewAdmin struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a NewAdmin) validate() error {
	var fields []string
	if strings.TrimSpace(a.Name) == "" {
		fields = append(fields, "name")
	}
	if strings.TrimSpace(a.Email) == "" {
		fields = append(fields, "email")
	}
	if a.Password == "" || len(a.Password) > authenticator.MaxPasswordBytes {
		fields = append(fields, "password")
	}
	if len(fields) > 0 {
		return apierr.Validation("invalid admin", fields...)
	}
	return nil
}

// Roster lists, adds and removes admins.
type Roster struct {
	identities store.IdentitiesStore
	authz      *authz.Authorizer
	cost       func() int
}

// New creates a Roster. cost returns the bcrypt work factor for new
// passwords; nil means authenticator.DefaultCost.
func New(identities store.IdentitiesStore, authorizer *authz.Authorizer, cost func() int) *Roster {
	if cost == nil {
		cost = func() int { return authenticator.DefaultCost }
	}
	return &Roster{identities: identities, authz: authorizer, cost: cost}
}

func (r *Roster) authorize(id *identity.Identity) error {
	if id == nil {
		return apierr.Unauthenticated("Unauthorized")
	}
	if !r.authz.Authorize(id, authz.AdminManage, authz.AnyTarget).Allowed {
		return apierr.Forbidden("Only Super Admin can perform this action")
	}
	return nil
}

// List returns every identity with the admin role.
func (r *Roster) List(ctx context.Context, caller *identity.Identity) ([]model.Identity, error) {
	if err := r.authorize(caller); err != nil {
		return nil, err
	}
	admins, err := r.identities.ListIdentitiesByRole(ctx, model.RoleAdmin)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return admins, nil
}

// Add creates a new admin account.
func (r *Roster) Add(ctx context.Context, caller *identity.Identity, in NewAdmin) (*model.Identity, error) {
	if err := r.authorize(caller); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	if _, err := r.identities.FetchIdentityByEmail(ctx, in.Email); err == nil {
		return nil, apierr.Conflict("Admin already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, apierr.Internal(err)
	}

	hash, err := authenticator.HashPassword(in.Password, r.cost())
	if err != nil {
		return nil, apierr.Internal(err)
	}

	admin := &model.Identity{
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if err := r.identities.CreateIdentity(ctx, admin); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, apierr.Conflict("Admin already exists")
		}
		return nil, apierr.Internal(err)
	}
	return admin, nil
}

// Remove deletes the admin with the given ID. Identities holding any other
// role are reported as not found.
func (r *Roster) Remove(ctx context.Context, caller *identity.Identity, adminID string) (*model.Identity, error) {
	if err := r.authorize(caller); err != nil {
		return nil, err
	}

	admin, err := r.identities.FetchIdentity(ctx, adminID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apierr.NotFound("Admin not found")
		}
		return nil, apierr.Internal(err)
	}
	if admin.Role != model.RoleAdmin {
		return nil, apierr.NotFound("Admin not found")
	}

	if err := r.identities.DeleteIdentity(ctx, adminID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apierr.NotFound("Admin not found")
		}
		return nil, apierr.Internal(err)
	}
	return admin, nil
}
