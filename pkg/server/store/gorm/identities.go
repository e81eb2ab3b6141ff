package gorm

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/loandesk/loandesk/pkg/model"
	"github.com/loandesk/loandesk/pkg/server/store"
)

// Ensure IdentitiesStore implements store.IdentitiesStore
var _ store.IdentitiesStore = (*IdentitiesStore)(nil)

// IdentitiesStore implements store.IdentitiesStore using GORM
type IdentitiesStore struct {
	db *gorm.DB
}

// NewIdentitiesStore creates a new IdentitiesStore
func NewIdentitiesStore(db *gorm.DB) *IdentitiesStore {
	return &IdentitiesStore{db: db}
}

// CreateIdentity inserts an identity. Emails are stored lower-cased so the
// unique index also covers case variants.
func (s *IdentitiesStore) CreateIdentity(ctx context.Context, identity *model.Identity) error {
	identity.Email = strings.ToLower(strings.TrimSpace(identity.Email))
	err := s.db.WithContext(ctx).Create(identity).Error
	if isUniqueViolation(err) {
		return store.ErrDuplicateEmail
	}
	return err
}

// FetchIdentity retrieves an identity by ID
func (s *IdentitiesStore) FetchIdentity(ctx context.Context, id string) (*model.Identity, error) {
	var identity model.Identity
	tx := s.db.WithContext(ctx).Where("id = ?", id).First(&identity)
	if tx.Error != nil {
		return nil, translate(tx.Error)
	}
	return &identity, nil
}

// FetchIdentityByEmail retrieves an identity by email, ignoring case
func (s *IdentitiesStore) FetchIdentityByEmail(ctx context.Context, email string) (*model.Identity, error) {
	var identity model.Identity
	tx := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&identity)
	if tx.Error != nil {
		return nil, translate(tx.Error)
	}
	return &identity, nil
}

// ListIdentitiesByRole returns identities holding role, oldest first
func (s *IdentitiesStore) ListIdentitiesByRole(ctx context.Context, role model.Role) ([]model.Identity, error) {
	identities := make([]model.Identity, 0)
	tx := s.db.WithContext(ctx).Where("role = ?", role).Order("created_at asc").Find(&identities)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return identities, nil
}

// DeleteIdentity removes an identity by ID
func (s *IdentitiesStore) DeleteIdentity(ctx context.Context, id string) error {
	tx := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Identity{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
