// Package memory provides process-local implementations of the store
// interfaces. Data does not survive a restart.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/loandesk/loandesk/pkg/model"
	"github.com/loandesk/loandesk/pkg/server/store"
)

var (
	_ store.IdentitiesStore = (*Store)(nil)
	_ store.LoansStore      = (*Store)(nil)
	_ store.HealthStore     = (*Store)(nil)
)

// Store keeps identities and loan applications in maps guarded by one lock.
type Store struct {
	mu sync.RWMutex

	identitiesByID map[string]model.Identity
	identityByMail map[string]string
	loansByID      map[string]model.LoanApplication

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		identitiesByID: make(map[string]model.Identity),
		identityByMail: make(map[string]string),
		loansByID:      make(map[string]model.LoanApplication),
		now:            time.Now,
	}
}

func (s *Store) CheckConnectivity(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) CreateIdentity(ctx context.Context, identity *model.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	identity.Email = normalizeEmail(identity.Email)
	if _, exists := s.identityByMail[identity.Email]; exists {
		return store.ErrDuplicateEmail
	}
	if err := identity.BeforeCreate(nil); err != nil {
		return err
	}
	now := s.now().UTC()
	if identity.CreatedAt.IsZero() {
		identity.CreatedAt = now
	}
	identity.UpdatedAt = now

	s.identitiesByID[identity.ID] = *identity
	s.identityByMail[identity.Email] = identity.ID
	return nil
}

func (s *Store) FetchIdentity(ctx context.Context, id string) (*model.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	identity, ok := s.identitiesByID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &identity, nil
}

func (s *Store) FetchIdentityByEmail(ctx context.Context, email string) (*model.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.identityByMail[normalizeEmail(email)]
	if !ok {
		return nil, store.ErrNotFound
	}
	identity := s.identitiesByID[id]
	return &identity, nil
}

func (s *Store) ListIdentitiesByRole(ctx context.Context, role model.Role) ([]model.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	identities := make([]model.Identity, 0)
	for _, identity := range s.identitiesByID {
		if identity.Role == role {
			identities = append(identities, identity)
		}
	}
	sort.SliceStable(identities, func(i, j int) bool {
		return identities[i].CreatedAt.Before(identities[j].CreatedAt)
	})
	return identities, nil
}

func (s *Store) DeleteIdentity(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	identity, ok := s.identitiesByID[id]
	if !ok {
		return store.ErrNotFound
	}
	delete(s.identitiesByID, id)
	delete(s.identityByMail, identity.Email)
	return nil
}

func (s *Store) CreateLoan(ctx context.Context, loan *model.LoanApplication) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := loan.BeforeCreate(nil); err != nil {
		return err
	}
	now := s.now().UTC()
	if loan.CreatedAt.IsZero() {
		loan.CreatedAt = now
	}
	loan.UpdatedAt = loan.CreatedAt

	s.loansByID[loan.ID] = *loan
	return nil
}

func (s *Store) FetchLoan(ctx context.Context, id string) (*model.LoanApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loan, ok := s.loansByID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &loan, nil
}

func (s *Store) ListLoans(ctx context.Context) ([]model.LoanApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loans := make([]model.LoanApplication, 0, len(s.loansByID))
	for _, loan := range s.loansByID {
		loans = append(loans, loan)
	}
	sortLoans(loans, store.SortCreatedAt, true)
	return loans, nil
}

func (s *Store) ListLoansByOwner(ctx context.Context, query store.LoanQuery) ([]model.LoanApplication, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(query.Search)
	matched := make([]model.LoanApplication, 0)
	for _, loan := range s.loansByID {
		if loan.OwnerID != query.OwnerID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(loan.FullName), search) {
			continue
		}
		if query.Status != "" && loan.Status != query.Status {
			continue
		}
		matched = append(matched, loan)
	}
	sortLoans(matched, query.SortField, query.Descending)

	total := int64(len(matched))
	start := query.Offset
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if query.Limit > 0 && start+query.Limit < end {
		end = start + query.Limit
	}
	return matched[start:end], total, nil
}

func (s *Store) UpdateLoanStatus(ctx context.Context, id string, status model.Status, updatedAt time.Time) (*model.LoanApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loan, ok := s.loansByID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	loan.Status = status
	loan.UpdatedAt = updatedAt
	s.loansByID[id] = loan
	return &loan, nil
}

func sortLoans(loans []model.LoanApplication, field store.SortField, descending bool) {
	less := lessFor(field)
	sort.SliceStable(loans, func(i, j int) bool {
		a, b := loans[i], loans[j]
		if descending {
			a, b = b, a
		}
		if less(a, b) {
			return true
		}
		if less(b, a) {
			return false
		}
		return a.ID < b.ID
	})
}

func lessFor(field store.SortField) func(a, b model.LoanApplication) bool {
	switch field {
	case store.SortUpdatedAt:
		return func(a, b model.LoanApplication) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	case store.SortLoanAmount:
		return func(a, b model.LoanApplication) bool { return a.LoanAmount < b.LoanAmount }
	case store.SortLoanTenure:
		return func(a, b model.LoanApplication) bool { return a.LoanTenure < b.LoanTenure }
	case store.SortFullName:
		return func(a, b model.LoanApplication) bool { return a.FullName < b.FullName }
	case store.SortStatus:
		return func(a, b model.LoanApplication) bool { return a.Status < b.Status }
	default:
		return func(a, b model.LoanApplication) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
