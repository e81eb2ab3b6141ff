package gorm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/loandesk/loandesk/pkg/model"
	"github.com/loandesk/loandesk/pkg/server/store"
)

// Ensure LoansStore implements store.LoansStore
var _ store.LoansStore = (*LoansStore)(nil)

// LoansStore implements store.LoansStore using GORM
type LoansStore struct {
	db *gorm.DB
}

// NewLoansStore creates a new LoansStore
func NewLoansStore(db *gorm.DB) *LoansStore {
	return &LoansStore{db: db}
}

// CreateLoan inserts a loan application
func (s *LoansStore) CreateLoan(ctx context.Context, loan *model.LoanApplication) error {
	return s.db.WithContext(ctx).Create(loan).Error
}

// FetchLoan retrieves a loan application by ID
func (s *LoansStore) FetchLoan(ctx context.Context, id string) (*model.LoanApplication, error) {
	var loan model.LoanApplication
	tx := s.db.WithContext(ctx).Where("id = ?", id).First(&loan)
	if tx.Error != nil {
		return nil, translate(tx.Error)
	}
	return &loan, nil
}

// ListLoans returns every loan application, newest first
func (s *LoansStore) ListLoans(ctx context.Context) ([]model.LoanApplication, error) {
	loans := make([]model.LoanApplication, 0)
	tx := s.db.WithContext(ctx).Order("created_at desc, id desc").Find(&loans)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return loans, nil
}

// ListLoansByOwner returns a filtered, sorted page of an owner's loans and the
// total number of matches.
func (s *LoansStore) ListLoansByOwner(ctx context.Context, query store.LoanQuery) ([]model.LoanApplication, int64, error) {
	filter := func(tx *gorm.DB) *gorm.DB {
		tx = tx.Where("owner_id = ?", query.OwnerID)
		if query.Search != "" {
			tx = tx.Where("full_name ILIKE ?", "%"+escapeLike(query.Search)+"%")
		}
		if query.Status != "" {
			tx = tx.Where("status = ?", query.Status)
		}
		return tx
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&model.LoanApplication{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	direction := "asc"
	if query.Descending {
		direction = "desc"
	}

	// id breaks ties so pages stay disjoint when sort values repeat
	loans := make([]model.LoanApplication, 0)
	tx := s.db.WithContext(ctx).
		Scopes(filter).
		Order(fmt.Sprintf("%s %s, id %s", query.SortField.Column(), direction, direction)).
		Limit(query.Limit).
		Offset(query.Offset).
		Find(&loans)
	if tx.Error != nil {
		return nil, 0, tx.Error
	}
	return loans, total, nil
}

// UpdateLoanStatus sets the status in one statement and returns the new row
func (s *LoansStore) UpdateLoanStatus(ctx context.Context, id string, status model.Status, updatedAt time.Time) (*model.LoanApplication, error) {
	var loans []model.LoanApplication
	tx := s.db.WithContext(ctx).Raw(
		`UPDATE loan_applications SET status = ?, updated_at = ? WHERE id = ? RETURNING *`,
		status, updatedAt, id,
	).Scan(&loans)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if len(loans) == 0 {
		return nil, store.ErrNotFound
	}
	return &loans[0], nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
