package store

import (
	"context"
	"time"

	"github.com/loandesk/loandesk/pkg/model"
)

// SortField names a sortable loan attribute as exposed on the API.
type SortField string

const (
	SortCreatedAt  SortField = "createdAt"
	SortUpdatedAt  SortField = "updatedAt"
	SortLoanAmount SortField = "loanAmount"
	SortLoanTenure SortField = "loanTenure"
	SortFullName   SortField = "fullName"
	SortStatus     SortField = "status"
)

var sortColumns = map[SortField]string{
	SortCreatedAt:  "created_at",
	SortUpdatedAt:  "updated_at",
	SortLoanAmount: "loan_amount",
	SortLoanTenure: "loan_tenure",
	SortFullName:   "full_name",
	SortStatus:     "status",
}

// ParseSortField returns the sort field for s, falling back to createdAt for
// unknown values.
func ParseSortField(s string) SortField {
	if _, ok := sortColumns[SortField(s)]; ok {
		return SortField(s)
	}
	return SortCreatedAt
}

// Column returns the database column backing f.
func (f SortField) Column() string {
	if c, ok := sortColumns[f]; ok {
		return c
	}
	return sortColumns[SortCreatedAt]
}

// LoanQuery filters an owner's loan applications.
type LoanQuery struct {
	OwnerID string
	// Search is matched case-insensitively as a substring of FullName.
	Search string
	// Status restricts results to an exact status; empty means any.
	Status     model.Status
	SortField  SortField
	Descending bool
	Limit      int
	Offset     int
}

// LoansStore abstracts loan application storage operations
type LoansStore interface {
	// CreateLoan inserts a new loan application.
	CreateLoan(ctx context.Context, loan *model.LoanApplication) error

	// FetchLoan retrieves a loan application by ID.
	// Returns ErrNotFound if it doesn't exist.
	FetchLoan(ctx context.Context, id string) (*model.LoanApplication, error)

	// ListLoans returns every loan application, newest first.
	ListLoans(ctx context.Context) ([]model.LoanApplication, error)

	// ListLoansByOwner returns one page of an owner's loan applications
	// together with the total number matching the query.
	ListLoansByOwner(ctx context.Context, query LoanQuery) ([]model.LoanApplication, int64, error)

	// UpdateLoanStatus sets the status of a loan application in a single
	// statement and returns the updated record. Concurrent updates are
	// last-write-wins.
	// Returns ErrNotFound if it doesn't exist.
	UpdateLoanStatus(ctx context.Context, id string, status model.Status, updatedAt time.Time) (*model.LoanApplication, error)
}
