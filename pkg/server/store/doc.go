// Package store provides storage abstractions for the loandesk server.
//
// This package defines interfaces for database operations, allowing the
// services and endpoints to be decoupled from the specific database
// implementation. Two implementations exist:
//
//   - store/gorm: PostgreSQL through GORM (production)
//   - store/memory: process-local maps (tests and --store memory)
//
// # Available Stores
//
//   - IdentitiesStore: account records, unique by email
//   - LoansStore: loan applications and their status
//   - HealthStore: backend connectivity
//
// # Usage
//
//	loans := gormstore.NewLoansStore(db)
//	loan, err := loans.FetchLoan(ctx, id)
//	if err != nil {
//	    if errors.Is(err, store.ErrNotFound) {
//	        // Handle not found
//	    }
//	}
package store
