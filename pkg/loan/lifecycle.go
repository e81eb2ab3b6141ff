// Package loan implements the loan application lifecycle: submission,
// listing and role-gated status transitions.
package loan

import (
	"context"
	"errors"
	"time"

	"github.com/loandesk/loandesk/pkg/apierr"
	"github.com/loandesk/loandesk/pkg/authz"
	"github.com/loandesk/loandesk/pkg/identity"
	"github.com/loandesk/loandesk/pkg/model"
	"github.com/loandesk/loandesk/pkg/server/store"
)

// Lifecycle runs loan application operations against a store.
type Lifecycle struct {
	loans       store.LoansStore
	authz       *authz.Authorizer
	now         func() time.Time
	maxPageSize func() int
}

// Option configures a Lifecycle.
type Option func(*Lifecycle)

// WithClock overrides the time source used for updatedAt.
func WithClock(now func() time.Time) Option {
	return func(l *Lifecycle) { l.now = now }
}

// WithMaxPageSize caps the page size of owner listings. It is read on every
// call.
func WithMaxPageSize(max func() int) Option {
	return func(l *Lifecycle) { l.maxPageSize = max }
}

// New creates a Lifecycle.
func New(loans store.LoansStore, authorizer *authz.Authorizer, opts ...Option) *Lifecycle {
	l := &Lifecycle{
		loans:       loans,
		authz:       authorizer,
		now:         time.Now,
		maxPageSize: func() int { return 0 },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// StatusChange is the result of a transition.
type StatusChange struct {
	Loan *model.LoanApplication
	From model.Status
}

// Create validates app and stores it as a pending application owned by
// ownerID.
func (l *Lifecycle) Create(ctx context.Context, ownerID string, app Application) (*model.LoanApplication, error) {
	if ownerID == "" {
		return nil, apierr.Unauthenticated("Unauthorized")
	}
	if err := app.Validate(); err != nil {
		return nil, err
	}

	loan := app.toModel(ownerID)
	if err := l.loans.CreateLoan(ctx, loan); err != nil {
		return nil, apierr.Internal(err)
	}
	return loan, nil
}

// Submit creates an application owned by the caller, who must be allowed
// to submit.
func (l *Lifecycle) Submit(ctx context.Context, id *identity.Identity, app Application) (*model.LoanApplication, error) {
	if err := l.authorize(id, authz.LoanSubmit, authz.AnyTarget); err != nil {
		return nil, err
	}
	return l.Create(ctx, id.SubjectID, app)
}

// ListAll returns every application, newest first.
func (l *Lifecycle) ListAll(ctx context.Context, id *identity.Identity) ([]model.LoanApplication, error) {
	if err := l.authorize(id, authz.LoanListAll, authz.AnyTarget); err != nil {
		return nil, err
	}
	loans, err := l.loans.ListLoans(ctx)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return loans, nil
}

// ListOwn returns one page of ownerID's applications.
func (l *Lifecycle) ListOwn(ctx context.Context, ownerID string, filter Filter) (*Page, error) {
	if ownerID == "" {
		return nil, apierr.Unauthenticated("Unauthorized")
	}
	f, err := filter.normalize(l.maxPageSize())
	if err != nil {
		return nil, err
	}

	loans, total, err := l.loans.ListLoansByOwner(ctx, f.query(ownerID))
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return &Page{
		Loans:       loans,
		TotalPages:  totalPages(total, f.PageSize),
		CurrentPage: f.Page,
		Total:       total,
	}, nil
}

// ListOwnFor lists the caller's own applications, if the caller may.
func (l *Lifecycle) ListOwnFor(ctx context.Context, id *identity.Identity, filter Filter) (*Page, error) {
	if err := l.authorize(id, authz.LoanListOwn, authz.AnyTarget); err != nil {
		return nil, err
	}
	return l.ListOwn(ctx, id.SubjectID, filter)
}

// Transition moves a loan to newStatus. The status is validated first, then
// the caller's role, then the loan's existence. Any current status may move
// to any target the role permits; concurrent transitions are last-write-wins.
func (l *Lifecycle) Transition(ctx context.Context, loanID string, id *identity.Identity, newStatus string) (*StatusChange, error) {
	status, err := model.ParseStatus(newStatus)
	if err != nil {
		return nil, apierr.InvalidStatus(newStatus)
	}

	if err := l.authorize(id, authz.LoanSetStatus, status.String()); err != nil {
		return nil, err
	}

	current, err := l.loans.FetchLoan(ctx, loanID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apierr.NotFound("Loan not found")
		}
		return nil, apierr.Internal(err)
	}

	updated, err := l.loans.UpdateLoanStatus(ctx, loanID, status, l.now().UTC())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apierr.NotFound("Loan not found")
		}
		return nil, apierr.Internal(err)
	}
	return &StatusChange{Loan: updated, From: current.Status}, nil
}

func (l *Lifecycle) authorize(id *identity.Identity, action, target string) error {
	if id == nil {
		return apierr.Unauthenticated("Unauthorized")
	}
	decision := l.authz.Authorize(id, action, target)
	if decision.Allowed {
		return nil
	}
	if action == authz.LoanSetStatus && id.Role.Valid() {
		return apierr.Forbidden("%s cannot set status to %s", id.Role, target)
	}
	return apierr.Forbidden("Access denied: %s", decision.Reason)
}
