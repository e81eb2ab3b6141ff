package loan

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loandesk/loandesk/pkg/apierr"
	"github.com/loandesk/loandesk/pkg/authz"
	"github.com/loandesk/loandesk/pkg/identity"
	"github.com/loandesk/loandesk/pkg/model"
	"github.com/loandesk/loandesk/pkg/server/store/memory"
)

func janeDoe() Application {
	return Application{
		FullName:           "Jane Doe",
		LoanAmount:         5000,
		LoanTenure:         6,
		EmploymentStatus:   "employed",
		LoanReason:         "medical",
		EmploymentAddress1: "12 Main St",
		TermsAccepted:      true,
		Consent:            true,
	}
}

func who(role model.Role, id string) *identity.Identity {
	return &identity.Identity{SubjectID: id, Role: role}
}

func newLifecycle(t *testing.T) (*Lifecycle, *memory.Store) {
	t.Helper()
	s := memory.NewStore()
	return New(s, authz.MustNew(), WithMaxPageSize(func() int { return 50 })), s
}

func TestCreate_Validation(t *testing.T) {
	l, _ := newLifecycle(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(a *Application)
		fields []string
	}{
		{"zero amount", func(a *Application) { a.LoanAmount = 0 }, []string{"loanAmount"}},
		{"negative amount", func(a *Application) { a.LoanAmount = -1 }, []string{"loanAmount"}},
		{"terms not accepted", func(a *Application) { a.TermsAccepted = false }, []string{"termsAccepted"}},
		{"no consent", func(a *Application) { a.Consent = false }, []string{"consent"}},
		{"blank name", func(a *Application) { a.FullName = "   " }, []string{"fullName"}},
		{
			"everything missing",
			func(a *Application) { *a = Application{} },
			[]string{"fullName", "loanAmount", "loanTenure", "employmentStatus", "loanReason", "employmentAddress1", "termsAccepted", "consent"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := janeDoe()
			tt.mutate(&app)

			_, err := l.Create(ctx, "user-1", app)
			require.Error(t, err)
			assert.ErrorIs(t, err, apierr.ErrValidation)

			var apiErr *apierr.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.fields, apiErr.Fields)
		})
	}
}

func TestCreate_Pending(t *testing.T) {
	l, _ := newLifecycle(t)

	loan, err := l.Create(context.Background(), "user-1", janeDoe())
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, loan.Status)
	assert.Equal(t, "user-1", loan.OwnerID)
	assert.NotEmpty(t, loan.ID)
}

func TestSubmit_OnlyUsers(t *testing.T) {
	l, _ := newLifecycle(t)
	ctx := context.Background()

	_, err := l.Submit(ctx, who(model.RoleUser, "user-1"), janeDoe())
	assert.NoError(t, err)

	for _, role := range []model.Role{model.RoleVerifier, model.RoleAdmin, model.RoleSuperAdmin} {
		_, err := l.Submit(ctx, who(role, "x"), janeDoe())
		assert.ErrorIs(t, err, apierr.ErrForbidden, role)
	}

	_, err = l.Submit(ctx, nil, janeDoe())
	assert.ErrorIs(t, err, apierr.ErrUnauthenticated)
}

func TestTransition_RoleTable(t *testing.T) {
	allowed := map[model.Role][]model.Status{
		model.RoleVerifier:   {model.StatusVerified, model.StatusRejected},
		model.RoleAdmin:      {model.StatusApproved, model.StatusRejected},
		model.RoleSuperAdmin: {model.StatusVerified, model.StatusApproved, model.StatusRejected},
	}

	for _, role := range model.Roles {
		for _, status := range model.Statuses {
			t.Run(fmt.Sprintf("%s->%s", role, status), func(t *testing.T) {
				l, _ := newLifecycle(t)
				ctx := context.Background()
				loan, err := l.Create(ctx, "user-1", janeDoe())
				require.NoError(t, err)

				change, err := l.Transition(ctx, loan.ID, who(role, "actor"), status.String())
				if contains(allowed[role], status) {
					require.NoError(t, err)
					assert.Equal(t, status, change.Loan.Status)
					assert.Equal(t, model.StatusPending, change.From)
					return
				}
				assert.ErrorIs(t, err, apierr.ErrForbidden)
			})
		}
	}
}

func contains(statuses []model.Status, s model.Status) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}

func TestTransition_CheckOrder(t *testing.T) {
	l, _ := newLifecycle(t)
	ctx := context.Background()

	_, err := l.Transition(ctx, "missing", who(model.RoleAdmin, "a"), "done")
	assert.ErrorIs(t, err, apierr.ErrInvalidStatus)

	_, err = l.Transition(ctx, "missing", who(model.RoleVerifier, "v"), "approved")
	assert.ErrorIs(t, err, apierr.ErrForbidden)

	_, err = l.Transition(ctx, "missing", who(model.RoleAdmin, "a"), "approved")
	assert.ErrorIs(t, err, apierr.ErrNotFound)

	_, err = l.Transition(ctx, "missing", who("root", "r"), "approved")
	assert.ErrorIs(t, err, apierr.ErrForbidden)
}

func TestTransition_NoSourceConstraint(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := memory.NewStore()
	l := New(s, authz.MustNew(), WithClock(func() time.Time { return now }))
	ctx := context.Background()

	loan, err := l.Create(ctx, "user-1", janeDoe())
	require.NoError(t, err)

	_, err = l.Transition(ctx, loan.ID, who(model.RoleAdmin, "a"), "approved")
	require.NoError(t, err)

	change, err := l.Transition(ctx, loan.ID, who(model.RoleAdmin, "a"), "rejected")
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, change.From)
	assert.Equal(t, model.StatusRejected, change.Loan.Status)
	assert.Equal(t, now, change.Loan.UpdatedAt)
}

func TestTransition_Scenario(t *testing.T) {
	l, _ := newLifecycle(t)
	ctx := context.Background()

	loan, err := l.Submit(ctx, who(model.RoleUser, "user-a"), janeDoe())
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, loan.Status)

	change, err := l.Transition(ctx, loan.ID, who(model.RoleVerifier, "v"), "verified")
	require.NoError(t, err)
	assert.Equal(t, model.StatusVerified, change.Loan.Status)

	change, err = l.Transition(ctx, loan.ID, who(model.RoleAdmin, "a"), "approved")
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, change.Loan.Status)

	_, err = l.Transition(ctx, loan.ID, who(model.RoleVerifier, "v"), "approved")
	assert.ErrorIs(t, err, apierr.ErrForbidden)
	assert.EqualError(t, err, "verifier cannot set status to approved")
}

func TestListAll(t *testing.T) {
	l, s := newLifecycle(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, owner := range []string{"user-1", "user-2", "user-1"} {
		require.NoError(t, s.CreateLoan(ctx, &model.LoanApplication{
			OwnerID:   owner,
			FullName:  fmt.Sprintf("loan %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	_, err := l.ListAll(ctx, who(model.RoleUser, "user-1"))
	assert.ErrorIs(t, err, apierr.ErrForbidden)

	for _, role := range []model.Role{model.RoleVerifier, model.RoleAdmin, model.RoleSuperAdmin} {
		loans, err := l.ListAll(ctx, who(role, "x"))
		require.NoError(t, err)
		require.Len(t, loans, 3)
		assert.Equal(t, "loan 2", loans[0].FullName)
		assert.Equal(t, "loan 0", loans[2].FullName)
	}
}

func TestListOwn(t *testing.T) {
	l, s := newLifecycle(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 23; i++ {
		owner := "user-1"
		if i%5 == 0 {
			owner = "user-2"
		}
		require.NoError(t, s.CreateLoan(ctx, &model.LoanApplication{
			OwnerID:    owner,
			FullName:   fmt.Sprintf("Borrower %02d", i),
			LoanAmount: float64(100 * i),
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		}))
	}

	page, err := l.ListOwn(ctx, "user-1", Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(18), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
	require.Len(t, page.Loans, 10)
	assert.Equal(t, "Borrower 22", page.Loans[0].FullName)
	for _, loan := range page.Loans {
		assert.Equal(t, "user-1", loan.OwnerID)
	}

	page, err = l.ListOwn(ctx, "user-1", Filter{Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, page.Loans, 8)

	page, err = l.ListOwn(ctx, "user-1", Filter{SearchText: "borrower 1", SortField: "loanAmount", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, int64(8), page.Total)
	assert.Equal(t, "Borrower 11", page.Loans[0].FullName)

	page, err = l.ListOwn(ctx, "user-1", Filter{StatusFilter: "approved"})
	require.NoError(t, err)
	assert.Zero(t, page.TotalPages)
	assert.Empty(t, page.Loans)

	page, err = l.ListOwn(ctx, "user-1", Filter{PageSize: 1000})
	require.NoError(t, err)
	assert.Len(t, page.Loans, 18)

	_, err = l.ListOwn(ctx, "user-1", Filter{StatusFilter: "archived"})
	assert.ErrorIs(t, err, apierr.ErrInvalidStatus)
}

func TestListOwnFor(t *testing.T) {
	l, _ := newLifecycle(t)
	ctx := context.Background()

	_, err := l.Submit(ctx, who(model.RoleUser, "user-1"), janeDoe())
	require.NoError(t, err)

	page, err := l.ListOwnFor(ctx, who(model.RoleUser, "user-1"), Filter{})
	require.NoError(t, err)
	assert.Len(t, page.Loans, 1)

	page, err = l.ListOwnFor(ctx, who(model.RoleUser, "user-2"), Filter{})
	require.NoError(t, err)
	assert.Empty(t, page.Loans)

	_, err = l.ListOwnFor(ctx, who(model.RoleAdmin, "user-1"), Filter{})
	assert.ErrorIs(t, err, apierr.ErrForbidden)
}

func TestFilterFromQuery(t *testing.T) {
	values := map[string]string{"page": "3", "limit": "x", "search": "ann", "status": "Pending", "sortField": "bogus", "sortOrder": "ASC"}
	f, err := FilterFromQuery(func(k string) string { return values[k] }).normalize(100)
	require.NoError(t, err)

	assert.Equal(t, 3, f.Page)
	assert.Equal(t, DefaultPageSize, f.PageSize)
	assert.Equal(t, "ann", f.SearchText)
	assert.Equal(t, "pending", f.StatusFilter)
	assert.Equal(t, "createdAt", f.SortField)
	assert.Equal(t, "asc", f.SortOrder)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, totalPages(0, 10))
	assert.Equal(t, 1, totalPages(1, 10))
	assert.Equal(t, 1, totalPages(10, 10))
	assert.Equal(t, 2, totalPages(11, 10))
}
