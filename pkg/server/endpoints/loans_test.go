package endpoints

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/loandesk/loandesk/pkg/loan"
	"github.com/loandesk/loandesk/pkg/model"
	"github.com/loandesk/loandesk/pkg/server"
)

func janeDoeApplication() map[string]interface{} {
	return map[string]interface{}{
		"fullName":           "Jane Doe",
		"loanAmount":         5000,
		"loanTenure":         6,
		"employmentStatus":   "employed",
		"loanReason":         "medical",
		"employmentAddress1": "12 Main St",
		"termsAccepted":      true,
		"consent":            true,
	}
}

func applyAs(t *testing.T, ts *testServer, bearer string, body map[string]interface{}) *model.LoanApplication {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/loans/apply", bearer, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp ApplyResponse
	decode(t, w, &resp)
	assert.Equal(t, "Application submitted", resp.Message)
	return resp.Application
}

func setStatus(t *testing.T, ts *testServer, bearer, loanID, status string) (int, string) {
	t.Helper()
	w := ts.do(t, http.MethodPatch, "/api/loans/update-status/"+loanID, bearer, UpdateStatusRequest{Status: status})

	var resp ErrorResponse
	decode(t, w, &resp)
	return w.Code, resp.Message
}

func TestLoanLifecycleScenario(t *testing.T) {
	ts := newTestServer(t)

	user := ts.register(t, "jane", "jane@example.com", model.RoleUser)
	verifier := ts.register(t, "vic", "vic@example.com", model.RoleVerifier)
	admin := ts.register(t, "ada", "ada@example.com", model.RoleAdmin)

	application := applyAs(t, ts, user, janeDoeApplication())
	assert.Equal(t, model.StatusPending, application.Status)

	code, msg := setStatus(t, ts, verifier, application.ID, "verified")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Status updated", msg)

	w := ts.do(t, http.MethodPatch, "/api/loans/update-status/"+application.ID, admin, UpdateStatusRequest{Status: "approved"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated UpdateStatusResponse
	decode(t, w, &updated)
	assert.Equal(t, model.StatusApproved, updated.UpdatedLoanApplication.Status)

	code, _ = setStatus(t, ts, verifier, application.ID, "approved")
	assert.Equal(t, http.StatusForbidden, code)

	assert.Contains(t, auditOutput.String(), fmt.Sprintf("loan=%q", application.ID))
	assert.Contains(t, auditOutput.String(), "authz-denied")
}

func TestUpdateStatusEndpoint(t *testing.T) {
	ts := newTestServer(t)

	user := ts.register(t, "jane", "jane@example.com", model.RoleUser)
	admin := ts.register(t, "ada", "ada@example.com", model.RoleAdmin)
	application := applyAs(t, ts, user, janeDoeApplication())

	tests := []struct {
		name    string
		bearer  string
		loanID  string
		status  string
		code    int
		message string
	}{
		{"no token", "", application.ID, "approved", http.StatusUnauthorized, "Unauthorized"},
		{"bad token", "garbage", application.ID, "approved", http.StatusUnauthorized, "Invalid token"},
		{"invalid status", admin, application.ID, "done", http.StatusBadRequest, "Invalid status"},
		{"user may not set status", user, application.ID, "approved", http.StatusForbidden, "user cannot set status to approved"},
		{"admin may not verify", admin, application.ID, "verified", http.StatusForbidden, "admin cannot set status to verified"},
		{"nobody sets pending", admin, application.ID, "pending", http.StatusForbidden, "admin cannot set status to pending"},
		{"missing loan", admin, "no-such-loan", "approved", http.StatusNotFound, "Loan not found"},
		{"approve", admin, application.ID, "approved", http.StatusOK, "Status updated"},
		{"approved to rejected", admin, application.ID, "rejected", http.StatusOK, "Status updated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := setStatus(t, ts, tt.bearer, tt.loanID, tt.status)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.message, msg)
		})
	}
}

func TestApplyEndpoint_Validation(t *testing.T) {
	ts := newTestServer(t)
	user := ts.register(t, "jane", "jane@example.com", model.RoleUser)

	body := janeDoeApplication()
	body["loanAmount"] = 0
	body["consent"] = false

	w := ts.do(t, http.MethodPost, "/api/loans/apply", user, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	decode(t, w, &resp)
	assert.Equal(t, []string{"loanAmount", "consent"}, resp.Fields)
}

func TestOwnLoansEndpoint(t *testing.T) {
	ts := newTestServer(t)
	jane := ts.register(t, "jane", "jane@example.com", model.RoleUser)
	john := ts.register(t, "john", "john@example.com", model.RoleUser)

	for i := 0; i < 3; i++ {
		body := janeDoeApplication()
		body["fullName"] = fmt.Sprintf("Jane Doe %d", i)
		applyAs(t, ts, jane, body)
	}
	johnBody := janeDoeApplication()
	johnBody["fullName"] = "John Roe"
	applyAs(t, ts, john, johnBody)

	w := ts.do(t, http.MethodGet, "/api/loans/status?limit=2", jane, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page loan.Page
	decode(t, w, &page)
	assert.Len(t, page.Loans, 2)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
	for _, l := range page.Loans {
		assert.Contains(t, l.FullName, "Jane Doe")
	}

	w = ts.do(t, http.MethodGet, "/api/loans/status?search=roe", jane, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &page)
	assert.Empty(t, page.Loans)

	w = ts.do(t, http.MethodGet, "/api/loans/status?status=archived", jane, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodGet, "/api/loans/status", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestApplyAndOwnLoans_UsersOnly(t *testing.T) {
	ts := newTestServer(t)
	verifier := ts.register(t, "vic", "vic@example.com", model.RoleVerifier)
	admin := ts.register(t, "ada", "ada@example.com", model.RoleAdmin)
	root := ts.login(t, testRootEmail, testRootPassword)

	for _, bearer := range []string{verifier, admin, root} {
		w := ts.do(t, http.MethodPost, "/api/loans/apply", bearer, janeDoeApplication())
		assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

		w = ts.do(t, http.MethodGet, "/api/loans/status", bearer, nil)
		assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	}

	loans, err := ts.Memory.ListLoans(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loans)
	assert.Contains(t, auditOutput.String(), "loan:submit")
}

func TestAllLoansEndpoint(t *testing.T) {
	ts := newTestServer(t)
	user := ts.register(t, "jane", "jane@example.com", model.RoleUser)
	verifier := ts.register(t, "vic", "vic@example.com", model.RoleVerifier)
	root := ts.login(t, testRootEmail, testRootPassword)

	applyAs(t, ts, user, janeDoeApplication())

	w := ts.do(t, http.MethodGet, "/api/loans/all", user, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	for _, bearer := range []string{verifier, root} {
		w = ts.do(t, http.MethodGet, "/api/loans/all", bearer, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var loans []model.LoanApplication
		decode(t, w, &loans)
		assert.Len(t, loans, 1)
	}
}

func TestLoansEndpoint_StoreFailure(t *testing.T) {
	loans := &MockLoansStore{}
	loans.On("ListLoans").Return(nil, errors.New("connection reset"))
	loans.On("CreateLoan", mock.Anything).Return(errors.New("connection reset"))

	ts := newTestServer(t, func(s *server.Stores) { s.Loans = loans })
	verifier := ts.register(t, "vic", "vic@example.com", model.RoleVerifier)
	user := ts.register(t, "jane", "jane@example.com", model.RoleUser)

	w := ts.do(t, http.MethodGet, "/api/loans/all", verifier, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp ErrorResponse
	decode(t, w, &resp)
	assert.Equal(t, "Server error", resp.Message)
	assert.NotContains(t, w.Body.String(), "connection reset")

	w = ts.do(t, http.MethodPost, "/api/loans/apply", user, janeDoeApplication())
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	loans.AssertExpectations(t)
}
