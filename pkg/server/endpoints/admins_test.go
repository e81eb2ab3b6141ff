package endpoints

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loandesk/loandesk/pkg/model"
)

func TestAdminsEndpoints(t *testing.T) {
	ts := newTestServer(t)
	root := ts.login(t, testRootEmail, testRootPassword)

	w := ts.do(t, http.MethodPost, "/api/admins/add", root, map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "ada-pw",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var added AddAdminResponse
	decode(t, w, &added)
	assert.Equal(t, "Admin added successfully", added.Message)
	assert.Equal(t, model.RoleAdmin, added.Admin.Role)
	assert.NotContains(t, w.Body.String(), "password")

	w = ts.do(t, http.MethodPost, "/api/admins/add", root, map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "ada-pw",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	decode(t, w, &resp)
	assert.Equal(t, "Admin already exists", resp.Message)

	w = ts.do(t, http.MethodGet, "/api/admins", root, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var admins []model.Identity
	decode(t, w, &admins)
	require.Len(t, admins, 1)
	assert.Equal(t, added.Admin.ID, admins[0].ID)

	// the new admin can log in with the password chosen by the super-admin
	ts.login(t, "ada@example.com", "ada-pw")

	rootClaims, err := ts.Issuer.Parse(root)
	require.NoError(t, err)
	w = ts.do(t, http.MethodDelete, "/api/admins/delete/"+rootClaims.ID, root, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	decode(t, w, &resp)
	assert.Equal(t, "Admin not found", resp.Message)
	stored, err := ts.Memory.FetchIdentity(context.Background(), rootClaims.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleSuperAdmin, stored.Role)

	w = ts.do(t, http.MethodDelete, "/api/admins/delete/"+added.Admin.ID, root, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	assert.Equal(t, "Admin deleted successfully", resp.Message)

	w = ts.do(t, http.MethodGet, "/api/admins/", root, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &admins)
	assert.Empty(t, admins)
}

func TestAdminsEndpoints_RequireSuperAdmin(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.register(t, "ada", "ada@example.com", model.RoleAdmin)
	user := ts.register(t, "jane", "jane@example.com", model.RoleUser)

	for _, bearer := range []string{admin, user} {
		w := ts.do(t, http.MethodGet, "/api/admins", bearer, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)

		var resp ErrorResponse
		decode(t, w, &resp)
		assert.Equal(t, "Only Super Admin can perform this action", resp.Message)

		w = ts.do(t, http.MethodPost, "/api/admins/add", bearer, map[string]string{
			"name": "Eve", "email": "eve@example.com", "password": "pw",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	}

	w := ts.do(t, http.MethodGet, "/api/admins", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
