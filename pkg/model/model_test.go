package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{in: "user", want: RoleUser},
		{in: "verifier", want: RoleVerifier},
		{in: "admin", want: RoleAdmin},
		{in: "super-admin", want: RoleSuperAdmin},
		{in: "superadmin", wantErr: true},
		{in: "Admin", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range Statuses {
		got, err := ParseStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseStatus("cancelled")
	assert.Error(t, err)
	_, err = ParseStatus("")
	assert.Error(t, err)
}

func TestBeforeCreateDefaults(t *testing.T) {
	loan := &LoanApplication{}
	require.NoError(t, loan.BeforeCreate(nil))
	assert.NotEmpty(t, loan.ID)
	assert.Equal(t, StatusPending, loan.Status)

	id := &Identity{ID: "fixed"}
	require.NoError(t, id.BeforeCreate(nil))
	assert.Equal(t, "fixed", id.ID)
}

func TestIdentity_IsSuperAdmin(t *testing.T) {
	assert.True(t, (&Identity{Role: RoleSuperAdmin}).IsSuperAdmin())
	assert.False(t, (&Identity{Role: RoleAdmin}).IsSuperAdmin())
}
