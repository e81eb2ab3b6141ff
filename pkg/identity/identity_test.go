package identity

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loandesk/loandesk/pkg/model"
	"github.com/loandesk/loandesk/pkg/token"
)

func TestFromClaims(t *testing.T) {
	iat := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	claims := &token.Claims{
		ID:   "user-1",
		Role: model.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(iat),
			ExpiresAt: jwt.NewNumericDate(iat.Add(24 * time.Hour)),
		},
	}

	ip := net.ParseIP("192.168.1.100")
	id := FromClaims(claims).WithRemoteIP(ip)

	assert.Equal(t, "user-1", id.SubjectID)
	assert.Equal(t, model.RoleAdmin, id.Role)
	assert.Equal(t, iat, id.IssuedAt.UTC())
	assert.Equal(t, iat.Add(24*time.Hour), id.ExpiresAt.UTC())
	assert.Equal(t, ip, id.RemoteIP)
}

func TestContextGetSet(t *testing.T) {
	ctx := context.Background()

	// Initially no identity
	id, ok := Get(ctx)
	assert.False(t, ok)
	assert.Nil(t, id)

	expected := &Identity{SubjectID: "user-1", Role: model.RoleUser}
	ctx = Set(ctx, expected)

	id, ok = Get(ctx)
	assert.True(t, ok)
	require.NotNil(t, id)
	assert.Equal(t, expected.SubjectID, id.SubjectID)
	assert.Equal(t, expected.Role, id.Role)
}
