package authenticator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/loandesk/loandesk/pkg/model"
)

// mockAuthenticator is a simple mock for testing
type mockAuthenticator struct {
	name  string
	id    *model.Identity
	err   error
	calls int
}

func (m *mockAuthenticator) Name() string {
	return m.name
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, input Input) (*model.Identity, error) {
	m.calls++
	return m.id, m.err
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockAuthenticator{name: "test-auth"})
	r.Register(&mockAuthenticator{name: "other"})
	r.Register(&mockAuthenticator{name: "test-auth"})

	assert.Equal(t, []string{"test-auth", "other"}, r.Enabled())
}

func TestRegistry_Enable_NotFound(t *testing.T) {
	r := NewRegistry()

	err := r.Enable("nonexistent")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRegistry_DisableEnable(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockAuthenticator{name: "auth1"})
	r.Register(&mockAuthenticator{name: "auth2"})

	r.Disable("auth1")
	assert.Equal(t, []string{"auth2"}, r.Enabled())

	require.NoError(t, r.Enable("auth1"))
	assert.Equal(t, []string{"auth1", "auth2"}, r.Enabled())
}

func TestRegistry_Configure(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockAuthenticator{name: "bootstrap"})
	r.Register(&mockAuthenticator{name: "authn"})

	require.NoError(t, r.Configure([]string{"authn"}))
	assert.Equal(t, []string{"authn"}, r.Enabled())

	require.NoError(t, r.Configure([]string{"authn", "bootstrap"}))
	assert.Equal(t, []string{"bootstrap", "authn"}, r.Enabled())

	err := r.Configure([]string{"authn", "ldap"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ldap")
	assert.Equal(t, []string{"bootstrap", "authn"}, r.Enabled())
}

func TestRegistry_Authenticate_Chain(t *testing.T) {
	ann := &model.Identity{ID: "id-1", Email: "ann@example.com"}

	first := &mockAuthenticator{name: "first", err: ErrNotApplicable}
	second := &mockAuthenticator{name: "second", id: ann}
	third := &mockAuthenticator{name: "third", err: ErrBadCredentials}

	r := NewRegistry()
	r.Register(first)
	r.Register(second)
	r.Register(third)

	got, err := r.Authenticate(context.Background(), Input{Email: "ann@example.com"})
	require.NoError(t, err)
	assert.Equal(t, ann, got)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
	assert.Zero(t, third.calls)

	r.Disable("second")
	_, name, err := r.AuthenticateNamed(context.Background(), Input{Email: "ann@example.com"})
	assert.ErrorIs(t, err, ErrBadCredentials)
	assert.Equal(t, "third", name)
}

func TestRegistry_Authenticate_NoneApplicable(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockAuthenticator{name: "only", err: ErrNotApplicable})

	_, err := r.Authenticate(context.Background(), Input{})
	assert.ErrorIs(t, err, ErrUnknownIdentity)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, ComparePassword(hash, "s3cret"))
	assert.False(t, ComparePassword(hash, "wrong"))
	assert.False(t, ComparePassword([]byte("not-a-hash"), "s3cret"))

	cost, err := bcrypt.Cost(hash)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}
