package main

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loandesk/loandesk/pkg/authenticator"
	"github.com/loandesk/loandesk/pkg/config"
	"github.com/loandesk/loandesk/pkg/model"
)

func TestGenerateSecret(t *testing.T) {
	a, err := generateSecret()
	require.NoError(t, err)
	b, err := generateSecret()
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(a)
	require.NoError(t, err)
	assert.Len(t, raw, secretBytes)
	assert.NotEqual(t, a, b)
}

func TestOpenStores(t *testing.T) {
	stores, err := openStores(storeMemory)
	require.NoError(t, err)
	assert.NotNil(t, stores.Identities)
	assert.NotNil(t, stores.Loans)
	assert.NoError(t, stores.Health.CheckConnectivity(context.Background()))

	_, err = openStores("sqlite")
	assert.Error(t, err)
}

func TestNewRegistry(t *testing.T) {
	cfg := config.New()
	cfg.JWTSecret = "secret"
	cfg.BcryptCost = 4
	cfg.SuperAdminEmail = "root@loandesk.test"
	cfg.SuperAdminPassword = "root-password"
	config.Set(cfg)
	t.Cleanup(func() { config.Set(nil) })

	stores, err := openStores(storeMemory)
	require.NoError(t, err)
	registry, err := newRegistry(stores, cfg.Authenticators)
	require.NoError(t, err)

	assert.Equal(t, []string{"bootstrap", "authn"}, registry.Enabled())

	id, name, err := registry.AuthenticateNamed(context.Background(), authenticator.Input{
		Email:    "root@loandesk.test",
		Password: "root-password",
	})
	require.NoError(t, err)
	assert.Equal(t, "bootstrap", name)
	assert.Equal(t, model.RoleSuperAdmin, id.Role)
}

func TestNewRegistry_Authenticators(t *testing.T) {
	stores, err := openStores(storeMemory)
	require.NoError(t, err)

	registry, err := newRegistry(stores, []string{"authn"})
	require.NoError(t, err)
	assert.Equal(t, []string{"authn"}, registry.Enabled())

	cfg := config.New()
	cfg.Authenticators = []string{"bootstrap", "authn"}
	applyAuthenticators(registry, cfg)
	assert.Equal(t, []string{"bootstrap", "authn"}, registry.Enabled())

	cfg.Authenticators = []string{"saml"}
	applyAuthenticators(registry, cfg)
	assert.Equal(t, []string{"bootstrap", "authn"}, registry.Enabled())

	_, err = newRegistry(stores, []string{"saml"})
	assert.Error(t, err)
}
