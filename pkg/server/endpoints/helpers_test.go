package endpoints

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/loandesk/loandesk/pkg/audit"
	"github.com/loandesk/loandesk/pkg/authenticator"
	"github.com/loandesk/loandesk/pkg/authenticator/authn"
	"github.com/loandesk/loandesk/pkg/authenticator/bootstrap"
	"github.com/loandesk/loandesk/pkg/authz"
	"github.com/loandesk/loandesk/pkg/config"
	"github.com/loandesk/loandesk/pkg/model"
	"github.com/loandesk/loandesk/pkg/server"
	"github.com/loandesk/loandesk/pkg/server/store/memory"
	"github.com/loandesk/loandesk/pkg/token"
)

const (
	testRootEmail    = "root@loandesk.test"
	testRootPassword = "root-password"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

var auditOutput = &lockedBuffer{}

func TestMain(m *testing.M) {
	audit.SetEnabled(true)
	audit.DefaultLogger.SetWriter(auditOutput)
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	cfg := config.New()
	cfg.JWTSecret = "endpoint-test-secret"
	cfg.AdminKey = "admin-key"
	cfg.VerifierKey = "verifier-key"
	cfg.SuperAdminEmail = testRootEmail
	cfg.SuperAdminPassword = testRootPassword
	cfg.BcryptCost = bcrypt.MinCost
	return cfg
}

type testServer struct {
	*server.Server
	Memory *memory.Store
}

// newTestServer builds a server backed by the memory store. Individual
// stores can be swapped by the caller before RegisterAll runs.
func newTestServer(t *testing.T, customize ...func(*server.Stores)) *testServer {
	t.Helper()

	cfg := testConfig()
	mem := memory.NewStore()
	stores := server.Stores{Identities: mem, Loans: mem, Health: mem}
	for _, c := range customize {
		c(&stores)
	}

	issuer, err := token.NewIssuer([]byte(cfg.JWTSecret))
	require.NoError(t, err)

	registry := authenticator.NewRegistry()
	registry.Register(bootstrap.New(stores.Identities,
		func() bootstrap.Credentials {
			return bootstrap.Credentials{Email: cfg.SuperAdminEmail, Password: cfg.SuperAdminPassword}
		},
		func() int { return cfg.BcryptCost },
	))
	registry.Register(authn.New(stores.Identities))

	s := server.NewServer(stores, issuer, authz.MustNew(), registry, "127.0.0.1", "0",
		server.WithConfig(func() *config.Config { return cfg }),
		server.WithAccessLog(nil),
	)
	RegisterAll(s)

	return &testServer{Server: s, Memory: mem}
}

func (ts *testServer) do(t *testing.T, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "192.0.2.10:50000"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)
	return w
}

// register creates an identity through the API and logs it in.
func (ts *testServer) register(t *testing.T, name, email string, role model.Role) string {
	t.Helper()

	body := map[string]string{
		"name":     name,
		"email":    email,
		"password": "pw-" + name,
		"role":     role.String(),
	}
	switch role {
	case model.RoleAdmin:
		body["adminKey"] = "admin-key"
	case model.RoleVerifier:
		body["verifierKey"] = "verifier-key"
	}

	w := ts.do(t, http.MethodPost, "/api/register", "", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	return ts.login(t, email, "pw-"+name)
}

func (ts *testServer) login(t *testing.T, email, password string) string {
	t.Helper()

	w := ts.do(t, http.MethodPost, "/api/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}
