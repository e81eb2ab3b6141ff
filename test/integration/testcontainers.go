package integration

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/loandesk/loandesk/pkg/authenticator"
	"github.com/loandesk/loandesk/pkg/authenticator/authn"
	"github.com/loandesk/loandesk/pkg/authenticator/bootstrap"
	"github.com/loandesk/loandesk/pkg/authz"
	"github.com/loandesk/loandesk/pkg/config"
	"github.com/loandesk/loandesk/pkg/db"
	"github.com/loandesk/loandesk/pkg/server"
	"github.com/loandesk/loandesk/pkg/server/endpoints"
	gormstore "github.com/loandesk/loandesk/pkg/server/store/gorm"
	"github.com/loandesk/loandesk/pkg/token"
)

// Settings shared by the server under test and the step definitions.
const (
	testJWTSecret          = "integration-jwt-secret"
	testAdminKey           = "integration-admin-key"
	testVerifierKey        = "integration-verifier-key"
	testSuperAdminEmail    = "root@loandesk.test"
	testSuperAdminPassword = "root-password"
)

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	DB            *gorm.DB
	Container     testcontainers.Container
	ServerURL     string
	DatabaseURL   string
	HTTPClient    *http.Client
	Cancel        context.CancelFunc
	ServerProcess *exec.Cmd
	InlineServer  *httptest.Server
}

// NewTestContext creates a new test context with PostgreSQL testcontainer.
// Modes:
//   - Binary mode (default): Set LOANDESK_BINARY to the path of the loandeskctl binary
//   - Inline mode: Set LOANDESK_INLINE=1 to run the server in-process (no binary needed)
func NewTestContext(ctx context.Context) (*TestContext, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %w", err)
	}
	migrationsDir := filepath.Join(projectRoot, "db", "migrations")

	inlineMode := os.Getenv("LOANDESK_INLINE") == "1"
	binaryPath := os.Getenv("LOANDESK_BINARY")

	if !inlineMode && binaryPath == "" {
		return nil, fmt.Errorf("Either LOANDESK_BINARY or LOANDESK_INLINE=1 is required.\n\nBinary mode:\n  go build -o loandeskctl ./cmd/loandeskctl\n  INTEGRATION_TEST=1 LOANDESK_BINARY=$(pwd)/loandeskctl go test -v ./test/integration/...\n\nInline mode:\n  INTEGRATION_TEST=1 LOANDESK_INLINE=1 go test -v ./test/integration/...")
	}

	if !inlineMode {
		if _, err := os.Stat(binaryPath); err != nil {
			return nil, fmt.Errorf("LOANDESK_BINARY path does not exist: %s", binaryPath)
		}
		log.Printf("Using binary: %s", binaryPath)
	} else {
		log.Println("Using inline server mode")
	}

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("loandesk_test"),
		tcpostgres.WithUsername("loandesk"),
		tcpostgres.WithPassword("loandesk"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	if err := runMigrations(migrationsDir, connStr); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	database, err := db.Connect(db.Config{URL: connStr, LogLevel: "error"})
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}

	tc := &TestContext{
		DB:          database,
		Container:   pgContainer,
		DatabaseURL: connStr,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
	}

	if inlineMode {
		tc.InlineServer, err = startInlineServer(database)
		if err != nil {
			tc.Close(ctx)
			return nil, fmt.Errorf("failed to start inline server: %w", err)
		}
		tc.ServerURL = tc.InlineServer.URL
	} else {
		serverPort := "18080"
		tc.ServerProcess, tc.Cancel, err = startBinary(binaryPath, connStr, serverPort)
		if err != nil {
			tc.Close(ctx)
			return nil, fmt.Errorf("failed to start server binary: %w", err)
		}
		tc.ServerURL = "http://127.0.0.1:" + serverPort
	}

	if err := waitForServer(tc.ServerURL, 30*time.Second); err != nil {
		tc.Close(ctx)
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return tc, nil
}

func testConfig() *config.Config {
	cfg := config.New()
	cfg.JWTSecret = testJWTSecret
	cfg.AdminKey = testAdminKey
	cfg.VerifierKey = testVerifierKey
	cfg.SuperAdminEmail = testSuperAdminEmail
	cfg.SuperAdminPassword = testSuperAdminPassword
	cfg.BcryptCost = 4
	cfg.LogLevel = "warn"
	return cfg
}

// startInlineServer starts the server in-process (no binary needed)
func startInlineServer(database *gorm.DB) (*httptest.Server, error) {
	cfg := testConfig()
	config.Set(cfg)

	identities := gormstore.NewIdentitiesStore(database)
	stores := server.Stores{
		Identities: identities,
		Loans:      gormstore.NewLoansStore(database),
		Health:     gormstore.NewHealthStore(database),
	}

	issuer, err := token.NewIssuer([]byte(cfg.JWTSecret), token.WithTTL(cfg.TokenLifetime()))
	if err != nil {
		return nil, err
	}

	cost := func() int { return cfg.BcryptCost }
	registry := authenticator.NewRegistry()
	registry.Register(bootstrap.New(identities, func() bootstrap.Credentials {
		return bootstrap.Credentials{Email: cfg.SuperAdminEmail, Password: cfg.SuperAdminPassword}
	}, cost))
	registry.Register(authn.New(identities))

	s := server.NewServer(stores, issuer, authz.MustNew(), registry, "127.0.0.1", "0",
		server.WithConfig(func() *config.Config { return cfg }),
		server.WithAccessLog(nil),
	)
	endpoints.RegisterAll(s)

	return httptest.NewServer(s.Handler()), nil
}

// startBinary starts the loandeskctl server binary
func startBinary(binaryPath, dbURL, port string) (*exec.Cmd, context.CancelFunc, error) {
	ctx, cancel := context.WithCancel(context.Background())

	// Migrations already ran in the test setup
	cmd := exec.CommandContext(ctx, binaryPath, "server", "--no-migrate", "-b", "127.0.0.1", "-p", port)
	cmd.Env = append(os.Environ(),
		"DATABASE_URL="+dbURL,
		"JWT_SECRET="+testJWTSecret,
		"ADMIN_KEY="+testAdminKey,
		"VERIFIER_KEY="+testVerifierKey,
		"SUPER_ADMIN_EMAIL="+testSuperAdminEmail,
		"SUPER_ADMIN_PASSWORD="+testSuperAdminPassword,
		"LOANDESK_BCRYPT_COST=4",
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, nil, fmt.Errorf("failed to start binary: %w", err)
	}

	return cmd, cancel, nil
}

// waitForServer polls the server until it responds or times out
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server did not become ready within %v", timeout)
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.Cancel != nil {
		tc.Cancel()
	}
	if tc.ServerProcess != nil && tc.ServerProcess.Process != nil {
		_ = tc.ServerProcess.Process.Kill()
		_ = tc.ServerProcess.Wait()
	}
	if tc.InlineServer != nil {
		tc.InlineServer.Close()
	}
	if tc.DB != nil {
		if sqlDB, err := tc.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}

// findProjectRoot locates the project root directory
func findProjectRoot() (string, error) {
	paths := []string{
		"../..",
		"..",
		".",
	}

	for _, p := range paths {
		goMod := filepath.Join(p, "go.mod")
		if _, err := os.Stat(goMod); err == nil {
			return filepath.Abs(p)
		}
	}

	return "", fmt.Errorf("project root not found (looking for go.mod)")
}

func runMigrations(migrationsDir, dbURL string) error {
	m, err := migrate.New("file://"+migrationsDir, db.MigrationURL(dbURL))
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
