package server

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/loandesk/loandesk/pkg/authenticator"
	"github.com/loandesk/loandesk/pkg/authz"
	"github.com/loandesk/loandesk/pkg/config"
	"github.com/loandesk/loandesk/pkg/server/middleware"
	"github.com/loandesk/loandesk/pkg/server/store"
	"github.com/loandesk/loandesk/pkg/token"
)

// Server holds the router and every dependency the endpoints need.
type Server struct {
	Router *mux.Router

	IdentitiesStore store.IdentitiesStore
	LoansStore      store.LoansStore
	HealthStore     store.HealthStore

	Issuer         *token.Issuer
	Authorizer     *authz.Authorizer
	Authenticators *authenticator.Registry
	JWTMiddleware  *middleware.JWTAuthenticator

	// Config returns the current configuration. It is consulted per request
	// so reloaded keys and limits apply without a restart.
	Config func() *config.Config

	accessLog io.Writer
	srv       *http.Server
}

// Stores groups the storage backends.
type Stores struct {
	Identities store.IdentitiesStore
	Loans      store.LoansStore
	Health     store.HealthStore
}

// Option configures a Server.
type Option func(*Server)

// WithConfig overrides config.Get as the configuration source.
func WithConfig(get func() *config.Config) Option {
	return func(s *Server) { s.Config = get }
}

// WithAccessLog sets the destination of the HTTP access log. Nil disables it.
func WithAccessLog(w io.Writer) Option {
	return func(s *Server) { s.accessLog = w }
}

func wrap(router http.Handler, accessLog io.Writer, origins []string) http.Handler {
	h := router
	if len(origins) > 0 {
		h = handlers.CORS(
			handlers.AllowedOrigins(origins),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		)(h)
	}
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)
	if accessLog != nil {
		h = handlers.LoggingHandler(accessLog, h)
	}
	return h
}

func NewServer(
	stores Stores,
	issuer *token.Issuer,
	authorizer *authz.Authorizer,
	authenticators *authenticator.Registry,
	host string,
	port string,
	opts ...Option,
) *Server {
	router := mux.NewRouter()

	s := &Server{
		Router:          router,
		IdentitiesStore: stores.Identities,
		LoansStore:      stores.Loans,
		HealthStore:     stores.Health,
		Issuer:          issuer,
		Authorizer:      authorizer,
		Authenticators:  authenticators,
		Config:          config.Get,
		accessLog:       os.Stdout,
	}
	s.srv = &http.Server{
		Addr:         host + ":" + port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.srv.Handler = wrap(router, s.accessLog, s.Config().CORSOrigins)

	s.JWTMiddleware = middleware.NewJWTAuthenticator(issuer, func(ip string) bool {
		return s.Config().IsTrustedProxy(ip)
	})
	return s
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.srv.Addr
}

// Start listens until Shutdown is called. It returns nil after a clean
// shutdown.
func (s *Server) Start() error {
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
