package endpoints

import (
	"net/http"

	"github.com/loandesk/loandesk/pkg/accounts"
	"github.com/loandesk/loandesk/pkg/audit"
	"github.com/loandesk/loandesk/pkg/model"
	"github.com/loandesk/loandesk/pkg/server"
)

// UserResponse is the public view of an identity returned on login.
type UserResponse struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

// LoginResponse is returned by POST /api/login
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func newAccounts(s *server.Server) *accounts.Accounts {
	return accounts.New(
		s.IdentitiesStore,
		s.Authenticators,
		s.Issuer,
		func() accounts.Keys {
			cfg := s.Config()
			return accounts.Keys{
				AdminKey:        cfg.AdminKey,
				VerifierKey:     cfg.VerifierKey,
				SuperAdminEmail: cfg.SuperAdminEmail,
			}
		},
		func() int { return s.Config().BcryptCost },
	)
}

// RegisterAccountsEndpoints registers the public registration and login
// endpoints
func RegisterAccountsEndpoints(s *server.Server) {
	acc := newAccounts(s)

	api := s.Router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/register", handleRegister(s, acc)).Methods("POST")
	api.HandleFunc("/login", handleLogin(s, acc)).Methods("POST")
}

func handleRegister(s *server.Server, acc *accounts.Accounts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in accounts.Registration
		if err := decodeJSON(r, &in); err != nil {
			respondWithError(w, err)
			return
		}

		id, err := acc.Register(r.Context(), in)
		event := audit.RegisterEvent{
			Email:        in.Email,
			Role:         in.Role,
			ClientIP:     clientIP(s, r),
			Success:      err == nil,
			ErrorMessage: errorMessage(err),
		}
		if id != nil {
			event.Role = id.Role.String()
		}
		audit.Log(event)

		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, MessageResponse{Message: "User registered successfully"})
	}
}

func handleLogin(s *server.Server, acc *accounts.Accounts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in accounts.Credentials
		if err := decodeJSON(r, &in); err != nil {
			respondWithError(w, err)
			return
		}

		ip := clientIP(s, r)
		session, err := acc.Login(r.Context(), in, ip)
		event := audit.LoginEvent{
			Email:        in.Email,
			ClientIP:     ip,
			Success:      err == nil,
			ErrorMessage: errorMessage(err),
		}
		if session != nil {
			event.SubjectID = session.User.ID
			event.Role = session.User.Role.String()
			event.AuthenticatorName = session.Authenticator
		}
		audit.Log(event)

		if err != nil {
			respondWithError(w, err)
			return
		}

		respondWithJSON(w, http.StatusOK, LoginResponse{
			Token: session.Token,
			User: UserResponse{
				ID:    session.User.ID,
				Name:  session.User.Name,
				Email: session.User.Email,
				Role:  session.User.Role,
			},
		})
	}
}
