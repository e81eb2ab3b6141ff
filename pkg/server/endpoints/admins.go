package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/loandesk/loandesk/pkg/audit"
	"github.com/loandesk/loandesk/pkg/authz"
	"github.com/loandesk/loandesk/pkg/model"
	"github.com/loandesk/loandesk/pkg/roster"
	"github.com/loandesk/loandesk/pkg/server"
)

// AddAdminResponse is returned by POST /api/admins/add
type AddAdminResponse struct {
	Message string          `json:"message"`
	Admin   *model.Identity `json:"admin"`
}

func newRoster(s *server.Server) *roster.Roster {
	return roster.New(s.IdentitiesStore, s.Authorizer, func() int { return s.Config().BcryptCost })
}

// RegisterAdminsEndpoints registers the admin roster endpoints. They require
// a bearer token held by the super-admin.
func RegisterAdminsEndpoints(s *server.Server) {
	r := newRoster(s)

	adminsRouter := s.Router.PathPrefix("/api/admins").Subrouter()
	adminsRouter.Use(s.JWTMiddleware.Middleware)

	adminsRouter.HandleFunc("", handleListAdmins(s, r)).Methods("GET")
	adminsRouter.HandleFunc("/", handleListAdmins(s, r)).Methods("GET")
	adminsRouter.HandleFunc("/add", handleAddAdmin(s, r)).Methods("POST")
	adminsRouter.HandleFunc("/delete/{id}", handleDeleteAdmin(s, r)).Methods("DELETE")
}

func handleListAdmins(s *server.Server, r *roster.Roster) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		admins, err := r.List(req.Context(), caller(req))
		if err != nil {
			auditDenied(s, req, authz.AdminManage, authz.AnyTarget, err)
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, admins)
	}
}

func handleAddAdmin(s *server.Server, r *roster.Roster) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var in roster.NewAdmin
		if err := decodeJSON(req, &in); err != nil {
			respondWithError(w, err)
			return
		}

		id := caller(req)
		admin, err := r.Add(req.Context(), id, in)
		if id != nil {
			event := audit.AdminEvent{
				UserID:       id.SubjectID,
				ClientIP:     clientIP(s, req),
				Operation:    "add",
				AdminEmail:   in.Email,
				Success:      err == nil,
				ErrorMessage: errorMessage(err),
			}
			if admin != nil {
				event.AdminID = admin.ID
			}
			audit.Log(event)
		}

		if err != nil {
			auditDenied(s, req, authz.AdminManage, authz.AnyTarget, err)
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, AddAdminResponse{
			Message: "Admin added successfully",
			Admin:   admin,
		})
	}
}

func handleDeleteAdmin(s *server.Server, r *roster.Roster) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		adminID := mux.Vars(req)["id"]

		id := caller(req)
		admin, err := r.Remove(req.Context(), id, adminID)
		if id != nil {
			event := audit.AdminEvent{
				UserID:       id.SubjectID,
				ClientIP:     clientIP(s, req),
				Operation:    "remove",
				AdminID:      adminID,
				Success:      err == nil,
				ErrorMessage: errorMessage(err),
			}
			if admin != nil {
				event.AdminEmail = admin.Email
			}
			audit.Log(event)
		}

		if err != nil {
			auditDenied(s, req, authz.AdminManage, authz.AnyTarget, err)
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Admin deleted successfully"})
	}
}
