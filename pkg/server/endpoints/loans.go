package endpoints

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/loandesk/loandesk/pkg/apierr"
	"github.com/loandesk/loandesk/pkg/audit"
	"github.com/loandesk/loandesk/pkg/authz"
	"github.com/loandesk/loandesk/pkg/loan"
	"github.com/loandesk/loandesk/pkg/model"
	"github.com/loandesk/loandesk/pkg/server"
)

// ApplyResponse is returned by POST /api/loans/apply
type ApplyResponse struct {
	Message     string                 `json:"message"`
	Application *model.LoanApplication `json:"application"`
}

// UpdateStatusRequest is the body of PATCH /api/loans/update-status/{loanId}
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatusResponse is returned by PATCH /api/loans/update-status/{loanId}
type UpdateStatusResponse struct {
	Message                string                 `json:"message"`
	UpdatedLoanApplication *model.LoanApplication `json:"updatedLoanApplication"`
}

func newLifecycle(s *server.Server) *loan.Lifecycle {
	return loan.New(s.LoansStore, s.Authorizer,
		loan.WithMaxPageSize(func() int { return s.Config().PageSizeMax }),
	)
}

// RegisterLoansEndpoints registers the loan application endpoints. All of
// them require a bearer token.
func RegisterLoansEndpoints(s *server.Server) {
	lifecycle := newLifecycle(s)

	loansRouter := s.Router.PathPrefix("/api/loans").Subrouter()
	loansRouter.Use(s.JWTMiddleware.Middleware)

	loansRouter.HandleFunc("/apply", handleApply(s, lifecycle)).Methods("POST")
	loansRouter.HandleFunc("/status", handleOwnLoans(s, lifecycle)).Methods("GET")
	loansRouter.HandleFunc("/all", handleAllLoans(s, lifecycle)).Methods("GET")
	loansRouter.HandleFunc("/update-status/{loanId}", handleUpdateStatus(s, lifecycle)).Methods("PATCH")
}

func auditDenied(s *server.Server, r *http.Request, action, target string, err error) {
	if !errors.Is(err, apierr.ErrForbidden) {
		return
	}
	id := caller(r)
	if id == nil {
		return
	}
	audit.Log(audit.DeniedEvent{
		UserID:   id.SubjectID,
		Role:     id.Role.String(),
		ClientIP: clientIP(s, r),
		Action:   action,
		Target:   target,
		Reason:   errorMessage(err),
	})
}

func handleApply(s *server.Server, lifecycle *loan.Lifecycle) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := caller(r)
		if id == nil {
			respondWithError(w, apierr.Unauthenticated("Unauthorized"))
			return
		}

		var app loan.Application
		if err := decodeJSON(r, &app); err != nil {
			respondWithError(w, err)
			return
		}

		created, err := lifecycle.Submit(r.Context(), id, app)
		event := audit.LoanSubmitEvent{
			UserID:       id.SubjectID,
			ClientIP:     clientIP(s, r),
			Success:      err == nil,
			ErrorMessage: errorMessage(err),
		}
		if created != nil {
			event.LoanID = created.ID
		}
		audit.Log(event)

		if err != nil {
			auditDenied(s, r, authz.LoanSubmit, authz.AnyTarget, err)
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, ApplyResponse{
			Message:     "Application submitted",
			Application: created,
		})
	}
}

func handleOwnLoans(s *server.Server, lifecycle *loan.Lifecycle) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := caller(r)
		if id == nil {
			respondWithError(w, apierr.Unauthenticated("Unauthorized"))
			return
		}

		filter := loan.FilterFromQuery(r.URL.Query().Get)
		page, err := lifecycle.ListOwnFor(r.Context(), id, filter)
		if err != nil {
			auditDenied(s, r, authz.LoanListOwn, authz.AnyTarget, err)
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, page)
	}
}

func handleAllLoans(s *server.Server, lifecycle *loan.Lifecycle) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loans, err := lifecycle.ListAll(r.Context(), caller(r))
		if err != nil {
			auditDenied(s, r, authz.LoanListAll, authz.AnyTarget, err)
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, loans)
	}
}

func handleUpdateStatus(s *server.Server, lifecycle *loan.Lifecycle) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loanID := mux.Vars(r)["loanId"]
		id := caller(r)

		var body UpdateStatusRequest
		if err := decodeJSON(r, &body); err != nil {
			respondWithError(w, err)
			return
		}

		change, err := lifecycle.Transition(r.Context(), loanID, id, body.Status)
		if id != nil {
			event := audit.LoanStatusEvent{
				UserID:       id.SubjectID,
				Role:         id.Role.String(),
				ClientIP:     clientIP(s, r),
				LoanID:       loanID,
				ToStatus:     body.Status,
				Success:      err == nil,
				ErrorMessage: errorMessage(err),
			}
			if change != nil {
				event.FromStatus = change.From.String()
			}
			audit.Log(event)
		}

		if err != nil {
			auditDenied(s, r, authz.LoanSetStatus, body.Status, err)
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, UpdateStatusResponse{
			Message:                "Status updated",
			UpdatedLoanApplication: change.Loan,
		})
	}
}
