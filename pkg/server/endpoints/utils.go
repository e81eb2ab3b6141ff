package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/loandesk/loandesk/pkg/apierr"
	"github.com/loandesk/loandesk/pkg/identity"
	"github.com/loandesk/loandesk/pkg/logger"
	"github.com/loandesk/loandesk/pkg/server"
	"github.com/loandesk/loandesk/pkg/server/middleware"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

// MessageResponse is the body of requests that only report success.
type MessageResponse struct {
	Message string `json:"message"`
}

func respondWithError(w http.ResponseWriter, err error) {
	if kind := apierr.KindOf(err); kind == apierr.KindInternal {
		logger.Default().Error(err).Msg("request failed")
	} else {
		logger.Default().Debug().Str("kind", kind.String()).Err(err).Msg("request rejected")
	}

	body := ErrorResponse{Message: apierr.Internal(nil).Message}
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		body = ErrorResponse{Message: apiErr.Message, Fields: apiErr.Fields}
	}
	respondWithJSON(w, apierr.Status(err), body)
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return apierr.Validation("Invalid request body")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apierr.Validation("Invalid request body")
	}
	return nil
}

// caller returns the identity attached by the JWT middleware.
func caller(r *http.Request) *identity.Identity {
	id, _ := identity.Get(r.Context())
	return id
}

func clientIP(s *server.Server, r *http.Request) string {
	if id := caller(r); id != nil && id.RemoteIP != nil {
		return id.RemoteIP.String()
	}
	return middleware.ClientIP(r, func(ip string) bool {
		return s.Config().IsTrustedProxy(ip)
	})
}

func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
