package endpoints

import (
	"net/http"
	"os"

	"github.com/loandesk/loandesk/pkg/server"
	"github.com/loandesk/loandesk/pkg/server/store"
)

// StatusResponse is returned by GET /
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// RegisterStatusEndpoints registers the status and health endpoints
func RegisterStatusEndpoints(s *server.Server) {
	s.Router.HandleFunc("/", handleStatus()).Methods("GET")
	s.Router.HandleFunc("/health", handleHealth(s.HealthStore)).Methods("GET")
}

func handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := os.Getenv("LOANDESK_VERSION")
		if version == "" {
			version = "0.1.0"
		}
		respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok", Version: version})
	}
}

func handleHealth(healthStore store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := healthStore.CheckConnectivity(r.Context()); err != nil {
			respondWithJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status: "error",
				Error:  "database connectivity check failed",
			})
			return
		}
		respondWithJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}
