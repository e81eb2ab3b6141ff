package endpoints

import (
	"github.com/loandesk/loandesk/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoints(srv)
	RegisterAccountsEndpoints(srv)
	RegisterLoansEndpoints(srv)
	RegisterAdminsEndpoints(srv)
}
