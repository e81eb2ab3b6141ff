// Package server provides the HTTP server for the loandesk API.
//
// It uses gorilla/mux for routing and gorilla/handlers for access logging,
// CORS and panic recovery. Stores, the token issuer, the role authorizer
// and the authenticator registry are injected through NewServer.
//
// # Server Setup
//
//	srv := server.NewServer(stores, issuer, authorizer, registry, "0.0.0.0", "8000")
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Endpoints
//
// API endpoints are registered via the endpoints subpackage:
//
//   - /api/register, /api/login - accounts
//   - /api/loans/... - loan applications (bearer token)
//   - /api/admins/... - admin roster (super-admin)
//   - /, /health - status
package server
