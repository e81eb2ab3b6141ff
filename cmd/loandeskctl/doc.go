// Command loandeskctl runs the loandesk loan application management server.
//
// Applicants submit loan applications, verifiers triage them, admins approve
// or reject them and a single super-admin manages the admin roster.
//
// # Quick Start
//
//	# Generate a token signing secret
//	export JWT_SECRET="$(loandeskctl secret generate)"
//
//	# Run database migrations
//	loandeskctl db migrate
//
//	# Start the server
//	loandeskctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - JWT_SECRET: token signing secret
//   - ADMIN_KEY, VERIFIER_KEY: keys required to self-register as admin or verifier
//   - SUPER_ADMIN_EMAIL, SUPER_ADMIN_PASSWORD: bootstrap super-admin credentials
//   - LOANDESK_LOG_LEVEL: log level (debug, info, warn, error)
//   - PORT: server port (default: 8000)
package main
