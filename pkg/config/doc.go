// Package config provides configuration management for loandesk.
//
// This package handles loading and validating server configuration from
// environment variables and an optional YAML file.
//
// # Configuration Sources
//
// Configuration is layered, later sources winning:
//
//   - Built-in defaults
//   - $LOANDESK_CONFIG_PATH/loandesk.yml (default /etc/loandesk/config)
//   - Environment variables
//
// # Key Configuration Options
//
//   - JWT_SECRET: Session token signing secret
//   - ADMIN_KEY, VERIFIER_KEY: Keys required to self-register privileged roles
//   - SUPER_ADMIN_EMAIL, SUPER_ADMIN_PASSWORD: Bootstrap super-admin credentials
//   - LOANDESK_LOG_LEVEL: Logging verbosity
//   - DATABASE_URL: Database connection
//   - PORT: Server listen port
//
// Watch reloads the global configuration whenever the file changes.
package config
