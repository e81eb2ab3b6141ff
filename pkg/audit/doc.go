// Package audit provides audit logging for loandesk operations.
//
// This package implements structured audit logging for security-relevant
// operations such as logins, registrations, loan status changes and admin
// roster changes.
//
// # Event Types
//
//   - LoginEvent, RegisterEvent: account access
//   - LoanSubmitEvent, LoanStatusEvent: loan application lifecycle
//   - AdminEvent: roster additions and removals
//   - DeniedEvent: authorization refusals
//
// # Usage
//
//	audit.Log(audit.LoginEvent{Email: email, ClientIP: ip, Success: true})
//
// Events are written to stdout in RFC5424 syslog format. When
// AUDIT_DATABASE_URL is set they are also inserted into the messages table
// of that database. The table is created by the
// 20240501000003_create_audit_messages migration, so pointing
// AUDIT_DATABASE_URL at the application database needs no extra setup.
//
// Set LOANDESK_AUDIT_ENABLED=false to turn auditing off.
package audit
