// Package model defines the database models for loandesk.
//
// This package contains GORM models that map to the loandesk database schema
// created by the migrations under db/migrations.
//
// # Core Models
//
//   - Identity: accounts (users, verifiers, admins and the super-admin)
//   - LoanApplication: loan requests tracked through a status lifecycle
//
// # Enumerations
//
// Role and Status are closed string enums. Their wire and storage form is the
// value itself (e.g. "super-admin", "verified"). Use ParseRole and ParseStatus
// to validate untrusted input.
//
// # Database Schema
//
//   - identities: one row per account, unique by email
//   - loan_applications: one row per application, owned by an identity
package model
