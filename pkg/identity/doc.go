// Package identity provides the authenticated identity attached to a request.
//
// An Identity combines the claims of a verified session token (subject id,
// role, timestamps) with request-specific context such as the client IP.
//
// # Basic Usage
//
//	// Create identity from verified claims
//	id := identity.FromClaims(claims).WithRemoteIP(clientIP)
//
//	// Store in request context
//	ctx = identity.Set(ctx, id)
//
//	// Retrieve from context
//	id, ok := identity.Get(ctx)
//
// # Identity vs Token
//
// The token package handles signing and validating the raw session token.
// The identity package builds on that to carry what handlers and the
// authorizer need, without exposing the token itself.
package identity
