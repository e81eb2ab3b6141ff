// Package authenticator defines the interface for login authenticators.
//
// A login request is offered to each enabled authenticator in registration
// order. An authenticator that does not handle the credentials returns
// ErrNotApplicable and the next one is tried; any other result is final.
//
// # Authenticator Interface
//
//	type Authenticator interface {
//	    Name() string
//	    Authenticate(ctx context.Context, input Input) (*model.Identity, error)
//	}
//
// # Built-in Authenticators
//
//   - bootstrap: lazily provisions the configured super-admin - see [github.com/loandesk/loandesk/pkg/authenticator/bootstrap]
//   - authn: email and bcrypt password - see [github.com/loandesk/loandesk/pkg/authenticator/authn]
//
// The bootstrap authenticator is registered first so that the configured
// super-admin credentials always win over a stored hash.
package authenticator
