package authenticator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/loandesk/loandesk/pkg/model"
)

var (
	// ErrNotApplicable tells the registry to try the next authenticator.
	ErrNotApplicable = errors.New("authenticator not applicable")
	// ErrUnknownIdentity is returned when no account has the given email.
	ErrUnknownIdentity = errors.New("identity not found")
	// ErrBadCredentials is returned when the password does not match.
	ErrBadCredentials = errors.New("invalid credentials")
	// ErrRoleMismatch is returned when an account exists under the
	// configured email but does not hold the role the authenticator grants.
	ErrRoleMismatch = errors.New("identity role mismatch")
)

// Authenticator defines the interface for all authenticators
type Authenticator interface {
	// Name returns the authenticator name (e.g., "authn", "bootstrap")
	Name() string

	// Authenticate validates credentials and returns the identity on success
	Authenticate(ctx context.Context, input Input) (*model.Identity, error)
}

// Input contains the input for authentication
type Input struct {
	Email    string
	Password string
	ClientIP string
}

// Registry holds the registered authenticators in registration order
type Registry struct {
	mu             sync.RWMutex
	order          []string
	authenticators map[string]Authenticator
	enabled        map[string]bool
}

// NewRegistry creates a new authenticator registry
func NewRegistry() *Registry {
	return &Registry{
		authenticators: make(map[string]Authenticator),
		enabled:        make(map[string]bool),
	}
}

// Register adds an authenticator to the registry and enables it
func (r *Registry) Register(auth Authenticator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.authenticators[auth.Name()]; !exists {
		r.order = append(r.order, auth.Name())
	}
	r.authenticators[auth.Name()] = auth
	r.enabled[auth.Name()] = true
}

// Enable enables an authenticator by name
func (r *Registry) Enable(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.authenticators[name]; !ok {
		return fmt.Errorf("authenticator %q not found", name)
	}
	r.enabled[name] = true
	return nil
}

// Disable disables an authenticator by name
func (r *Registry) Disable(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.enabled, name)
}

// Enabled returns enabled authenticator names in registration order
func (r *Registry) Enabled() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.enabled))
	for _, name := range r.order {
		if r.enabled[name] {
			names = append(names, name)
		}
	}
	return names
}

// Configure enables exactly the named authenticators. Unknown names are an
// error and leave the registry unchanged.
func (r *Registry) Configure(names []string) error {
	want := make(map[string]bool, len(names))
	r.mu.RLock()
	for _, name := range names {
		if _, ok := r.authenticators[name]; !ok {
			r.mu.RUnlock()
			return fmt.Errorf("authenticator %q not found", name)
		}
		want[name] = true
	}
	registered := append([]string(nil), r.order...)
	r.mu.RUnlock()

	for _, name := range registered {
		if want[name] {
			if err := r.Enable(name); err != nil {
				return err
			}
		} else {
			r.Disable(name)
		}
	}
	return nil
}

// Authenticate offers input to each enabled authenticator in order and
// returns the first definitive result.
func (r *Registry) Authenticate(ctx context.Context, input Input) (*model.Identity, error) {
	id, _, err := r.AuthenticateNamed(ctx, input)
	return id, err
}

// AuthenticateNamed is like Authenticate but also returns the name of the
// authenticator that produced the result.
func (r *Registry) AuthenticateNamed(ctx context.Context, input Input) (*model.Identity, string, error) {
	r.mu.RLock()
	chain := make([]Authenticator, 0, len(r.order))
	for _, name := range r.order {
		if r.enabled[name] {
			chain = append(chain, r.authenticators[name])
		}
	}
	r.mu.RUnlock()

	for _, auth := range chain {
		id, err := auth.Authenticate(ctx, input)
		if errors.Is(err, ErrNotApplicable) {
			continue
		}
		return id, auth.Name(), err
	}
	return nil, "", ErrUnknownIdentity
}
