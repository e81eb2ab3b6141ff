// Package authz decides whether a role may perform an action.
//
// The role table is loaded once into a casbin enforcer built from the
// embedded model and never modified afterwards.
package authz

import (
	_ "embed"
	"fmt"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"

	"github.com/loandesk/loandesk/pkg/identity"
	"github.com/loandesk/loandesk/pkg/model"
)

//go:embed model.conf
var modelContent string

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(format string, args ...interface{}) Decision {
	return Decision{Reason: fmt.Sprintf(format, args...)}
}

// Authorizer evaluates the role table.
type Authorizer struct {
	enforcer *casbin.SyncedEnforcer
}

// New builds an Authorizer loaded with the role table.
func New() (*Authorizer, error) {
	m, err := casbinmodel.NewModelFromString(modelContent)
	if err != nil {
		return nil, fmt.Errorf("parse casbin model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create casbin enforcer: %w", err)
	}

	if _, err := enforcer.AddPolicies(policy); err != nil {
		return nil, fmt.Errorf("load role policy: %w", err)
	}

	return &Authorizer{enforcer: enforcer}, nil
}

// MustNew is like New but panics on error. The model and policy are
// compiled in, so an error here is a programming mistake.
func MustNew() *Authorizer {
	a, err := New()
	if err != nil {
		panic(err)
	}
	return a
}

// Allowed reports whether role may perform action on target. Use AnyTarget
// for actions without a target.
func (a *Authorizer) Allowed(role model.Role, action, target string) bool {
	return a.check(role, action, target).Allowed
}

// Authorize checks the identity's role against the table.
func (a *Authorizer) Authorize(id *identity.Identity, action, target string) Decision {
	if id == nil {
		return deny("no authenticated identity")
	}
	return a.check(id.Role, action, target)
}

func (a *Authorizer) check(role model.Role, action, target string) Decision {
	if !role.Valid() {
		return deny("unknown role %q", role)
	}
	if target == "" {
		target = AnyTarget
	}

	ok, err := a.enforcer.Enforce(role.String(), action, target)
	if err != nil {
		return deny("policy evaluation failed: %v", err)
	}
	if !ok {
		if target == AnyTarget {
			return deny("role %s may not perform %s", role, action)
		}
		return deny("role %s may not perform %s on %s", role, action, target)
	}
	return allow()
}
