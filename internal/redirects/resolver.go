package redirects

import (
	"net/url"

	"github.com/goliatone/go-docsite/internal/logging"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// Action is the outcome of resolving a navigation request.
type Action uint8

const (
	// ActionContinue lets the pending navigation proceed unmodified.
	ActionContinue Action = iota
	// ActionFullLoad replaces the navigation with a full load of Target.
	ActionFullLoad
)

func (a Action) String() string {
	if a == ActionFullLoad {
		return "full_load"
	}
	return "continue"
}

// Decision is returned by Resolver.Resolve.
type Decision struct {
	Action Action
	Target string
}

// Continue reports whether the navigation should proceed.
func (d Decision) Continue() bool {
	return d.Action == ActionContinue
}

// Navigation is the host router's view of a pending navigation. A hook must
// call exactly one of Next or Replace.
type Navigation interface {
	Path() string
	Next()
	Replace(target string)
}

// Hook is the shape of a before-resolve navigation callback.
type Hook func(nav Navigation)

// Resolver decides whether a navigation request is redirected.
type Resolver struct {
	table  *Table
	logger interfaces.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for redirect decisions.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Resolver) {
		r.logger = logging.OrNoOp(logger)
	}
}

// NewResolver binds a resolver to table. A nil table resolves every path
// to ActionContinue.
func NewResolver(table *Table, opts ...Option) *Resolver {
	r := &Resolver{
		table:  table,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Table returns the resolver's table.
func (r *Resolver) Table() *Table {
	return r.table
}

// Resolve looks path up in the table. Matches yield a full load of the
// configured target whether it is a site path or an external URL.
func (r *Resolver) Resolve(path string) Decision {
	target, ok := r.table.Lookup(path)
	if !ok {
		return Decision{Action: ActionContinue}
	}
	r.logger.Debug("redirects.resolve.matched", "path", path, "target", target)
	return Decision{Action: ActionFullLoad, Target: target}
}

// BeforeResolve is the navigation hook form of Resolve.
func (r *Resolver) BeforeResolve(nav Navigation) {
	decision := r.Resolve(nav.Path())
	if decision.Continue() {
		nav.Next()
		return
	}
	nav.Replace(decision.Target)
}

// Hook returns BeforeResolve as a Hook value for registration with a router.
func (r *Resolver) Hook() Hook {
	return r.BeforeResolve
}

// IsExternal reports whether target is an absolute URL with a host.
func IsExternal(target string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return u.IsAbs() && u.Host != ""
}
