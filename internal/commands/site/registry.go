package sitecmd

import (
	"github.com/goliatone/go-command/dispatcher"

	"github.com/goliatone/go-docsite/internal/commands"
	"github.com/goliatone/go-docsite/internal/generator"
	"github.com/goliatone/go-docsite/internal/redirects"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// CommandRegistry is the registration contract of go-command registries.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// Subscription is a dispatcher subscription.
type Subscription interface {
	Unsubscribe()
}

// Dependencies lists the services site commands operate on. Either may be
// nil; the matching handlers then fail with an unavailable error.
type Dependencies struct {
	Generator generator.Service
	Resolver  *redirects.Resolver
}

// HandlerSet groups the site command handlers.
type HandlerSet struct {
	Build   *BuildSiteHandler
	Diff    *DiffSiteHandler
	Clean   *CleanSiteHandler
	Resolve *ResolveRedirectHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	buildOpts   []commands.HandlerOption[BuildSiteCommand]
	diffOpts    []commands.HandlerOption[DiffSiteCommand]
	cleanOpts   []commands.HandlerOption[CleanSiteCommand]
	resolveOpts []commands.HandlerOption[ResolveRedirectCommand]
}

// WithBuildHandlerOptions forwards options to the BuildSiteHandler.
func WithBuildHandlerOptions(opts ...commands.HandlerOption[BuildSiteCommand]) Option {
	return func(cfg *options) {
		cfg.buildOpts = append(cfg.buildOpts, opts...)
	}
}

// WithDiffHandlerOptions forwards options to the DiffSiteHandler.
func WithDiffHandlerOptions(opts ...commands.HandlerOption[DiffSiteCommand]) Option {
	return func(cfg *options) {
		cfg.diffOpts = append(cfg.diffOpts, opts...)
	}
}

// WithCleanHandlerOptions forwards options to the CleanSiteHandler.
func WithCleanHandlerOptions(opts ...commands.HandlerOption[CleanSiteCommand]) Option {
	return func(cfg *options) {
		cfg.cleanOpts = append(cfg.cleanOpts, opts...)
	}
}

// WithResolveHandlerOptions forwards options to the ResolveRedirectHandler.
func WithResolveHandlerOptions(opts ...commands.HandlerOption[ResolveRedirectCommand]) Option {
	return func(cfg *options) {
		cfg.resolveOpts = append(cfg.resolveOpts, opts...)
	}
}

// RegisterSiteCommands builds the site command handlers and registers them
// with reg when it is non-nil.
func RegisterSiteCommands(reg CommandRegistry, deps Dependencies, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "site")
	set := &HandlerSet{
		Build:   NewBuildSiteHandler(deps.Generator, logger, cfg.buildOpts...),
		Diff:    NewDiffSiteHandler(deps.Generator, logger, cfg.diffOpts...),
		Clean:   NewCleanSiteHandler(deps.Generator, logger, cfg.cleanOpts...),
		Resolve: NewResolveRedirectHandler(deps.Resolver, logger, cfg.resolveOpts...),
	}

	if reg != nil {
		for _, handler := range set.handlers() {
			if err := reg.RegisterCommand(handler); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}

// Subscribe attaches every handler to the go-command dispatcher so the
// commands can be sent with dispatcher.Dispatch.
func (s *HandlerSet) Subscribe() []Subscription {
	return []Subscription{
		dispatcher.SubscribeCommand(s.Build),
		dispatcher.SubscribeCommand(s.Diff),
		dispatcher.SubscribeCommand(s.Clean),
		dispatcher.SubscribeCommand(s.Resolve),
	}
}

func (s *HandlerSet) handlers() []any {
	return []any{s.Build, s.Diff, s.Clean, s.Resolve}
}
