package sitecmd

import (
	"context"
	"errors"
	"strings"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-docsite/internal/commands"
	"github.com/goliatone/go-docsite/internal/generator"
	"github.com/goliatone/go-docsite/internal/redirects"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

var (
	// ErrGeneratorUnavailable is returned when a site command runs without a
	// generator.
	ErrGeneratorUnavailable = errors.New("site command: generator unavailable")
	// ErrResolverUnavailable is returned when a redirect lookup runs without
	// a resolver.
	ErrResolverUnavailable = errors.New("site command: redirect resolver unavailable")
)

var (
	_ command.Commander[BuildSiteCommand]       = (*BuildSiteHandler)(nil)
	_ command.Commander[DiffSiteCommand]        = (*DiffSiteHandler)(nil)
	_ command.Commander[CleanSiteCommand]       = (*CleanSiteHandler)(nil)
	_ command.Commander[ResolveRedirectCommand] = (*ResolveRedirectHandler)(nil)
)

// BuildSiteHandler runs generator builds.
type BuildSiteHandler struct {
	inner *commands.Handler[BuildSiteCommand]
}

// NewBuildSiteHandler constructs a handler wired to service.
func NewBuildSiteHandler(service generator.Service, logger interfaces.Logger, opts ...commands.HandlerOption[BuildSiteCommand]) *BuildSiteHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg BuildSiteCommand) error {
		if service == nil {
			return ErrGeneratorUnavailable
		}
		result, err := service.Build(ctx, generator.BuildOptions{
			Paths:  normalizePaths(msg.Paths),
			DryRun: msg.DryRun,
		})
		invokeCallback(msg.ResultCallback, ResultEnvelope{
			Result:   result,
			Metadata: map[string]any{"operation": "build"},
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[BuildSiteCommand]{
		commands.WithLogger[BuildSiteCommand](baseLogger),
		commands.WithOperation[BuildSiteCommand]("site.build"),
		commands.WithMessageFields(func(msg BuildSiteCommand) map[string]any {
			fields := map[string]any{}
			if len(msg.Paths) > 0 {
				fields["paths"] = len(msg.Paths)
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[BuildSiteCommand](nil)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BuildSiteHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[BuildSiteCommand].
func (h *BuildSiteHandler) Execute(ctx context.Context, msg BuildSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

// DiffSiteHandler renders the site without writing artifacts.
type DiffSiteHandler struct {
	inner *commands.Handler[DiffSiteCommand]
}

// NewDiffSiteHandler constructs a handler that executes generator dry runs.
func NewDiffSiteHandler(service generator.Service, logger interfaces.Logger, opts ...commands.HandlerOption[DiffSiteCommand]) *DiffSiteHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg DiffSiteCommand) error {
		if service == nil {
			return ErrGeneratorUnavailable
		}
		result, err := service.Build(ctx, generator.BuildOptions{
			Paths:  normalizePaths(msg.Paths),
			DryRun: true,
		})
		invokeCallback(msg.ResultCallback, ResultEnvelope{
			Result:   result,
			Metadata: map[string]any{"operation": "diff"},
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[DiffSiteCommand]{
		commands.WithLogger[DiffSiteCommand](baseLogger),
		commands.WithOperation[DiffSiteCommand]("site.diff"),
		commands.WithTelemetry(commands.DefaultTelemetry[DiffSiteCommand](nil)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &DiffSiteHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[DiffSiteCommand].
func (h *DiffSiteHandler) Execute(ctx context.Context, msg DiffSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CleanSiteHandler clears generator artifacts.
type CleanSiteHandler struct {
	inner *commands.Handler[CleanSiteCommand]
}

// NewCleanSiteHandler constructs a handler that cleans generator output.
func NewCleanSiteHandler(service generator.Service, logger interfaces.Logger, opts ...commands.HandlerOption[CleanSiteCommand]) *CleanSiteHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, _ CleanSiteCommand) error {
		if service == nil {
			return ErrGeneratorUnavailable
		}
		return service.Clean(ctx)
	}

	handlerOpts := []commands.HandlerOption[CleanSiteCommand]{
		commands.WithLogger[CleanSiteCommand](baseLogger),
		commands.WithOperation[CleanSiteCommand]("site.clean"),
		commands.WithTelemetry(commands.DefaultTelemetry[CleanSiteCommand](nil)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CleanSiteHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[CleanSiteCommand].
func (h *CleanSiteHandler) Execute(ctx context.Context, msg CleanSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ResolveRedirectHandler answers whether a path would be redirected.
type ResolveRedirectHandler struct {
	inner *commands.Handler[ResolveRedirectCommand]
}

// NewResolveRedirectHandler constructs a handler bound to resolver.
func NewResolveRedirectHandler(resolver *redirects.Resolver, logger interfaces.Logger, opts ...commands.HandlerOption[ResolveRedirectCommand]) *ResolveRedirectHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ResolveRedirectCommand) error {
		if resolver == nil {
			return ErrResolverUnavailable
		}
		decision := resolver.Resolve(msg.Path)
		baseLogger.Debug("site.command.resolve_redirect.completed",
			"path", msg.Path,
			"action", decision.Action.String(),
			"target", decision.Target,
		)
		if msg.DecisionCallback != nil {
			msg.DecisionCallback(msg.Path, decision)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ResolveRedirectCommand]{
		commands.WithLogger[ResolveRedirectCommand](baseLogger),
		commands.WithOperation[ResolveRedirectCommand]("redirects.resolve"),
		commands.WithTimeout[ResolveRedirectCommand](0),
		commands.WithMessageFields(func(msg ResolveRedirectCommand) map[string]any {
			return map[string]any{"path": msg.Path}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ResolveRedirectHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ResolveRedirectCommand].
func (h *ResolveRedirectHandler) Execute(ctx context.Context, msg ResolveRedirectCommand) error {
	return h.inner.Execute(ctx, msg)
}

func normalizePaths(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	seen := map[string]struct{}{}
	for _, p := range values {
		trimmed := strings.TrimPrefix(strings.TrimSpace(p), "/")
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func invokeCallback(cb ResultCallback, envelope ResultEnvelope) {
	if cb == nil {
		return
	}
	cb(envelope)
}
