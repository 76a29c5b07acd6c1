// Package docsite builds and serves a markdown documentation site with
// legacy-path redirects.
package docsite

import (
	"context"

	sitecmd "github.com/goliatone/go-docsite/internal/commands/site"
	"github.com/goliatone/go-docsite/internal/di"
	"github.com/goliatone/go-docsite/internal/generator"
	"github.com/goliatone/go-docsite/internal/redirects"
	"github.com/goliatone/go-docsite/internal/server"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// GeneratorService exports the static site generator contract.
type GeneratorService = generator.Service

// BuildOptions narrows a build to a subset of sources.
type BuildOptions = generator.BuildOptions

// BuildResult reports a finished build.
type BuildResult = generator.BuildResult

// Decision is the outcome of a redirect lookup.
type Decision = redirects.Decision

// Module represents the top level docsite runtime facade.
type Module struct {
	container *di.Container
}

// New constructs a docsite module using the provided configuration and
// optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Config returns the configuration the module was built from.
func (m *Module) Config() Config {
	return m.container.Config
}

// Generator returns the configured generator service.
func (m *Module) Generator() GeneratorService {
	return m.container.Generator()
}

// Markdown returns the markdown service.
func (m *Module) Markdown() interfaces.MarkdownService {
	return m.container.MarkdownService()
}

// Resolver returns the redirect resolver.
func (m *Module) Resolver() *redirects.Resolver {
	return m.container.Resolver()
}

// Commands returns the site command handlers.
func (m *Module) Commands() *sitecmd.HandlerSet {
	return m.container.Commands()
}

// Build renders the documentation tree into the output directory.
func (m *Module) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	return m.container.Generator().Build(ctx, opts)
}

// Clean removes the output directory.
func (m *Module) Clean(ctx context.Context) error {
	return m.container.Generator().Clean(ctx)
}

// Resolve runs path through the redirect table.
func (m *Module) Resolve(path string) Decision {
	return m.container.Resolver().Resolve(path)
}

// NewServer builds a preview server over the output directory.
func (m *Module) NewServer() (*server.Server, error) {
	return m.container.NewServer()
}
