// Package di wires the docsite services from a runtime configuration.
package di

import (
	"fmt"

	sitecmd "github.com/goliatone/go-docsite/internal/commands/site"
	"github.com/goliatone/go-docsite/internal/generator"
	"github.com/goliatone/go-docsite/internal/logging"
	"github.com/goliatone/go-docsite/internal/logging/gologger"
	"github.com/goliatone/go-docsite/internal/markdown"
	"github.com/goliatone/go-docsite/internal/redirects"
	"github.com/goliatone/go-docsite/internal/runtimeconfig"
	"github.com/goliatone/go-docsite/internal/server"
	"github.com/goliatone/go-docsite/internal/site"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// Container holds the services built for one configuration. A config
// reload builds a new container.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	writer         generator.ArtifactWriter

	markdownSvc *markdown.Service
	site        *site.Site
	table       *redirects.Table
	resolver    *redirects.Resolver
	generator   generator.Service
	commands    *sitecmd.HandlerSet
}

// Option mutates the container before services are built.
type Option func(*Container)

// WithLoggerProvider overrides the go-logger provider built from the
// logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithArtifactWriter overrides the filesystem writer rooted at the output
// directory.
func WithArtifactWriter(writer generator.ArtifactWriter) Option {
	return func(c *Container) {
		c.writer = writer
	}
}

// NewContainer validates cfg and builds every service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	steps := []func() error{
		c.configureLoggerProvider,
		c.configureSite,
		c.configureRedirects,
		c.configureMarkdown,
		c.configureGenerator,
		c.configureCommands,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	provider, err := gologger.NewProvider(gologger.Config{
		Level:     c.Config.Logging.Level,
		Format:    c.Config.Logging.Format,
		AddSource: c.Config.Logging.AddSource,
		Focus:     c.Config.Logging.Focus,
	})
	if err != nil {
		return err
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) configureSite() error {
	s, err := site.New(c.Config.Site)
	if err != nil {
		return err
	}
	c.site = s
	return nil
}

func (c *Container) configureRedirects() error {
	policy, err := redirects.ParsePolicy(c.Config.Redirects.Policy)
	if err != nil {
		return err
	}
	table, err := redirects.NewTable(c.Config.Redirects.Entries, policy)
	if err != nil {
		return err
	}
	c.table = table
	c.resolver = redirects.NewResolver(table, redirects.WithLogger(logging.RedirectsLogger(c.loggerProvider)))
	return nil
}

func (c *Container) configureMarkdown() error {
	md := c.Config.Markdown
	svc, err := markdown.NewService(markdown.Config{
		BasePath:  md.ContentDir,
		Pattern:   md.Pattern,
		Recursive: md.Recursive,
		Exclude:   md.Exclude,
		Parser: interfaces.ParseOptions{
			Extensions:   md.Parser.Extensions,
			Sanitize:     md.Parser.Sanitize,
			HardWraps:    md.Parser.HardWraps,
			SafeMode:     md.Parser.SafeMode,
			TrustedHosts: md.Parser.TrustedHosts,
		},
		Include: markdown.IncludeConfig{
			Enabled:    md.Include.Enabled,
			Root:       md.Include.Root,
			ThrowError: md.Include.ThrowError,
		},
		Highlight: markdown.HighlightConfig{
			Enabled:   md.Highlight.Enabled,
			Style:     md.Highlight.Style,
			Classes:   md.Highlight.Classes,
			Languages: md.Highlight.Languages,
		},
	}, markdown.WithLogger(logging.MarkdownLogger(c.loggerProvider)))
	if err != nil {
		return fmt.Errorf("docsite: markdown service: %w", err)
	}
	c.markdownSvc = svc
	return nil
}

func (c *Container) configureGenerator() error {
	gen := c.Config.Generator
	layout, err := generator.LoadLayout(gen.Layout)
	if err != nil {
		return err
	}
	if c.writer == nil {
		c.writer = generator.NewFSWriter(gen.OutputDir)
	}

	deps := generator.Dependencies{
		Source:    c.markdownSvc,
		Site:      c.site,
		Layout:    layout,
		Redirects: c.table,
		Writer:    c.writer,
		Logger:    logging.GeneratorLogger(c.loggerProvider),
	}
	if h := c.markdownSvc.Highlighter(); h != nil {
		deps.Stylesheet = h
	}
	c.generator = generator.NewService(generator.Config{
		BaseURL:            c.Config.Site.BaseURL,
		PublicDir:          gen.PublicDir,
		CleanBuild:         gen.CleanBuild,
		GenerateSitemap:    gen.GenerateSitemap,
		GenerateRobots:     gen.GenerateRobots,
		WriteRedirectStubs: c.Config.Redirects.WriteStubs,
		IncludeDrafts:      gen.IncludeDrafts,
		Workers:            gen.Workers,
		RenderTimeout:      gen.RenderTimeout,
	}, deps)
	return nil
}

func (c *Container) configureCommands() error {
	set, err := sitecmd.RegisterSiteCommands(nil, sitecmd.Dependencies{
		Generator: c.generator,
		Resolver:  c.resolver,
	}, c.loggerProvider)
	if err != nil {
		return err
	}
	c.commands = set
	return nil
}

// NewServer builds a preview server over the generated output.
func (c *Container) NewServer() (*server.Server, error) {
	return server.New(server.Config{
		Addr:            c.Config.Server.Addr,
		Root:            c.Config.Generator.OutputDir,
		RedirectStatus:  c.Config.Redirects.StatusCode,
		ReadTimeout:     c.Config.Server.ReadTimeout,
		WriteTimeout:    c.Config.Server.WriteTimeout,
		ShutdownTimeout: c.Config.Server.ShutdownTimeout,
	}, c.resolver, logging.ServerLogger(c.loggerProvider))
}

// LoggerProvider returns the provider backing every module logger.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// MarkdownService returns the documentation tree service.
func (c *Container) MarkdownService() *markdown.Service {
	return c.markdownSvc
}

// Site returns the navigation model.
func (c *Container) Site() *site.Site {
	return c.site
}

// RedirectTable returns the legacy redirect table.
func (c *Container) RedirectTable() *redirects.Table {
	return c.table
}

// Resolver returns the redirect resolver.
func (c *Container) Resolver() *redirects.Resolver {
	return c.resolver
}

// Generator returns the static site generator.
func (c *Container) Generator() generator.Service {
	return c.generator
}

// Commands returns the site command handlers.
func (c *Container) Commands() *sitecmd.HandlerSet {
	return c.commands
}
