package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	sitecmd "github.com/goliatone/go-docsite/internal/commands/site"
	"github.com/goliatone/go-docsite/internal/di"
	"github.com/goliatone/go-docsite/internal/logging"
	"github.com/goliatone/go-docsite/internal/redirects"
	"github.com/goliatone/go-docsite/internal/runtimeconfig"
	"github.com/goliatone/go-docsite/internal/server"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

const defaultEnvFile = ".env"

var moduleBuilder = buildModule

type moduleOptions struct {
	ConfigPath string
	EnvFile    string
	ContentDir string
	OutputDir  string
	LogLevel   string
	Addr       string
}

type buildHandler interface {
	Execute(context.Context, sitecmd.BuildSiteCommand) error
}

type diffHandler interface {
	Execute(context.Context, sitecmd.DiffSiteCommand) error
}

type cleanHandler interface {
	Execute(context.Context, sitecmd.CleanSiteCommand) error
}

type resolveHandler interface {
	Execute(context.Context, sitecmd.ResolveRedirectCommand) error
}

type handlerSet struct {
	build   buildHandler
	diff    diffHandler
	clean   cleanHandler
	resolve resolveHandler
}

type moduleResources struct {
	config         runtimeconfig.Config
	handlers       handlerSet
	markdown       interfaces.MarkdownService
	resolver       *redirects.Resolver
	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger
	newServer      func() (*server.Server, error)
}

func buildModule(opts moduleOptions) (*moduleResources, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	container, err := di.NewContainer(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialise docsite module: %w", err)
	}

	set := container.Commands()
	return &moduleResources{
		config: container.Config,
		handlers: handlerSet{
			build:   set.Build,
			diff:    set.Diff,
			clean:   set.Clean,
			resolve: set.Resolve,
		},
		markdown:       container.MarkdownService(),
		resolver:       container.Resolver(),
		loggerProvider: container.LoggerProvider(),
		logger:         logging.CLILogger(container.LoggerProvider()),
		newServer:      container.NewServer,
	}, nil
}

func loadConfig(opts moduleOptions) (runtimeconfig.Config, error) {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return runtimeconfig.Config{}, err
	}

	cfg := runtimeconfig.DefaultConfig()
	if path := strings.TrimSpace(opts.ConfigPath); path != "" {
		loaded, err := runtimeconfig.Load(path)
		if err != nil {
			return runtimeconfig.Config{}, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return runtimeconfig.Config{}, err
	}

	override := func(value string, target *string) {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			*target = trimmed
		}
	}
	override(opts.ContentDir, &cfg.Markdown.ContentDir)
	override(opts.OutputDir, &cfg.Generator.OutputDir)
	override(opts.LogLevel, &cfg.Logging.Level)
	override(opts.Addr, &cfg.Server.Addr)
	return cfg, nil
}

// loadEnvFile loads path into the process environment. The default file is
// optional; an explicit one must exist.
func loadEnvFile(path string) error {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = defaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}
