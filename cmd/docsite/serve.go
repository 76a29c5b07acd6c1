package main

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	sitecmd "github.com/goliatone/go-docsite/internal/commands/site"
	"github.com/goliatone/go-docsite/internal/logging"
	"github.com/goliatone/go-docsite/internal/server"
	"github.com/goliatone/go-docsite/internal/watch"
)

const (
	pAddr    = "addr"
	pWatch   = "watch"
	pNoBuild = "no-build"
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Build the site and serve it with legacy redirects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := parseModuleOptions(cmd)
			opts.Addr, _ = cmd.Flags().GetString(pAddr)
			watchFlag, _ := cmd.Flags().GetBool(pWatch)
			noBuild, _ := cmd.Flags().GetBool(pNoBuild)

			res, err := moduleBuilder(opts)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), opts, res, serveOptions{
				Watch: watchFlag || res.config.Watch.Enabled,
				Build: !noBuild,
			})
		},
	}
	cmd.Flags().String(pAddr, "", "Override the listen address")
	cmd.Flags().Bool(pWatch, false, "Rebuild and reload redirects when config or content changes")
	cmd.Flags().Bool(pNoBuild, false, "Serve the existing output without building first")
	return cmd
}

type serveOptions struct {
	Watch bool
	Build bool
}

func serve(ctx context.Context, opts moduleOptions, res *moduleResources, sopts serveOptions) error {
	if res.newServer == nil {
		return errors.New("server not configured")
	}
	if sopts.Build {
		if err := buildSite(ctx, res); err != nil {
			return err
		}
	}

	srv, err := res.newServer()
	if err != nil {
		return err
	}

	var watcher *watch.Watcher
	if sopts.Watch {
		watcher, err = watch.New(watch.Config{
			Paths:    watchPaths(opts, res),
			Debounce: res.config.Watch.Debounce,
		}, reloadSite(opts, srv), logging.WatchLogger(res.loggerProvider))
		if err != nil {
			return err
		}
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return srv.Run(ctx)
	})
	if watcher != nil {
		group.Go(func() error {
			return watcher.Run(ctx)
		})
	}

	return group.Wait()
}

func buildSite(ctx context.Context, res *moduleResources) error {
	if res.handlers.build == nil {
		return errors.New("build handler not configured")
	}
	return res.handlers.build.Execute(ctx, sitecmd.BuildSiteCommand{
		ResultCallback: logSummary(res.logger),
	})
}

// reloadSite rebuilds the module from the same options and swaps the
// server's redirect table. A config that fails to load leaves the output
// untouched. A failed build keeps the previous redirect table, but the
// build writes into the served output directory, so pages may already be
// cleaned or partially rewritten.
func reloadSite(opts moduleOptions, srv *server.Server) watch.ReloadFunc {
	return func(ctx context.Context, changed []string) error {
		next, err := moduleBuilder(opts)
		if err != nil {
			return err
		}
		if err := buildSite(ctx, next); err != nil {
			return err
		}
		srv.Reload(next.resolver)
		next.logger.Info("cli.serve.reloaded", "changed", len(changed), "redirects", redirectCount(next))
		return nil
	}
}

func watchPaths(opts moduleOptions, res *moduleResources) []string {
	if len(res.config.Watch.Paths) > 0 {
		return res.config.Watch.Paths
	}
	paths := []string{res.config.Markdown.ContentDir}
	if config := strings.TrimSpace(opts.ConfigPath); config != "" {
		paths = append(paths, config)
	}
	return paths
}

func redirectCount(res *moduleResources) int {
	if res.resolver == nil {
		return 0
	}
	return res.resolver.Table().Len()
}
