package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	sitecmd "github.com/goliatone/go-docsite/internal/commands/site"
	"github.com/goliatone/go-docsite/internal/redirects"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

const (
	pPaths  = "path"
	pDryRun = "dry-run"
	pRaw    = "raw"
)

func newBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render the documentation tree into the output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := moduleBuilder(parseModuleOptions(cmd))
			if err != nil {
				return err
			}
			if res.handlers.build == nil {
				return errors.New("build handler not configured")
			}
			paths, _ := cmd.Flags().GetStringSlice(pPaths)
			dryRun, _ := cmd.Flags().GetBool(pDryRun)
			return res.handlers.build.Execute(cmd.Context(), sitecmd.BuildSiteCommand{
				Paths:          paths,
				DryRun:         dryRun,
				ResultCallback: logSummary(res.logger),
			})
		},
	}
	cmd.Flags().StringSlice(pPaths, nil, "Markdown sources to build, relative to the content dir")
	cmd.Flags().Bool(pDryRun, false, "Render without writing artifacts")
	return cmd
}

func newDiffCommand(stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "List the pages a build would write",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := moduleBuilder(parseModuleOptions(cmd))
			if err != nil {
				return err
			}
			if res.handlers.diff == nil {
				return errors.New("diff handler not configured")
			}
			paths, _ := cmd.Flags().GetStringSlice(pPaths)
			summary := logSummary(res.logger)
			return res.handlers.diff.Execute(cmd.Context(), sitecmd.DiffSiteCommand{
				Paths: paths,
				ResultCallback: func(envelope sitecmd.ResultEnvelope) {
					summary(envelope)
					if envelope.Result == nil {
						return
					}
					for _, page := range envelope.Result.Rendered {
						fmt.Fprintf(stdout, "%s\t%s\n", page.Output, page.SourcePath)
					}
				},
			})
		},
	}
	cmd.Flags().StringSlice(pPaths, nil, "Markdown sources to render, relative to the content dir")
	return cmd
}

func newCleanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove the output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := moduleBuilder(parseModuleOptions(cmd))
			if err != nil {
				return err
			}
			if res.handlers.clean == nil {
				return errors.New("clean handler not configured")
			}
			if err := res.handlers.clean.Execute(cmd.Context(), sitecmd.CleanSiteCommand{}); err != nil {
				return err
			}
			res.logger.Info("cli.clean.completed", "operation", "clean", "output_dir", res.config.Generator.OutputDir)
			return nil
		},
	}
}

func newResolveCommand(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve PATH...",
		Short: "Show where navigation paths are redirected",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := moduleBuilder(parseModuleOptions(cmd))
			if err != nil {
				return err
			}
			if res.handlers.resolve == nil {
				return errors.New("resolve handler not configured")
			}
			for _, path := range args {
				err := res.handlers.resolve.Execute(cmd.Context(), sitecmd.ResolveRedirectCommand{
					Path: path,
					DecisionCallback: func(path string, decision redirects.Decision) {
						if decision.Continue() {
							fmt.Fprintf(stdout, "%s\t%s\n", path, decision.Action)
							return
						}
						fmt.Fprintf(stdout, "%s\t%s\t%s\n", path, decision.Action, decision.Target)
					},
				})
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newPreviewCommand(stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview FILE",
		Short: "Render one markdown file to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := moduleBuilder(parseModuleOptions(cmd))
			if err != nil {
				return err
			}
			if res.markdown == nil {
				return errors.New("markdown service not configured")
			}
			doc, err := res.markdown.Load(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("load markdown document: %w", err)
			}
			raw, _ := cmd.Flags().GetBool(pRaw)
			return writePreview(stdout, doc, raw)
		},
	}
	cmd.Flags().Bool(pRaw, false, "Print the markdown body instead of rendered HTML")
	return cmd
}

func writePreview(w io.Writer, doc *interfaces.Document, raw bool) error {
	fmt.Fprintf(w, "Path: %s\nChecksum: %x\n\n", doc.FilePath, doc.Checksum)
	if len(doc.FrontMatter.Raw) > 0 {
		frontmatter, err := json.MarshalIndent(doc.FrontMatter.Raw, "", "  ")
		if err != nil {
			return fmt.Errorf("encode front matter: %w", err)
		}
		fmt.Fprintf(w, "Frontmatter:\n%s\n\n", frontmatter)
	}
	if raw {
		_, err := fmt.Fprintf(w, "Markdown Body:\n%s\n", strings.TrimSpace(string(doc.Body)))
		return err
	}
	_, err := fmt.Fprintf(w, "Rendered HTML:\n%s\n", strings.TrimSpace(string(doc.BodyHTML)))
	return err
}

func logSummary(logger interfaces.Logger) sitecmd.ResultCallback {
	return func(envelope sitecmd.ResultEnvelope) {
		operation, _ := envelope.Metadata["operation"].(string)
		result := envelope.Result
		if result == nil {
			logger.Warn("cli.summary.missing", "operation", operation)
			return
		}
		logger.Info("cli.summary",
			"operation", operation,
			"build_id", result.BuildID.String(),
			"pages", result.PagesBuilt,
			"skipped", result.PagesSkipped,
			"assets", result.AssetsBuilt,
			"redirects", result.RedirectsWritten,
			"errors", len(result.Errors),
			"dry_run", result.DryRun,
			"duration", result.Duration,
		)
		for _, buildErr := range result.Errors {
			logger.Error("cli.summary.error", "operation", operation, "error", buildErr)
		}
	}
}
