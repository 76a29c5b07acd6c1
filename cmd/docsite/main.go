// Command docsite builds, previews and serves a markdown documentation site.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "docsite:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return runContext(ctx, args, os.Stdout)
}

func runContext(ctx context.Context, args []string, stdout io.Writer) error {
	root := newRootCommand(stdout)
	root.SetArgs(args)
	root.SetOut(stdout)
	return root.ExecuteContext(ctx)
}

const (
	pConfig     = "config"
	pEnvFile    = "env-file"
	pContentDir = "content-dir"
	pOutputDir  = "out"
	pLogLevel   = "log-level"
)

func newRootCommand(stdout io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "docsite",
		Short:         "Build and serve a markdown documentation site",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := root.PersistentFlags()
	f.StringP(pConfig, "c", "", "Path to the docsite YAML config")
	f.String(pEnvFile, "", "Dotenv file loaded before the config (default .env when present)")
	f.String(pContentDir, "", "Override the markdown content directory")
	f.StringP(pOutputDir, "o", "", "Override the output directory")
	f.String(pLogLevel, "", "Override the log level")

	root.AddCommand(
		newBuildCommand(),
		newDiffCommand(stdout),
		newCleanCommand(),
		newResolveCommand(stdout),
		newPreviewCommand(stdout),
		newServeCommand(),
	)
	return root
}

func parseModuleOptions(cmd *cobra.Command) moduleOptions {
	flags := cmd.Flags()
	configPath, _ := flags.GetString(pConfig)
	envFile, _ := flags.GetString(pEnvFile)
	contentDir, _ := flags.GetString(pContentDir)
	outputDir, _ := flags.GetString(pOutputDir)
	logLevel, _ := flags.GetString(pLogLevel)
	return moduleOptions{
		ConfigPath: configPath,
		EnvFile:    envFile,
		ContentDir: contentDir,
		OutputDir:  outputDir,
		LogLevel:   logLevel,
	}
}
