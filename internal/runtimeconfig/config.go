package runtimeconfig

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-docsite/internal/redirects"
	"github.com/goliatone/go-docsite/internal/site"
)

var (
	ErrMarkdownContentDirRequired = errors.New("docsite config: markdown content directory is required")
	ErrGeneratorOutputDirRequired = errors.New("docsite config: generator output directory is required")
	ErrGeneratorOutputDirOverlaps = errors.New("docsite config: generator output directory must not contain the markdown content directory")
	ErrGeneratorWorkersInvalid    = errors.New("docsite config: generator workers must be zero or positive")
	ErrRedirectPolicyInvalid      = errors.New("docsite config: redirect policy is invalid")
	ErrRedirectStatusInvalid      = errors.New("docsite config: redirect status code must be a 3xx code")
	ErrServerAddrRequired         = errors.New("docsite config: server address is required")
	ErrWatchPathsRequired         = errors.New("docsite config: watch paths are required when watching is enabled")
	ErrLoggingLevelInvalid        = errors.New("docsite config: logging level is invalid")
	ErrLoggingFormatInvalid       = errors.New("docsite config: logging format is invalid")
)

// Config aggregates every setting a docs site build or server needs.
type Config struct {
	Site      site.Config     `yaml:"site" json:"site"`
	Markdown  MarkdownConfig  `yaml:"markdown" json:"markdown"`
	Redirects RedirectsConfig `yaml:"redirects" json:"redirects"`
	Generator GeneratorConfig `yaml:"generator" json:"generator"`
	Server    ServerConfig    `yaml:"server" json:"server"`
	Watch     WatchConfig     `yaml:"watch" json:"watch"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
}

// MarkdownConfig captures filesystem and parser behaviour for the docs tree.
type MarkdownConfig struct {
	ContentDir string               `yaml:"content_dir" json:"content_dir"`
	Pattern    string               `yaml:"pattern" json:"pattern"`
	Recursive  bool                 `yaml:"recursive" json:"recursive"`
	Exclude    []string             `yaml:"exclude" json:"exclude"`
	Parser     MarkdownParserConfig `yaml:"parser" json:"parser"`
	Include    IncludeConfig        `yaml:"include" json:"include"`
	Highlight  HighlightConfig      `yaml:"highlight" json:"highlight"`
}

// MarkdownParserConfig mirrors interfaces.ParseOptions.
type MarkdownParserConfig struct {
	Extensions   []string `yaml:"extensions" json:"extensions"`
	Sanitize     bool     `yaml:"sanitize" json:"sanitize"`
	HardWraps    bool     `yaml:"hard_wraps" json:"hard_wraps"`
	SafeMode     bool     `yaml:"safe_mode" json:"safe_mode"`
	TrustedHosts []string `yaml:"trusted_hosts" json:"trusted_hosts"`
}

// IncludeConfig selects how include directives are resolved.
type IncludeConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	// Root resolves every include against one directory. Empty means
	// next to the including document.
	Root       string `yaml:"root" json:"root"`
	ThrowError bool   `yaml:"throw_error" json:"throw_error"`
}

// HighlightConfig controls code block highlighting.
type HighlightConfig struct {
	Enabled   bool     `yaml:"enabled" json:"enabled"`
	Style     string   `yaml:"style" json:"style"`
	Classes   bool     `yaml:"classes" json:"classes"`
	Languages []string `yaml:"languages" json:"languages"`
}

// RedirectsConfig holds the legacy path table.
type RedirectsConfig struct {
	Policy     string            `yaml:"policy" json:"policy"`
	StatusCode int               `yaml:"status_code" json:"status_code"`
	WriteStubs bool              `yaml:"write_stubs" json:"write_stubs"`
	Entries    map[string]string `yaml:"entries" json:"entries"`
}

// GeneratorConfig captures behaviour for the static site build.
type GeneratorConfig struct {
	OutputDir       string        `yaml:"output_dir" json:"output_dir"`
	PublicDir       string        `yaml:"public_dir" json:"public_dir"`
	Layout          string        `yaml:"layout" json:"layout"`
	CleanBuild      bool          `yaml:"clean_build" json:"clean_build"`
	GenerateSitemap bool          `yaml:"generate_sitemap" json:"generate_sitemap"`
	GenerateRobots  bool          `yaml:"generate_robots" json:"generate_robots"`
	IncludeDrafts   bool          `yaml:"include_drafts" json:"include_drafts"`
	Workers         int           `yaml:"workers" json:"workers"`
	RenderTimeout   time.Duration `yaml:"render_timeout" json:"render_timeout"`
}

// ServerConfig configures the preview server.
type ServerConfig struct {
	Addr            string        `yaml:"addr" json:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" json:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// WatchConfig configures config file watching in serve mode.
type WatchConfig struct {
	Enabled  bool          `yaml:"enabled" json:"enabled"`
	Paths    []string      `yaml:"paths" json:"paths"`
	Debounce time.Duration `yaml:"debounce" json:"debounce"`
}

// LoggingConfig captures go-logger options.
type LoggingConfig struct {
	Level     string   `yaml:"level" json:"level"`
	Format    string   `yaml:"format" json:"format"`
	AddSource bool     `yaml:"add_source" json:"add_source"`
	Focus     []string `yaml:"focus" json:"focus"`
}

// DefaultConfig returns the defaults of the Bun documentation site.
func DefaultConfig() Config {
	return Config{
		Site: site.Config{
			Title:        "Bun",
			Description:  "Simple and performant ORM for sql.DB",
			Lang:         "en-US",
			Logo:         "/hero/logo.png",
			EditLinkText: "Edit this page on GitHub",
			Navbar:       []site.NavItem{},
			Sidebar:      site.Sidebar{},
		},
		Markdown: MarkdownConfig{
			ContentDir: "docs",
			Pattern:    "*.md",
			Recursive:  true,
			Exclude:    []string{"node_modules"},
			Parser: MarkdownParserConfig{
				Extensions:   []string{"gfm", "footnote"},
				TrustedHosts: []string{"uptrace.dev"},
			},
			Include: IncludeConfig{
				Enabled:    true,
				ThrowError: true,
			},
			Highlight: HighlightConfig{
				Style:     "github",
				Languages: []string{"go", "sql"},
			},
		},
		Redirects: RedirectsConfig{
			Policy:     string(redirects.PolicyExact),
			StatusCode: 302,
			WriteStubs: true,
			Entries:    map[string]string{},
		},
		Generator: GeneratorConfig{
			OutputDir:       "dist",
			PublicDir:       "public",
			CleanBuild:      true,
			GenerateSitemap: true,
			GenerateRobots:  true,
			Workers:         0,
			RenderTimeout:   0,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if err := cfg.Site.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Markdown.ContentDir) == "" {
		return ErrMarkdownContentDirRequired
	}
	if strings.TrimSpace(cfg.Generator.OutputDir) == "" {
		return ErrGeneratorOutputDirRequired
	}
	if outputContainsContent(cfg.Generator.OutputDir, cfg.Markdown.ContentDir) {
		return fmt.Errorf("%w: %s contains %s", ErrGeneratorOutputDirOverlaps, cfg.Generator.OutputDir, cfg.Markdown.ContentDir)
	}
	if cfg.Generator.Workers < 0 {
		return ErrGeneratorWorkersInvalid
	}
	if _, err := redirects.ParsePolicy(cfg.Redirects.Policy); err != nil {
		return fmt.Errorf("%w: %s", ErrRedirectPolicyInvalid, cfg.Redirects.Policy)
	}
	if code := cfg.Redirects.StatusCode; code != 0 && (code < 300 || code > 399) {
		return fmt.Errorf("%w: %d", ErrRedirectStatusInvalid, code)
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return ErrServerAddrRequired
	}
	if cfg.Watch.Enabled && len(cfg.Watch.Paths) == 0 {
		return ErrWatchPathsRequired
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
	}
	return cfg.validateFields()
}

// validateFields applies per-field rules that do not warrant a sentinel.
func (cfg Config) validateFields() error {
	errs := validation.Errors{}
	for source, target := range cfg.Redirects.Entries {
		if strings.TrimSpace(source) == "" || !strings.HasPrefix(source, "/") {
			errs["redirects.entries"] = validation.NewError("docsite.config.redirect_source_invalid", "redirect sources must be absolute paths")
			break
		}
		if strings.TrimSpace(target) == "" {
			errs["redirects.entries"] = validation.NewError("docsite.config.redirect_target_required", "redirect targets must not be empty")
			break
		}
	}
	for _, host := range cfg.Markdown.Parser.TrustedHosts {
		if strings.TrimSpace(host) == "" || strings.Contains(host, "/") {
			errs["markdown.parser.trusted_hosts"] = validation.NewError("docsite.config.trusted_host_invalid", "trusted hosts must be bare host names")
			break
		}
	}
	if cfg.Watch.Debounce < 0 {
		errs["watch.debounce"] = validation.NewError("docsite.config.watch_debounce_invalid", "debounce must be zero or positive")
	}
	return errs.Filter()
}

// outputContainsContent reports whether a clean build of output would
// remove the content directory.
func outputContainsContent(output, content string) bool {
	out, err := filepath.Abs(strings.TrimSpace(output))
	if err != nil {
		return false
	}
	src, err := filepath.Abs(strings.TrimSpace(content))
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(out, src)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
