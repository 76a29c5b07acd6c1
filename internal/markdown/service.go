package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-docsite/internal/logging"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// Config controls how the Markdown service discovers and renders files.
type Config struct {
	BasePath  string
	Pattern   string
	Recursive bool
	Exclude   []string
	Parser    interfaces.ParseOptions
	Include   IncludeConfig
	Highlight HighlightConfig
}

// IncludeConfig selects the include root strategy.
type IncludeConfig struct {
	Enabled bool
	// Root, when set, resolves every include against this directory.
	// Otherwise includes resolve next to the including document.
	Root       string
	ThrowError bool
}

// Service implements interfaces.MarkdownService for a documentation tree
// on disk.
type Service struct {
	cfg         Config
	root        string
	parser      interfaces.MarkdownParser
	loader      *Loader
	includer    *Includer
	highlighter *Highlighter
	logger      interfaces.Logger
}

var _ interfaces.MarkdownService = (*Service)(nil)

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logging.OrNoOp(logger)
	}
}

// WithParser replaces the default goldmark parser.
func WithParser(parser interfaces.MarkdownParser) ServiceOption {
	return func(s *Service) {
		if parser != nil {
			s.parser = parser
		}
	}
}

// NewService builds a service rooted at cfg.BasePath. The base path must
// exist.
func NewService(cfg Config, opts ...ServiceOption) (*Service, error) {
	root, filesystem, err := prepareFilesystem(cfg.BasePath)
	if err != nil {
		return nil, err
	}

	s := &Service{
		cfg:    cfg,
		root:   root,
		parser: NewGoldmarkParser(cfg.Parser),
		loader: NewLoader(filesystem, LoaderConfig{
			BasePath:  root,
			Pattern:   cfg.Pattern,
			Recursive: cfg.Recursive,
			Exclude:   cfg.Exclude,
		}),
		logger: logging.NoOp(),
	}

	if cfg.Include.Enabled {
		rootDir := DocumentRelativeRoot(root)
		if dir := strings.TrimSpace(cfg.Include.Root); dir != "" {
			abs, err := filepath.Abs(dir)
			if err != nil {
				return nil, fmt.Errorf("markdown service: include root %s: %w", dir, err)
			}
			rootDir = FixedRoot(abs)
		}
		s.includer = NewIncluder(IncludeOptions{
			RootDir:    rootDir,
			ThrowError: cfg.Include.ThrowError,
		})
	}

	if cfg.Highlight.Enabled {
		s.highlighter = NewHighlighter(cfg.Highlight)
	}

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Root returns the absolute documentation root.
func (s *Service) Root() string {
	return s.root
}

// Highlighter returns the code highlighter, or nil when highlighting is off.
func (s *Service) Highlighter() *Highlighter {
	return s.highlighter
}

// Load reads and renders a single document relative to the root.
func (s *Service) Load(ctx context.Context, path string) (*interfaces.Document, error) {
	result, err := s.loader.LoadFile(ctx, s.normalisePath(path))
	if err != nil {
		return nil, err
	}
	if _, err := s.RenderDocument(ctx, result.Document, interfaces.ParseOptions{}); err != nil {
		return nil, err
	}
	return result.Document, nil
}

// LoadDirectory reads and renders every document under dir.
func (s *Service) LoadDirectory(ctx context.Context, dir string) ([]*interfaces.Document, error) {
	results, err := s.loader.LoadDirectory(ctx, s.normalisePath(dir))
	if err != nil {
		return nil, err
	}

	docs := make([]*interfaces.Document, 0, len(results))
	for _, result := range results {
		if _, err := s.RenderDocument(ctx, result.Document, interfaces.ParseOptions{}); err != nil {
			return nil, err
		}
		docs = append(docs, result.Document)
	}
	s.logger.Debug("markdown.load_directory.completed", "dir", dir, "documents", len(docs))
	return docs, nil
}

// Discover lists documents under dir without rendering them.
func (s *Service) Discover(ctx context.Context, dir string) ([]*interfaces.Document, error) {
	results, err := s.loader.LoadDirectory(ctx, s.normalisePath(dir))
	if err != nil {
		return nil, err
	}
	docs := make([]*interfaces.Document, 0, len(results))
	for _, result := range results {
		docs = append(docs, result.Document)
	}
	return docs, nil
}

// Render converts synthetic Markdown that has no document path. Includes
// resolve against the documentation root.
func (s *Service) Render(ctx context.Context, markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	return s.render(ctx, IncludeState{}, markdown, opts)
}

// RenderDocument expands includes relative to the document, converts the
// body and stores the result on doc.BodyHTML.
func (s *Service) RenderDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ParseOptions) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("markdown service: document is nil")
	}
	html, err := s.render(ctx, IncludeState{FilePathRelative: doc.FilePath}, doc.Body, opts)
	if err != nil {
		logging.WithDocumentContext(s.logger, doc.FilePath, "").Error("markdown.render.failed", "error", err)
		return nil, fmt.Errorf("markdown render document %s: %w", doc.FilePath, err)
	}
	doc.BodyHTML = html
	return html, nil
}

func (s *Service) render(ctx context.Context, state IncludeState, markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.includer != nil {
		expanded, err := s.includer.Expand(state, markdown)
		if err != nil {
			return nil, err
		}
		markdown = expanded
	}
	html, err := s.parser.ParseWithOptions(markdown, mergeParseOptions(s.cfg.Parser, opts))
	if err != nil {
		return nil, err
	}
	return s.highlighter.Highlight(html)
}

func (s *Service) normalisePath(path string) string {
	if strings.TrimSpace(path) == "" {
		return "."
	}
	clean := filepath.Clean(path)
	if filepath.IsAbs(clean) {
		if rel, err := filepath.Rel(s.root, clean); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(clean)
}

func mergeParseOptions(base, override interfaces.ParseOptions) interfaces.ParseOptions {
	result := base
	if len(override.Extensions) > 0 {
		result.Extensions = append([]string(nil), override.Extensions...)
	}
	if len(override.TrustedHosts) > 0 {
		result.TrustedHosts = append([]string(nil), override.TrustedHosts...)
	}
	result.Sanitize = result.Sanitize || override.Sanitize
	result.HardWraps = result.HardWraps || override.HardWraps
	result.SafeMode = result.SafeMode || override.SafeMode
	return result
}

func prepareFilesystem(basePath string) (string, fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	root, err := filepath.Abs(basePath)
	if err != nil {
		return "", nil, fmt.Errorf("markdown service: resolve base path %s: %w", basePath, err)
	}
	if _, err := os.Stat(root); err != nil {
		return "", nil, fmt.Errorf("markdown service: stat base path %s: %w", root, err)
	}
	return root, os.DirFS(root), nil
}
