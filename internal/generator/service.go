package generator

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-docsite/internal/logging"
	"github.com/goliatone/go-docsite/internal/redirects"
	"github.com/goliatone/go-docsite/internal/site"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

var (
	// ErrRedirectConflict indicates a legacy path that is also a rendered page.
	ErrRedirectConflict = errors.New("generator: redirect source collides with a rendered page")
	errSourceRequired   = errors.New("generator: document source is required")
	errSiteRequired     = errors.New("generator: site is required")
)

const highlightStylesheet = "assets/highlight.css"

// Service describes the static site generator contract.
type Service interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
	Clean(ctx context.Context) error
}

// DocumentSource discovers and renders the documentation tree.
type DocumentSource interface {
	Discover(ctx context.Context, dir string) ([]*interfaces.Document, error)
	RenderDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ParseOptions) ([]byte, error)
}

// StylesheetWriter writes a stylesheet the layout links to, such as the
// code highlighting theme.
type StylesheetWriter interface {
	WriteCSS(w io.Writer) error
}

// Config captures runtime behaviour toggles for the generator.
type Config struct {
	BaseURL            string
	PublicDir          string
	CleanBuild         bool
	GenerateSitemap    bool
	GenerateRobots     bool
	WriteRedirectStubs bool
	IncludeDrafts      bool
	Workers            int
	RenderTimeout      time.Duration
}

// BuildOptions narrows the scope of a generator run.
type BuildOptions struct {
	// Paths limits the build to the listed source paths, relative to the
	// docs root. Empty builds everything.
	Paths  []string
	DryRun bool
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	BuildID          uuid.UUID
	PagesBuilt       int
	PagesSkipped     int
	AssetsBuilt      int
	RedirectsWritten int
	Duration         time.Duration
	Rendered         []RenderedPage
	Diagnostics      []RenderDiagnostic
	Errors           []error
	DryRun           bool
}

// RenderedPage captures the rendered HTML output for a page.
type RenderedPage struct {
	SourcePath   string
	Route        string
	Output       string
	Title        string
	HTML         string
	Checksum     string
	LastModified time.Time
	Duration     time.Duration
}

// RenderDiagnostic records rendering timing and errors for individual pages.
type RenderDiagnostic struct {
	SourcePath string
	Route      string
	Duration   time.Duration
	Skipped    bool
	Err        error
}

// Dependencies lists the collaborators required by the generator.
type Dependencies struct {
	Source     DocumentSource
	Site       *site.Site
	Layout     *Layout
	Redirects  *redirects.Table
	Writer     ArtifactWriter
	Stylesheet StylesheetWriter
	Logger     interfaces.Logger
}

// NewService wires a generator with the provided configuration and
// dependencies. A nil Writer discards every artifact.
func NewService(cfg Config, deps Dependencies) Service {
	if deps.Writer == nil {
		deps.Writer = noopWriter{}
	}
	return &service{
		cfg:    cfg,
		deps:   deps,
		logger: logging.OrNoOp(deps.Logger),
		now:    time.Now,
		newID:  uuid.New,
	}
}

type service struct {
	cfg    Config
	deps   Dependencies
	logger interfaces.Logger
	now    func() time.Time
	newID  func() uuid.UUID
}

type renderOutcome struct {
	page       RenderedPage
	diagnostic RenderDiagnostic
	err        error
}

func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.deps.Source == nil {
		return nil, errSourceRequired
	}
	if s.deps.Site == nil {
		return nil, errSiteRequired
	}
	layout := s.deps.Layout
	if layout == nil {
		var err error
		if layout, err = LoadLayout(""); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	result := &BuildResult{BuildID: s.newID(), DryRun: opts.DryRun}
	generatedAt := s.now()
	logger := s.logger.WithContext(ctx)

	docs, err := s.deps.Source.Discover(ctx, ".")
	if err != nil {
		return nil, fmt.Errorf("generator: discover documents: %w", err)
	}
	docs, skipped := s.selectDocuments(docs, opts.Paths)
	for _, doc := range skipped {
		result.PagesSkipped++
		result.Diagnostics = append(result.Diagnostics, RenderDiagnostic{
			SourcePath: doc.FilePath,
			Route:      site.Route(doc.FilePath),
			Skipped:    true,
		})
	}

	tmplBase := TemplateContext{
		Site:  siteMetadata(s.deps.Site.Config(), s.cfg.BaseURL),
		Build: BuildMetadata{ID: result.BuildID.String(), GeneratedAt: generatedAt},
	}
	if s.deps.Stylesheet != nil {
		tmplBase.Assets.HighlightCSS = "/" + highlightStylesheet
	}

	outcomes, renderErr := s.renderAll(ctx, layout, tmplBase, docs)
	var errs []error
	if renderErr != nil {
		errs = append(errs, renderErr)
		if ctx.Err() != nil {
			return s.finish(result, nil, errs, start)
		}
	}
	rendered := make([]RenderedPage, 0, len(outcomes))
	for _, outcome := range outcomes {
		result.Diagnostics = append(result.Diagnostics, outcome.diagnostic)
		if outcome.err != nil {
			errs = append(errs, outcome.err)
			continue
		}
		result.PagesBuilt++
		rendered = append(rendered, outcome.page)
	}

	if opts.DryRun {
		return s.finish(result, rendered, errs, start)
	}

	writer := s.deps.Writer
	if s.cfg.CleanBuild && len(opts.Paths) == 0 {
		if err := writer.RemoveAll(ctx, ""); err != nil {
			return nil, fmt.Errorf("generator: clean output: %w", err)
		}
	}
	if err := writer.EnsureDir(ctx, ""); err != nil {
		return nil, fmt.Errorf("generator: ensure output: %w", err)
	}

	if err := s.persistPages(ctx, writer, rendered); err != nil {
		errs = append(errs, err)
	}

	assets, err := copyPublicDir(ctx, writer, s.cfg.PublicDir)
	result.AssetsBuilt += assets
	if err != nil {
		errs = append(errs, err)
	}
	if s.deps.Stylesheet != nil {
		if err := s.writeStylesheet(ctx, writer); err != nil {
			errs = append(errs, err)
		} else {
			result.AssetsBuilt++
		}
	}

	var stubs []manifestRedirect
	if s.cfg.WriteRedirectStubs && len(opts.Paths) == 0 {
		var stubErrs []error
		stubs, stubErrs = s.writeRedirectStubs(ctx, writer, rendered)
		result.RedirectsWritten = len(stubs)
		errs = append(errs, stubErrs...)
	}

	if s.cfg.GenerateSitemap {
		if err := s.writeSitemap(ctx, writer, rendered, generatedAt); err != nil {
			errs = append(errs, err)
		}
	}
	if s.cfg.GenerateRobots {
		if err := s.writeRobots(ctx, writer); err != nil {
			errs = append(errs, err)
		}
	}

	manifest := newBuildManifest(result.BuildID, generatedAt, rendered, stubs)
	if err := s.persistManifest(ctx, writer, manifest); err != nil {
		errs = append(errs, err)
	}

	result, err = s.finish(result, rendered, errs, start)
	logger.Info("generator.build.completed",
		"build_id", result.BuildID.String(),
		"pages_built", result.PagesBuilt,
		"pages_skipped", result.PagesSkipped,
		"redirects", result.RedirectsWritten,
		"errors", len(result.Errors),
		"duration", result.Duration,
	)
	return result, err
}

func (s *service) finish(result *BuildResult, rendered []RenderedPage, errs []error, start time.Time) (*BuildResult, error) {
	result.Rendered = rendered
	result.Duration = time.Since(start)
	if len(errs) > 0 {
		result.Errors = append(result.Errors, errs...)
		return result, errors.Join(errs...)
	}
	return result, nil
}

// selectDocuments applies the path filter and drops drafts unless they are
// requested.
func (s *service) selectDocuments(docs []*interfaces.Document, paths []string) ([]*interfaces.Document, []*interfaces.Document) {
	wanted := map[string]struct{}{}
	for _, p := range paths {
		if p = strings.TrimSpace(p); p != "" {
			wanted[path.Clean(strings.TrimPrefix(p, "/"))] = struct{}{}
		}
	}

	var selected, skipped []*interfaces.Document
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		if len(wanted) > 0 {
			if _, ok := wanted[doc.FilePath]; !ok {
				continue
			}
		}
		if doc.FrontMatter.Draft && !s.cfg.IncludeDrafts {
			skipped = append(skipped, doc)
			continue
		}
		selected = append(selected, doc)
	}
	return selected, skipped
}

func (s *service) renderAll(ctx context.Context, layout *Layout, base TemplateContext, docs []*interfaces.Document) ([]renderOutcome, error) {
	outcomes := make([]renderOutcome, len(docs))
	if len(docs) == 0 {
		return outcomes, nil
	}
	idx := site.NewIndex(docs)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.effectiveWorkerCount(len(docs)))
	for i, doc := range docs {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				outcomes[i] = failedOutcome(doc, err)
				return err
			}
			outcomes[i] = s.renderPage(groupCtx, layout, base, idx, doc)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}

func (s *service) renderPage(ctx context.Context, layout *Layout, base TemplateContext, idx site.Index, doc *interfaces.Document) renderOutcome {
	route := site.Route(doc.FilePath)
	if s.cfg.RenderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RenderTimeout)
		defer cancel()
	}

	start := time.Now()
	if _, err := s.deps.Source.RenderDocument(ctx, doc, interfaces.ParseOptions{}); err != nil {
		return failedOutcome(doc, fmt.Errorf("generator: render %s: %w", doc.FilePath, err))
	}

	data := base
	data.Page = s.deps.Site.Page(doc, idx)
	html, err := layout.Render(data)
	if err != nil {
		return failedOutcome(doc, fmt.Errorf("generator: layout %s: %w", doc.FilePath, err))
	}
	duration := time.Since(start)

	logging.WithDocumentContext(s.logger, doc.FilePath, route).Debug("generator.page.rendered", "duration", duration)
	return renderOutcome{
		page: RenderedPage{
			SourcePath:   doc.FilePath,
			Route:        route,
			Output:       site.OutputPath(route),
			Title:        data.Page.Title,
			HTML:         html,
			Checksum:     computeHashFromString(html),
			LastModified: doc.LastModified,
			Duration:     duration,
		},
		diagnostic: RenderDiagnostic{
			SourcePath: doc.FilePath,
			Route:      route,
			Duration:   duration,
		},
	}
}

func failedOutcome(doc *interfaces.Document, err error) renderOutcome {
	return renderOutcome{
		diagnostic: RenderDiagnostic{
			SourcePath: doc.FilePath,
			Route:      site.Route(doc.FilePath),
			Err:        err,
		},
		err: err,
	}
}

func (s *service) persistPages(ctx context.Context, writer ArtifactWriter, pages []RenderedPage) error {
	dirCache := map[string]struct{}{}
	for i := range pages {
		if err := ensureDir(ctx, writer, dirCache, path.Dir(pages[i].Output)); err != nil {
			return err
		}
		req := WriteFileRequest{
			Path:        pages[i].Output,
			Content:     strings.NewReader(pages[i].HTML),
			Size:        int64(len(pages[i].HTML)),
			Category:    string(categoryPage),
			ContentType: "text/html; charset=utf-8",
			Checksum:    pages[i].Checksum,
			Metadata: map[string]string{
				"source": pages[i].SourcePath,
				"route":  pages[i].Route,
			},
		}
		if err := writer.WriteFile(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) writeStylesheet(ctx context.Context, writer ArtifactWriter) error {
	var buf bytes.Buffer
	if err := s.deps.Stylesheet.WriteCSS(&buf); err != nil {
		return fmt.Errorf("generator: stylesheet: %w", err)
	}
	if err := writer.EnsureDir(ctx, path.Dir(highlightStylesheet)); err != nil {
		return err
	}
	return writer.WriteFile(ctx, WriteFileRequest{
		Path:        highlightStylesheet,
		Content:     bytes.NewReader(buf.Bytes()),
		Size:        int64(buf.Len()),
		Category:    string(categoryAsset),
		ContentType: "text/css",
		Checksum:    computeHash(buf.Bytes()),
	})
}

// writeRedirectStubs writes a full-load redirect page at every legacy path
// so statically hosted sites redirect without a server.
func (s *service) writeRedirectStubs(ctx context.Context, writer ArtifactWriter, pages []RenderedPage) ([]manifestRedirect, []error) {
	if s.deps.Redirects.Len() == 0 {
		return nil, nil
	}
	taken := make(map[string]struct{}, len(pages))
	for _, page := range pages {
		taken[page.Output] = struct{}{}
	}

	entries := s.deps.Redirects.Entries()
	sources := make([]string, 0, len(entries))
	for source := range entries {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	var (
		written  []manifestRedirect
		errs     []error
		dirCache = map[string]struct{}{}
	)
	for _, source := range sources {
		target := entries[source]
		output := site.OutputPath(source)
		if _, clash := taken[output]; clash {
			errs = append(errs, fmt.Errorf("%w: %s", ErrRedirectConflict, source))
			continue
		}
		stub, err := redirects.Stub(target)
		if err != nil {
			errs = append(errs, fmt.Errorf("generator: redirect stub %s: %w", source, err))
			continue
		}
		if err := ensureDir(ctx, writer, dirCache, path.Dir(output)); err != nil {
			errs = append(errs, err)
			continue
		}
		req := WriteFileRequest{
			Path:        output,
			Content:     bytes.NewReader(stub),
			Size:        int64(len(stub)),
			Category:    string(categoryRedirect),
			ContentType: "text/html; charset=utf-8",
			Checksum:    computeHash(stub),
			Metadata: map[string]string{
				"source": source,
				"target": target,
			},
		}
		if err := writer.WriteFile(ctx, req); err != nil {
			errs = append(errs, err)
			continue
		}
		written = append(written, manifestRedirect{Source: source, Target: target, Output: output})
	}
	return written, errs
}

func (s *service) writeSitemap(ctx context.Context, writer ArtifactWriter, pages []RenderedPage, generatedAt time.Time) error {
	content, err := buildSitemap(s.baseURL(), pages, generatedAt)
	if err != nil {
		return err
	}
	return writer.WriteFile(ctx, WriteFileRequest{
		Path:        "sitemap.xml",
		Content:     strings.NewReader(content),
		Size:        int64(len(content)),
		Category:    string(categorySitemap),
		ContentType: "application/xml",
		Checksum:    computeHashFromString(content),
		Metadata: map[string]string{
			"generated_at": generatedAt.UTC().Format(time.RFC3339),
		},
	})
}

func (s *service) writeRobots(ctx context.Context, writer ArtifactWriter) error {
	content := buildRobots(s.baseURL(), s.cfg.GenerateSitemap)
	return writer.WriteFile(ctx, WriteFileRequest{
		Path:        "robots.txt",
		Content:     strings.NewReader(content),
		Size:        int64(len(content)),
		Category:    string(categoryRobots),
		ContentType: "text/plain; charset=utf-8",
		Checksum:    computeHashFromString(content),
	})
}

func (s *service) persistManifest(ctx context.Context, writer ArtifactWriter, manifest *buildManifest) error {
	data, err := manifest.marshal()
	if err != nil {
		return err
	}
	return writer.WriteFile(ctx, WriteFileRequest{
		Path:        manifestFileName,
		Content:     bytes.NewReader(data),
		Size:        int64(len(data)),
		Category:    string(categoryManifest),
		ContentType: "application/json",
		Checksum:    computeHash(data),
		Metadata: map[string]string{
			"build_id": manifest.BuildID,
		},
	})
}

// Clean removes every generated artifact.
func (s *service) Clean(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.deps.Writer.RemoveAll(ctx, ""); err != nil {
		return fmt.Errorf("generator: clean: %w", err)
	}
	s.logger.WithContext(ctx).Info("generator.clean.completed")
	return nil
}

func (s *service) baseURL() string {
	if base := strings.TrimSpace(s.cfg.BaseURL); base != "" {
		return base
	}
	return s.deps.Site.Config().BaseURL
}

func (s *service) effectiveWorkerCount(pageCount int) int {
	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}
	if pageCount > 0 && workers > pageCount {
		return pageCount
	}
	return workers
}

func ensureDir(ctx context.Context, writer ArtifactWriter, cache map[string]struct{}, dir string) error {
	dir = strings.Trim(dir, " ")
	if dir == "" || dir == "." {
		return nil
	}
	if cache != nil {
		if _, ok := cache[dir]; ok {
			return nil
		}
		cache[dir] = struct{}{}
	}
	return writer.EnsureDir(ctx, dir)
}

func computeHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func computeHashFromString(content string) string {
	return computeHash([]byte(content))
}

type noopWriter struct{}

func (noopWriter) EnsureDir(context.Context, string) error { return nil }

func (noopWriter) WriteFile(context.Context, WriteFileRequest) error { return nil }

func (noopWriter) RemoveAll(context.Context, string) error { return nil }
