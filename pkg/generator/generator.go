// Package generator exposes the static site generation API for go-docsite
// hosts. Use NewService with Config and Dependencies to render a markdown
// tree, or LoadLayout to compile a custom pongo2 page layout.
package generator

import internal "github.com/goliatone/go-docsite/internal/generator"

type (
	Service          = internal.Service
	Config           = internal.Config
	BuildOptions     = internal.BuildOptions
	BuildResult      = internal.BuildResult
	RenderedPage     = internal.RenderedPage
	RenderDiagnostic = internal.RenderDiagnostic
	Dependencies     = internal.Dependencies
	DocumentSource   = internal.DocumentSource
	StylesheetWriter = internal.StylesheetWriter
	ArtifactWriter   = internal.ArtifactWriter
	WriteFileRequest = internal.WriteFileRequest
	Layout           = internal.Layout
	TemplateContext  = internal.TemplateContext
	FSWriter         = internal.FSWriter
	MemoryWriter     = internal.MemoryWriter
)

var ErrRedirectConflict = internal.ErrRedirectConflict

// NewService wires a static site generator with the supplied configuration
// and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	return internal.NewService(cfg, deps)
}

// LoadLayout compiles the pongo2 template at path, or the built-in layout
// when path is empty.
func LoadLayout(path string) (*Layout, error) {
	return internal.LoadLayout(path)
}

// NewFSWriter writes artifacts below root.
func NewFSWriter(root string) *FSWriter {
	return internal.NewFSWriter(root)
}

// NewMemoryWriter keeps artifacts in memory.
func NewMemoryWriter() *MemoryWriter {
	return internal.NewMemoryWriter()
}
