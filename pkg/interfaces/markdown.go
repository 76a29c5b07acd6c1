package interfaces

import (
	"context"
	"time"
)

// MarkdownParser converts raw Markdown bytes into HTML.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown parsing behaviour. Field names stay
// readable so they can be bound from configuration files and CLI flags.
type ParseOptions struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
	// TrustedHosts lists hosts whose outbound links keep their rel attribute
	// untouched. Every other external link is marked nofollow.
	TrustedHosts []string
}

// MarkdownService loads documentation sources and renders them to HTML.
type MarkdownService interface {
	Load(ctx context.Context, path string) (*Document, error)
	LoadDirectory(ctx context.Context, dir string) ([]*Document, error)
	Render(ctx context.Context, markdown []byte, opts ParseOptions) ([]byte, error)
	RenderDocument(ctx context.Context, doc *Document, opts ParseOptions) ([]byte, error)
}

// Document is a Markdown file with parsed metadata and content.
type Document struct {
	// FilePath is slash separated and relative to the documentation root.
	FilePath     string
	FrontMatter  FrontMatter
	Body         []byte
	BodyHTML     []byte
	LastModified time.Time
	// Checksum stores the SHA-256 digest of the original file content.
	Checksum []byte
}

// FrontMatter models metadata extracted from documentation pages.
type FrontMatter struct {
	Title       string         `yaml:"title" json:"title"`
	Description string         `yaml:"description" json:"description"`
	Sidebar     *bool          `yaml:"sidebar" json:"sidebar,omitempty"`
	Draft       bool           `yaml:"draft" json:"draft"`
	Date        time.Time      `yaml:"date" json:"date"`
	Tags        []string       `yaml:"tags" json:"tags"`
	Custom      map[string]any `yaml:",inline" json:"custom"`
	Raw         map[string]any `yaml:"-" json:"raw"`
}

// ShowSidebar reports whether the page wants the sidebar rendered. Pages
// default to showing it.
func (fm FrontMatter) ShowSidebar() bool {
	return fm.Sidebar == nil || *fm.Sidebar
}
