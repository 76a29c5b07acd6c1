package generator

import (
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-docsite/internal/site"
)

//go:embed templates/layout.html
var defaultLayout string

// TemplateContext is the data contract handed to the page layout. Templates
// see it as the variables site, page, build and assets.
type TemplateContext struct {
	Site   SiteMetadata
	Page   site.Page
	Build  BuildMetadata
	Assets AssetLinks
}

// SiteMetadata exposes site wide settings to templates.
type SiteMetadata struct {
	Title        string
	Description  string
	Lang         string
	Logo         string
	BaseURL      string
	EditLinkText string
}

// BuildMetadata surfaces build information to templates.
type BuildMetadata struct {
	ID          string
	GeneratedAt time.Time
}

// AssetLinks lists generated assets a layout may reference.
type AssetLinks struct {
	HighlightCSS string
}

// Layout renders pages through a pongo2 template.
type Layout struct {
	name string
	tpl  *pongo2.Template
}

// LoadLayout compiles the template at path, or the built-in layout when
// path is empty.
func LoadLayout(path string) (*Layout, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		tpl, err := pongo2.FromString(defaultLayout)
		if err != nil {
			return nil, fmt.Errorf("generator: compile default layout: %w", err)
		}
		return &Layout{name: "default", tpl: tpl}, nil
	}
	tpl, err := pongo2.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("generator: compile layout %s: %w", path, err)
	}
	return &Layout{name: path, tpl: tpl}, nil
}

// Name identifies the layout in diagnostics.
func (l *Layout) Name() string {
	return l.name
}

// Render executes the layout for one page.
func (l *Layout) Render(data TemplateContext) (string, error) {
	out, err := l.tpl.Execute(pongo2.Context{
		"site":   data.Site,
		"page":   data.Page,
		"build":  data.Build,
		"assets": data.Assets,
	})
	if err != nil {
		return "", fmt.Errorf("generator: render layout %s: %w", l.name, err)
	}
	return out, nil
}

func siteMetadata(cfg site.Config, baseURL string) SiteMetadata {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = cfg.BaseURL
	}
	return SiteMetadata{
		Title:        cfg.Title,
		Description:  cfg.Description,
		Lang:         cfg.Lang,
		Logo:         cfg.Logo,
		BaseURL:      strings.TrimRight(baseURL, "/"),
		EditLinkText: cfg.EditLinkText,
	}
}
