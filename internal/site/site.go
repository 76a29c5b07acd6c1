package site

import (
	"errors"
	"fmt"
	"maps"
	"path"
	"strings"

	"github.com/goliatone/go-docsite/pkg/interfaces"
)

var (
	// ErrTitleRequired indicates the site has no title.
	ErrTitleRequired = errors.New("site: title is required")
	// ErrNavItemInvalid indicates a navbar entry without text or link.
	ErrNavItemInvalid = errors.New("site: navbar items require text and link")
	// ErrSidebarPrefixInvalid indicates a sidebar key that is not a
	// slash terminated route prefix.
	ErrSidebarPrefixInvalid = errors.New("site: sidebar prefixes must start and end with /")
	// ErrSidebarGroupInvalid indicates a sidebar group without text.
	ErrSidebarGroupInvalid = errors.New("site: sidebar groups require text")
)

// Config describes site wide metadata and navigation.
type Config struct {
	Title        string    `yaml:"title" json:"title"`
	Description  string    `yaml:"description" json:"description"`
	Lang         string    `yaml:"lang" json:"lang"`
	Logo         string    `yaml:"logo" json:"logo"`
	BaseURL      string    `yaml:"base_url" json:"base_url"`
	EditLinkText string    `yaml:"edit_link_text" json:"edit_link_text"`
	Repo         string    `yaml:"repo" json:"repo"`
	DocsDir      string    `yaml:"docs_dir" json:"docs_dir"`
	DocsBranch   string    `yaml:"docs_branch" json:"docs_branch"`
	Navbar       []NavItem `yaml:"navbar" json:"navbar"`
	Sidebar      Sidebar   `yaml:"sidebar" json:"sidebar"`
}

// Validate checks the navigation structure.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return ErrTitleRequired
	}
	for i, item := range c.Navbar {
		if strings.TrimSpace(item.Text) == "" || strings.TrimSpace(item.Link) == "" {
			return fmt.Errorf("%w: navbar[%d]", ErrNavItemInvalid, i)
		}
	}
	for prefix, groups := range c.Sidebar {
		if !strings.HasPrefix(prefix, "/") || !strings.HasSuffix(prefix, "/") {
			return fmt.Errorf("%w: %q", ErrSidebarPrefixInvalid, prefix)
		}
		for i, group := range groups {
			if strings.TrimSpace(group.Text) == "" {
				return fmt.Errorf("%w: sidebar[%q][%d]", ErrSidebarGroupInvalid, prefix, i)
			}
		}
	}
	return nil
}

// Site resolves page views against a validated Config.
type Site struct {
	cfg Config
}

// New validates cfg and returns a Site.
func New(cfg Config) (*Site, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Site{cfg: cfg}, nil
}

// Config returns the site configuration.
func (s *Site) Config() Config {
	return s.cfg
}

// Index maps routes to page titles so sidebar entries can show them.
type Index map[string]string

// NewIndex builds an index over docs.
func NewIndex(docs []*interfaces.Document) Index {
	idx := make(Index, len(docs))
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		idx[Route(doc.FilePath)] = doc.FrontMatter.Title
	}
	return idx
}

// Page is the view of a single document handed to the layout template.
type Page struct {
	Route       string
	SourcePath  string
	Title       string
	HeadTitle   string
	Description string
	Lang        string
	Content     string
	Navbar      []Node
	Sidebar     []Node
	ShowSidebar bool
	EditLink    string
	Meta        map[string]any
}

// Page builds the view of doc. The head title is the page title alone and
// falls back to the site title for untitled pages.
func (s *Site) Page(doc *interfaces.Document, idx Index) Page {
	route := Route(doc.FilePath)

	title := strings.TrimSpace(doc.FrontMatter.Title)
	headTitle := title
	if headTitle == "" {
		headTitle = s.cfg.Title
	}
	description := doc.FrontMatter.Description
	if description == "" {
		description = s.cfg.Description
	}

	page := Page{
		Route:       route,
		SourcePath:  doc.FilePath,
		Title:       title,
		HeadTitle:   headTitle,
		Description: description,
		Lang:        s.cfg.Lang,
		Content:     string(doc.BodyHTML),
		Navbar:      ResolveNavbar(s.cfg.Navbar, route),
		ShowSidebar: doc.FrontMatter.ShowSidebar(),
		EditLink:    s.EditLink(doc.FilePath),
		Meta:        maps.Clone(doc.FrontMatter.Custom),
	}
	if page.ShowSidebar {
		if _, groups, ok := s.cfg.Sidebar.For(route); ok {
			page.Sidebar = ResolveSidebar(groups, route, idx)
		}
	}
	page.ShowSidebar = page.ShowSidebar && len(page.Sidebar) > 0
	return page
}

// EditLink returns the GitHub edit URL for a source path, or "" when no
// repository is configured.
func (s *Site) EditLink(relPath string) string {
	repo := strings.TrimSpace(s.cfg.Repo)
	if repo == "" || strings.TrimSpace(relPath) == "" {
		return ""
	}
	if !strings.Contains(repo, "://") {
		repo = "https://github.com/" + strings.Trim(repo, "/")
	}
	branch := s.cfg.DocsBranch
	if branch == "" {
		branch = "main"
	}
	file := path.Join(strings.Trim(s.cfg.DocsDir, "/"), relPath)
	return strings.TrimRight(repo, "/") + "/edit/" + branch + "/" + file
}

// AbsoluteURL joins route onto the configured base URL. Without a base URL
// the route is returned unchanged.
func (s *Site) AbsoluteURL(route string) string {
	base := strings.TrimRight(strings.TrimSpace(s.cfg.BaseURL), "/")
	if base == "" {
		return route
	}
	return base + "/" + strings.TrimPrefix(route, "/")
}
