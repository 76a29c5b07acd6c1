package site

import (
	"errors"
	"testing"

	"github.com/goliatone/go-docsite/pkg/interfaces"
)

func bunConfig() Config {
	return Config{
		Title:        "Bun",
		Description:  "Simple and performant ORM for sql.DB",
		Lang:         "en-US",
		Logo:         "/hero/logo.png",
		EditLinkText: "Edit this page on GitHub",
		Navbar: []NavItem{
			{Text: "Getting started", Link: "/guide/getting-started.html"},
			{Text: "PostgreSQL", Link: "/postgres/"},
			{Text: "GitHub", Link: "https://github.com/uptrace/bun"},
		},
		Sidebar: Sidebar{
			"/": {
				{Text: "Guide", Children: []string{"/guide/README.md", "/guide/models.md"}},
				{Text: "PostgreSQL", Children: []string{"/postgres/uuid.md"}},
			},
			"/reference/": {
				{Text: "Reference", Children: []string{"/reference/api.md"}},
			},
		},
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := bunConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cfg.Title = " "
	if err := cfg.Validate(); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}

	cfg = bunConfig()
	cfg.Navbar = append(cfg.Navbar, NavItem{Text: "Broken"})
	if err := cfg.Validate(); !errors.Is(err, ErrNavItemInvalid) {
		t.Fatalf("expected ErrNavItemInvalid, got %v", err)
	}

	cfg = bunConfig()
	cfg.Sidebar["/guide"] = nil
	if err := cfg.Validate(); !errors.Is(err, ErrSidebarPrefixInvalid) {
		t.Fatalf("expected ErrSidebarPrefixInvalid, got %v", err)
	}

	cfg = bunConfig()
	cfg.Sidebar["/misc/"] = []SidebarGroup{{Children: []string{"/misc/a.md"}}}
	if err := cfg.Validate(); !errors.Is(err, ErrSidebarGroupInvalid) {
		t.Fatalf("expected ErrSidebarGroupInvalid, got %v", err)
	}
}

func TestSidebarForLongestPrefix(t *testing.T) {
	sidebar := bunConfig().Sidebar

	prefix, groups, ok := sidebar.For("/reference/api.html")
	if !ok || prefix != "/reference/" || groups[0].Text != "Reference" {
		t.Fatalf("expected /reference/ sidebar, got %q %#v", prefix, groups)
	}

	prefix, _, ok = sidebar.For("/reference")
	if !ok || prefix != "/reference/" {
		t.Fatalf("expected directory route without slash to match, got %q", prefix)
	}

	prefix, groups, ok = sidebar.For("/guide/models.html")
	if !ok || prefix != "/" || len(groups) != 2 {
		t.Fatalf("expected root sidebar, got %q %#v", prefix, groups)
	}

	if _, _, ok := (Sidebar{"/guide/": nil}).For("/postgres/uuid.html"); ok {
		t.Fatal("expected no sidebar match")
	}
}

func TestSitePage(t *testing.T) {
	s, err := New(bunConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	docs := []*interfaces.Document{
		{FilePath: "guide/README.md", FrontMatter: interfaces.FrontMatter{Title: "Introduction"}},
		{FilePath: "guide/models.md", FrontMatter: interfaces.FrontMatter{Title: "Defining models", Custom: map[string]any{"layout_hint": "wide"}}, BodyHTML: []byte("<h1>Defining models</h1>")},
	}
	idx := NewIndex(docs)

	page := s.Page(docs[1], idx)
	if page.Route != "/guide/models.html" {
		t.Fatalf("unexpected route %q", page.Route)
	}
	if page.HeadTitle != "Defining models" {
		t.Fatalf("expected head title to be the page title, got %q", page.HeadTitle)
	}
	if page.Description != "Simple and performant ORM for sql.DB" {
		t.Fatalf("expected site description fallback, got %q", page.Description)
	}
	if page.Content != "<h1>Defining models</h1>" || page.Meta["layout_hint"] != "wide" {
		t.Fatalf("unexpected page %#v", page)
	}
	if !page.ShowSidebar || len(page.Sidebar) != 2 {
		t.Fatalf("expected sidebar groups, got %#v", page.Sidebar)
	}

	guide := page.Sidebar[0]
	if !guide.Active || guide.Children[0].Text != "Introduction" || guide.Children[0].Link != "/guide/" {
		t.Fatalf("unexpected guide group %#v", guide)
	}
	if !guide.Children[1].Active || guide.Children[0].Active {
		t.Fatalf("expected only models entry active, got %#v", guide.Children)
	}
	if page.Sidebar[1].Active || page.Sidebar[1].Children[0].Text != "/postgres/uuid.html" {
		t.Fatalf("expected untitled postgres entry to fall back to its route, got %#v", page.Sidebar[1])
	}

	if !page.Navbar[2].External || page.Navbar[2].Active {
		t.Fatalf("unexpected external navbar entry %#v", page.Navbar[2])
	}
}

func TestSitePageWithoutTitleOrSidebar(t *testing.T) {
	s, err := New(bunConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	hidden := false
	page := s.Page(&interfaces.Document{
		FilePath:    "README.md",
		FrontMatter: interfaces.FrontMatter{Sidebar: &hidden},
	}, nil)
	if page.HeadTitle != "Bun" {
		t.Fatalf("expected site title fallback, got %q", page.HeadTitle)
	}
	if page.ShowSidebar || page.Sidebar != nil {
		t.Fatalf("expected sidebar to be hidden, got %#v", page.Sidebar)
	}
	if page.EditLink != "" {
		t.Fatalf("expected no edit link without repo, got %q", page.EditLink)
	}
}

func TestSiteEditLinkAndAbsoluteURL(t *testing.T) {
	cfg := bunConfig()
	cfg.Repo = "uptrace/bun"
	cfg.DocsDir = "docs"
	cfg.DocsBranch = "master"
	cfg.BaseURL = "https://bun.uptrace.dev/"
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got, want := s.EditLink("guide/models.md"), "https://github.com/uptrace/bun/edit/master/docs/guide/models.md"; got != want {
		t.Fatalf("EditLink = %q, want %q", got, want)
	}
	if got, want := s.AbsoluteURL("/guide/"), "https://bun.uptrace.dev/guide/"; got != want {
		t.Fatalf("AbsoluteURL = %q, want %q", got, want)
	}
}
