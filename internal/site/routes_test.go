package site

import "testing"

func TestRoute(t *testing.T) {
	cases := map[string]string{
		"":                       "/",
		"README.md":              "/",
		"guide/README.md":        "/guide/",
		"guide/readme.md":        "/guide/",
		"guide/index.md":         "/guide/",
		"guide/models.md":        "/guide/models.html",
		"postgres/uuid.md":       "/postgres/uuid.html",
		"/guide/soft-deletes.md": "/guide/soft-deletes.html",
		"guide/../faq.md":        "/faq.html",
		"assets/diagram.svg":     "/assets/diagram.svg",
	}
	for in, want := range cases {
		if got := Route(in); got != want {
			t.Errorf("Route(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	cases := map[string]string{
		"/":                           "index.html",
		"/guide/":                     "guide/index.html",
		"/guide/models.html":          "guide/models.html",
		"/postgres":                   "postgres/index.html",
		"/treemux/json-rest-api.html": "treemux/json-rest-api.html",
	}
	for in, want := range cases {
		if got := OutputPath(in); got != want {
			t.Errorf("OutputPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLinkRoute(t *testing.T) {
	cases := map[string]string{
		"/guide/README.md":               "/guide/",
		"/guide/models.md":               "/guide/models.html",
		"/guide/models.md#belongs-to":    "/guide/models.html#belongs-to",
		"/postgres/":                     "/postgres/",
		"#anchor":                        "#anchor",
		"https://github.com/uptrace/bun": "https://github.com/uptrace/bun",
		"https://example.com/README.md":  "https://example.com/README.md",
	}
	for in, want := range cases {
		if got := LinkRoute(in); got != want {
			t.Errorf("LinkRoute(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestActive(t *testing.T) {
	cases := []struct {
		current string
		target  string
		want    bool
	}{
		{"/postgres/uuid.html", "/postgres/", true},
		{"/postgres/", "/postgres/", true},
		{"/postgresql/", "/postgres/", false},
		{"/guide/getting-started.html", "/guide/getting-started.html", true},
		{"/guide/models.html", "/guide/getting-started.html", false},
		{"/guide/", "/", false},
		{"/", "/", true},
		{"/", "https://github.com/uptrace/bun", false},
		{"/guide/models.html", "/guide/models.html#relations", true},
	}
	for _, tc := range cases {
		if got := Active(tc.current, tc.target); got != tc.want {
			t.Errorf("Active(%q, %q) = %v, want %v", tc.current, tc.target, got, tc.want)
		}
	}
}
