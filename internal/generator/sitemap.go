package generator

import (
	"encoding/xml"
	"fmt"
	"slices"
	"strings"
	"time"
)

const (
	sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"
	fallbackBaseURL  = "http://localhost"
)

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// buildSitemap lists one URL per distinct page route, sorted by location.
// Pages without a modification time use fallback.
func buildSitemap(baseURL string, pages []RenderedPage, fallback time.Time) (string, error) {
	base := siteBase(baseURL)
	set := urlSet{XMLNS: sitemapNamespace}
	seen := make(map[string]struct{}, len(pages))

	for _, page := range pages {
		loc := base + rootedRoute(page.Route)
		if _, dup := seen[loc]; dup {
			continue
		}
		seen[loc] = struct{}{}

		modified := page.LastModified
		if modified.IsZero() {
			modified = fallback
		}
		entry := sitemapURL{Loc: loc}
		if !modified.IsZero() {
			entry.LastMod = modified.UTC().Format(time.RFC3339)
		}
		set.URLs = append(set.URLs, entry)
	}
	slices.SortFunc(set.URLs, func(a, b sitemapURL) int {
		return strings.Compare(a.Loc, b.Loc)
	})

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return "", fmt.Errorf("generator: encode sitemap: %w", err)
	}
	return xml.Header + string(out) + "\n", nil
}

func buildRobots(baseURL string, withSitemap bool) string {
	robots := "User-agent: *\nAllow: /\n"
	if withSitemap {
		robots += fmt.Sprintf("\nSitemap: %s/sitemap.xml\n", siteBase(baseURL))
	}
	return robots
}

func siteBase(baseURL string) string {
	if base := strings.TrimRight(strings.TrimSpace(baseURL), "/"); base != "" {
		return base
	}
	return fallbackBaseURL
}

func rootedRoute(route string) string {
	route = strings.TrimSpace(route)
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return route
}
