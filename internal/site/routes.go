package site

import (
	"net/url"
	"path"
	"strings"
)

// Route maps a slash separated markdown path relative to the docs root to
// its public route. README.md and index.md become directory routes, other
// markdown files get an .html extension.
//
//	README.md        -> /
//	guide/README.md  -> /guide/
//	guide/models.md  -> /guide/models.html
func Route(relPath string) string {
	clean := strings.TrimPrefix(path.Clean("/"+strings.TrimSpace(relPath)), "/")
	if clean == "" {
		return "/"
	}

	dir, file := path.Split(clean)
	if isIndexFile(file) {
		return "/" + dir
	}
	if ext := path.Ext(file); strings.EqualFold(ext, ".md") {
		file = strings.TrimSuffix(file, ext) + ".html"
	}
	return "/" + dir + file
}

// OutputPath maps a route onto the slash separated file the generator
// writes for it.
//
//	/                    -> index.html
//	/guide/              -> guide/index.html
//	/guide/models.html   -> guide/models.html
func OutputPath(route string) string {
	route = strings.TrimSpace(route)
	if route == "" || strings.HasSuffix(route, "/") {
		return strings.TrimPrefix(route+"index.html", "/")
	}
	route = strings.TrimPrefix(route, "/")
	if path.Ext(route) == "" {
		return route + "/index.html"
	}
	return route
}

// LinkRoute rewrites a configured navigation link. Links to markdown files
// become routes, fragments survive, external links are returned verbatim.
func LinkRoute(link string) string {
	link = strings.TrimSpace(link)
	if link == "" || IsExternal(link) || strings.HasPrefix(link, "#") {
		return link
	}

	target, fragment, _ := strings.Cut(link, "#")
	if !strings.EqualFold(path.Ext(target), ".md") {
		return link
	}
	route := Route(target)
	if fragment != "" {
		route += "#" + fragment
	}
	return route
}

// IsExternal reports whether link points off-site.
func IsExternal(link string) bool {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return false
	}
	return u.Scheme != "" || u.Host != ""
}

// Active reports whether target should be highlighted while current is
// displayed. Directory targets match every route below them, other targets
// must match exactly. The root route only matches itself.
func Active(current, target string) bool {
	current = normalizeRoute(current)
	target = strings.TrimSpace(target)
	if target == "" || IsExternal(target) {
		return false
	}
	target, _, _ = strings.Cut(target, "#")

	if strings.HasSuffix(target, "/") {
		dir := normalizeRoute(target)
		if dir == "/" {
			return current == "/"
		}
		return current == dir || strings.HasPrefix(current, dir+"/")
	}
	return current == normalizeRoute(target)
}

func isIndexFile(name string) bool {
	return strings.EqualFold(name, "README.md") || strings.EqualFold(name, "index.md")
}

func normalizeRoute(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			return "/"
		}
	}
	return p
}
