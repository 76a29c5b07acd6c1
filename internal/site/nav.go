package site

import (
	"sort"
	"strings"
)

// NavItem is a navbar entry. Link may be a route, a markdown path or an
// absolute URL.
type NavItem struct {
	Text string `yaml:"text" json:"text"`
	Link string `yaml:"link" json:"link"`
}

// SidebarGroup is a titled list of markdown paths such as
// "/guide/models.md".
type SidebarGroup struct {
	Text     string   `yaml:"text" json:"text"`
	Children []string `yaml:"children" json:"children"`
}

// Sidebar maps a route prefix to the groups shown on routes below it.
type Sidebar map[string][]SidebarGroup

// For returns the groups registered under the longest prefix of route.
// A directory route given without its trailing slash still matches its own
// prefix.
func (s Sidebar) For(route string) (string, []SidebarGroup, bool) {
	route = strings.TrimSpace(route)
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}

	prefixes := make([]string, 0, len(s))
	for prefix := range s {
		prefixes = append(prefixes, prefix)
	}
	sort.Slice(prefixes, func(i, j int) bool {
		if len(prefixes[i]) != len(prefixes[j]) {
			return len(prefixes[i]) > len(prefixes[j])
		}
		return prefixes[i] < prefixes[j]
	})

	for _, prefix := range prefixes {
		if strings.HasPrefix(route, prefix) || route+"/" == prefix {
			return prefix, s[prefix], true
		}
	}
	return "", nil, false
}

// Node is a resolved navigation entry handed to the layout.
type Node struct {
	Text     string
	Link     string
	External bool
	Active   bool
	Children []Node
}

// ResolveNavbar converts navbar items into nodes for the page at current.
func ResolveNavbar(items []NavItem, current string) []Node {
	nodes := make([]Node, 0, len(items))
	for _, item := range items {
		link := LinkRoute(item.Link)
		nodes = append(nodes, Node{
			Text:     item.Text,
			Link:     link,
			External: IsExternal(link),
			Active:   Active(current, link),
		})
	}
	return nodes
}

// ResolveSidebar converts sidebar groups into nodes for the page at
// current. Child titles come from titles, keyed by route, and fall back to
// the route itself.
func ResolveSidebar(groups []SidebarGroup, current string, titles map[string]string) []Node {
	nodes := make([]Node, 0, len(groups))
	for _, group := range groups {
		node := Node{Text: group.Text}
		for _, child := range group.Children {
			link := LinkRoute(child)
			text := titles[link]
			if text == "" {
				text = link
			}
			active := !IsExternal(link) && normalizeRoute(link) == normalizeRoute(current)
			node.Children = append(node.Children, Node{
				Text:     text,
				Link:     link,
				External: IsExternal(link),
				Active:   active,
			})
			node.Active = node.Active || active
		}
		nodes = append(nodes, node)
	}
	return nodes
}
