package markdown

import (
	"net/url"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

const (
	externalLinkRel    = "noopener noreferrer"
	externalLinkTarget = "_blank"
	relNoFollow        = "nofollow"
)

// externalLinks opens outbound links in a new tab and marks links to hosts
// outside trustedHosts as nofollow.
type externalLinks struct {
	trustedHosts []string
}

var _ parser.ASTTransformer = (*externalLinks)(nil)

func newExternalLinks(trusted []string) *externalLinks {
	hosts := make([]string, 0, len(trusted))
	for _, host := range trusted {
		if host = strings.ToLower(strings.TrimSpace(host)); host != "" {
			hosts = append(hosts, host)
		}
	}
	return &externalLinks{trustedHosts: hosts}
}

func (e *externalLinks) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *ast.Link:
			e.decorate(n, string(n.Destination))
		case *ast.AutoLink:
			if n.AutoLinkType == ast.AutoLinkURL {
				e.decorate(n, string(n.URL(reader.Source())))
			}
		}
		return ast.WalkContinue, nil
	})
}

func (e *externalLinks) decorate(node ast.Node, destination string) {
	host, ok := externalHost(destination)
	if !ok {
		return
	}

	rel := externalLinkRel
	if !e.trusted(host) {
		rel += " " + relNoFollow
	}
	node.SetAttributeString("target", []byte(externalLinkTarget))
	node.SetAttributeString("rel", []byte(rel))
}

func (e *externalLinks) trusted(host string) bool {
	for _, candidate := range e.trustedHosts {
		if host == candidate || strings.HasSuffix(host, "."+candidate) {
			return true
		}
	}
	return false
}

func externalHost(destination string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(destination))
	if err != nil {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	if u.Host == "" {
		return "", false
	}
	return strings.ToLower(u.Hostname()), true
}

// linkExtension registers externalLinks with a goldmark parser.
type linkExtension struct {
	trustedHosts []string
}

func (l linkExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(newExternalLinks(l.trustedHosts), 500),
	))
}
