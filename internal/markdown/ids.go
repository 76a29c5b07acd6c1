package markdown

import (
	"strconv"

	"github.com/goliatone/go-slug"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
)

const fallbackHeadingID = "section"

// slugIDs generates heading anchors with go-slug. One instance is used per
// conversion so anchors are unique within a page.
type slugIDs struct {
	normalizer slug.Normalizer
	values     map[string]struct{}
}

var _ parser.IDs = (*slugIDs)(nil)

func newSlugIDs() *slugIDs {
	return &slugIDs{
		normalizer: slug.Default(),
		values:     map[string]struct{}{},
	}
}

func (s *slugIDs) Generate(value []byte, kind ast.NodeKind) []byte {
	base, err := s.normalizer.Normalize(string(value))
	if err != nil || base == "" {
		base = fallbackHeadingID
	}

	candidate := base
	for n := 1; ; n++ {
		if _, taken := s.values[candidate]; !taken {
			break
		}
		candidate = base + "-" + strconv.Itoa(n)
	}
	s.values[candidate] = struct{}{}
	return []byte(candidate)
}

func (s *slugIDs) Put(value []byte) {
	s.values[string(value)] = struct{}{}
}
