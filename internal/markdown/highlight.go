package markdown

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// HighlightConfig controls syntax highlighting of fenced code blocks.
type HighlightConfig struct {
	Enabled bool
	// Style names a chroma style. Defaults to "github".
	Style string
	// Classes emits CSS classes instead of inline styles. Pair it with
	// Highlighter.WriteCSS.
	Classes bool
	// Languages restricts highlighting to the listed fence languages. Empty
	// means every language chroma knows.
	Languages []string
}

// Highlighter rewrites `pre > code.language-*` blocks in rendered HTML
// with chroma output. Blocks in unknown languages are left untouched.
type Highlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
	languages map[string]struct{}
}

// NewHighlighter builds a highlighter from cfg. It does not check Enabled.
func NewHighlighter(cfg HighlightConfig) *Highlighter {
	name := strings.TrimSpace(cfg.Style)
	if name == "" {
		name = "github"
	}
	style := styles.Get(name)
	if style == nil {
		style = styles.Fallback
	}

	languages := make(map[string]struct{}, len(cfg.Languages))
	for _, lang := range cfg.Languages {
		if lang = strings.ToLower(strings.TrimSpace(lang)); lang != "" {
			languages[lang] = struct{}{}
		}
	}

	return &Highlighter{
		style:     style,
		formatter: chromahtml.New(chromahtml.WithClasses(cfg.Classes), chromahtml.TabWidth(4)),
		languages: languages,
	}
}

// Highlight returns fragment with every recognised code block replaced by
// highlighted markup.
func (h *Highlighter) Highlight(fragment []byte) ([]byte, error) {
	if h == nil || !bytes.Contains(fragment, []byte("<pre")) {
		return fragment, nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("highlight: parse html: %w", err)
	}

	var (
		changed  bool
		firstErr error
	)
	doc.Find("pre > code").Each(func(_ int, s *goquery.Selection) {
		if firstErr != nil {
			return
		}
		lexer := h.lexerFor(s.AttrOr("class", ""))
		if lexer == nil {
			return
		}

		iterator, err := lexer.Tokenise(nil, s.Text())
		if err != nil {
			firstErr = fmt.Errorf("highlight: tokenise: %w", err)
			return
		}
		var buf bytes.Buffer
		if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
			firstErr = fmt.Errorf("highlight: format: %w", err)
			return
		}
		s.Parent().ReplaceWithHtml(buf.String())
		changed = true
	})
	if firstErr != nil {
		return nil, firstErr
	}
	if !changed {
		return fragment, nil
	}

	out, err := doc.Find("body").Html()
	if err != nil {
		return nil, fmt.Errorf("highlight: render html: %w", err)
	}
	return []byte(out), nil
}

// WriteCSS writes the stylesheet for class based output.
func (h *Highlighter) WriteCSS(w io.Writer) error {
	return h.formatter.WriteCSS(w, h.style)
}

func (h *Highlighter) lexerFor(class string) chroma.Lexer {
	for _, field := range strings.Fields(class) {
		lang, ok := strings.CutPrefix(field, "language-")
		if !ok || lang == "" {
			continue
		}
		lang = strings.ToLower(lang)
		if len(h.languages) > 0 {
			if _, allowed := h.languages[lang]; !allowed {
				return nil
			}
		}
		lexer := lexers.Get(lang)
		if lexer == nil {
			return nil
		}
		return chroma.Coalesce(lexer)
	}
	return nil
}
