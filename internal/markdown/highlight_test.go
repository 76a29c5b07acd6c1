package markdown

import (
	"bytes"
	"strings"
	"testing"
)

func TestHighlighterRewritesKnownLanguages(t *testing.T) {
	h := NewHighlighter(HighlightConfig{Enabled: true, Classes: true})

	src := []byte("<h2 id=\"usage\">Usage</h2>\n<pre><code class=\"language-go\">db.NewSelect().Model(&amp;user).Scan(ctx)\n</code></pre>\n")
	out, err := h.Highlight(src)
	if err != nil {
		t.Fatalf("Highlight: %v", err)
	}

	html := string(out)
	if !strings.Contains(html, `class="chroma"`) {
		t.Fatalf("expected chroma markup, got %s", html)
	}
	if strings.Contains(html, "language-go") {
		t.Fatalf("expected original block to be replaced, got %s", html)
	}
	if !strings.Contains(html, `<h2 id="usage">Usage</h2>`) {
		t.Fatalf("expected surrounding markup to survive, got %s", html)
	}
}

func TestHighlighterLeavesUnknownLanguages(t *testing.T) {
	h := NewHighlighter(HighlightConfig{Enabled: true})

	src := []byte(`<pre><code class="language-not-a-real-lexer">x</code></pre>`)
	out, err := h.Highlight(src)
	if err != nil {
		t.Fatalf("Highlight: %v", err)
	}
	if !bytes.Equal(out, src) {
		t.Fatalf("expected fragment unchanged, got %s", out)
	}
}

func TestHighlighterLanguageAllowList(t *testing.T) {
	h := NewHighlighter(HighlightConfig{Enabled: true, Languages: []string{"sql"}})

	src := []byte(`<pre><code class="language-go">package main</code></pre>`)
	out, err := h.Highlight(src)
	if err != nil {
		t.Fatalf("Highlight: %v", err)
	}
	if !bytes.Equal(out, src) {
		t.Fatalf("expected go block to be skipped, got %s", out)
	}

	sql := []byte(`<pre><code class="language-sql">SELECT 1</code></pre>`)
	out, err = h.Highlight(sql)
	if err != nil {
		t.Fatalf("Highlight: %v", err)
	}
	if bytes.Equal(out, sql) {
		t.Fatal("expected sql block to be highlighted")
	}
}

func TestHighlighterWriteCSS(t *testing.T) {
	h := NewHighlighter(HighlightConfig{Classes: true, Style: "monokai"})

	var buf bytes.Buffer
	if err := h.WriteCSS(&buf); err != nil {
		t.Fatalf("WriteCSS: %v", err)
	}
	if !strings.Contains(buf.String(), ".chroma") {
		t.Fatalf("expected chroma css, got %s", buf.String())
	}
}
