package redirects

import (
	"strings"
	"testing"
)

func TestStubPerformsFullLoad(t *testing.T) {
	page, err := Stub("https://blog.uptrace.dev/posts/ubuntu-install-zfs.html")
	if err != nil {
		t.Fatalf("Stub: %v", err)
	}
	html := string(page)

	for _, want := range []string{
		`http-equiv="refresh"`,
		`url=https://blog.uptrace.dev/posts/ubuntu-install-zfs.html`,
		`window.location.replace(`,
		`rel="canonical" href="https://blog.uptrace.dev/posts/ubuntu-install-zfs.html"`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected stub to contain %q, got:\n%s", want, html)
		}
	}
}

func TestStubEscapesTarget(t *testing.T) {
	page, err := Stub(`/x"><script>alert(1)</script>`)
	if err != nil {
		t.Fatalf("Stub: %v", err)
	}
	if strings.Contains(string(page), "<script>alert(1)</script>") {
		t.Fatalf("expected target to be escaped, got:\n%s", page)
	}
}
