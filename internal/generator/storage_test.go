package generator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFSWriterKeepsWritesBelowRoot(t *testing.T) {
	root := t.TempDir()
	writer := NewFSWriter(root)
	ctx := context.Background()

	if err := writer.WriteFile(ctx, WriteFileRequest{Path: "../../escape.html", Content: strings.NewReader("x")}); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "escape.html")); err != nil {
		t.Fatalf("expected write clamped to root: %v", err)
	}

	if err := writer.WriteFile(ctx, WriteFileRequest{Path: "guide/models.html", Content: strings.NewReader("page")}); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := writer.RemoveAll(ctx, "guide"); err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "guide")); !os.IsNotExist(err) {
		t.Fatalf("expected guide dir removed, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "escape.html")); err != nil {
		t.Fatalf("expected sibling file kept: %v", err)
	}
}

func TestFSWriterRemoveAllMissingRoot(t *testing.T) {
	writer := NewFSWriter(filepath.Join(t.TempDir(), "missing"))
	if err := writer.RemoveAll(context.Background(), ""); err != nil {
		t.Fatalf("expected missing root to be a no-op, got %v", err)
	}
}

func TestWritersRejectIncompleteRequests(t *testing.T) {
	writers := map[string]ArtifactWriter{
		"fs":     NewFSWriter(t.TempDir()),
		"memory": NewMemoryWriter(),
	}
	for name, writer := range writers {
		t.Run(name, func(t *testing.T) {
			if err := writer.WriteFile(context.Background(), WriteFileRequest{Path: "a.html"}); !errors.Is(err, errWriteContentRequired) {
				t.Fatalf("expected errWriteContentRequired, got %v", err)
			}
			if err := writer.WriteFile(context.Background(), WriteFileRequest{Content: strings.NewReader("x")}); !errors.Is(err, errWritePathRequired) {
				t.Fatalf("expected errWritePathRequired, got %v", err)
			}
		})
	}
}

func TestMemoryWriterRemoveAllPrefix(t *testing.T) {
	writer := NewMemoryWriter()
	ctx := context.Background()
	for _, p := range []string{"/guide/a.html", "guide/b.html", "guidebook.html", "index.html"} {
		if err := writer.WriteFile(ctx, WriteFileRequest{Path: p, Content: strings.NewReader(p)}); err != nil {
			t.Fatalf("WriteFile(%s): %v", p, err)
		}
	}

	if err := writer.RemoveAll(ctx, "guide"); err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}
	if got := strings.Join(writer.Paths(), ","); got != "guidebook.html,index.html" {
		t.Fatalf("unexpected paths after prefix removal: %s", got)
	}

	if err := writer.RemoveAll(ctx, ""); err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}
	if len(writer.Paths()) != 0 {
		t.Fatalf("expected empty writer, got %v", writer.Paths())
	}
}

func TestCopyPublicDirSkipsHiddenDirectories(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "hero", "logo.png"), "png")
	mustWrite(t, filepath.Join(dir, "favicon.svg"), "<svg/>")
	mustWrite(t, filepath.Join(dir, ".git", "HEAD"), "ref")

	writer := NewMemoryWriter()
	count, err := copyPublicDir(context.Background(), writer, dir)
	if err != nil {
		t.Fatalf("copyPublicDir: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 assets, got %d (%v)", count, writer.Paths())
	}
	if req, _ := writer.Request("favicon.svg"); req.ContentType != "image/svg+xml" {
		t.Fatalf("unexpected content type %q", req.ContentType)
	}

	if count, err := copyPublicDir(context.Background(), writer, filepath.Join(dir, "nope")); err != nil || count != 0 {
		t.Fatalf("expected missing dir to copy nothing, got %d, %v", count, err)
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
