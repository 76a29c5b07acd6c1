package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

type writeCategory string

const (
	categoryPage     writeCategory = "page"
	categoryAsset    writeCategory = "asset"
	categoryRedirect writeCategory = "redirect"
	categorySitemap  writeCategory = "sitemap"
	categoryRobots   writeCategory = "robots"
	categoryManifest writeCategory = "manifest"
)

// WriteFileRequest describes a file write routed through an ArtifactWriter.
// Path is slash separated and relative to the writer root.
type WriteFileRequest struct {
	Path        string
	Content     io.Reader
	Size        int64
	Category    string
	ContentType string
	Checksum    string
	Metadata    map[string]string
}

// ArtifactWriter abstracts where generator outputs end up.
type ArtifactWriter interface {
	EnsureDir(ctx context.Context, path string) error
	WriteFile(ctx context.Context, req WriteFileRequest) error
	RemoveAll(ctx context.Context, path string) error
}

var errWriteContentRequired = errors.New("generator: write requires content reader")
var errWritePathRequired = errors.New("generator: write requires path")

func validateWrite(req WriteFileRequest) error {
	if req.Content == nil {
		return errWriteContentRequired
	}
	if strings.TrimSpace(req.Path) == "" {
		return errWritePathRequired
	}
	return nil
}

// FSWriter writes artifacts below a directory on disk.
type FSWriter struct {
	root string
}

var _ ArtifactWriter = (*FSWriter)(nil)

// NewFSWriter returns a writer rooted at root.
func NewFSWriter(root string) *FSWriter {
	return &FSWriter{root: root}
}

// Root returns the directory artifacts are written to.
func (w *FSWriter) Root() string {
	return w.root
}

func (w *FSWriter) EnsureDir(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(dir) == "" || dir == "." {
		return os.MkdirAll(w.root, 0o755)
	}
	return os.MkdirAll(w.resolve(dir), 0o755)
}

func (w *FSWriter) WriteFile(ctx context.Context, req WriteFileRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateWrite(req); err != nil {
		return err
	}
	target := w.resolve(req.Path)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("generator: ensure dir for %s: %w", req.Path, err)
	}
	file, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("generator: create %s: %w", req.Path, err)
	}
	if _, err := io.Copy(file, req.Content); err != nil {
		_ = file.Close()
		return fmt.Errorf("generator: write %s: %w", req.Path, err)
	}
	return file.Close()
}

// RemoveAll deletes dir below the root. An empty dir removes every entry of
// the root but keeps the root itself.
func (w *FSWriter) RemoveAll(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(dir) != "" && dir != "." {
		return os.RemoveAll(w.resolve(dir))
	}
	entries, err := os.ReadDir(w.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(w.root, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (w *FSWriter) resolve(rel string) string {
	clean := path.Clean("/" + filepath.ToSlash(rel))
	return filepath.Join(w.root, filepath.FromSlash(strings.TrimPrefix(clean, "/")))
}

// MemoryWriter keeps artifacts in memory. It backs dry runs and tests.
type MemoryWriter struct {
	mu       sync.RWMutex
	files    map[string][]byte
	requests map[string]WriteFileRequest
}

var _ ArtifactWriter = (*MemoryWriter)(nil)

// NewMemoryWriter returns an empty in-memory writer.
func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{
		files:    map[string][]byte{},
		requests: map[string]WriteFileRequest{},
	}
}

func (w *MemoryWriter) EnsureDir(ctx context.Context, _ string) error {
	return ctx.Err()
}

func (w *MemoryWriter) WriteFile(ctx context.Context, req WriteFileRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateWrite(req); err != nil {
		return err
	}
	data, err := io.ReadAll(req.Content)
	if err != nil {
		return fmt.Errorf("generator: read content for %s: %w", req.Path, err)
	}
	key := path.Clean(strings.TrimPrefix(req.Path, "/"))

	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[key] = data
	req.Content = bytes.NewReader(nil)
	w.requests[key] = req
	return nil
}

func (w *MemoryWriter) RemoveAll(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	prefix := strings.Trim(path.Clean("/"+dir), "/")

	w.mu.Lock()
	defer w.mu.Unlock()
	for key := range w.files {
		if prefix == "" || key == prefix || strings.HasPrefix(key, prefix+"/") {
			delete(w.files, key)
			delete(w.requests, key)
		}
	}
	return nil
}

// File returns the content written to p.
func (w *MemoryWriter) File(p string) ([]byte, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	data, ok := w.files[path.Clean(strings.TrimPrefix(p, "/"))]
	return data, ok
}

// Request returns the write request recorded for p, without its content.
func (w *MemoryWriter) Request(p string) (WriteFileRequest, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	req, ok := w.requests[path.Clean(strings.TrimPrefix(p, "/"))]
	return req, ok
}

// Paths lists every written path in sorted order.
func (w *MemoryWriter) Paths() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]string, 0, len(w.files))
	for key := range w.files {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
