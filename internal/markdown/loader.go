package markdown

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// LoaderConfig configures how Markdown files are discovered below a root.
type LoaderConfig struct {
	// BasePath is the documentation root on disk. Absolute paths handed to
	// the loader are made relative to it.
	BasePath string
	// Pattern limits discovered files to those matching the glob. Defaults to "*.md".
	Pattern string
	// Recursive controls whether sub-directories are traversed.
	Recursive bool
	// Exclude lists directory names that are never traversed. Dot
	// directories are always skipped.
	Exclude []string
}

// Loader turns filesystem paths into documents.
type Loader struct {
	fs        fs.FS
	basePath  string
	pattern   string
	recursive bool
	exclude   map[string]struct{}
}

// NewLoader constructs a Loader reading from filesystem.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := strings.TrimSpace(cfg.Pattern)
	if pattern == "" {
		pattern = "*.md"
	}
	exclude := make(map[string]struct{}, len(cfg.Exclude))
	for _, name := range cfg.Exclude {
		if name = strings.TrimSpace(name); name != "" {
			exclude[name] = struct{}{}
		}
	}

	return &Loader{
		fs:        filesystem,
		basePath:  filepath.Clean(cfg.BasePath),
		pattern:   filepath.ToSlash(pattern),
		recursive: cfg.Recursive,
		exclude:   exclude,
	}
}

// LoadFile reads and parses a single document.
func (l *Loader) LoadFile(ctx context.Context, name string) (*DocumentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel, err := l.makeRelative(name)
	if err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", rel, err)
	}
	info, err := fs.Stat(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader stat %s: %w", rel, err)
	}

	doc, err := BuildDocument(rel, data, info.ModTime())
	if err != nil {
		return nil, fmt.Errorf("markdown loader %s: %w", rel, err)
	}
	sum := sha256.Sum256(data)
	doc.Checksum = sum[:]

	return &DocumentResult{Document: doc, Source: data}, nil
}

// LoadDirectory discovers documents under dir, sorted by path.
func (l *Loader) LoadDirectory(ctx context.Context, dir string) ([]*DocumentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, err := l.makeRelative(dir)
	if err != nil {
		return nil, err
	}

	var results []*DocumentResult
	walkErr := fs.WalkDir(l.fs, root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if p == root {
				return nil
			}
			if !l.recursive || l.skipDir(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !l.matchesPattern(p) {
			return nil
		}

		result, err := l.LoadFile(ctx, p)
		if err != nil {
			return err
		}
		results = append(results, result)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Document.FilePath < results[j].Document.FilePath
	})
	return results, nil
}

func (l *Loader) skipDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	_, excluded := l.exclude[name]
	return excluded
}

func (l *Loader) matchesPattern(p string) bool {
	pattern := strings.ReplaceAll(l.pattern, "**/", "")
	target := path.Base(p)
	if strings.Contains(pattern, "/") {
		target = p
	}
	match, err := path.Match(pattern, target)
	return err == nil && match
}

// makeRelative returns a slash separated fs.FS path for name.
func (l *Loader) makeRelative(name string) (string, error) {
	clean := filepath.Clean(name)
	if filepath.IsAbs(clean) {
		if l.basePath == "" || l.basePath == "." {
			return "", fmt.Errorf("markdown loader: absolute path %s provided without base path", name)
		}
		rel, err := filepath.Rel(l.basePath, clean)
		if err != nil {
			return "", fmt.Errorf("markdown loader: make relative %s: %w", name, err)
		}
		clean = rel
	}
	rel := filepath.ToSlash(clean)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("markdown loader: %s is outside the documentation root", name)
	}
	return rel, nil
}

// DocumentResult carries a parsed document along with its raw source.
type DocumentResult struct {
	Document *interfaces.Document
	Source   []byte
}
