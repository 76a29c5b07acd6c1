package generator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// copyPublicDir copies every file below dir to the output root, keeping
// relative paths. A missing or empty dir copies nothing.
func copyPublicDir(ctx context.Context, writer ArtifactWriter, dir string) (int, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return 0, nil
	}
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}

	source := os.DirFS(dir)
	copied := 0
	dirCache := map[string]struct{}{}
	err := fs.WalkDir(source, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if p != "." && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := fs.ReadFile(source, p)
		if err != nil {
			return fmt.Errorf("generator: read asset %s: %w", p, err)
		}
		if err := ensureDir(ctx, writer, dirCache, path.Dir(p)); err != nil {
			return err
		}
		req := WriteFileRequest{
			Path:        p,
			Content:     strings.NewReader(string(data)),
			Size:        int64(len(data)),
			Category:    string(categoryAsset),
			ContentType: detectAssetContentType(p),
			Checksum:    computeHash(data),
			Metadata:    map[string]string{"source": filepath.Join(dir, filepath.FromSlash(p))},
		}
		if err := writer.WriteFile(ctx, req); err != nil {
			return err
		}
		copied++
		return nil
	})
	return copied, err
}

func detectAssetContentType(asset string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(asset), "."))
	switch ext {
	case "html":
		return "text/html; charset=utf-8"
	case "css":
		return "text/css"
	case "js":
		return "application/javascript"
	case "json":
		return "application/json"
	case "txt":
		return "text/plain; charset=utf-8"
	case "svg":
		return "image/svg+xml"
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	case "ico":
		return "image/x-icon"
	case "woff2":
		return "font/woff2"
	default:
		return "application/octet-stream"
	}
}
