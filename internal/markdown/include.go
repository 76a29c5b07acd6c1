package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// ErrCircularInclude is returned when a file includes itself, directly or
	// through other files.
	ErrCircularInclude = errors.New("markdown include: circular include")
	// ErrIncludeDepth is returned when nesting exceeds IncludeOptions.MaxDepth.
	ErrIncludeDepth = errors.New("markdown include: maximum depth exceeded")
)

const defaultIncludeDepth = 16

var includePattern = regexp.MustCompile(`!!!\s*include\s*\(\s*(.+?)\s*\)\s*!!!`)

// IncludeState is the per-document state handed to a RootDirFunc.
type IncludeState struct {
	// FilePathRelative is the slash separated path of the document being
	// rendered, relative to the documentation root. It is empty for
	// synthetic content.
	FilePathRelative string
}

// RootDirFunc returns the directory that include arguments of the current
// document are resolved against.
type RootDirFunc func(state IncludeState) string

// DocumentRelativeRoot resolves includes next to the document that contains
// them. Documents without a relative path, and top-level documents, resolve
// against docsRoot itself. The function only computes a path; it never
// touches the filesystem.
func DocumentRelativeRoot(docsRoot string) RootDirFunc {
	return func(state IncludeState) string {
		rel := state.FilePathRelative
		if rel == "" {
			return docsRoot
		}

		dir := ""
		if i := strings.LastIndex(rel, "/"); i >= 0 {
			dir = rel[:i]
		}
		return filepath.Join(docsRoot, filepath.FromSlash(dir))
	}
}

// FixedRoot resolves every include against dir, regardless of the document.
func FixedRoot(dir string) RootDirFunc {
	return func(IncludeState) string {
		return dir
	}
}

// IncludeOptions configures an Includer.
type IncludeOptions struct {
	// RootDir supplies the base directory for top-level directives.
	RootDir RootDirFunc
	// ThrowError makes unreadable files fail the render. When false the
	// directive is replaced with an HTML comment naming the file.
	ThrowError bool
	// MaxDepth bounds nesting. Zero selects a default of 16.
	MaxDepth int
	// ReadFile defaults to os.ReadFile.
	ReadFile func(name string) ([]byte, error)
}

// Includer expands include directives in Markdown source.
type Includer struct {
	rootDir    RootDirFunc
	throwError bool
	maxDepth   int
	readFile   func(string) ([]byte, error)
}

// NewIncluder builds an Includer. A nil RootDir resolves against the
// process working directory.
func NewIncluder(opts IncludeOptions) *Includer {
	inc := &Includer{
		rootDir:    opts.RootDir,
		throwError: opts.ThrowError,
		maxDepth:   opts.MaxDepth,
		readFile:   opts.ReadFile,
	}
	if inc.rootDir == nil {
		inc.rootDir = FixedRoot(".")
	}
	if inc.maxDepth <= 0 {
		inc.maxDepth = defaultIncludeDepth
	}
	if inc.readFile == nil {
		inc.readFile = os.ReadFile
	}
	return inc
}

// Expand replaces every directive in src. Top-level arguments resolve
// against the root returned for state; nested directives resolve against
// the directory of the file that contains them.
func (i *Includer) Expand(state IncludeState, src []byte) ([]byte, error) {
	if !includePattern.Match(src) {
		return src, nil
	}
	return i.expand(src, i.rootDir(state), nil)
}

func (i *Includer) expand(src []byte, root string, chain []string) ([]byte, error) {
	if len(chain) > i.maxDepth {
		return nil, fmt.Errorf("%w: %s", ErrIncludeDepth, strings.Join(chain, " -> "))
	}

	matches := includePattern.FindAllSubmatchIndex(src, -1)
	if len(matches) == 0 {
		return src, nil
	}

	var out bytes.Buffer
	out.Grow(len(src))
	last := 0
	for _, m := range matches {
		out.Write(src[last:m[0]])
		last = m[1]

		arg := string(src[m[2]:m[3]])
		target := arg
		if !filepath.IsAbs(target) {
			target = filepath.Join(root, filepath.FromSlash(arg))
		}

		for _, seen := range chain {
			if seen == target {
				return nil, fmt.Errorf("%w: %s", ErrCircularInclude, strings.Join(append(chain, target), " -> "))
			}
		}

		content, err := i.readFile(target)
		if err != nil {
			if i.throwError {
				return nil, fmt.Errorf("markdown include %s: %w", arg, err)
			}
			fmt.Fprintf(&out, "<!-- include %q not found -->", arg)
			continue
		}

		nested, err := i.expand(content, filepath.Dir(target), append(chain[:len(chain):len(chain)], target))
		if err != nil {
			return nil, err
		}
		out.Write(nested)
	}
	out.Write(src[last:])
	return out.Bytes(), nil
}
