package sitecmd

import (
	"path"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-docsite/internal/generator"
	"github.com/goliatone/go-docsite/internal/redirects"
)

const (
	buildSiteMessageType       = "docsite.site.build"
	diffSiteMessageType        = "docsite.site.diff"
	cleanSiteMessageType       = "docsite.site.clean"
	resolveRedirectMessageType = "docsite.redirects.resolve"
)

// ResultCallback receives build results produced by generator operations.
// It runs synchronously inside the handler.
type ResultCallback func(ResultEnvelope)

// ResultEnvelope captures the outcome of a command that produced a
// BuildResult.
type ResultEnvelope struct {
	Result   *generator.BuildResult
	Metadata map[string]any
}

// BuildSiteCommand runs a generator build. Paths narrows the build to the
// listed markdown sources, relative to the docs root.
type BuildSiteCommand struct {
	Paths          []string       `json:"paths,omitempty"`
	DryRun         bool           `json:"dry_run,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// Validate rejects empty, absolute-escaping and non-markdown paths.
func (m BuildSiteCommand) Validate() error {
	return validatePaths("docsite.site.build", m.Paths)
}

// DiffSiteCommand renders without writing so callers can inspect the
// pages a build would produce.
type DiffSiteCommand struct {
	Paths          []string       `json:"paths,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (DiffSiteCommand) Type() string { return diffSiteMessageType }

// Validate applies the same path rules as BuildSiteCommand.
func (m DiffSiteCommand) Validate() error {
	return validatePaths("docsite.site.diff", m.Paths)
}

// CleanSiteCommand removes every generated artifact.
type CleanSiteCommand struct{}

// Type implements command.Message.
func (CleanSiteCommand) Type() string { return cleanSiteMessageType }

// Validate satisfies command.Message; there are no payload constraints.
func (CleanSiteCommand) Validate() error { return nil }

// DecisionCallback receives the outcome of a redirect lookup.
type DecisionCallback func(path string, decision redirects.Decision)

// ResolveRedirectCommand runs a navigation path through the redirect
// resolver.
type ResolveRedirectCommand struct {
	Path             string           `json:"path"`
	DecisionCallback DecisionCallback `json:"-"`
}

// Type implements command.Message.
func (ResolveRedirectCommand) Type() string { return resolveRedirectMessageType }

// Validate requires a site-absolute path.
func (m ResolveRedirectCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Path, validation.Required, validation.By(func(value any) error {
			if !strings.HasPrefix(value.(string), "/") {
				return validation.NewError("docsite.redirects.resolve.path_invalid", "path must start with /")
			}
			return nil
		})),
	)
}

func validatePaths(prefix string, paths []string) error {
	errs := validation.Errors{}
	for _, p := range paths {
		trimmed := strings.TrimSpace(p)
		switch {
		case trimmed == "":
			errs["paths"] = validation.NewError(prefix+".path_empty", "paths must not contain empty values")
		case !strings.EqualFold(path.Ext(trimmed), ".md"):
			errs["paths"] = validation.NewError(prefix+".path_not_markdown", "paths must reference markdown files")
		case escapesRoot(trimmed):
			errs["paths"] = validation.NewError(prefix+".path_outside_root", "paths must stay inside the docs root")
		default:
			continue
		}
		break
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func escapesRoot(p string) bool {
	clean := path.Clean(strings.TrimPrefix(p, "/"))
	return clean == ".." || strings.HasPrefix(clean, "../")
}
