package runtimeconfig_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-docsite/internal/runtimeconfig"
	"github.com/goliatone/go-docsite/internal/validation"
)

func TestLoadMergesFileOverDefaults(t *testing.T) {
	cfg, err := runtimeconfig.Load(filepath.Join("testdata", "docsite.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	dir, _ := filepath.Abs("testdata")
	if cfg.Markdown.ContentDir != filepath.Join(dir, "docs") {
		t.Fatalf("expected content dir relative to config file, got %q", cfg.Markdown.ContentDir)
	}
	if cfg.Markdown.Include.Root != filepath.Join(dir, "include") || !cfg.Markdown.Include.Enabled {
		t.Fatalf("unexpected include config %#v", cfg.Markdown.Include)
	}
	if cfg.Generator.PublicDir != filepath.Join(dir, "docs", ".vuepress", "public") {
		t.Fatalf("unexpected public dir %q", cfg.Generator.PublicDir)
	}
	if cfg.Generator.OutputDir != filepath.Join(dir, "public") || cfg.Generator.Workers != 4 {
		t.Fatalf("unexpected generator config %#v", cfg.Generator)
	}
	if cfg.Generator.RenderTimeout != 30*time.Second || cfg.Watch.Debounce != 100*time.Millisecond {
		t.Fatalf("expected durations to decode, got %v and %v", cfg.Generator.RenderTimeout, cfg.Watch.Debounce)
	}
	if cfg.Watch.Paths[0] != filepath.Join(dir, "docsite.yaml") {
		t.Fatalf("unexpected watch paths %#v", cfg.Watch.Paths)
	}

	if cfg.Redirects.StatusCode != 301 || cfg.Redirects.Policy != "exact" {
		t.Fatalf("unexpected redirects %#v", cfg.Redirects)
	}
	if got := cfg.Redirects.Entries["/postgres/zfs-aws-ebs.html"]; got != "/postgres/tuning-zfs-aws-ebs.html" {
		t.Fatalf("unexpected redirect target %q", got)
	}

	if len(cfg.Site.Navbar) != 2 || cfg.Site.Sidebar["/"][0].Children[1] != "/guide/models.md" {
		t.Fatalf("unexpected navigation %#v", cfg.Site)
	}
	if cfg.Site.Lang != "en-US" {
		t.Fatalf("expected default lang to survive, got %q", cfg.Site.Lang)
	}
	if len(cfg.Markdown.Parser.TrustedHosts) != 1 {
		t.Fatalf("expected default trusted hosts to survive, got %#v", cfg.Markdown.Parser.TrustedHosts)
	}
}

func TestParseRejectsSchemaViolations(t *testing.T) {
	cases := map[string]string{
		"unknown key":     "unknown: true\n",
		"policy":          "redirects:\n  policy: fuzzy\n",
		"relative source": "redirects:\n  entries:\n    old.html: /new.html\n",
		"duration":        "watch:\n  debounce: soon\n",
		"nav item":        "site:\n  navbar:\n    - text: Missing link\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := runtimeconfig.Parse([]byte(data))
			if !errors.Is(err, runtimeconfig.ErrConfigSchema) {
				t.Fatalf("expected ErrConfigSchema, got %v", err)
			}
			if len(validation.Issues(err)) == 0 {
				t.Fatal("expected schema issues")
			}
		})
	}
}

func TestParseEmptyDocumentUsesDefaults(t *testing.T) {
	cfg, err := runtimeconfig.Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Generator.OutputDir != "dist" {
		t.Fatalf("expected defaults, got %#v", cfg.Generator)
	}
}

func TestParseRunsValidate(t *testing.T) {
	_, err := runtimeconfig.Parse([]byte("site:\n  title: \"\"\n"))
	if err == nil || errors.Is(err, runtimeconfig.ErrConfigSchema) {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		runtimeconfig.EnvOutputDir: "/srv/site",
		runtimeconfig.EnvAddr:      ":9000",
		runtimeconfig.EnvWorkers:   "8",
		runtimeconfig.EnvLogLevel:  "",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := runtimeconfig.DefaultConfig()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Generator.OutputDir != "/srv/site" || cfg.Server.Addr != ":9000" || cfg.Generator.Workers != 8 {
		t.Fatalf("unexpected overrides %#v %#v", cfg.Generator, cfg.Server)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("expected empty env value to be ignored, got %q", cfg.Logging.Level)
	}

	env[runtimeconfig.EnvWorkers] = "many"
	if err := cfg.ApplyEnv(lookup); err == nil {
		t.Fatal("expected invalid worker count to fail")
	}
}
