package runtimeconfig

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	docschema "github.com/goliatone/go-docsite/internal/validation"
)

//go:embed schema.json
var schemaJSON []byte

var configSchema = docschema.MustCompile("docsite-config.json", schemaJSON)

// ErrConfigSchema wraps files that do not match the embedded schema.
var ErrConfigSchema = errors.New("docsite config: file does not match schema")

// Environment variables consulted by ApplyEnv.
const (
	EnvContentDir = "DOCSITE_CONTENT_DIR"
	EnvOutputDir  = "DOCSITE_OUTPUT_DIR"
	EnvBaseURL    = "DOCSITE_BASE_URL"
	EnvAddr       = "DOCSITE_ADDR"
	EnvLogLevel   = "DOCSITE_LOG_LEVEL"
	EnvLogFormat  = "DOCSITE_LOG_FORMAT"
	EnvWorkers    = "DOCSITE_WORKERS"
)

// Load reads a YAML config file on top of DefaultConfig. Relative paths in
// the file resolve against the file's directory.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("docsite config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("docsite config %s: %w", path, err)
	}
	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return Config{}, fmt.Errorf("docsite config: resolve %s: %w", path, err)
	}
	cfg.ResolvePaths(abs)
	return cfg, nil
}

// Parse decodes YAML config data on top of DefaultConfig, checks it against
// the embedded schema and validates the result.
func Parse(data []byte) (Config, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("decode yaml: %w", err)
	}
	if raw != nil {
		if err := configSchema.Validate(raw); err != nil {
			return Config{}, fmt.Errorf("%w: %w", ErrConfigSchema, err)
		}
	}

	cfg := DefaultConfig()
	if len(bytes.TrimSpace(data)) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("decode config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ResolvePaths makes relative filesystem settings relative to dir.
func (cfg *Config) ResolvePaths(dir string) {
	resolve := func(p string) string {
		p = strings.TrimSpace(p)
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}

	cfg.Markdown.ContentDir = resolve(cfg.Markdown.ContentDir)
	cfg.Markdown.Include.Root = resolve(cfg.Markdown.Include.Root)
	cfg.Generator.OutputDir = resolve(cfg.Generator.OutputDir)
	cfg.Generator.PublicDir = resolve(cfg.Generator.PublicDir)
	cfg.Generator.Layout = resolve(cfg.Generator.Layout)
	for i, p := range cfg.Watch.Paths {
		cfg.Watch.Paths[i] = resolve(p)
	}
}

// ApplyEnv overrides settings from DOCSITE_* variables returned by lookup.
// Pass os.LookupEnv in production.
func (cfg *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		return nil
	}
	set := func(key string, target *string) {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			*target = strings.TrimSpace(value)
		}
	}

	set(EnvContentDir, &cfg.Markdown.ContentDir)
	set(EnvOutputDir, &cfg.Generator.OutputDir)
	set(EnvBaseURL, &cfg.Site.BaseURL)
	set(EnvAddr, &cfg.Server.Addr)
	set(EnvLogLevel, &cfg.Logging.Level)
	set(EnvLogFormat, &cfg.Logging.Format)

	if value, ok := lookup(EnvWorkers); ok && strings.TrimSpace(value) != "" {
		workers, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("docsite config: %s: %w", EnvWorkers, err)
		}
		cfg.Generator.Workers = workers
	}
	return cfg.Validate()
}
