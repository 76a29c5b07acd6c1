package docsite

import "github.com/goliatone/go-docsite/internal/runtimeconfig"

var (
	ErrMarkdownContentDirRequired = runtimeconfig.ErrMarkdownContentDirRequired
	ErrGeneratorOutputDirRequired = runtimeconfig.ErrGeneratorOutputDirRequired
	ErrGeneratorOutputDirOverlaps = runtimeconfig.ErrGeneratorOutputDirOverlaps
	ErrGeneratorWorkersInvalid    = runtimeconfig.ErrGeneratorWorkersInvalid
	ErrRedirectPolicyInvalid      = runtimeconfig.ErrRedirectPolicyInvalid
	ErrRedirectStatusInvalid      = runtimeconfig.ErrRedirectStatusInvalid
	ErrServerAddrRequired         = runtimeconfig.ErrServerAddrRequired
	ErrWatchPathsRequired         = runtimeconfig.ErrWatchPathsRequired
	ErrLoggingLevelInvalid        = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid       = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config               = runtimeconfig.Config
	MarkdownConfig       = runtimeconfig.MarkdownConfig
	MarkdownParserConfig = runtimeconfig.MarkdownParserConfig
	IncludeConfig        = runtimeconfig.IncludeConfig
	HighlightConfig      = runtimeconfig.HighlightConfig
	RedirectsConfig      = runtimeconfig.RedirectsConfig
	GeneratorConfig      = runtimeconfig.GeneratorConfig
	ServerConfig         = runtimeconfig.ServerConfig
	WatchConfig          = runtimeconfig.WatchConfig
	LoggingConfig        = runtimeconfig.LoggingConfig
)

// DefaultConfig returns the configuration of the Bun documentation site.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML config file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
