package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/conneroisu/sparkle/internal/logging"
	"github.com/conneroisu/sparkle/internal/validation"
)

// ValidationError is one problem with a config field.
type ValidationError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// ValidationResult separates fatal errors from warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

func (vr *ValidationResult) HasErrors() bool   { return len(vr.Errors) > 0 }
func (vr *ValidationResult) HasWarnings() bool { return len(vr.Warnings) > 0 }

func (vr *ValidationResult) fail(field string, value interface{}, msg, suggestion string) {
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Value: value, Message: msg, Suggestion: suggestion})
}

func (vr *ValidationResult) warn(field string, value interface{}, msg, suggestion string) {
	vr.Warnings = append(vr.Warnings, ValidationError{Field: field, Value: value, Message: msg, Suggestion: suggestion})
}

// String formats every issue, one per line, with suggestions indented.
func (vr *ValidationResult) String() string {
	var b strings.Builder
	write := func(label string, issues []ValidationError) {
		if len(issues) == 0 {
			return
		}
		b.WriteString(label + ":\n")
		for _, issue := range issues {
			fmt.Fprintf(&b, "  - %s\n", issue.Error())
			if issue.Suggestion != "" {
				fmt.Fprintf(&b, "    hint: %s\n", issue.Suggestion)
			}
		}
	}
	write("errors", vr.Errors)
	write("warnings", vr.Warnings)
	return b.String()
}

var hostnamePattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

// Validate checks every section of cfg.
func Validate(cfg *Config) *ValidationResult {
	result := &ValidationResult{}
	validateSite(&cfg.Site, result)
	validateAssets(&cfg.Assets, result)
	validateBuild(cfg, result)
	validateServer(&cfg.Server, result)
	validateLogging(&cfg.Logging, result)
	return result
}

func validateSite(site *SiteConfig, result *ValidationResult) {
	if strings.TrimSpace(site.Title) == "" {
		result.fail("site.title", site.Title, "must not be empty", "set the storefront name, e.g. SilverHub")
	}
	if err := validation.ValidateURL(site.BaseURL); err != nil {
		result.fail("site.base_url", site.BaseURL, err.Error(), "e.g. https://shop.example.com")
	}
}

func validateAssets(assets *AssetsConfig, result *ValidationResult) {
	if assets.PublicDir == "" {
		result.fail("assets.public_dir", assets.PublicDir, "must not be empty", "")
	} else if info, err := os.Stat(assets.PublicDir); err != nil || !info.IsDir() {
		result.warn("assets.public_dir", assets.PublicDir, "directory does not exist; every local image will fail to load", "")
	}
	if assets.LoadTimeout <= 0 {
		result.fail("assets.load_timeout", assets.LoadTimeout, "must be positive", "e.g. 3s")
	}
	if assets.GateTimeout < 0 {
		result.fail("assets.gate_timeout", assets.GateTimeout, "must not be negative", "use 0 to force the gate open immediately")
	}
	if assets.GateTimeout > 0 && assets.LoadTimeout > assets.GateTimeout {
		result.warn("assets.gate_timeout", assets.GateTimeout, "shorter than load_timeout; slow pages will be forced open", "")
	}
}

func validateBuild(cfg *Config, result *ValidationResult) {
	out := filepath.Clean(cfg.Build.OutputDir)
	switch {
	case cfg.Build.OutputDir == "":
		result.fail("build.output_dir", cfg.Build.OutputDir, "must not be empty", "")
	case out == "/" || out == ".":
		result.fail("build.output_dir", cfg.Build.OutputDir, "refusing to write into the filesystem or project root", "e.g. dist")
	case cfg.Assets.PublicDir != "" && out == filepath.Clean(cfg.Assets.PublicDir):
		result.fail("build.output_dir", cfg.Build.OutputDir, "must differ from assets.public_dir", "")
	}
	if cfg.Build.Concurrency < 1 {
		result.fail("build.concurrency", cfg.Build.Concurrency, "must be at least 1", "")
	}
}

func validateServer(server *ServerConfig, result *ValidationResult) {
	if server.Port < 0 || server.Port > 65535 {
		result.fail("server.port", server.Port, fmt.Sprintf("port %d is not in valid range 0-65535", server.Port), "")
	}
	for i, origin := range server.AllowedOrigins {
		if err := validation.ValidateOriginPattern(origin); err != nil {
			result.fail(fmt.Sprintf("server.allowed_origins[%d]", i), origin, err.Error(), "e.g. shop.example.com or *.example.com")
		}
	}
	if server.Host == "" {
		result.fail("server.host", server.Host, "must not be empty", "localhost")
		return
	}
	if net.ParseIP(server.Host) == nil && !hostnamePattern.MatchString(server.Host) {
		result.fail("server.host", server.Host, "invalid hostname", "")
	}
	if server.Host == "0.0.0.0" || server.Host == "::" {
		result.warn("server.host", server.Host, "preview server is reachable from the network", "use localhost")
	}
}

func validateLogging(l *LoggingConfig, result *ValidationResult) {
	if _, err := logging.ParseLevel(l.Level); err != nil {
		result.fail("logging.level", l.Level, err.Error(), "debug, info, warn or error")
	}
	if l.Format != "text" && l.Format != "json" {
		result.fail("logging.format", l.Format, "must be text or json", "")
	}
}
