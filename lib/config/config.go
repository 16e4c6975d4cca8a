// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/compose"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/issue"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/params"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/snapshot"
)

// EnvironmentVariable names the variable [Load] reads.
const EnvironmentVariable = "TRAITC_CONFIG"

// Profile selects a set of policy defaults.
type Profile string

const (
	// Development is for authoring traits locally.
	Development Profile = "development"
	// CI is for gating changes: collisions fail the run.
	CI Profile = "ci"
)

// Config is the traitc configuration.
type Config struct {
	// Profile selects the override section to apply.
	Profile Profile `yaml:"profile"`

	// TraitPaths lists files and directories to load traits from when
	// a command is given no paths.
	TraitPaths []string `yaml:"trait_paths"`

	// ViewContexts lists the view contexts a view extension may
	// target.
	ViewContexts []string `yaml:"view_contexts"`

	// ClosedParameters rejects unknown parameter keys (TE-0204).
	// Default: true
	ClosedParameters bool `yaml:"closed_parameters"`

	// GraphChecks reports cycles and conflicts as TE-0302/TE-0304
	// during validation.
	// Default: false (development), true (ci)
	GraphChecks bool `yaml:"graph_checks"`

	// CollisionSeverity is the severity of resolved collisions.
	// Values: "warning", "error"
	// Default: warning (development), error (ci)
	CollisionSeverity string `yaml:"collision_severity"`

	// Snapshot configures composed-object snapshots.
	Snapshot SnapshotConfig `yaml:"snapshot"`

	// LogLevel is one of debug, info, warn, error.
	// Default: info
	LogLevel string `yaml:"log_level"`

	Development *Overrides `yaml:"development,omitempty"`
	CI          *Overrides `yaml:"ci,omitempty"`

	// directory holds the loaded file's directory, used to resolve
	// relative trait paths.
	directory string
}

// SnapshotConfig configures snapshot output.
type SnapshotConfig struct {
	// Compression is one of zstd, lz4, none.
	// Default: zstd
	Compression string `yaml:"compression"`

	// Directory receives snapshots written without an explicit path.
	Directory string `yaml:"directory"`
}

// Overrides contains fields a profile section can override. Pointer
// fields distinguish "unset" from false.
type Overrides struct {
	TraitPaths        []string        `yaml:"trait_paths,omitempty"`
	ClosedParameters  *bool           `yaml:"closed_parameters,omitempty"`
	GraphChecks       *bool           `yaml:"graph_checks,omitempty"`
	CollisionSeverity string          `yaml:"collision_severity,omitempty"`
	Snapshot          *SnapshotConfig `yaml:"snapshot,omitempty"`
	LogLevel          string          `yaml:"log_level,omitempty"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Profile:           Development,
		ViewContexts:      compose.DefaultViewContexts(),
		ClosedParameters:  true,
		GraphChecks:       false,
		CollisionSeverity: string(issue.SeverityWarning),
		Snapshot: SnapshotConfig{
			Compression: snapshot.CompressionZstd.String(),
		},
		LogLevel: "info",
	}
}

// Load loads configuration from the TRAITC_CONFIG environment
// variable. It fails when the variable is not set.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your traitc.yaml config file, or use --config flag", EnvironmentVariable)
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
//
// Environment variables do not override config values. The only
// expansion performed is on path fields.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	absolute, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}
	cfg.directory = filepath.Dir(absolute)

	cfg.applyProfileOverrides()
	cfg.expandVariables()
	return cfg, nil
}

// applyProfileOverrides applies the section matching the profile.
func (c *Config) applyProfileOverrides() {
	var overrides *Overrides

	switch c.Profile {
	case Development:
		overrides = c.Development
	case CI:
		overrides = c.CI
		// CI defaults: collisions fail the run and the graph is checked.
		if overrides == nil {
			enabled := true
			overrides = &Overrides{
				GraphChecks:       &enabled,
				CollisionSeverity: string(issue.SeverityError),
			}
		}
	}

	if overrides == nil {
		return
	}

	if len(overrides.TraitPaths) > 0 {
		c.TraitPaths = overrides.TraitPaths
	}
	if overrides.ClosedParameters != nil {
		c.ClosedParameters = *overrides.ClosedParameters
	}
	if overrides.GraphChecks != nil {
		c.GraphChecks = *overrides.GraphChecks
	}
	if overrides.CollisionSeverity != "" {
		c.CollisionSeverity = overrides.CollisionSeverity
	}
	if overrides.LogLevel != "" {
		c.LogLevel = overrides.LogLevel
	}
	if overrides.Snapshot != nil {
		if overrides.Snapshot.Compression != "" {
			c.Snapshot.Compression = overrides.Snapshot.Compression
		}
		if overrides.Snapshot.Directory != "" {
			c.Snapshot.Directory = overrides.Snapshot.Directory
		}
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in path
// fields and anchors relative trait paths at the config directory.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"CONFIG_DIR": c.directory,
		"HOME":       os.Getenv("HOME"),
	}

	for index, path := range c.TraitPaths {
		path = expandVars(path, vars)
		if c.directory != "" && !filepath.IsAbs(path) {
			path = filepath.Join(c.directory, path)
		}
		c.TraitPaths[index] = path
	}
	c.Snapshot.Directory = expandVars(c.Snapshot.Directory, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Provided vars first, then the environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Profile != Development && c.Profile != CI {
		errs = append(errs, fmt.Errorf("invalid profile: %s", c.Profile))
	}

	severities := []string{string(issue.SeverityWarning), string(issue.SeverityError)}
	if !slices.Contains(severities, c.CollisionSeverity) {
		errs = append(errs, fmt.Errorf("collision_severity must be one of: %v", severities))
	}

	if _, err := snapshot.ParseCompression(c.Snapshot.Compression); err != nil {
		errs = append(errs, fmt.Errorf("snapshot.compression: %w", err))
	}

	if _, ok := logLevels[c.LogLevel]; !ok {
		errs = append(errs, fmt.Errorf("log_level must be one of: debug, info, warn, error"))
	}

	if len(c.ViewContexts) == 0 {
		errs = append(errs, fmt.Errorf("view_contexts must not be empty"))
	}
	seen := make(map[string]bool, len(c.ViewContexts))
	for _, context := range c.ViewContexts {
		if context == "" {
			errs = append(errs, fmt.Errorf("view_contexts contains an empty name"))
		} else if seen[context] {
			errs = append(errs, fmt.Errorf("view_contexts lists %q twice", context))
		}
		seen[context] = true
	}

	for _, path := range c.TraitPaths {
		if path == "" {
			errs = append(errs, fmt.Errorf("trait_paths contains an empty path"))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// SlogLevel returns the configured log level. Unknown names map to
// info; [Config.Validate] reports them.
func (c *Config) SlogLevel() slog.Level {
	if level, ok := logLevels[c.LogLevel]; ok {
		return level
	}
	return slog.LevelInfo
}

// ValidateOptions returns the composition validator options this
// configuration selects.
func (c *Config) ValidateOptions() compose.ValidateOptions {
	return compose.ValidateOptions{
		ViewContexts:      slices.Clone(c.ViewContexts),
		CollisionSeverity: issue.Severity(c.CollisionSeverity),
		GraphChecks:       c.GraphChecks,
	}
}

// ParamsOptions returns the parameter validator options this
// configuration selects.
func (c *Config) ParamsOptions() params.Options {
	return params.Options{Open: !c.ClosedParameters}
}

// SnapshotCompression parses the configured snapshot compression.
func (c *Config) SnapshotCompression() (snapshot.Compression, error) {
	return snapshot.ParseCompression(c.Snapshot.Compression)
}

// EnsurePaths creates the snapshot directory if one is configured.
func (c *Config) EnsurePaths() error {
	if c.Snapshot.Directory == "" {
		return nil
	}
	if err := os.MkdirAll(c.Snapshot.Directory, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", c.Snapshot.Directory, err)
	}
	return nil
}
