// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package traitfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/issue"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/trait"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/traitschema"
)

// Extensions lists the file extensions a directory scan picks up.
var Extensions = []string{".yaml", ".yml", ".json", ".jsonc"}

// Options configures [Load].
type Options struct {
	// Logger receives per-file debug records. Nil discards them.
	Logger *slog.Logger
}

// Result is the outcome of loading a set of paths.
type Result struct {
	// Definitions holds the traits that loaded cleanly, in the order
	// their files were resolved.
	Definitions []*trait.Definition

	// Files lists every resolved file, including those that failed.
	Files []string

	// Issues holds structure issues from every file plus loader
	// issues, sorted.
	Issues []issue.Issue

	// Sources maps each loaded trait name to the file it came from.
	Sources map[string]string
}

// Load resolves paths into trait files and parses each one.
// Filesystem errors other than a missing path are returned as errors;
// everything about file content is reported as issues.
func Load(options Options, paths ...string) (*Result, error) {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	result := &Result{Sources: make(map[string]string)}
	files, err := resolve(paths, result)
	if err != nil {
		return nil, err
	}
	result.Files = files

	for _, file := range files {
		definition, issues, err := loadFile(file)
		if err != nil {
			return nil, err
		}
		result.Issues = append(result.Issues, issues...)
		if definition == nil {
			logger.Debug("trait file rejected", "file", file, "issues", len(issues))
			continue
		}
		if previous, exists := result.Sources[definition.Name]; exists {
			result.Issues = append(result.Issues, issue.New(issue.CodeInvalidTraitSchema, "name",
				"Trait %q is already defined in %s", definition.Name, previous).
				WithFile(file).
				WithFixHint("Rename one of the traits or remove the duplicate file"))
			continue
		}
		result.Sources[definition.Name] = file
		result.Definitions = append(result.Definitions, definition)
		logger.Debug("trait file loaded", "file", file, "trait", definition.Name, "version", definition.Version)
	}

	if len(result.Definitions) == 0 && !issue.HasErrors(result.Issues) {
		result.Issues = append(result.Issues, issue.New(issue.CodeNoTraitFiles, "",
			"No trait files found in %s", strings.Join(paths, ", ")))
	}
	issue.Sort(result.Issues)
	return result, nil
}

// resolve expands paths into a deduplicated list of files. Missing
// paths become TE-0104 issues on result.
func resolve(paths []string, result *Result) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(file string) {
		if !seen[file] {
			seen[file] = true
			files = append(files, file)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			result.Issues = append(result.Issues, issue.New(issue.CodeNoTraitFiles, "",
				"Trait path %s does not exist", path).WithFile(path))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolving trait path: %w", err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("reading trait directory: %w", err)
		}
		// ReadDir returns entries sorted by name.
		for _, entry := range entries {
			if entry.IsDir() || !IsTraitFile(entry.Name()) {
				continue
			}
			add(filepath.Join(path, entry.Name()))
		}
	}
	return files, nil
}

// IsTraitFile reports whether name has one of [Extensions].
func IsTraitFile(name string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(name)))
}

// loadFile reads, decodes and parses one file. The definition is nil
// when the file has error-severity issues.
func loadFile(file string) (*trait.Definition, []issue.Issue, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, nil, fmt.Errorf("reading trait file: %w", err)
	}
	document, err := DecodeDocument(file, data)
	if err != nil {
		return nil, []issue.Issue{issue.New(issue.CodeInvalidTraitSchema, "", "%v", err).
			WithFile(file).
			WithFixHint("Fix the file syntax so it decodes to a mapping")}, nil
	}
	definition, issues := trait.Parse(document, file)
	return definition, issues, nil
}

// DecodeDocument decodes raw file content into a generic document,
// choosing JSON or YAML by the file extension. The top level must be
// a mapping.
func DecodeDocument(file string, data []byte) (map[string]any, error) {
	value, err := DecodeValue(file, data)
	if err != nil {
		return nil, err
	}
	document, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top level is %s, expected a mapping", traitschema.KindOf(value))
	}
	return document, nil
}

// DecodeValue decodes raw file content of any shape, choosing JSON or
// YAML by the file extension. The result is normalized to the value
// kinds [traitschema.Check] understands.
func DecodeValue(file string, data []byte) (any, error) {
	var raw any
	switch strings.ToLower(filepath.Ext(file)) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
	}
	return traitschema.Normalize(raw), nil
}
