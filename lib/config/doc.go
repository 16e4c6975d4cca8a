// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the traitc
// tool.
//
// Configuration is loaded from a single file specified by either the
// TRAITC_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no discovery and no automatic file
// search. Without a file, commands run on [Default].
//
// The file may carry profile sections (development, ci) that override
// base values when [Config].Profile matches. The ci profile is
// stricter even without a section: collisions are errors and the
// graph checks run.
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${CONFIG_DIR} and ${VAR:-default} patterns are expanded.
// Relative trait paths are resolved against the config file's
// directory.
//
// Key exports:
//
//   - [Config] -- trait paths, validation policy, snapshot settings
//   - [Default] -- a Config with development defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [Config.ValidateOptions] and [Config.ParamsOptions] -- the
//     library options the config feeds
package config
