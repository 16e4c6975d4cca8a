// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for traitc.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a parameter struct whose tagged
// fields become flags (see [BindFlags]), and a Run function. Commands are
// assembled into a tree in cmd/traitc/commands and dispatched via
// [Command.Execute], which handles flag parsing, subcommand routing,
// logger construction and structured help output with examples.
//
// When a user types an unknown subcommand or flag, the framework computes
// Levenshtein edit distance against all known names and suggests the
// closest match (threshold: distance <= 3).
//
// Parameter structs embed [JSONOutput] for --json, [Verbosity] for
// --verbose and [ConfigFile] for --config. [Report] renders issues and
// collisions for humans, styled with lipgloss when stdout is a
// terminal.
package cli
