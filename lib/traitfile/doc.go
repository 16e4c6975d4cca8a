// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

// Package traitfile resolves trait definition files on disk and turns
// them into validated [trait.Definition] values.
//
// Paths may name files or directories. Directories are scanned one
// level deep, in lexical order, for *.yaml, *.yml, *.json and *.jsonc
// files. JSON files may carry comments and trailing commas. Every file
// is structure-validated; files with error-severity issues are left
// out of the result but their issues are reported. When nothing
// resolves at all the result carries a TE-0104 issue.
package traitfile
