// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"slices"
	"strings"
)

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

func joinOrNone(values []string, separator string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, separator)
}

func orNone(value string) string {
	if value == "" {
		return "none"
	}
	return value
}
