// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"

	"github.com/spf13/pflag"
)

// maxSuggestDistance is the largest edit distance still offered as a
// "did you mean" suggestion.
const maxSuggestDistance = 3

// nearest returns the candidate closest to target within
// maxSuggestDistance. Ties go to the alphabetically first candidate so
// the suggestion does not depend on registration order.
func nearest(target string, candidates []string) string {
	best, bestDistance := "", maxSuggestDistance+1
	for _, candidate := range candidates {
		distance := levenshtein(target, candidate)
		if distance < bestDistance || (distance == bestDistance && candidate < best) {
			best, bestDistance = candidate, distance
		}
	}
	return best
}

func suggestCommand(unknown string, commands []*Command) string {
	names := make([]string, 0, len(commands))
	for _, command := range commands {
		names = append(names, command.Name)
	}
	return nearest(unknown, names)
}

// suggestFlag suggests a replacement for the first argument that looks
// like a flag but is not defined on flagSet.
func suggestFlag(args []string, flagSet *pflag.FlagSet) string {
	if flagSet == nil {
		return ""
	}
	for _, arg := range args {
		name, ok := flagName(arg)
		if !ok || flagSet.Lookup(name) != nil {
			continue
		}
		if len(name) == 1 && flagSet.ShorthandLookup(name) != nil {
			continue
		}

		var defined []string
		flagSet.VisitAll(func(flag *pflag.Flag) { defined = append(defined, flag.Name) })
		if suggestion := nearest(name, defined); suggestion != "" {
			return "--" + suggestion
		}
		return ""
	}
	return ""
}

// flagName extracts the name from "--name", "--name=value" or "-n".
func flagName(arg string) (string, bool) {
	if !strings.HasPrefix(arg, "-") || arg == "-" || arg == "--" {
		return "", false
	}
	name, _, _ := strings.Cut(strings.TrimLeft(arg, "-"), "=")
	return name, name != ""
}

// levenshtein is the edit distance between a and b counted in runes.
func levenshtein(a, b string) int {
	source, target := []rune(a), []rune(b)
	if len(source) < len(target) {
		source, target = target, source
	}
	row := make([]int, len(target)+1)
	for column := range row {
		row[column] = column
	}
	for i, sourceRune := range source {
		diagonal := row[0]
		row[0] = i + 1
		for j, targetRune := range target {
			above := row[j+1]
			substitution := diagonal
			if sourceRune != targetRune {
				substitution++
			}
			row[j+1] = min(above+1, row[j]+1, substitution)
			diagonal = above
		}
	}
	return row[len(target)]
}
