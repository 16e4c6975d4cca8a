// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"compose", "compose", 0},
		{"compsoe", "compose", 2},
		{"grph", "graph", 1},
		{"kitten", "sitting", 3},
		{"vérifier", "verifier", 1},
	}
	for _, test := range tests {
		if got := levenshtein(test.a, test.b); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
		}
	}
}

func TestSuggestCommand(t *testing.T) {
	commands := []*Command{{Name: "compose"}, {Name: "validate"}, {Name: "graph"}}

	if got := suggestCommand("validat", commands); got != "validate" {
		t.Errorf("suggestCommand(validat) = %q, want validate", got)
	}
	if got := suggestCommand("snapshotting", commands); got != "" {
		t.Errorf("suggestCommand(snapshotting) = %q, want none", got)
	}
}

func TestNearestBreaksTiesAlphabetically(t *testing.T) {
	// Every candidate is one edit from "cod"; registration order must
	// not matter.
	for _, candidates := range [][]string{{"code", "cold"}, {"cold", "code"}, {"cods", "cold", "code"}} {
		if got := nearest("cod", candidates); got != "code" {
			t.Errorf("nearest(cod, %v) = %q, want code", candidates, got)
		}
	}
}

func TestSuggestFlag(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flagSet.Bool("json", false, "")
	flagSet.String("snapshot", "", "")
	flagSet.BoolP("verbose", "v", false, "")

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--snapshto=out"}, "--snapshot"},
		{[]string{"-v", "--jsn"}, "--json"},
		{[]string{"--json", "--completely-unrelated"}, ""},
		{[]string{"positional", "-", "--"}, ""},
	}
	for _, test := range tests {
		if got := suggestFlag(test.args, flagSet); got != test.want {
			t.Errorf("suggestFlag(%v) = %q, want %q", test.args, got, test.want)
		}
	}
}
