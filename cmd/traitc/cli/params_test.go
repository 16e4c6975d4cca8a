// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"log/slog"
	"testing"

	"github.com/spf13/pflag"
)

func TestBindFlags_BasicTypes(t *testing.T) {
	type params struct {
		Name     string   `flag:"name" desc:"the name"`
		Strict   bool     `flag:"strict,s" desc:"strict mode"`
		Count    int      `flag:"count" desc:"number of items"`
		Tags     []string `flag:"tags" desc:"tag list"`
		Untagged string   // no flag tag, skipped
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}

	err := flagSet.Parse([]string{"--name", "alice", "-s", "--count", "42", "--tags", "a,b,c"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Name != "alice" {
		t.Errorf("Name = %q, want %q", p.Name, "alice")
	}
	if !p.Strict {
		t.Error("Strict = false, want true")
	}
	if p.Count != 42 {
		t.Errorf("Count = %d, want 42", p.Count)
	}
	if len(p.Tags) != 3 || p.Tags[2] != "c" {
		t.Errorf("Tags = %v, want [a b c]", p.Tags)
	}
	if flagSet.Lookup("untagged") != nil {
		t.Error("untagged field was bound")
	}
}

func TestBindFlags_Defaults(t *testing.T) {
	type params struct {
		Format string `flag:"format" default:"text"`
		Closed bool   `flag:"closed" default:"true"`
		Depth  int    `flag:"depth" default:"3"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	if err := flagSet.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Format != "text" || !p.Closed || p.Depth != 3 {
		t.Errorf("defaults not applied: %+v", p)
	}
}

func TestBindFlags_EmbeddedStructs(t *testing.T) {
	type params struct {
		JSONOutput
		Verbosity
		ConfigFile
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	if err := flagSet.Parse([]string{"--json", "--verbose", "--config", "traitc.yaml"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !p.OutputJSON || !p.Verbose || p.ConfigPath != "traitc.yaml" {
		t.Errorf("embedded flags not bound: %+v", p)
	}
	if p.LogLevel() != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", p.LogLevel())
	}
}

func TestBindFlags_Errors(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)

	if err := BindFlags(struct{}{}, flagSet); err == nil {
		t.Error("expected error for non-pointer params")
	}

	type unsupported struct {
		Ratio float32 `flag:"ratio"`
	}
	if err := BindFlags(&unsupported{}, flagSet); err == nil {
		t.Error("expected error for unsupported field type")
	}

	type badDefault struct {
		Count int `flag:"count" default:"many"`
	}
	if err := BindFlags(&badDefault{}, pflag.NewFlagSet("test", pflag.ContinueOnError)); err == nil {
		t.Error("expected error for unparseable default")
	}
}
