// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/cmd/traitc/commands"
)

func main() {
	if err := run(); err != nil {
		// Commands that report issues themselves return an ExitError
		// with the desired exit code. Don't print a redundant "error:"
		// line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return commands.Root().Execute(ctx, os.Args[1:])
}
