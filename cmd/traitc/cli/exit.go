// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"

	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/issue"
)

// ExitError signals a non-zero exit code without printing an extra
// error message. The command is expected to have already written its
// own output, typically an issue report.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the exit code. main checks for this interface on
// returned errors to distinguish "handled non-zero exit" from
// "unexpected error to display".
func (e *ExitError) ExitCode() int {
	return e.Code
}

// IssueExit returns an *ExitError with code 1 when issues contain an
// error, or any issue at all when failOnWarning is set. Otherwise it
// returns nil.
func IssueExit(issues []issue.Issue, failOnWarning bool) error {
	errors, warnings := issue.Count(issues)
	if errors > 0 || (failOnWarning && warnings > 0) {
		return &ExitError{Code: 1}
	}
	return nil
}
