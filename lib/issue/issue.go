// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package issue

import (
	"fmt"
	"sort"
)

// Severity is how serious an issue is. Only errors make a result
// invalid.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Domain groups codes by the validator that owns them.
type Domain string

const (
	DomainStructure   Domain = "structure"
	DomainParameters  Domain = "parameters"
	DomainComposition Domain = "composition"
	DomainRuntime     Domain = "runtime"
)

// domainRank orders domains for [Sort] by the two-digit domain prefix
// of their codes.
var domainRank = map[Domain]int{
	DomainStructure:   1,
	DomainParameters:  2,
	DomainComposition: 3,
	DomainRuntime:     4,
}

// Source records which component produced an issue.
type Source string

const (
	// SourceInternal is used by checks implemented directly in Go
	// (graph analysis, composition validation).
	SourceInternal Source = "internal"

	// SourceSchemaValidator is used by issues produced through
	// [FormatSchemaFailure].
	SourceSchemaValidator Source = "schema-validator"
)

// Location points at the offending element. Path is a dotted path
// ("schema.status", "view_extensions.list"); File is the trait file
// the element came from, when known.
type Location struct {
	Path string `json:"path"`
	File string `json:"file,omitempty"`
}

// Issue is a single validation diagnostic.
type Issue struct {
	Code     Code     `json:"code"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Domain   Domain   `json:"domain"`
	Location Location `json:"location"`
	FixHint  string   `json:"fixHint,omitempty"`
	Source   Source   `json:"source"`
}

// New creates an issue with the code's default severity, domain and
// fix hint, attributed to [SourceInternal].
func New(code Code, path string, format string, args ...any) Issue {
	return Issue{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Severity: code.DefaultSeverity(),
		Domain:   code.Domain(),
		Location: Location{Path: path},
		FixHint:  code.DefaultFixHint(),
		Source:   SourceInternal,
	}
}

// WithSeverity returns a copy of the issue with a different severity.
func (i Issue) WithSeverity(severity Severity) Issue {
	i.Severity = severity
	return i
}

// WithFile returns a copy of the issue attributed to a source file.
func (i Issue) WithFile(file string) Issue {
	i.Location.File = file
	return i
}

// WithFixHint returns a copy of the issue with a specific fix hint.
func (i Issue) WithFixHint(hint string) Issue {
	i.FixHint = hint
	return i
}

// IsError reports whether the issue has error severity.
func (i Issue) IsError() bool {
	return i.Severity == SeverityError
}

// String renders the issue on one line for logs and plain-text CLI
// output.
func (i Issue) String() string {
	location := i.Location.Path
	if i.Location.File != "" {
		location = i.Location.File + ":" + location
	}
	if location == "" {
		return fmt.Sprintf("%s %s: %s", i.Code, i.Severity, i.Message)
	}
	return fmt.Sprintf("%s %s at %s: %s", i.Code, i.Severity, location, i.Message)
}

// Sort orders issues deterministically by domain, code, file, path and
// then message. The sort is stable so duplicate issues keep their
// relative order.
func Sort(issues []Issue) {
	sort.SliceStable(issues, func(a, b int) bool {
		left, right := issues[a], issues[b]
		if rankLeft, rankRight := domainRank[left.Domain], domainRank[right.Domain]; rankLeft != rankRight {
			return rankLeft < rankRight
		}
		if left.Code != right.Code {
			return left.Code < right.Code
		}
		if left.Location.File != right.Location.File {
			return left.Location.File < right.Location.File
		}
		if left.Location.Path != right.Location.Path {
			return left.Location.Path < right.Location.Path
		}
		return left.Message < right.Message
	})
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []Issue) bool {
	for _, item := range issues {
		if item.IsError() {
			return true
		}
	}
	return false
}

// Count returns the number of errors and warnings in issues.
func Count(issues []Issue) (errors, warnings int) {
	for _, item := range issues {
		switch item.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		}
	}
	return errors, warnings
}
