// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package issue

import (
	"fmt"
	"strconv"
	"strings"
)

// FailureKind classifies a raw schema failure.
type FailureKind string

const (
	FailureRequired         FailureKind = "required"
	FailureInvalidType      FailureKind = "invalid_type"
	FailureTooSmall         FailureKind = "too_small"
	FailureTooBig           FailureKind = "too_big"
	FailureInvalidEnum      FailureKind = "invalid_enum"
	FailureInvalidString    FailureKind = "invalid_string"
	FailureNotUnique        FailureKind = "not_unique"
	FailureUnrecognizedKeys FailureKind = "unrecognized_keys"
	FailureCustom           FailureKind = "custom"
)

// Subject values describe what a size bound applied to.
const (
	SubjectNumber = "number"
	SubjectString = "string"
	SubjectArray  = "array"
	SubjectObject = "object"
)

// SchemaFailure is one raw failure reported by a declarative schema
// check, before it is mapped into the taxonomy.
type SchemaFailure struct {
	Kind FailureKind

	// Scope selects the code family: DomainStructure for trait
	// definition documents, DomainParameters for trait parameters.
	Scope Domain

	// Path is the location of the failing value as path segments.
	// Array indices are encoded as "[n]".
	Path []string

	// Message overrides the generated message when set.
	Message string

	Expected string
	Received string

	Minimum *float64
	Maximum *float64

	// Subject is what a size bound applied to (see the Subject
	// constants).
	Subject string

	// Keys lists unrecognized keys for FailureUnrecognizedKeys.
	Keys []string

	// Options lists the allowed values for FailureInvalidEnum.
	Options []string

	// Code, Severity and FixHint override the mapped values when set.
	Code     Code
	Severity Severity
	FixHint  string
}

// FormatSchemaFailure maps a raw schema failure to an [Issue]. The
// result always carries [SourceSchemaValidator] and defaults to error
// severity.
func FormatSchemaFailure(failure SchemaFailure, sourceFile string) Issue {
	code := failure.Code
	if !code.Valid() {
		code = codeForFailure(failure)
	}

	path := JoinPath(failure.Path)
	message, hint := describeFailure(failure, path)
	if failure.Message != "" {
		message = failure.Message
	}
	if failure.FixHint != "" {
		hint = failure.FixHint
	}
	if hint == "" {
		hint = code.DefaultFixHint()
	}

	severity := failure.Severity
	if severity == "" {
		severity = SeverityError
	}

	return Issue{
		Code:     code,
		Message:  message,
		Severity: severity,
		Domain:   code.Domain(),
		Location: Location{Path: path, File: sourceFile},
		FixHint:  hint,
		Source:   SourceSchemaValidator,
	}
}

// FormatSchemaFailures maps every failure with [FormatSchemaFailure].
func FormatSchemaFailures(failures []SchemaFailure, sourceFile string) []Issue {
	if len(failures) == 0 {
		return nil
	}
	issues := make([]Issue, 0, len(failures))
	for _, failure := range failures {
		issues = append(issues, FormatSchemaFailure(failure, sourceFile))
	}
	return issues
}

func codeForFailure(failure SchemaFailure) Code {
	if failure.Scope == DomainParameters {
		switch failure.Kind {
		case FailureInvalidType:
			return CodeParameterTypeMismatch
		case FailureRequired:
			return CodeParameterRequired
		case FailureUnrecognizedKeys:
			return CodeParameterUnknown
		default:
			return CodeParameterOutOfRange
		}
	}
	if failure.Kind == FailureRequired {
		return CodeMissingRequiredField
	}
	return CodeInvalidFieldType
}

func describeFailure(failure SchemaFailure, path string) (message, hint string) {
	field := lastSegment(failure.Path)
	noun := "field"
	if failure.Scope == DomainParameters {
		noun = "parameter"
	}

	switch failure.Kind {
	case FailureRequired:
		return fmt.Sprintf("Missing required %s '%s'", noun, field),
			fmt.Sprintf("Add the required '%s'", field)

	case FailureInvalidType:
		message = fmt.Sprintf("Expected %s, received %s", orUnknown(failure.Expected), orUnknown(failure.Received))
		if path != "" {
			message = fmt.Sprintf("Invalid type at '%s': %s", path, message)
		}
		return message, fmt.Sprintf("Change the value to %s", article(failure.Expected))

	case FailureTooSmall:
		bound := formatBound(failure.Minimum)
		switch failure.Subject {
		case SubjectArray:
			return fmt.Sprintf("Expected at least %s items", bound), "Add more items"
		case SubjectString:
			return fmt.Sprintf("Expected at least %s characters", bound),
				fmt.Sprintf("Lengthen the value to at least %s characters", bound)
		case SubjectObject:
			return fmt.Sprintf("Expected at least %s entries", bound), "Add more entries"
		default:
			return fmt.Sprintf("Value must be at least %s", bound),
				fmt.Sprintf("Increase the value to at least %s", bound)
		}

	case FailureTooBig:
		bound := formatBound(failure.Maximum)
		switch failure.Subject {
		case SubjectArray:
			return fmt.Sprintf("Expected at most %s items", bound), "Remove items"
		case SubjectString:
			return fmt.Sprintf("Expected at most %s characters", bound),
				fmt.Sprintf("Shorten the value to at most %s characters", bound)
		case SubjectObject:
			return fmt.Sprintf("Expected at most %s entries", bound), "Remove entries"
		default:
			return fmt.Sprintf("Value must be at most %s", bound),
				fmt.Sprintf("Decrease the value to at most %s", bound)
		}

	case FailureInvalidEnum:
		options := strings.Join(failure.Options, ", ")
		return fmt.Sprintf("Invalid value %s, expected one of: %s", orUnknown(failure.Received), options),
			fmt.Sprintf("Use one of: %s", options)

	case FailureInvalidString:
		return fmt.Sprintf("Value does not match pattern %s", orUnknown(failure.Expected)),
			fmt.Sprintf("Change the value to match %s", orUnknown(failure.Expected))

	case FailureNotUnique:
		return "Items must be unique", "Remove duplicate items"

	case FailureUnrecognizedKeys:
		keys := strings.Join(failure.Keys, ", ")
		return fmt.Sprintf("Unrecognized %s: %s", plural(noun, len(failure.Keys)), keys),
			fmt.Sprintf("Remove: %s", keys)
	}

	return "Validation failed", ""
}

// JoinPath renders path segments in dotted form. Index segments
// ("[0]") attach to the previous segment without a dot.
func JoinPath(segments []string) string {
	var builder strings.Builder
	for index, segment := range segments {
		if index > 0 && !strings.HasPrefix(segment, "[") {
			builder.WriteByte('.')
		}
		builder.WriteString(segment)
	}
	return builder.String()
}

// IndexSegment returns the path segment for an array index.
func IndexSegment(index int) string {
	return "[" + strconv.Itoa(index) + "]"
}

func lastSegment(segments []string) string {
	for index := len(segments) - 1; index >= 0; index-- {
		if !strings.HasPrefix(segments[index], "[") {
			return segments[index]
		}
	}
	return "value"
}

func formatBound(bound *float64) string {
	if bound == nil {
		return "?"
	}
	return strconv.FormatFloat(*bound, 'f', -1, 64)
}

func orUnknown(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

func article(noun string) string {
	switch {
	case noun == "":
		return "the expected type"
	case strings.ContainsAny(noun[:1], "aeiou"):
		return "an " + noun
	default:
		return "a " + noun
	}
}

func plural(noun string, count int) string {
	if count == 1 {
		return noun
	}
	return noun + "s"
}
