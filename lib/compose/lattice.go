// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package compose

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/trait"
)

// relation is the outcome of comparing an incumbent definition with a
// challenger.
type relation uint8

const (
	relationIdentical relation = iota
	relationIncumbentStricter
	relationChallengerStricter
	relationCompatible
	relationContradictory
)

// compareFields places two field definitions in the refinement
// lattice. A definition is stricter when it admits a subset of the
// other's values: same base type, and every constraint the looser side
// sets is matched or narrowed. Descriptions are documentation and do
// not take part.
func compareFields(incumbent, challenger trait.FieldSchema) (relation, string) {
	incumbent.Description, challenger.Description = "", ""
	if reflect.DeepEqual(incumbent, challenger) {
		return relationIdentical, ""
	}
	if incumbent.BaseType() != challenger.BaseType() {
		return relationContradictory, fmt.Sprintf("type %s conflicts with type %s", incumbent.Type, challenger.Type)
	}
	if reason := contradiction(incumbent, challenger); reason != "" {
		return relationContradictory, reason
	}

	challengerRefines := refines(challenger, incumbent)
	incumbentRefines := refines(incumbent, challenger)
	switch {
	case challengerRefines && !incumbentRefines:
		return relationChallengerStricter, describeRefinement(challenger, incumbent)
	case incumbentRefines && !challengerRefines:
		return relationIncumbentStricter, describeRefinement(incumbent, challenger)
	default:
		return relationCompatible, "definitions differ without either refining the other"
	}
}

// refines reports whether strict admits no value that loose rejects.
func refines(strict, loose trait.FieldSchema) bool {
	if loose.IsInteger() && !strict.IsInteger() {
		return false
	}
	if loose.Required && !strict.Required {
		return false
	}

	looseEnum, strictEnum := loose.Constraints.Enum, strict.Constraints.Enum
	if len(looseEnum) > 0 {
		if len(strictEnum) == 0 || !subset(strictEnum, looseEnum) {
			return false
		}
	}
	if format := loose.EffectiveFormat(); format != "" && strict.EffectiveFormat() != format {
		return false
	}
	if pattern := loose.Constraints.Pattern; pattern != "" && strict.Constraints.Pattern != pattern {
		return false
	}
	if !lowerBoundRefines(strict.Constraints.Minimum, loose.Constraints.Minimum) ||
		!upperBoundRefines(strict.Constraints.Maximum, loose.Constraints.Maximum) {
		return false
	}
	if !lowerBoundRefines(intAsFloat(strict.Constraints.MinLength), intAsFloat(loose.Constraints.MinLength)) ||
		!upperBoundRefines(intAsFloat(strict.Constraints.MaxLength), intAsFloat(loose.Constraints.MaxLength)) {
		return false
	}
	return true
}

// contradiction returns a reason when no value could satisfy both
// definitions at once.
func contradiction(a, b trait.FieldSchema) string {
	if len(a.Constraints.Enum) > 0 && len(b.Constraints.Enum) > 0 && !intersects(a.Constraints.Enum, b.Constraints.Enum) {
		return fmt.Sprintf("enum [%s] and enum [%s] share no value",
			strings.Join(a.Constraints.Enum, ", "), strings.Join(b.Constraints.Enum, ", "))
	}
	formatA, formatB := a.EffectiveFormat(), b.EffectiveFormat()
	if formatA != "" && formatB != "" && formatA != formatB {
		return fmt.Sprintf("format %q conflicts with format %q", formatA, formatB)
	}
	if emptyRange(maxBound(a.Constraints.Minimum, b.Constraints.Minimum), minBound(a.Constraints.Maximum, b.Constraints.Maximum)) {
		return "numeric ranges do not overlap"
	}
	if emptyRange(
		maxBound(intAsFloat(a.Constraints.MinLength), intAsFloat(b.Constraints.MinLength)),
		minBound(intAsFloat(a.Constraints.MaxLength), intAsFloat(b.Constraints.MaxLength)),
	) {
		return "length ranges do not overlap"
	}
	return ""
}

func describeRefinement(strict, loose trait.FieldSchema) string {
	var added []string
	if len(strict.Constraints.Enum) > 0 && (len(loose.Constraints.Enum) == 0 || len(strict.Constraints.Enum) < len(loose.Constraints.Enum)) {
		added = append(added, "enum ["+strings.Join(strict.Constraints.Enum, ", ")+"]")
	}
	if strict.EffectiveFormat() != "" && loose.EffectiveFormat() == "" {
		added = append(added, "format "+strict.EffectiveFormat())
	}
	if strict.Constraints.Pattern != "" && loose.Constraints.Pattern == "" {
		added = append(added, "pattern")
	}
	if strict.IsInteger() && !loose.IsInteger() {
		added = append(added, "integer")
	}
	if strict.Required && !loose.Required {
		added = append(added, "required")
	}
	if len(added) == 0 {
		added = append(added, "narrower bounds")
	}
	return "stricter definition adds " + strings.Join(added, ", ")
}

func subset(values, of []string) bool {
	for _, value := range values {
		if !slices.Contains(of, value) {
			return false
		}
	}
	return true
}

func intersects(a, b []string) bool {
	for _, value := range a {
		if slices.Contains(b, value) {
			return true
		}
	}
	return false
}

func intAsFloat(value *int) *float64 {
	if value == nil {
		return nil
	}
	converted := float64(*value)
	return &converted
}

// lowerBoundRefines: strict's lower bound is at least loose's.
func lowerBoundRefines(strict, loose *float64) bool {
	return loose == nil || (strict != nil && *strict >= *loose)
}

// upperBoundRefines: strict's upper bound is at most loose's.
func upperBoundRefines(strict, loose *float64) bool {
	return loose == nil || (strict != nil && *strict <= *loose)
}

func maxBound(a, b *float64) *float64 {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case *a > *b:
		return a
	}
	return b
}

func minBound(a, b *float64) *float64 {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case *a < *b:
		return a
	}
	return b
}

func emptyRange(lower, upper *float64) bool {
	return lower != nil && upper != nil && *lower > *upper
}
