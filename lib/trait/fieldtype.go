// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package trait

// Field types accepted in [FieldSchema.Type].
const (
	FieldString    = "string"
	FieldText      = "text"
	FieldNumber    = "number"
	FieldInteger   = "integer"
	FieldBoolean   = "boolean"
	FieldEnum      = "enum"
	FieldDate      = "date"
	FieldDateTime  = "datetime"
	FieldTimestamp = "timestamp"
	FieldUUID      = "uuid"
	FieldEmail     = "email"
	FieldURL       = "url"
	FieldArray     = "array"
	FieldObject    = "object"
	FieldReference = "reference"
)

// fieldTypeInfo records how a field type relates to its base type.
// Types with an implied format are string refinements: "email" is a
// string with format "email".
type fieldTypeInfo struct {
	base    string
	format  string
	integer bool
}

var fieldTypes = map[string]fieldTypeInfo{
	FieldString:    {base: FieldString},
	FieldText:      {base: FieldString},
	FieldEnum:      {base: FieldString},
	FieldDate:      {base: FieldString, format: FieldDate},
	FieldDateTime:  {base: FieldString, format: FieldDateTime},
	FieldTimestamp: {base: FieldString, format: FieldTimestamp},
	FieldUUID:      {base: FieldString, format: FieldUUID},
	FieldEmail:     {base: FieldString, format: FieldEmail},
	FieldURL:       {base: FieldString, format: FieldURL},
	FieldNumber:    {base: FieldNumber},
	FieldInteger:   {base: FieldNumber, integer: true},
	FieldBoolean:   {base: FieldBoolean},
	FieldArray:     {base: FieldArray},
	FieldObject:    {base: FieldObject},
	FieldReference: {base: FieldReference},
}

// KnownFieldType reports whether name is an accepted field type.
func KnownFieldType(name string) bool {
	_, ok := fieldTypes[name]
	return ok
}

// BaseType returns the type family the field belongs to ("string",
// "number", "boolean", "array", "object", "reference"). Unknown types
// are their own family.
func (f FieldSchema) BaseType() string {
	if info, ok := fieldTypes[f.Type]; ok {
		return info.base
	}
	return f.Type
}

// EffectiveFormat returns the explicit format constraint, or the
// format implied by the type ("email", "uuid", ...).
func (f FieldSchema) EffectiveFormat() string {
	if f.Constraints.Format != "" {
		return f.Constraints.Format
	}
	return fieldTypes[f.Type].format
}

// IsInteger reports whether the field only admits whole numbers.
func (f FieldSchema) IsInteger() bool {
	return fieldTypes[f.Type].integer
}
