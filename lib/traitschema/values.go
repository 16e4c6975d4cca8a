// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package traitschema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
)

// KindOf names the schema type of a normalized value ("null",
// "object", "array", "string", "number", "boolean").
func KindOf(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case map[string]any:
		return TypeObject
	case []any:
		return TypeArray
	case string:
		return TypeString
	case float64:
		return TypeNumber
	case bool:
		return TypeBoolean
	}
	return fmt.Sprintf("%T", value)
}

func render(value any) string {
	switch typed := value.(type) {
	case string:
		return strconv.Quote(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case nil:
		return "null"
	}
	return fmt.Sprint(value)
}

// Normalize converts a decoded value into canonical shapes:
// map[string]any, []any, string, float64, bool, or nil. Map keys that
// are not strings are rendered with fmt, and every integer or float
// kind (json.Number included) becomes float64.
func Normalize(value any) any {
	switch typed := value.(type) {
	case nil, string, bool, float64:
		return typed
	case json.Number:
		if number, err := typed.Float64(); err == nil {
			return number
		}
		return typed.String()
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, element := range typed {
			out[key] = Normalize(element)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for index, element := range typed {
			out[index] = Normalize(element)
		}
		return out
	}

	reflected := reflect.ValueOf(value)
	switch reflected.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(reflected.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(reflected.Uint())
	case reflect.Float32, reflect.Float64:
		return reflected.Float()
	case reflect.String:
		return reflected.String()
	case reflect.Bool:
		return reflected.Bool()
	case reflect.Pointer, reflect.Interface:
		if reflected.IsNil() {
			return nil
		}
		return Normalize(reflected.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if reflected.Kind() == reflect.Slice && reflected.IsNil() {
			return []any{}
		}
		out := make([]any, reflected.Len())
		for index := range out {
			out[index] = Normalize(reflected.Index(index).Interface())
		}
		return out
	case reflect.Map:
		out := make(map[string]any, reflected.Len())
		keys := reflected.MapKeys()
		sort.Slice(keys, func(a, b int) bool {
			return fmt.Sprint(keys[a].Interface()) < fmt.Sprint(keys[b].Interface())
		})
		for _, key := range keys {
			out[fmt.Sprint(key.Interface())] = Normalize(reflected.MapIndex(key).Interface())
		}
		return out
	}
	return value
}
