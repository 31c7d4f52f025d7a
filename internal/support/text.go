package support

import (
	"fmt"
	"reflect"
	"strings"
)

// DefaultSeparator is the separator ListToString uses when given "".
const DefaultSeparator = ", "

// ListToString flattens nested slices and arrays in items and joins the
// string form of every leaf with sep.
func ListToString(items []any, sep string) string {
	if sep == "" {
		sep = DefaultSeparator
	}
	flat := Flatten(items)
	parts := make([]string, len(flat))
	for i, item := range flat {
		parts[i] = fmt.Sprint(item)
	}
	return strings.Join(parts, sep)
}

// Flatten returns the leaves of arbitrarily nested slices and arrays.
// Strings and byte slices are leaves.
func Flatten(items []any) []any {
	var out []any
	for _, item := range items {
		out = flattenValue(out, item)
	}
	return out
}

func flattenValue(out []any, item any) []any {
	if item == nil {
		return append(out, item)
	}
	if _, ok := item.([]byte); ok {
		return append(out, item)
	}
	v := reflect.ValueOf(item)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			out = flattenValue(out, v.Index(i).Interface())
		}
		return out
	default:
		return append(out, item)
	}
}
