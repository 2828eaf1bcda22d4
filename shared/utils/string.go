package utils

import (
	"reflect"
	"strings"
	"unicode"
)

// TrimAllStringFields iterates over all fields of the input and trims any string fields.
// Input: any (interface{}) - can be a struct, pointer to struct, slice, map, etc.
// Output: same type as input but with all string fields trimmed.
func TrimAllStringFields(input any) any {
	if input == nil {
		return nil
	}

	value := reflect.ValueOf(input)
	return trimValue(value).Interface()
}

// trimValue recursively trims string fields for various data types.
func trimValue(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return v
		}
		newElem := trimValue(v.Elem())
		newPtr := reflect.New(v.Elem().Type())
		newPtr.Elem().Set(newElem)
		return newPtr

	case reflect.Struct:
		// start from a full copy so unexported state (time.Time, decimal.Decimal) survives
		newStruct := reflect.New(v.Type()).Elem()
		newStruct.Set(v)
		for i := 0; i < v.NumField(); i++ {
			if !v.Type().Field(i).IsExported() {
				continue
			}
			if newStruct.Field(i).CanSet() {
				newStruct.Field(i).Set(trimValue(v.Field(i)))
			}
		}
		return newStruct

	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		newSlice := reflect.MakeSlice(v.Type(), v.Len(), v.Cap())
		for i := 0; i < v.Len(); i++ {
			newSlice.Index(i).Set(trimValue(v.Index(i)))
		}
		return newSlice

	case reflect.String:
		return reflect.ValueOf(strings.TrimSpace(v.String())).Convert(v.Type())
	}

	return v
}

// SnakeToCamel converts "company_name" to "companyName".
func SnakeToCamel(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}
	var sb strings.Builder
	upperNext := false
	for _, r := range s {
		if r == '_' {
			upperNext = true
			continue
		}
		if upperNext {
			sb.WriteRune(unicode.ToUpper(r))
			upperNext = false
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
