package handlers

import (
	"encoding/json"
	"reflect"
	"strings"

	"ledger-service/shared/utils"

	"github.com/shopspring/decimal"
)

var (
	decimalType       = reflect.TypeOf(decimal.Decimal{})
	jsonMarshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
)

// ResponseFormatter turns ledger records into JSON-ready maps keyed by their
// snake_case json names. Money values become plain numbers. With camel
// aliases on, every snake_case key is repeated under its camelCase form for
// frontends that read either.
type ResponseFormatter struct {
	camelAliases bool
}

func NewResponseFormatter(camelAliases bool) *ResponseFormatter {
	return &ResponseFormatter{camelAliases: camelAliases}
}

func (f *ResponseFormatter) Format(v any) any {
	if v == nil {
		return nil
	}
	return f.formatValue(reflect.ValueOf(v))
}

func (f *ResponseFormatter) formatValue(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}

	if v.Type() == decimalType {
		return v.Interface().(decimal.Decimal).InexactFloat64()
	}

	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return f.formatValue(v.Elem())
	}

	// Date, time.Time and friends keep their own encoding.
	if v.Type().Implements(jsonMarshalerType) {
		return v.Interface()
	}

	switch v.Kind() {
	case reflect.Struct:
		return f.formatStruct(v)
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return []any{}
		}
		out := make([]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			out[i] = f.formatValue(v.Index(i))
		}
		return out
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return v.Interface()
		}
		out := make(map[string]any, v.Len()*2)
		iter := v.MapRange()
		for iter.Next() {
			f.put(out, iter.Key().String(), f.formatValue(iter.Value()))
		}
		return out
	}
	return v.Interface()
}

func (f *ResponseFormatter) formatStruct(v reflect.Value) map[string]any {
	t := v.Type()
	out := make(map[string]any, t.NumField()*2)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, omitEmpty := jsonFieldName(field)
		if name == "-" {
			continue
		}
		fv := v.Field(i)
		if omitEmpty && fv.IsZero() {
			continue
		}
		if omitEmpty && (fv.Kind() == reflect.Slice || fv.Kind() == reflect.Map) && fv.Len() == 0 {
			continue
		}
		f.put(out, name, f.formatValue(fv))
	}
	return out
}

func (f *ResponseFormatter) put(out map[string]any, key string, value any) {
	out[key] = value
	if !f.camelAliases {
		return
	}
	if alias := utils.SnakeToCamel(key); alias != key {
		if _, taken := out[alias]; !taken {
			out[alias] = value
		}
	}
}

func jsonFieldName(field reflect.StructField) (string, bool) {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name, false
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = field.Name
	}
	return name, strings.Contains(opts, "omitempty")
}
