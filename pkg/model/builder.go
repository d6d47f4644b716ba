package model

import (
	"reflect"
	"strings"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

// FieldFromValue describes a bound value, inferring the FieldType from its Go
// kind. Pointers are dereferenced; nil yields a string field.
func FieldFromValue(name string, value any) Field {
	field := Field{Name: name, Type: FieldTypeString}
	if value == nil {
		return field
	}
	field.Type = TypeOf(reflect.TypeOf(value))
	if field.Type != FieldTypeObject && field.Type != FieldTypeArray {
		field.Default = value
	}
	return field
}

// TypeOf maps a Go type onto a FieldType.
func TypeOf(t reflect.Type) FieldType {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return FieldTypeString
	}
	if t == timeType {
		return FieldTypeDate
	}
	if t.PkgPath() == "time" && t.Name() == "Duration" {
		return FieldTypeTime
	}
	switch t.Kind() {
	case reflect.Bool:
		return FieldTypeBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return FieldTypeInteger
	case reflect.Float32, reflect.Float64:
		return FieldTypeNumber
	case reflect.Slice, reflect.Array:
		return FieldTypeArray
	case reflect.Struct, reflect.Map:
		return FieldTypeObject
	}
	return FieldTypeString
}

// FieldsOf describes the exported fields of a struct sample, one Field per
// struct field named by its json tag (or Go name). Non-struct samples yield
// nil.
func FieldsOf(sample any) []Field {
	t := reflect.TypeOf(sample)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct || t == timeType {
		return nil
	}

	fields := make([]Field, 0, t.NumField())
	for idx := 0; idx < t.NumField(); idx++ {
		sf := t.Field(idx)
		if !sf.IsExported() {
			continue
		}
		name := sf.Name
		if tag, _, _ := strings.Cut(sf.Tag.Get("json"), ","); tag == "-" {
			continue
		} else if tag != "" {
			name = tag
		}
		field := Field{Name: name, Type: TypeOf(sf.Type), Label: sf.Tag.Get("label")}
		if field.Type == FieldTypeObject {
			field.Nested = FieldsOf(reflect.Zero(sf.Type).Interface())
		}
		fields = append(fields, field)
	}
	return fields
}
