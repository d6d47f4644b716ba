package controller

import (
	"encoding"
	"errors"
	"net/url"
	"reflect"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cast"
)

var (
	timeType            = reflect.TypeOf(time.Time{})
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// bindValues copies request values into dest. It returns per-parameter
// conversion failures; the error is reserved for an unusable dest.
func bindValues(values url.Values, prefix string, dest any) (map[string]string, error) {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return nil, errors.New("controller: bind destination must be a non-nil pointer")
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return nil, errors.New("controller: bind destination must point to a struct")
	}

	index := make(map[string][]string, len(values))
	for key, vals := range values {
		index[strings.ToLower(key)] = vals
	}

	failures := make(map[string]string)
	bindStruct(index, strings.TrimSpace(prefix), rv, failures)
	return failures, nil
}

func bindStruct(index map[string][]string, prefix string, v reflect.Value, failures map[string]string) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := sf.Name
		if tag := sf.Tag.Get("json"); tag != "" {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		field := v.Field(i)

		if sf.Anonymous && field.Kind() == reflect.Struct {
			bindStruct(index, prefix, field, failures)
			continue
		}
		if isNested(field.Type()) {
			if !hasPrefix(index, path) {
				continue
			}
			if field.Kind() == reflect.Pointer {
				if field.IsNil() {
					field.Set(reflect.New(field.Type().Elem()))
				}
				field = field.Elem()
			}
			bindStruct(index, path, field, failures)
			continue
		}

		raws, ok := index[strings.ToLower(path)]
		if !ok || len(raws) == 0 {
			continue
		}
		if err := assign(field, raws); err != nil {
			failures[path] = "Invalid value " + quoteValue(raws[0])
		}
	}
}

func isNested(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || t == timeType {
		return false
	}
	return !reflect.PointerTo(t).Implements(textUnmarshalerType)
}

func hasPrefix(index map[string][]string, path string) bool {
	lower := strings.ToLower(path) + "."
	for key := range index {
		if strings.HasPrefix(key, lower) {
			return true
		}
	}
	return false
}

func assign(field reflect.Value, raws []string) error {
	if field.Kind() == reflect.Pointer {
		elem := reflect.New(field.Type().Elem())
		if err := assign(elem.Elem(), raws); err != nil {
			return err
		}
		field.Set(elem)
		return nil
	}

	// time.Time implements TextUnmarshaler but only accepts RFC 3339, while
	// datefields post plain dates.
	if field.Type() == timeType {
		raw := strings.TrimSpace(raws[0])
		if raw == "" {
			return nil
		}
		ts, err := cast.ToTimeE(raw)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(ts))
		return nil
	}

	if field.CanAddr() && field.Addr().Type().Implements(textUnmarshalerType) {
		return field.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(raws[0]))
	}

	if field.Kind() == reflect.Slice && field.Type().Elem().Kind() != reflect.Uint8 {
		out := reflect.MakeSlice(field.Type(), 0, len(raws))
		for _, raw := range raws {
			item := reflect.New(field.Type().Elem()).Elem()
			if err := assign(item, []string{raw}); err != nil {
				return err
			}
			out = reflect.Append(out, item)
		}
		field.Set(out)
		return nil
	}

	raw := strings.TrimSpace(raws[0])
	switch field.Kind() {
	case reflect.String:
		field.SetString(raws[0])
	case reflect.Bool:
		// Checkboxes post "on" when checked.
		if strings.EqualFold(raw, "on") {
			field.SetBool(true)
			return nil
		}
		if raw == "" {
			field.SetBool(false)
			return nil
		}
		b, err := cast.ToBoolE(raw)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if raw == "" {
			return nil
		}
		n, err := cast.ToInt64E(decimal(raw))
		if err != nil {
			return err
		}
		if field.OverflowInt(n) {
			return errors.New("overflow")
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if raw == "" {
			return nil
		}
		n, err := cast.ToUint64E(decimal(raw))
		if err != nil {
			return err
		}
		if field.OverflowUint(n) {
			return errors.New("overflow")
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		if raw == "" {
			return nil
		}
		f, err := cast.ToFloat64E(raw)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Struct:
		return errors.New("unsupported struct")
	case reflect.Interface:
		field.Set(reflect.ValueOf(raws[0]))
	default:
		return errors.New("unsupported kind " + field.Kind().String())
	}
	return nil
}

// decimal drops leading zeros so cast, which parses with base 0, reads form
// input such as "08" or "010" as base 10.
func decimal(raw string) string {
	sign := ""
	if raw != "" && (raw[0] == '-' || raw[0] == '+') {
		sign, raw = raw[:1], raw[1:]
	}
	trimmed := strings.TrimLeft(raw, "0")
	if trimmed == "" && raw != "" {
		trimmed = "0"
	}
	return sign + trimmed
}

const maxQuotedRunes = 32

func quoteValue(raw string) string {
	if utf8.RuneCountInString(raw) > maxQuotedRunes {
		cut, n := 0, 0
		for i := range raw {
			if n == maxQuotedRunes {
				cut = i
				break
			}
			n++
		}
		raw = raw[:cut] + "..."
	}
	return `"` + raw + `"`
}
