package binding

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/goliatone/go-extjs/pkg/js"
)

// PropertyBag holds the values a handler exposes to the view, keyed by root
// name.
type PropertyBag map[string]any

// Set stores value under key and returns the bag for chaining.
func (b PropertyBag) Set(key string, value any) PropertyBag {
	b[key] = value
	return b
}

// Lookup walks a dotted target. An exact key match wins over path
// traversal so flattened keys like "cta.headline" resolve directly.
func (b PropertyBag) Lookup(target string) (any, bool) {
	target = strings.TrimSpace(target)
	if len(b) == 0 || target == "" {
		return nil, false
	}
	if v, ok := b[target]; ok {
		return v, true
	}
	return Resolve(map[string]any(b), target)
}

// Resolve walks path through maps, structs, pointers, slices and
// *js.Object values. Map keys and struct fields fall back to a
// case-insensitive match.
func Resolve(root any, path string) (any, bool) {
	current := root
	for _, part := range strings.Split(path, ".") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, false
		}
		next, ok := step(current, part)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

func step(current any, part string) (any, bool) {
	switch typed := current.(type) {
	case nil:
		return nil, false
	case *js.Object:
		if v, ok := typed.Get(part); ok {
			return v, true
		}
		for _, key := range typed.Keys() {
			if strings.EqualFold(key, part) {
				return typed.Get(key)
			}
		}
		return nil, false
	case PropertyBag:
		return step(map[string]any(typed), part)
	case map[string]any:
		if v, ok := typed[part]; ok {
			return v, true
		}
		for key, v := range typed {
			if strings.EqualFold(key, part) {
				return v, true
			}
		}
		return nil, false
	}

	v := reflect.ValueOf(current)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		if mv := v.MapIndex(reflect.ValueOf(part).Convert(v.Type().Key())); mv.IsValid() {
			return mv.Interface(), true
		}
		iter := v.MapRange()
		for iter.Next() {
			if strings.EqualFold(iter.Key().String(), part) {
				return iter.Value().Interface(), true
			}
		}
	case reflect.Struct:
		if fv, ok := structField(v, part); ok {
			return fv.Interface(), true
		}
	case reflect.Slice, reflect.Array:
		idx, err := strconv.Atoi(part)
		if err != nil || idx < 0 || idx >= v.Len() {
			return nil, false
		}
		return v.Index(idx).Interface(), true
	}
	return nil, false
}

func structField(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	fallback := -1
	for idx := 0; idx < t.NumField(); idx++ {
		sf := t.Field(idx)
		if !sf.IsExported() {
			continue
		}
		tag, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if tag == name {
			return v.Field(idx), true
		}
		if fallback < 0 && strings.EqualFold(sf.Name, name) {
			fallback = idx
		}
	}
	if fallback >= 0 {
		return v.Field(fallback), true
	}
	return reflect.Value{}, false
}
