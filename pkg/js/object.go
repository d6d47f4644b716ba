package js

import (
	"fmt"
	"sort"
	"strings"
)

// Object is a string-keyed mapping that preserves insertion order. It is the
// Go-side representation of an ExtJS config object. The zero value is ready to
// use; a nil *Object behaves as an empty, read-only object.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject builds an Object from alternating key/value arguments. Keys that
// are not strings are formatted with fmt.Sprint; a trailing key without a
// value is stored as nil.
func NewObject(pairs ...any) *Object {
	obj := &Object{}
	for idx := 0; idx < len(pairs); idx += 2 {
		key, ok := pairs[idx].(string)
		if !ok {
			key = fmt.Sprint(pairs[idx])
		}
		var value any
		if idx+1 < len(pairs) {
			value = pairs[idx+1]
		}
		obj.Set(key, value)
	}
	return obj
}

// ObjectFromMap copies a map into a new Object. Keys are inserted in sorted
// order so the result is deterministic.
func ObjectFromMap(in map[string]any) *Object {
	obj := &Object{}
	if len(in) == 0 {
		return obj
	}
	keys := make([]string, 0, len(in))
	for key := range in {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		obj.Set(key, in[key])
	}
	return obj
}

// Set stores value under key. Existing keys keep their position.
func (o *Object) Set(key string, value any) *Object {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
	return o
}

// SetIfMissing stores value only when key is not present yet.
func (o *Object) SetIfMissing(key string, value any) *Object {
	if !o.Has(key) {
		o.Set(key, value)
	}
	return o
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	if o == nil || o.values == nil {
		return nil, false
	}
	value, ok := o.values[key]
	return value, ok
}

// Has reports whether key is present, even when its value is nil.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Delete removes key, returning whether it was present.
func (o *Object) Delete(key string) bool {
	if o == nil || o.values == nil {
		return false
	}
	if _, ok := o.values[key]; !ok {
		return false
	}
	delete(o.values, key)
	for idx, existing := range o.keys {
		if existing == key {
			o.keys = append(o.keys[:idx], o.keys[idx+1:]...)
			break
		}
	}
	return true
}

// Take removes key and returns the value it held.
func (o *Object) Take(key string) (any, bool) {
	value, ok := o.Get(key)
	if ok {
		o.Delete(key)
	}
	return value, ok
}

// String returns the entry formatted as text. Entries holding nil are
// reported as missing.
func (o *Object) String(key string) (string, bool) {
	value, ok := o.Get(key)
	if !ok || value == nil {
		return "", false
	}
	if s, isString := value.(string); isString {
		return s, true
	}
	return fmt.Sprint(value), true
}

// StringOr returns the entry formatted as text or def when it is missing.
func (o *Object) StringOr(key, def string) string {
	if value, ok := o.String(key); ok {
		return value
	}
	return def
}

// TakeString removes key and returns its text form, or def when missing.
func (o *Object) TakeString(key, def string) string {
	value, ok := o.String(key)
	o.Delete(key)
	if !ok {
		return def
	}
	return value
}

// TakeBool removes key and interprets it as a boolean flag. Strings are
// compared case-insensitively against "true".
func (o *Object) TakeBool(key string) bool {
	value, ok := o.Take(key)
	if !ok || value == nil {
		return false
	}
	if b, isBool := value.(bool); isBool {
		return b
	}
	return strings.EqualFold(strings.TrimSpace(fmt.Sprint(value)), "true")
}

// Keys returns a copy of the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil || len(o.keys) == 0 {
		return nil
	}
	return append([]string(nil), o.keys...)
}

// Len returns the number of entries.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Range calls fn for each entry in order until fn returns false.
func (o *Object) Range(fn func(key string, value any) bool) {
	if o == nil || fn == nil {
		return
	}
	for _, key := range o.Keys() {
		value, ok := o.values[key]
		if !ok {
			continue
		}
		if !fn(key, value) {
			return
		}
	}
}

// Merge copies every entry of other into o, overwriting existing keys.
func (o *Object) Merge(other *Object) *Object {
	other.Range(func(key string, value any) bool {
		o.Set(key, value)
		return true
	})
	return o
}

// Clone returns a shallow copy.
func (o *Object) Clone() *Object {
	out := &Object{}
	if o == nil {
		return out
	}
	return out.Merge(o)
}

// Map returns the entries as a plain map. Order is lost.
func (o *Object) Map() map[string]any {
	if o.Len() == 0 {
		return nil
	}
	out := make(map[string]any, o.Len())
	o.Range(func(key string, value any) bool {
		out[key] = value
		return true
	})
	return out
}

// Array is a JavaScript array literal.
type Array []any
