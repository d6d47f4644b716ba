package js

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// maxDepth bounds nesting so self-referencing graphs fail instead of
// recursing forever.
const maxDepth = 512

// ErrCycle is returned when a value nests deeper than the serializer allows,
// which in practice means the graph references itself.
var ErrCycle = errors.New("js: value nesting too deep (cycle?)")

// UnsupportedTypeError is returned for values that have no JavaScript
// representation (channels, functions, complex numbers).
type UnsupportedTypeError struct {
	Type reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	return "js: unsupported type: " + e.Type.String()
}

var (
	literalType   = reflect.TypeOf(Literal(""))
	objectType    = reflect.TypeOf(Object{})
	timeType      = reflect.TypeOf(time.Time{})
	numberType    = reflect.TypeOf(json.Number(""))
	marshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
)

// Serialize converts v into JavaScript source. See the package documentation
// for the supported values.
func Serialize(v any) (string, error) {
	var e encoder
	if err := e.encode(reflect.ValueOf(v), 0); err != nil {
		return "", err
	}
	return e.String(), nil
}

// MustSerialize is Serialize for values known to be serializable. It panics
// on failure.
func MustSerialize(v any) string {
	out, err := Serialize(v)
	if err != nil {
		panic(err)
	}
	return out
}

// Quote returns s as a double quoted JavaScript string literal using the
// same escaping rules as encoding/json (including <, > and & so the result
// is safe inside a script element).
func Quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

type encoder struct {
	strings.Builder
}

func (e *encoder) encode(v reflect.Value, depth int) error {
	if depth > maxDepth {
		return ErrCycle
	}
	if !v.IsValid() {
		e.WriteString("null")
		return nil
	}

	switch v.Type() {
	case literalType:
		e.WriteString(v.String())
		return nil
	case objectType:
		obj := v.Interface().(Object)
		return e.encodeObject(&obj, depth)
	case timeType:
		t := v.Interface().(time.Time)
		e.WriteString("new Date(")
		e.WriteString(strconv.FormatInt(t.UnixMilli(), 10))
		e.WriteString(")")
		return nil
	case numberType:
		num := v.String()
		if num == "" {
			num = "0"
		}
		e.WriteString(num)
		return nil
	}

	if v.Kind() != reflect.Pointer && v.Kind() != reflect.Interface && v.Type().Implements(marshalerType) {
		return e.encodeMarshaler(v)
	}

	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			e.WriteString("null")
			return nil
		}
		return e.encode(v.Elem(), depth+1)
	case reflect.Pointer:
		if v.IsNil() {
			e.WriteString("null")
			return nil
		}
		if v.Type().Elem() == objectType {
			return e.encodeObject(v.Interface().(*Object), depth)
		}
		if v.Type().Implements(marshalerType) {
			return e.encodeMarshaler(v)
		}
		return e.encode(v.Elem(), depth+1)
	case reflect.Bool:
		e.WriteString(strconv.FormatBool(v.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.WriteString(strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		e.WriteString(strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		return e.encodeFloat(v)
	case reflect.String:
		e.WriteString(Quote(v.String()))
	case reflect.Map:
		return e.encodeMap(v, depth)
	case reflect.Slice:
		if v.IsNil() {
			e.WriteString("null")
			return nil
		}
		if v.Type().Elem().Kind() == reflect.Uint8 {
			raw, err := json.Marshal(v.Bytes())
			if err != nil {
				return err
			}
			e.Write(raw)
			return nil
		}
		return e.encodeList(v, depth)
	case reflect.Array:
		return e.encodeList(v, depth)
	case reflect.Struct:
		return e.encodeStruct(v, depth)
	default:
		return &UnsupportedTypeError{Type: v.Type()}
	}
	return nil
}

func (e *encoder) encodeMarshaler(v reflect.Value) error {
	m, ok := v.Interface().(json.Marshaler)
	if !ok {
		return &UnsupportedTypeError{Type: v.Type()}
	}
	raw, err := m.MarshalJSON()
	if err != nil {
		return err
	}
	e.Write(raw)
	return nil
}

func (e *encoder) encodeFloat(v reflect.Value) error {
	f := v.Float()
	switch {
	case math.IsNaN(f):
		e.WriteString("NaN")
		return nil
	case math.IsInf(f, 1):
		e.WriteString("Infinity")
		return nil
	case math.IsInf(f, -1):
		e.WriteString("-Infinity")
		return nil
	}
	var (
		raw []byte
		err error
	)
	if v.Kind() == reflect.Float32 {
		raw, err = json.Marshal(float32(f))
	} else {
		raw, err = json.Marshal(f)
	}
	if err != nil {
		return err
	}
	e.Write(raw)
	return nil
}

func (e *encoder) encodeObject(obj *Object, depth int) error {
	e.WriteByte('{')
	var err error
	first := true
	obj.Range(func(key string, value any) bool {
		if !first {
			e.WriteByte(',')
		}
		first = false
		e.WriteString(Quote(key))
		e.WriteByte(':')
		err = e.encode(reflect.ValueOf(value), depth+1)
		return err == nil
	})
	if err != nil {
		return err
	}
	e.WriteByte('}')
	return nil
}

func (e *encoder) encodeMap(v reflect.Value, depth int) error {
	if v.IsNil() {
		e.WriteString("null")
		return nil
	}
	type entry struct {
		key   string
		value reflect.Value
	}
	entries := make([]entry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		key, err := mapKey(iter.Key())
		if err != nil {
			return err
		}
		entries = append(entries, entry{key: key, value: iter.Value()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	e.WriteByte('{')
	for idx, item := range entries {
		if idx > 0 {
			e.WriteByte(',')
		}
		e.WriteString(Quote(item.key))
		e.WriteByte(':')
		if err := e.encode(item.value, depth+1); err != nil {
			return err
		}
	}
	e.WriteByte('}')
	return nil
}

func mapKey(k reflect.Value) (string, error) {
	switch k.Kind() {
	case reflect.String:
		return k.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), nil
	case reflect.Interface:
		if !k.IsNil() {
			return mapKey(k.Elem())
		}
	}
	return "", &UnsupportedTypeError{Type: k.Type()}
}

func (e *encoder) encodeList(v reflect.Value, depth int) error {
	e.WriteByte('[')
	for idx := 0; idx < v.Len(); idx++ {
		if idx > 0 {
			e.WriteByte(',')
		}
		if err := e.encode(v.Index(idx), depth+1); err != nil {
			return err
		}
	}
	e.WriteByte(']')
	return nil
}

func (e *encoder) encodeStruct(v reflect.Value, depth int) error {
	e.WriteByte('{')
	first := true
	for _, f := range cachedFields(v.Type()) {
		fv, ok := fieldByIndex(v, f.index)
		if !ok {
			continue
		}
		if f.omitEmpty && isEmptyValue(fv) {
			continue
		}
		if !first {
			e.WriteByte(',')
		}
		first = false
		e.WriteString(Quote(f.name))
		e.WriteByte(':')
		if err := e.encode(fv, depth+1); err != nil {
			return err
		}
	}
	e.WriteByte('}')
	return nil
}

type structField struct {
	name      string
	index     []int
	omitEmpty bool
}

var fieldCache sync.Map // map[reflect.Type][]structField

func cachedFields(t reflect.Type) []structField {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]structField)
	}
	fields := typeFields(t)
	actual, _ := fieldCache.LoadOrStore(t, fields)
	return actual.([]structField)
}

// typeFields follows the encoding/json naming rules closely enough for
// config structs: json tags rename or skip, untagged embedded structs are
// flattened in place and the shallowest name wins.
func typeFields(t reflect.Type) []structField {
	var all []structField
	collectFields(t, nil, make(map[reflect.Type]bool), &all)

	depth := make(map[string]int, len(all))
	for _, f := range all {
		if d, ok := depth[f.name]; !ok || len(f.index) < d {
			depth[f.name] = len(f.index)
		}
	}

	out := make([]structField, 0, len(all))
	taken := make(map[string]bool, len(all))
	for _, f := range all {
		if taken[f.name] || len(f.index) != depth[f.name] {
			continue
		}
		taken[f.name] = true
		out = append(out, f)
	}
	return out
}

func collectFields(t reflect.Type, parent []int, visiting map[reflect.Type]bool, out *[]structField) {
	if visiting[t] {
		return
	}
	visiting[t] = true
	defer delete(visiting, t)

	for idx := 0; idx < t.NumField(); idx++ {
		sf := t.Field(idx)
		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		index := append(append([]int(nil), parent...), idx)

		if sf.Anonymous && name == "" {
			ft := sf.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				collectFields(ft, index, visiting, out)
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		*out = append(*out, structField{
			name:      name,
			index:     index,
			omitEmpty: strings.Contains(","+opts+",", ",omitempty,"),
		})
	}
}

func fieldByIndex(v reflect.Value, index []int) (reflect.Value, bool) {
	for pos, i := range index {
		if pos > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		}
		v = v.Field(i)
	}
	return v, true
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}

// IsScalar reports whether v is written as a single JavaScript primitive:
// booleans, numbers, strings and dates. A Literal is raw source, not a
// primitive, even though its kind is string.
func IsScalar(v any) bool {
	switch v.(type) {
	case nil, Literal:
		return false
	case time.Time, json.Number:
		return true
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// IsBuiltin reports whether v serializes without struct reflection: scalars,
// collections, Objects and Literals.
func IsBuiltin(v any) bool {
	if IsScalar(v) {
		return true
	}
	switch v.(type) {
	case Literal, *Object, Object, Array, json.Number:
		return true
	case nil:
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	}
	return false
}
