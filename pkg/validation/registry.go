package validation

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-extjs/pkg/model"
)

// Registry stores field descriptions and their validation rules by dotted
// path. Lookups are case-insensitive; registration order is preserved.
type Registry struct {
	mu     sync.RWMutex
	fields map[string]*model.Field
	order  []string
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		fields: make(map[string]*model.Field),
	}
}

// Register parses the `validate` tags of a struct sample and records one
// entry per exported field under prefix. Nested structs are walked with
// dotted paths.
func (r *Registry) Register(prefix string, sample any) error {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return fmt.Errorf("validation: prefix is required")
	}
	t := reflect.TypeOf(sample)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return fmt.Errorf("validation: %q sample must be a struct, got %T", prefix, sample)
	}
	return r.registerStruct(prefix, t, make(map[reflect.Type]bool))
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(prefix string, sample any) {
	if err := r.Register(prefix, sample); err != nil {
		panic(err)
	}
}

var timeType = reflect.TypeOf(time.Time{})

func (r *Registry) registerStruct(prefix string, t reflect.Type, visiting map[reflect.Type]bool) error {
	if visiting[t] {
		return nil
	}
	visiting[t] = true
	defer delete(visiting, t)

	for idx := 0; idx < t.NumField(); idx++ {
		sf := t.Field(idx)
		if !sf.IsExported() {
			continue
		}
		path := prefix + "." + sf.Name
		ft := sf.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		fieldType := model.TypeOf(ft)

		rules, err := ParseTag(sf.Tag.Get(TagName), rangeTypeFor(fieldType))
		if err != nil {
			return fmt.Errorf("%w (field %s)", err, path)
		}

		if ft.Kind() == reflect.Struct && ft != timeType {
			if err := r.registerStruct(path, ft, visiting); err != nil {
				return err
			}
			if len(rules) == 0 {
				continue
			}
		}

		field := model.Field{
			Name:  path,
			Type:  fieldType,
			Label: sf.Tag.Get("label"),
			Rules: rules,
		}
		field.Required = field.HasRule(model.ValidationRuleNonEmpty)
		if xtype := sf.Tag.Get("xtype"); xtype != "" {
			field.Metadata = map[string]string{"xtype": xtype}
		}
		r.store(field)
	}
	return nil
}

func rangeTypeFor(t model.FieldType) string {
	switch t {
	case model.FieldTypeInteger:
		return RangeInteger
	case model.FieldTypeNumber:
		return RangeNumber
	case model.FieldTypeDate:
		return RangeDate
	}
	return RangeString
}

// Add appends rules to path, creating a string field entry when the path is
// not registered yet.
func (r *Registry) Add(path string, rules ...model.ValidationRule) {
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(path)
	if existing, ok := r.fields[key]; ok {
		existing.Rules = append(existing.Rules, rules...)
		existing.Required = existing.HasRule(model.ValidationRuleNonEmpty)
		return
	}
	field := &model.Field{Name: path, Type: model.FieldTypeString, Rules: append([]model.ValidationRule(nil), rules...)}
	field.Required = field.HasRule(model.ValidationRuleNonEmpty)
	r.fields[key] = field
	r.order = append(r.order, key)
}

// SetEnum records the allowed values of path. Enumerated fields resolve to
// combo boxes.
func (r *Registry) SetEnum(path string, values ...any) {
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(path)
	field, ok := r.fields[key]
	if !ok {
		field = &model.Field{Name: path, Type: model.FieldTypeString}
		r.fields[key] = field
		r.order = append(r.order, key)
	}
	field.Enum = append([]any(nil), values...)
}

func (r *Registry) store(field model.Field) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(field.Name)
	if _, exists := r.fields[key]; !exists {
		r.order = append(r.order, key)
	}
	r.fields[key] = &field
}

// Rules returns the rules registered for target. A nil registry has none.
func (r *Registry) Rules(target string) []model.ValidationRule {
	field, ok := r.Field(target)
	if !ok {
		return nil
	}
	return field.Rules
}

// Field returns a copy of the entry registered for target.
func (r *Registry) Field(target string) (model.Field, bool) {
	if r == nil {
		return model.Field{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	field, ok := r.fields[strings.ToLower(strings.TrimSpace(target))]
	if !ok {
		return model.Field{}, false
	}
	out := *field
	out.Rules = append([]model.ValidationRule(nil), field.Rules...)
	out.Enum = append([]any(nil), field.Enum...)
	return out, true
}

// Fields returns the registered paths under prefix in registration order.
// An empty prefix lists every path.
func (r *Registry) Fields(prefix string) []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(prefix))
	if needle != "" {
		needle += "."
	}
	var out []string
	for _, key := range r.order {
		if needle == "" || strings.HasPrefix(key, needle) {
			out = append(out, r.fields[key].Name)
		}
	}
	return out
}

// Has reports whether target has an entry.
func (r *Registry) Has(target string) bool {
	_, ok := r.Field(target)
	return ok
}
