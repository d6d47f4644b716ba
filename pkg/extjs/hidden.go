package extjs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-extjs/pkg/js"
)

// HiddenField is a name/value pair submitted with every form panel through
// its baseParams.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken constructs a hidden field carrying the provided token. The name
// must match what the backend expects ("_csrf", "csrf_token", ...).
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// MergeHiddenFields returns a copy of base with the provided fields applied.
// Empty names are ignored; later fields win on name collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	if len(base) == 0 && len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		out[name] = field.Value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields returns fields ordered by name. Empty names are
// dropped.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	if len(fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		if strings.TrimSpace(name) != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	result := make([]HiddenField, 0, len(names))
	for _, name := range names {
		result = append(result, HiddenField{Name: strings.TrimSpace(name), Value: fields[name]})
	}
	return result
}

// AddHiddenFields registers fields for the form panels generated after the
// call.
func (h *Helper) AddHiddenFields(fields ...HiddenField) {
	h.hidden = MergeHiddenFields(h.hidden, fields...)
}

// HiddenFields returns the registered hidden fields ordered by name.
func (h *Helper) HiddenFields() []HiddenField {
	return SortedHiddenFields(h.hidden)
}

// baseParams merges the hidden fields under the explicit baseParams of cfg.
// Explicit entries win. A baseParams value that cannot take new entries is
// an error, since the hidden fields would otherwise be lost.
func (h *Helper) baseParams(cfg *js.Object) error {
	if len(h.hidden) == 0 {
		return nil
	}
	params := js.NewObject()
	if existing, ok := cfg.Get("baseParams"); ok && existing != nil {
		switch typed := existing.(type) {
		case *js.Object:
			params = typed.Clone()
		case map[string]any:
			params = js.ObjectFromMap(typed)
		case map[string]string:
			for _, field := range SortedHiddenFields(typed) {
				params.Set(field.Name, field.Value)
			}
		default:
			return fmt.Errorf("extjs: baseParams of type %T cannot carry hidden fields, pass an object or a map", existing)
		}
	}
	for _, field := range h.HiddenFields() {
		params.SetIfMissing(field.Name, field.Value)
	}
	cfg.Set("baseParams", params)
	return nil
}
