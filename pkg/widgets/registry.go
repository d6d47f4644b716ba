package widgets

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-extjs/pkg/model"
)

// ExtJS 2.0 form field xtypes.
const (
	XTypeTextField   = "textfield"
	XTypeCheckbox    = "checkbox"
	XTypeDateField   = "datefield"
	XTypeHidden      = "hidden"
	XTypeHtmlEditor  = "htmleditor"
	XTypeNumberField = "numberfield"
	XTypeRadio       = "radio"
	XTypeTextArea    = "textarea"
	XTypeTimeField   = "timefield"
	XTypeTrigger     = "trigger"
	XTypeCombo       = "combo"
)

// MetadataKey is the field metadata key holding an explicit or resolved
// xtype.
const MetadataKey = "xtype"

// textAreaThreshold is the maxLength above which strings get a textarea.
const textAreaThreshold = 255

// Matcher decides whether an xtype should handle the supplied field.
type Matcher func(field model.Field) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects xtypes for fields based on explicit metadata or
// registered matchers. Higher priority wins; ties fall back to registration
// order. An empty registry never resolves an xtype.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

var _ model.Decorator = (*Registry)(nil)

// NewRegistry constructs a registry with the built-in xtype matchers
// registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds an xtype matcher with the provided name and priority.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the xtype for a field. Metadata["xtype"] is honoured
// before matcher evaluation.
func (r *Registry) Resolve(field model.Field) (string, bool) {
	if explicit := explicitXType(field); explicit != "" {
		return explicit, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name, true
		}
	}
	return "", false
}

// Decorate implements model.Decorator, stamping Metadata["xtype"] on every
// field (nested ones included) that does not carry one yet.
func (r *Registry) Decorate(fields []model.Field) error {
	if r == nil {
		return nil
	}
	for idx := range fields {
		fields[idx] = r.decorateField(fields[idx])
	}
	return nil
}

func (r *Registry) decorateField(field model.Field) model.Field {
	if xtype, ok := r.Resolve(field); ok && xtype != "" {
		if field.Metadata == nil {
			field.Metadata = make(map[string]string)
		}
		if field.Metadata[MetadataKey] == "" {
			field.Metadata[MetadataKey] = xtype
		}
	}
	if len(field.Nested) > 0 {
		nested := make([]model.Field, len(field.Nested))
		copy(nested, field.Nested)
		_ = r.Decorate(nested)
		field.Nested = nested
	}
	return field
}

func explicitXType(field model.Field) string {
	if field.Metadata == nil {
		return ""
	}
	return strings.TrimSpace(field.Metadata[MetadataKey])
}

func maxLength(field model.Field) int {
	if field.Metadata != nil {
		if n, err := strconv.Atoi(field.Metadata["maxLength"]); err == nil {
			return n
		}
	}
	for _, r := range field.Rules {
		switch r.Kind {
		case model.ValidationRuleMaxLength, model.ValidationRuleLength:
			if n, err := strconv.Atoi(r.Param(model.ParamMax)); err == nil {
				return n
			}
		case model.ValidationRuleExactLength:
			if n, err := strconv.Atoi(r.Param(model.ParamLength)); err == nil {
				return n
			}
		}
	}
	return 0
}

func format(field model.Field) string {
	return strings.TrimSpace(strings.ToLower(field.Format))
}

func (r *Registry) registerBuiltins() {
	r.Register(XTypeHidden, 100, func(field model.Field) bool {
		return format(field) == "hidden"
	})

	r.Register(XTypeCombo, 90, func(field model.Field) bool {
		return len(field.Enum) > 0 && field.Type != model.FieldTypeArray
	})

	r.Register(XTypeCheckbox, 80, func(field model.Field) bool {
		return field.Type == model.FieldTypeBoolean
	})

	r.Register(XTypeDateField, 70, func(field model.Field) bool {
		return field.Type == model.FieldTypeDate ||
			format(field) == "date" || format(field) == "date-time" ||
			field.HasRule(model.ValidationRuleDate)
	})

	r.Register(XTypeTimeField, 70, func(field model.Field) bool {
		return field.Type == model.FieldTypeTime || format(field) == "time"
	})

	r.Register(XTypeNumberField, 60, func(field model.Field) bool {
		return field.Type == model.FieldTypeInteger || field.Type == model.FieldTypeNumber ||
			field.HasRule(model.ValidationRuleDigits) || field.HasRule(model.ValidationRuleNumber)
	})

	r.Register(XTypeHtmlEditor, 50, func(field model.Field) bool {
		return field.Type == model.FieldTypeString && format(field) == "html"
	})

	r.Register(XTypeTextArea, 40, func(field model.Field) bool {
		if field.Type != model.FieldTypeString {
			return false
		}
		return format(field) == "textarea" || maxLength(field) > textAreaThreshold
	})

	r.Register(XTypeTextField, 0, func(model.Field) bool {
		return true
	})
}
