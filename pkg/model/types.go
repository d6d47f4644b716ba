package model

// FieldType is the simplified enum for the value kinds a widget can edit.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeDate    FieldType = "date"
	FieldTypeTime    FieldType = "time"
	FieldTypeArray   FieldType = "array"
	FieldTypeObject  FieldType = "object"
)

// Canonical validation rule kinds. Bounds are carried as strings in
// ValidationRule.Params under the Param* keys below.
const (
	ValidationRuleNonEmpty    = "nonEmpty"
	ValidationRuleEmail       = "email"
	ValidationRuleLength      = "length"
	ValidationRuleExactLength = "exactLength"
	ValidationRuleMinLength   = "minLength"
	ValidationRuleMaxLength   = "maxLength"
	ValidationRuleRange       = "range"
	ValidationRuleRegExp      = "regexp"
	ValidationRuleSameAs      = "sameAs"
	ValidationRuleNotSameAs   = "notSameAs"
	ValidationRuleDate        = "date"
	ValidationRuleDigits      = "digits"
	ValidationRuleNumber      = "number"
)

// Rule parameter keys.
const (
	ParamMin      = "min"
	ParamMax      = "max"
	ParamLength   = "length"
	ParamPattern  = "pattern"
	ParamProperty = "property"
	ParamType     = "type"
)

// ValidationRule represents a single validation constraint applied to a field.
// Message overrides the default violation text when set.
type ValidationRule struct {
	Kind    string            `json:"kind"`
	Params  map[string]string `json:"params,omitempty"`
	Message string            `json:"message,omitempty"`
}

// Param returns the named parameter or an empty string.
func (r ValidationRule) Param(key string) string {
	if r.Params == nil {
		return ""
	}
	return r.Params[key]
}

// Field describes a single editable value: what it holds, how it is labelled
// and which validation rules apply. Widgets use it to pick an xtype.
type Field struct {
	Name     string            `json:"name"`
	Type     FieldType         `json:"type"`
	Format   string            `json:"format,omitempty"`
	Required bool              `json:"required"`
	Label    string            `json:"label,omitempty"`
	Default  any               `json:"default,omitempty"`
	Enum     []any             `json:"enum,omitempty"`
	Nested   []Field           `json:"nested,omitempty"`
	Rules    []ValidationRule  `json:"rules,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// HasRule reports whether the field carries a rule of the given kind.
func (f Field) HasRule(kind string) bool {
	_, ok := f.Rule(kind)
	return ok
}

// Rule returns the first rule of the given kind.
func (f Field) Rule(kind string) (ValidationRule, bool) {
	for _, rule := range f.Rules {
		if rule.Kind == kind {
			return rule, true
		}
	}
	return ValidationRule{}, false
}

// Decorator enriches a list of fields after they have been described, for
// example by stamping the widget xtype into Metadata.
type Decorator interface {
	Decorate(fields []Field) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func([]Field) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(fields []Field) error {
	return fn(fields)
}
