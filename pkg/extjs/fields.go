package extjs

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-extjs/pkg/js"
	"github.com/goliatone/go-extjs/pkg/model"
	"github.com/goliatone/go-extjs/pkg/validation"
	"github.com/goliatone/go-extjs/pkg/widgets"
)

// Extra field options consumed by the helper and never emitted.
const (
	OptionFocused           = "focused"
	OptionDisableValidation = "disableValidation"
)

// FieldConfig builds an Ext.form.Field config object for target.
//
// The target is rewritten under the open object scope and becomes the
// "name" option. "value" is loaded from the property bag unless cfg sets it.
// Validation rules registered for target are applied through the validator
// provider unless "disableValidation" is true. A true "focused" option makes
// EndForm focus the field. cfg is not modified.
func (h *Helper) FieldConfig(target string, cfg *js.Object) (*js.Object, error) {
	if err := h.requireForm(); err != nil {
		return nil, err
	}
	target = h.scope.Rewrite(target)
	cfg = cfg.Clone()

	if cfg.TakeBool(OptionFocused) {
		h.focusedField = target
	}
	if err := h.applyValidation(target, cfg); err != nil {
		return nil, err
	}
	if !cfg.Has("value") {
		if value, ok := h.lookup(target); ok {
			cfg.Set("value", value)
		}
	}
	cfg.Set("name", target)
	return cfg, nil
}

// Field is FieldConfig serialized to JavaScript.
func (h *Helper) Field(target string, cfg *js.Object) (js.Literal, error) {
	return h.literal(h.FieldConfig(target, cfg))
}

func (h *Helper) typedConfig(xtype, target string, cfg *js.Object) (*js.Object, error) {
	cfg = cfg.Clone()
	cfg.Set("xtype", xtype)
	return h.FieldConfig(target, cfg)
}

func (h *Helper) typed(xtype, target string, cfg *js.Object) (js.Literal, error) {
	return h.literal(h.typedConfig(xtype, target, cfg))
}

func (h *Helper) literal(cfg *js.Object, err error) (js.Literal, error) {
	if err != nil {
		return "", err
	}
	text, err := js.Serialize(cfg)
	if err != nil {
		return "", fmt.Errorf("extjs: serialize config: %w", err)
	}
	return js.Literal(text), nil
}

// TextFieldConfig builds an Ext.form.TextField config object.
func (h *Helper) TextFieldConfig(target string, cfg *js.Object) (*js.Object, error) {
	return h.typedConfig(widgets.XTypeTextField, target, cfg)
}

// TextField is TextFieldConfig serialized to JavaScript.
func (h *Helper) TextField(target string, cfg *js.Object) (js.Literal, error) {
	return h.typed(widgets.XTypeTextField, target, cfg)
}

// CheckboxConfig builds an Ext.form.Checkbox config object.
func (h *Helper) CheckboxConfig(target string, cfg *js.Object) (*js.Object, error) {
	return h.typedConfig(widgets.XTypeCheckbox, target, cfg)
}

// Checkbox is CheckboxConfig serialized to JavaScript.
func (h *Helper) Checkbox(target string, cfg *js.Object) (js.Literal, error) {
	return h.typed(widgets.XTypeCheckbox, target, cfg)
}

// DateFieldConfig builds an Ext.form.DateField config object.
func (h *Helper) DateFieldConfig(target string, cfg *js.Object) (*js.Object, error) {
	return h.typedConfig(widgets.XTypeDateField, target, cfg)
}

// DateField is DateFieldConfig serialized to JavaScript.
func (h *Helper) DateField(target string, cfg *js.Object) (js.Literal, error) {
	return h.typed(widgets.XTypeDateField, target, cfg)
}

// HiddenConfig builds an Ext.form.Hidden config object.
func (h *Helper) HiddenConfig(target string, cfg *js.Object) (*js.Object, error) {
	return h.typedConfig(widgets.XTypeHidden, target, cfg)
}

// Hidden is HiddenConfig serialized to JavaScript.
func (h *Helper) Hidden(target string, cfg *js.Object) (js.Literal, error) {
	return h.typed(widgets.XTypeHidden, target, cfg)
}

// HtmlEditorConfig builds an Ext.form.HtmlEditor config object. String
// values are passed through the sanitizer.
func (h *Helper) HtmlEditorConfig(target string, cfg *js.Object) (*js.Object, error) {
	out, err := h.typedConfig(widgets.XTypeHtmlEditor, target, cfg)
	if err != nil {
		return nil, err
	}
	if value, ok := out.Get("value"); ok {
		out.Set("value", h.sanitize(value))
	}
	return out, nil
}

// HtmlEditor is HtmlEditorConfig serialized to JavaScript.
func (h *Helper) HtmlEditor(target string, cfg *js.Object) (js.Literal, error) {
	return h.literal(h.HtmlEditorConfig(target, cfg))
}

// NumberFieldConfig builds an Ext.form.NumberField config object.
func (h *Helper) NumberFieldConfig(target string, cfg *js.Object) (*js.Object, error) {
	return h.typedConfig(widgets.XTypeNumberField, target, cfg)
}

// NumberField is NumberFieldConfig serialized to JavaScript.
func (h *Helper) NumberField(target string, cfg *js.Object) (js.Literal, error) {
	return h.typed(widgets.XTypeNumberField, target, cfg)
}

// RadioConfig builds an Ext.form.Radio config object.
func (h *Helper) RadioConfig(target string, cfg *js.Object) (*js.Object, error) {
	return h.typedConfig(widgets.XTypeRadio, target, cfg)
}

// Radio is RadioConfig serialized to JavaScript.
func (h *Helper) Radio(target string, cfg *js.Object) (js.Literal, error) {
	return h.typed(widgets.XTypeRadio, target, cfg)
}

// TextAreaConfig builds an Ext.form.TextArea config object.
func (h *Helper) TextAreaConfig(target string, cfg *js.Object) (*js.Object, error) {
	return h.typedConfig(widgets.XTypeTextArea, target, cfg)
}

// TextArea is TextAreaConfig serialized to JavaScript.
func (h *Helper) TextArea(target string, cfg *js.Object) (js.Literal, error) {
	return h.typed(widgets.XTypeTextArea, target, cfg)
}

// TimeFieldConfig builds an Ext.form.TimeField config object.
func (h *Helper) TimeFieldConfig(target string, cfg *js.Object) (*js.Object, error) {
	return h.typedConfig(widgets.XTypeTimeField, target, cfg)
}

// TimeField is TimeFieldConfig serialized to JavaScript.
func (h *Helper) TimeField(target string, cfg *js.Object) (js.Literal, error) {
	return h.typed(widgets.XTypeTimeField, target, cfg)
}

// TriggerFieldConfig builds an Ext.form.TriggerField config object.
func (h *Helper) TriggerFieldConfig(target string, cfg *js.Object) (*js.Object, error) {
	return h.typedConfig(widgets.XTypeTrigger, target, cfg)
}

// TriggerField is TriggerFieldConfig serialized to JavaScript.
func (h *Helper) TriggerField(target string, cfg *js.Object) (js.Literal, error) {
	return h.typed(widgets.XTypeTrigger, target, cfg)
}

// AutoFieldConfig picks the xtype from the widgets registry. The field is
// described by its validation registry entry when there is one, otherwise
// by the bound value. An explicit "xtype" in cfg wins. Enumerated fields
// become combo boxes over their enum values.
func (h *Helper) AutoFieldConfig(target string, cfg *js.Object) (*js.Object, error) {
	if err := h.requireForm(); err != nil {
		return nil, err
	}
	field := h.describe(h.scope.Rewrite(target))

	xtype := cfg.StringOr("xtype", "")
	if xtype == "" {
		xtype, _ = h.widgets.Resolve(field)
	}
	if xtype == "" {
		xtype = widgets.XTypeTextField
	}

	h.logger.Debug("auto field",
		zap.String("target", field.Name),
		zap.String("xtype", xtype),
		zap.String("type", string(field.Type)),
	)

	switch xtype {
	case widgets.XTypeCombo:
		return h.ComboBoxConfig(target, field.Enum, cfg)
	case widgets.XTypeHtmlEditor:
		return h.HtmlEditorConfig(target, cfg)
	default:
		return h.typedConfig(xtype, target, cfg)
	}
}

// AutoField is AutoFieldConfig serialized to JavaScript.
func (h *Helper) AutoField(target string, cfg *js.Object) (js.Literal, error) {
	return h.literal(h.AutoFieldConfig(target, cfg))
}

func (h *Helper) describe(target string) model.Field {
	value, _ := h.lookup(target)
	field, ok := h.rules.Field(target)
	if !ok {
		return model.FieldFromValue(target, value)
	}
	if field.Type == "" {
		field.Type = model.FieldFromValue(target, value).Type
	}
	return field
}

// ApplyToField returns a script configuring a field that already exists on
// the open form: the bound value through setValue and every validation
// option as a property assignment. The script is empty when there is
// nothing to apply.
func (h *Helper) ApplyToField(target string) (string, error) {
	if err := h.requireForm(); err != nil {
		return "", err
	}
	target = h.scope.Rewrite(target)

	attrs := js.NewObject()
	if err := h.applyValidation(target, attrs); err != nil {
		return "", err
	}
	if value, ok := h.lookup(target); ok {
		attrs.Set("value", value)
	}
	if attrs.Len() == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("(function(){var f = Ext.getCmp(")
	sb.WriteString(js.Quote(h.formID))
	sb.WriteString(").form.findField(")
	sb.WriteString(js.Quote(target))
	sb.WriteString(");")

	var failed error
	attrs.Range(func(key string, value any) bool {
		text, err := js.Serialize(value)
		if err != nil {
			failed = fmt.Errorf("extjs: serialize %s of %s: %w", key, target, err)
			return false
		}
		if key == "value" {
			sb.WriteString("f.setValue(" + text + ");")
		} else {
			sb.WriteString("f." + key + "=" + text + ";")
		}
		return true
	})
	if failed != nil {
		return "", failed
	}
	sb.WriteString("})();")
	return sb.String(), nil
}

func (h *Helper) applyValidation(target string, attrs *js.Object) error {
	disabled := attrs.TakeBool(OptionDisableValidation)
	if disabled || !h.validationEnabled() || h.rules == nil || h.formConfig == nil {
		return nil
	}
	rules := h.rules.Rules(target)
	if len(rules) == 0 {
		return nil
	}
	gen := h.provider.CreateGenerator(h.formConfig, attrs)
	if err := validation.Apply(gen, target, rules); err != nil {
		return fmt.Errorf("extjs: validation for %s: %w", target, err)
	}
	return nil
}
