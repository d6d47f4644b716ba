package validation

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-extjs/pkg/js"
)

// ExtJSConfiguration tracks the form currently being emitted so comparison
// validators can look up sibling fields.
type ExtJSConfiguration struct {
	params        *js.Object
	currentFormID string
}

var _ Configuration = (*ExtJSConfiguration)(nil)

// Configure stores the form parameters.
func (c *ExtJSConfiguration) Configure(params *js.Object) {
	c.params = params
}

// Params returns the parameters passed to Configure.
func (c *ExtJSConfiguration) Params() *js.Object {
	return c.params
}

// CurrentFormID returns the id recorded by AfterFormOpened.
func (c *ExtJSConfiguration) CurrentFormID() string {
	return c.currentFormID
}

// AfterFormOpened records the form id. ExtJS needs no opening script.
func (c *ExtJSConfiguration) AfterFormOpened(formID string) string {
	c.currentFormID = formID
	return ""
}

// BeforeFormClosed emits nothing; ExtJS forms validate through monitorValid.
func (c *ExtJSConfiguration) BeforeFormClosed(string) string {
	return ""
}

// ExtJSProvider builds ExtJS configurations and generators.
type ExtJSProvider struct{}

// DefaultProvider is the provider used when none is configured.
var DefaultProvider Provider = ExtJSProvider{}

// CreateConfiguration returns a configured *ExtJSConfiguration.
func (ExtJSProvider) CreateConfiguration(params *js.Object) Configuration {
	cfg := &ExtJSConfiguration{}
	cfg.Configure(params)
	return cfg
}

// CreateGenerator returns an ExtJSGenerator writing into attrs.
func (ExtJSProvider) CreateGenerator(cfg Configuration, attrs *js.Object) Generator {
	return NewExtJSGenerator(cfg, attrs)
}

type formIDer interface {
	CurrentFormID() string
}

// ExtJSGenerator writes ExtJS 2.0 field options (allowBlank, vtype,
// minLength, regex, validator, ...) into a field config object.
type ExtJSGenerator struct {
	formID string
	attrs  *js.Object
}

var _ Generator = (*ExtJSGenerator)(nil)

// NewExtJSGenerator creates a generator for attrs. The form id is taken from
// cfg when it exposes CurrentFormID.
func NewExtJSGenerator(cfg Configuration, attrs *js.Object) *ExtJSGenerator {
	gen := &ExtJSGenerator{attrs: attrs}
	if withID, ok := cfg.(formIDer); ok {
		gen.formID = withID.CurrentFormID()
	}
	if gen.attrs == nil {
		gen.attrs = js.NewObject()
	}
	return gen
}

// Attributes returns the object the generator writes into.
func (g *ExtJSGenerator) Attributes() *js.Object {
	return g.attrs
}

func (g *ExtJSGenerator) SetAsRequired(_ string, message string) {
	g.attrs.Set("allowBlank", false)
	g.setText("blankText", message)
}

func (g *ExtJSGenerator) SetAsSameAs(target, property, message string) {
	g.setComparison(target, "==", property, message)
}

func (g *ExtJSGenerator) SetAsNotSameAs(target, property, message string) {
	g.setComparison(target, "!=", property, message)
}

// SetDate is covered by the datefield xtype.
func (g *ExtJSGenerator) SetDate(string, string) {}

// SetDigitsOnly is covered by the numberfield xtype.
func (g *ExtJSGenerator) SetDigitsOnly(string, string) {}

// SetNumberOnly is covered by the numberfield xtype.
func (g *ExtJSGenerator) SetNumberOnly(string, string) {}

func (g *ExtJSGenerator) SetEmail(_ string, message string) {
	g.attrs.Set("vtype", "email")
	g.setText("vtypeText", message)
}

func (g *ExtJSGenerator) SetExactLength(target string, length int, message string) {
	g.SetMinLength(target, length, message)
	g.SetMaxLength(target, length, message)
}

func (g *ExtJSGenerator) SetLengthRange(target string, min, max int, message string) {
	g.SetMinLength(target, min, message)
	g.SetMaxLength(target, max, message)
}

func (g *ExtJSGenerator) SetMaxLength(_ string, max int, message string) {
	g.attrs.Set("maxLength", max)
	g.setText("maxLengthText", message)
}

func (g *ExtJSGenerator) SetMinLength(_ string, min int, message string) {
	g.attrs.Set("minLength", min)
	g.setText("minLengthText", message)
}

// SetRegExp stores the pattern as a RegExp instance since ExtJS tests it
// with regex.test(value).
func (g *ExtJSGenerator) SetRegExp(_ string, pattern, message string) {
	g.attrs.Set("regex", js.Call("new RegExp", js.Quote(pattern)))
	g.setText("regexText", message)
}

func (g *ExtJSGenerator) SetValueRange(_ string, min, max any, message string) {
	var conds []string
	if min != nil {
		conds = append(conds, "value >= "+js.MustSerialize(min))
	}
	if max != nil {
		conds = append(conds, "value <= "+js.MustSerialize(max))
	}
	if len(conds) == 0 {
		return
	}
	g.setValidator(fmt.Sprintf(
		"function(value) {\n\treturn (%s) || %s;\n}",
		strings.Join(conds, " && "),
		js.Quote(message),
	))
}

func (g *ExtJSGenerator) setComparison(target, operator, property, message string) {
	other := property
	if idx := strings.LastIndex(target, "."); idx >= 0 {
		other = target[:idx] + "." + property
	}
	g.setValidator(fmt.Sprintf(
		"function(value) {\n\tvar otherField = Ext.getCmp(%s).form.findField(%s);\n\tif (!otherField) return false;\n\treturn (value %s otherField.getValue()) || %s;\n}",
		js.Quote(g.formID),
		js.Quote(other),
		operator,
		js.Quote(message),
	))
}

func (g *ExtJSGenerator) setText(key, message string) {
	if message != "" {
		g.attrs.Set(key, message)
	}
}

// setValidator stores the function on a single line so the emitted config
// stays on the line that produced it.
func (g *ExtJSGenerator) setValidator(source string) {
	source = strings.NewReplacer("\r", "", "\n", "", "\t", "").Replace(source)
	g.attrs.Set("validator", js.Literal(source))
}
