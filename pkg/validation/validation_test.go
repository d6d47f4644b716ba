package validation_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-extjs/pkg/binding"
	"github.com/goliatone/go-extjs/pkg/js"
	"github.com/goliatone/go-extjs/pkg/model"
	"github.com/goliatone/go-extjs/pkg/validation"
)

type contactInfo struct {
	Name       string    `validate:"nonempty;length=3,20" label:"Name"`
	Email      string    `validate:"nonempty;email"`
	EmailAgain string    `validate:"sameas=Email"`
	Age        int       `validate:"range=18,99"`
	Zip        string    `validate:"length=5;digits"`
	Code       string    `validate:"regexp=^[A-Z]{2},[0-9]+$"`
	Born       time.Time `validate:"date"`
	Address    struct {
		Street string `validate:"nonempty"`
	}
	internal string
}

func TestRegistryRegister(t *testing.T) {
	reg := validation.NewRegistry()
	if err := reg.Register("contact", contactInfo{}); err != nil {
		t.Fatalf("register: %v", err)
	}

	wantPaths := []string{
		"contact.Name",
		"contact.Email",
		"contact.EmailAgain",
		"contact.Age",
		"contact.Zip",
		"contact.Code",
		"contact.Born",
		"contact.Address.Street",
	}
	if diff := cmp.Diff(wantPaths, reg.Fields("contact")); diff != "" {
		t.Fatalf("registered paths mismatch (-want +got):\n%s", diff)
	}

	field, ok := reg.Field("CONTACT.name")
	if !ok {
		t.Fatalf("expected case-insensitive lookup")
	}
	if !field.Required || field.Label != "Name" || field.Type != model.FieldTypeString {
		t.Fatalf("unexpected field %#v", field)
	}

	ageRules := reg.Rules("contact.Age")
	want := []model.ValidationRule{{
		Kind:   model.ValidationRuleRange,
		Params: map[string]string{"type": "integer", "min": "18", "max": "99"},
	}}
	if diff := cmp.Diff(want, ageRules); diff != "" {
		t.Fatalf("age rules mismatch (-want +got):\n%s", diff)
	}

	code := reg.Rules("contact.Code")
	if len(code) != 1 || code[0].Param("pattern") != "^[A-Z]{2},[0-9]+$" {
		t.Fatalf("regexp should keep commas, got %#v", code)
	}

	zip := reg.Rules("contact.Zip")
	if len(zip) != 2 || zip[0].Kind != model.ValidationRuleExactLength {
		t.Fatalf("single length argument should be exact, got %#v", zip)
	}

	reg.Add("contact.Notes", validation.MaxLength(10))
	if !reg.Has("contact.notes") {
		t.Fatalf("expected added path")
	}
}

func TestRegistryRejectsUnknownRule(t *testing.T) {
	type bad struct {
		Name string `validate:"shiny"`
	}
	err := validation.NewRegistry().Register("bad", bad{})
	if err == nil || !strings.Contains(err.Error(), "shiny") {
		t.Fatalf("expected unknown rule error, got %v", err)
	}
	if err := validation.NewRegistry().Register("bad", "not a struct"); err == nil {
		t.Fatalf("expected error for non-struct sample")
	}
}

func TestExtJSGenerator(t *testing.T) {
	cfg := validation.DefaultProvider.CreateConfiguration(js.NewObject())
	if script := cfg.AfterFormOpened("main-form1"); script != "" {
		t.Fatalf("unexpected after-open script %q", script)
	}

	attrs := js.NewObject()
	gen := validation.DefaultProvider.CreateGenerator(cfg, attrs)

	rules := []model.ValidationRule{
		validation.NonEmpty(),
		validation.Email(),
		validation.Length(3, 20),
		validation.RegExp(`^\d+$`),
		validation.Date(),
	}
	if err := validation.Apply(gen, "contact.Email", rules); err != nil {
		t.Fatalf("apply: %v", err)
	}

	got, err := js.Serialize(attrs)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	want := `{"allowBlank":false,"blankText":"This is a required field",` +
		`"vtype":"email","vtypeText":"Please enter a valid email address. For example fred@domain.com",` +
		`"minLength":3,"minLengthText":"Field must be between 3 and 20 characters long",` +
		`"maxLength":20,"maxLengthText":"Field must be between 3 and 20 characters long",` +
		`"regex":new RegExp("^\\d+$"),"regexText":"Field has an invalid content"}`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("generated attributes mismatch (-want +got):\n%s", diff)
	}
}

func TestExtJSGeneratorValidators(t *testing.T) {
	cfg := validation.DefaultProvider.CreateConfiguration(nil)
	cfg.AfterFormOpened("main-form1")

	attrs := js.NewObject()
	gen := validation.DefaultProvider.CreateGenerator(cfg, attrs)
	if err := validation.Apply(gen, "contact.EmailAgain", []model.ValidationRule{
		validation.WithMessage(validation.SameAs("Email"), "Emails differ"),
	}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	validator, _ := attrs.Get("validator")
	want := js.Literal(`function(value) {var otherField = Ext.getCmp("main-form1").form.findField("contact.Email");if (!otherField) return false;return (value == otherField.getValue()) || "Emails differ";}`)
	if diff := cmp.Diff(want, validator); diff != "" {
		t.Fatalf("sameAs validator mismatch (-want +got):\n%s", diff)
	}

	attrs = js.NewObject()
	gen = validation.DefaultProvider.CreateGenerator(cfg, attrs)
	if err := validation.Apply(gen, "contact.Age", []model.ValidationRule{validation.Range(18, 99)}); err != nil {
		t.Fatalf("apply range: %v", err)
	}
	validator, _ = attrs.Get("validator")
	want = js.Literal(`function(value) {return (value >= 18 && value <= 99) || "Field must be between 18 and 99";}`)
	if diff := cmp.Diff(want, validator); diff != "" {
		t.Fatalf("range validator mismatch (-want +got):\n%s", diff)
	}
	if strings.ContainsAny(string(validator.(js.Literal)), "\r\n") {
		t.Fatalf("validators must stay on one line")
	}
}

func TestApplyRejectsBadParams(t *testing.T) {
	gen := validation.NewExtJSGenerator(nil, nil)
	bad := model.ValidationRule{Kind: model.ValidationRuleMinLength, Params: map[string]string{"min": "x"}}
	if err := validation.Apply(gen, "f", []model.ValidationRule{bad}); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name  string
		rules []model.ValidationRule
		value any
		want  []string
	}{
		{name: "required blank", rules: []model.ValidationRule{validation.NonEmpty()}, value: "  ", want: []string{"This is a required field"}},
		{name: "optional blank skips format", rules: []model.ValidationRule{validation.Email()}, value: ""},
		{name: "email ok", rules: []model.ValidationRule{validation.Email()}, value: "fred@domain.com"},
		{name: "email bad", rules: []model.ValidationRule{validation.Email()}, value: "fred", want: []string{"Please enter a valid email address. For example fred@domain.com"}},
		{name: "length", rules: []model.ValidationRule{validation.Length(3, 5)}, value: "ab", want: []string{"Field must be between 3 and 5 characters long"}},
		{name: "exact", rules: []model.ValidationRule{validation.ExactLength(2)}, value: "ñu"},
		{name: "range int", rules: []model.ValidationRule{validation.Range(1, 10)}, value: 11, want: []string{"Field must be between 1 and 10"}},
		{name: "range float", rules: []model.ValidationRule{validation.Range(0.5, 1.5)}, value: "1.2"},
		{name: "range date", rules: []model.ValidationRule{validation.Range(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC))}, value: "2000-06-01"},
		{name: "digits", rules: []model.ValidationRule{validation.Digits()}, value: "12a", want: []string{"Field must contain only digits"}},
		{name: "number", rules: []model.ValidationRule{validation.Number()}, value: "1e3"},
		{name: "regexp", rules: []model.ValidationRule{validation.RegExp(`^a+$`)}, value: "b", want: []string{"Field has an invalid content"}},
		{name: "date", rules: []model.ValidationRule{validation.Date()}, value: "not a date", want: []string{"Please enter a valid date"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := validation.Check(tt.rules, tt.value, nil)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("violations mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCheckAll(t *testing.T) {
	reg := validation.NewRegistry()
	reg.MustRegister("contact", contactInfo{})

	info := contactInfo{
		Name:       "Al",
		Email:      "al@example.com",
		EmailAgain: "other@example.com",
		Age:        30,
		Zip:        "12345",
	}
	info.Address.Street = "Main"
	issues := validation.CheckAll(reg, "contact", binding.PropertyBag{"contact": info})

	want := []validation.Issue{
		{Path: "contact.Name", Field: "Name", Message: "Field must be between 3 and 20 characters long"},
		{Path: "contact.EmailAgain", Field: "EmailAgain", Message: "Field must be the same as Email"},
	}
	if diff := cmp.Diff(want, issues); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}

	grouped := validation.IssuesByPath(issues)
	if len(grouped["contact.Name"]) != 1 {
		t.Fatalf("expected grouped issues, got %#v", grouped)
	}
}
