package extjs_test

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-extjs/pkg/binding"
	"github.com/goliatone/go-extjs/pkg/extjs"
	"github.com/goliatone/go-extjs/pkg/js"
	"github.com/goliatone/go-extjs/pkg/validation"
)

type country struct {
	ID   int
	Name string
}

func contactRules() *validation.Registry {
	rules := validation.NewRegistry()
	rules.Add("contact.Name", validation.NonEmpty())
	rules.Add("contact.Email", validation.NonEmpty(), validation.Email())
	return rules
}

func contactBag() binding.PropertyBag {
	return binding.PropertyBag{
		"contact": map[string]any{
			"Name":    "Ada",
			"Email":   "ada@example.com",
			"Country": 2,
			"Agree":   true,
			"Notes":   `<p onclick="steal()">Hi</p><script>alert(1)</script>`,
		},
	}
}

func openHelper(t *testing.T, options ...extjs.Option) *extjs.Helper {
	t.Helper()
	base := []extjs.Option{
		extjs.WithContainerID("win"),
		extjs.WithPropertyBag(contactBag()),
		extjs.WithValidation(contactRules()),
	}
	h := extjs.New(append(base, options...)...)
	if _, err := h.BeginForm(nil); err != nil {
		t.Fatalf("begin form: %v", err)
	}
	return h
}

func TestFieldGenerators_RequireOpenForm(t *testing.T) {
	h := extjs.New(extjs.WithContainerID("win"))

	calls := map[string]func() error{
		"Field":        func() error { _, err := h.Field("a", nil); return err },
		"FieldConfig":  func() error { _, err := h.FieldConfig("a", nil); return err },
		"TextField":    func() error { _, err := h.TextField("a", nil); return err },
		"Checkbox":     func() error { _, err := h.Checkbox("a", nil); return err },
		"DateField":    func() error { _, err := h.DateField("a", nil); return err },
		"Hidden":       func() error { _, err := h.Hidden("a", nil); return err },
		"HtmlEditor":   func() error { _, err := h.HtmlEditor("a", nil); return err },
		"NumberField":  func() error { _, err := h.NumberField("a", nil); return err },
		"Radio":        func() error { _, err := h.Radio("a", nil); return err },
		"TextArea":     func() error { _, err := h.TextArea("a", nil); return err },
		"TimeField":    func() error { _, err := h.TimeField("a", nil); return err },
		"TriggerField": func() error { _, err := h.TriggerField("a", nil); return err },
		"AutoField":    func() error { _, err := h.AutoField("a", nil); return err },
		"ComboBox":     func() error { _, err := h.ComboBox("a", nil, nil); return err },
		"ApplyToField": func() error { _, err := h.ApplyToField("a"); return err },
		"FormPanel":    func() error { _, err := h.FormPanel(nil); return err },
	}
	for name, call := range calls {
		if err := call(); !errors.Is(err, extjs.ErrNoActiveForm) {
			t.Errorf("%s: expected ErrNoActiveForm, got %v", name, err)
		}
	}
}

func TestBeginForm_IDs(t *testing.T) {
	h := extjs.New(extjs.WithContainerID("win"))

	if _, err := h.BeginForm(js.NewObject("id", "custom")); err != nil {
		t.Fatalf("begin form: %v", err)
	}
	if h.FormID() != "custom" {
		t.Fatalf("expected explicit id, got %q", h.FormID())
	}
	if _, err := h.BeginForm(nil); !errors.Is(err, extjs.ErrFormAlreadyOpen) {
		t.Fatalf("expected ErrFormAlreadyOpen, got %v", err)
	}
	if got := h.EndForm(); got != "" {
		t.Fatalf("expected empty end form script, got %q", got)
	}
	if h.FormID() != "" {
		t.Fatalf("expected form scope to be reset")
	}

	if _, err := h.BeginForm(nil); err != nil {
		t.Fatalf("begin second form: %v", err)
	}
	if h.FormID() != "win-form2" {
		t.Fatalf("expected generated id win-form2, got %q", h.FormID())
	}
}

func TestWithRequest_ReadsContainerID(t *testing.T) {
	req := httptest.NewRequest("GET", "/contact/index.ext?"+extjs.ContainerIDParam+"=win-7", nil)
	h := extjs.New(extjs.WithRequest(req))
	if h.ContainerID() != "win-7" {
		t.Fatalf("expected container id from request, got %q", h.ContainerID())
	}
}

func TestTextField_BindsValueAndValidation(t *testing.T) {
	h := openHelper(t)

	got, err := h.TextField("contact.Name", js.NewObject("fieldLabel", "Name"))
	if err != nil {
		t.Fatalf("text field: %v", err)
	}
	want := `{"fieldLabel":"Name","xtype":"textfield","allowBlank":false,` +
		`"blankText":"This is a required field","value":"Ada","name":"contact.Name"}`
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Fatalf("text field mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldConfig_ExplicitValueAndDisabledValidation(t *testing.T) {
	h := openHelper(t)

	cfg := js.NewObject("value", "Grace", "disableValidation", true)
	got, err := h.Field("contact.Name", cfg)
	if err != nil {
		t.Fatalf("field: %v", err)
	}
	if diff := cmp.Diff(`{"value":"Grace","name":"contact.Name"}`, string(got)); diff != "" {
		t.Fatalf("field mismatch (-want +got):\n%s", diff)
	}
	if !cfg.Has("disableValidation") {
		t.Fatalf("caller config must not be modified")
	}

	h.DisableValidation()
	got, err = h.Field("contact.Email", nil)
	if err != nil {
		t.Fatalf("field: %v", err)
	}
	if strings.Contains(string(got), "allowBlank") {
		t.Fatalf("expected validation to be disabled, got %s", got)
	}
}

func TestObjectScope_RewritesTargets(t *testing.T) {
	h := openHelper(t)

	h.Push("contact")
	cfg, err := h.TextFieldConfig("Name", nil)
	if err != nil {
		t.Fatalf("text field: %v", err)
	}
	h.Pop()

	if name := cfg.StringOr("name", ""); name != "contact.Name" {
		t.Fatalf("expected scoped name, got %q", name)
	}
	if value := cfg.StringOr("value", ""); value != "Ada" {
		t.Fatalf("expected scoped value, got %q", value)
	}

	cfg, err = h.TextFieldConfig("Name", nil)
	if err != nil {
		t.Fatalf("text field: %v", err)
	}
	if name := cfg.StringOr("name", ""); name != "Name" {
		t.Fatalf("expected unscoped name after Pop, got %q", name)
	}
}

func TestEndForm_FocusesField(t *testing.T) {
	h := openHelper(t)

	if _, err := h.TextField("contact.Email", js.NewObject("focused", "True")); err != nil {
		t.Fatalf("text field: %v", err)
	}
	want := `Ext.getCmp("win-form1").form.findField("contact.Email").focus();`
	if got := h.EndForm(); got != want {
		t.Fatalf("end form = %q, want %q", got, want)
	}
	if got := h.EndForm(); got != "" {
		t.Fatalf("expected focus to be reset, got %q", got)
	}
}

func TestHtmlEditor_SanitizesValue(t *testing.T) {
	h := openHelper(t)

	cfg, err := h.HtmlEditorConfig("contact.Notes", nil)
	if err != nil {
		t.Fatalf("html editor: %v", err)
	}
	if value := cfg.StringOr("value", ""); value != "<p>Hi</p>" {
		t.Fatalf("expected sanitized value, got %q", value)
	}
	if xtype := cfg.StringOr("xtype", ""); xtype != "htmleditor" {
		t.Fatalf("unexpected xtype %q", xtype)
	}
}

func TestComboBox(t *testing.T) {
	h := openHelper(t)
	countries := []country{{ID: 1, Name: "Brazil"}, {ID: 2, Name: "Canada"}}

	got, err := h.ComboBox("contact.Country", countries, js.NewObject("valueField", "ID", "displayField", "Name"))
	if err != nil {
		t.Fatalf("combo: %v", err)
	}
	want := `{"valueField":"ID","displayField":"Name","value":2,"hiddenName":"contact.Country",` +
		`"xtype":"combo","name":"contact.Country",` +
		`"store":new Ext.data.SimpleStore({"fields":["ID","Name"],"data":[[1,"Brazil"],[2,"Canada"]]}),` +
		`"mode":"local","triggerAction":"all"}`
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Fatalf("combo mismatch (-want +got):\n%s", diff)
	}
}

func TestComboBox_HiddenNameAndScalars(t *testing.T) {
	h := openHelper(t)

	cfg, err := h.ComboBoxConfig("size", []string{"S", "M"}, js.NewObject("hiddenName", false, "xtype", "textfield"))
	if err != nil {
		t.Fatalf("combo: %v", err)
	}
	if cfg.Has("hiddenName") {
		t.Fatalf("expected hiddenName to be removed")
	}
	if xtype := cfg.StringOr("xtype", ""); xtype != "combo" {
		t.Fatalf("expected forced combo xtype, got %q", xtype)
	}
	store, _ := cfg.Get("store")
	wantStore := js.Literal(`new Ext.data.SimpleStore({"fields":["value","text"],"data":[["S","S"],["M","M"]]})`)
	if store != wantStore {
		t.Fatalf("store = %v, want %v", store, wantStore)
	}

	cfg, err = h.ComboBoxConfig("size", nil, js.NewObject("hiddenName", "sizeCode"))
	if err != nil {
		t.Fatalf("combo: %v", err)
	}
	if name := cfg.StringOr("hiddenName", ""); name != "sizeCode" {
		t.Fatalf("expected explicit hiddenName, got %q", name)
	}

	if _, err := h.ComboBoxConfig("size", 42, nil); err == nil {
		t.Fatalf("expected error for non slice data source")
	}
}

func TestComboBox_LiteralItems(t *testing.T) {
	h := openHelper(t)

	cfg, err := h.ComboBoxConfig("size", []any{js.Literal("SIZES.small"), "M"}, nil)
	if err != nil {
		t.Fatalf("combo: %v", err)
	}
	store, _ := cfg.Get("store")
	want := js.Literal(`new Ext.data.SimpleStore({"fields":["value","text"],"data":[[SIZES.small,SIZES.small],["M","M"]]})`)
	if store != want {
		t.Fatalf("store = %v, want %v", store, want)
	}
}

func TestAutoField_ResolvesXType(t *testing.T) {
	rules := contactRules()
	rules.SetEnum("contact.Size", "S", "M")
	h := openHelper(t, extjs.WithValidation(rules))

	tests := []struct {
		target string
		cfg    *js.Object
		want   string
	}{
		{target: "contact.Agree", want: "checkbox"},
		{target: "contact.Country", want: "numberfield"},
		{target: "contact.Name", want: "textfield"},
		{target: "contact.Size", want: "combo"},
		{target: "contact.Name", cfg: js.NewObject("xtype", "textarea"), want: "textarea"},
	}
	for _, tt := range tests {
		cfg, err := h.AutoFieldConfig(tt.target, tt.cfg)
		if err != nil {
			t.Fatalf("%s: %v", tt.target, err)
		}
		if got := cfg.StringOr("xtype", ""); got != tt.want {
			t.Errorf("%s: xtype = %q, want %q", tt.target, got, tt.want)
		}
	}
}

func TestApplyToField(t *testing.T) {
	h := openHelper(t)

	got, err := h.ApplyToField("contact.Email")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	want := `(function(){var f = Ext.getCmp("win-form1").form.findField("contact.Email");` +
		`f.allowBlank=false;f.blankText="This is a required field";` +
		`f.vtype="email";f.vtypeText="Please enter a valid email address. For example fred@domain.com";` +
		`f.setValue("ada@example.com");})();`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("apply mismatch (-want +got):\n%s", diff)
	}

	got, err = h.ApplyToField("contact.Missing")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty script for unbound field, got %q", got)
	}
}

func TestMergeAndSortHiddenFields(t *testing.T) {
	merged := extjs.MergeHiddenFields(map[string]string{" existing ": "keep", "": "ignored"},
		extjs.CSRFToken("_csrf", "token123"),
		extjs.Hidden("version", 4),
		extjs.Hidden("  ", "skip"),
	)
	wantMerged := map[string]string{"existing": "keep", "_csrf": "token123", "version": "4"}
	if diff := cmp.Diff(wantMerged, merged); diff != "" {
		t.Fatalf("merged hidden fields mismatch (-want +got):\n%s", diff)
	}

	wantSorted := []extjs.HiddenField{
		{Name: "_csrf", Value: "token123"},
		{Name: "existing", Value: "keep"},
		{Name: "version", Value: "4"},
	}
	if diff := cmp.Diff(wantSorted, extjs.SortedHiddenFields(merged)); diff != "" {
		t.Fatalf("sorted hidden fields mismatch (-want +got):\n%s", diff)
	}
}
