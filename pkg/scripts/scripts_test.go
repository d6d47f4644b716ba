package scripts_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-extjs/pkg/render/template/gotemplate"
	"github.com/goliatone/go-extjs/pkg/scripts"
	"github.com/goliatone/go-extjs/pkg/testsupport"
)

func render(t *testing.T, name string, data any) string {
	t.Helper()
	renderer, err := scripts.Default()
	if err != nil {
		t.Fatalf("default renderer: %v", err)
	}
	out, err := scripts.Render(renderer, name, data)
	if err != nil {
		t.Fatalf("render %s: %v", name, err)
	}
	return out
}

func TestRender_Proxy(t *testing.T) {
	out := render(t, scripts.Proxy, scripts.ProxyData{Functions: []scripts.ProxyFunction{
		{Name: "foo", Args: []string{"a"}, URL: "/home/Foo.ext", Method: "get", Params: `{"a":a}`},
		{Name: "bar", URL: "/home/Bar.ext", Method: "post", Params: `{}`},
	}})

	want := `{ ` +
		`foo: function(a, callback) { Ext.Ajax.request({ url: "/home/Foo.ext", method: "get", params: {"a":a}, ` +
		`callback: function(o, s, r) { if (s) { callback(Ext.decode(r.responseText)); } else { callback(null); } } }); }, ` +
		`bar: function(callback) { Ext.Ajax.request({ url: "/home/Bar.ext", method: "post", params: {}, ` +
		`callback: function(o, s, r) { if (s) { callback(Ext.decode(r.responseText)); } else { callback(null); } } }); } };`

	if diff := cmp.Diff(want, testsupport.CompactScript(out)); diff != "" {
		t.Fatalf("proxy mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_ProxyWithoutFunctions(t *testing.T) {
	out := render(t, scripts.Proxy, scripts.ProxyData{})
	if got := testsupport.CompactScript(out); got != "{ };" {
		t.Fatalf("expected empty object literal, got %q", got)
	}
}

func TestRender_FormPanel(t *testing.T) {
	out := render(t, scripts.FormPanel, scripts.FormPanelData{
		Component:   `var variable_c_form1 = new Ext.FormPanel({"id":"c-form1"});`,
		Variable:    "variable_c_form1",
		ContainerID: "c",
	})

	for _, fragment := range []string{
		`var variable_c_form1 = new Ext.FormPanel({"id":"c-form1"});`,
		`variable_c_form1_on_afteraction = function(form, action) {`,
		`variable_c_form1.doLayout();`,
		`var container = Ext.getCmp("c");`,
		`variable_c_form1.form.on('actioncomplete', variable_c_form1_on_afteraction);`,
		`variable_c_form1.form.on('actionfailed', variable_c_form1_on_afteraction);`,
	} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in:\n%s", fragment, out)
		}
	}
	if strings.HasSuffix(out, "\n") {
		t.Fatalf("expected trailing newline to be trimmed")
	}
}

func TestRender_Container(t *testing.T) {
	out := render(t, scripts.Container, scripts.ContainerData{
		ContainerID: "win-1",
		Ops: []scripts.ContainerOp{
			{Kind: scripts.OpSetter, Method: "setTitle", Value: `"Contact"`},
			{Kind: scripts.OpAssign, Key: "modal", Value: "true"},
			{Kind: scripts.OpTools, Value: `[{"id":"help"}]`},
		},
		InitTools: true,
		Center:    true,
	})

	got := testsupport.CompactScript(out)
	for _, fragment := range []string{
		`(function(){ var w = Ext.getCmp("win-1");`,
		`w.setTitle("Contact");`,
		`w.modal = true;`,
		`w.addTool.apply(w, [{"id":"help"}]);`,
		`if (w instanceof Ext.Window) w.initTools(); if (w instanceof Ext.Window) w.center(); })();`,
	} {
		if !strings.Contains(got, fragment) {
			t.Fatalf("expected %q in:\n%s", fragment, got)
		}
	}
	if strings.Contains(got, "Ext.Resizable") {
		t.Fatalf("resizer should only be rebuilt for the resizable option")
	}
}

func TestRender_RemoteValue(t *testing.T) {
	out := render(t, scripts.RemoteValue, scripts.RemoteValueData{
		URL:      "/contact/load.ext",
		Params:   "id=1&q=a%20b",
		Callback: "onLoad",
	})

	want := `Ext.Ajax.request({ url: "/contact/load.ext", params: "id=1\u0026q=a%20b", ` +
		`success: function(response, options) { onLoad(Ext.decode(response.responseText)); } });`
	if diff := cmp.Diff(want, testsupport.CompactScript(out)); diff != "" {
		t.Fatalf("remote value mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_IncludesEscapesURLs(t *testing.T) {
	out := render(t, scripts.Includes, scripts.IncludesData{
		Stylesheets: []string{"/ext/resources/css/ext-all.css"},
		Scripts:     []string{"/ext/ext-all.js?v=1&x=2"},
	})

	want := `<link rel="stylesheet" type="text/css" href="/ext/resources/css/ext-all.css" />` + "\n" +
		`<script type="text/javascript" src="/ext/ext-all.js?v=1&amp;x=2"></script>`
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("includes mismatch (-want +got):\n%s", diff)
	}
}

func TestNewRenderer_BaseDirShadowsEmbedded(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "remotevalue.tpl"), []byte("custom({{ callback|safe }});\n"), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	renderer, err := scripts.NewRenderer(gotemplate.WithBaseDir(dir))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := scripts.Render(renderer, scripts.RemoteValue, scripts.RemoteValueData{Callback: "cb"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "custom(cb);" {
		t.Fatalf("expected shadowed template, got %q", out)
	}

	out, err = scripts.Render(renderer, scripts.Proxy, scripts.ProxyData{})
	if err != nil {
		t.Fatalf("render embedded fallback: %v", err)
	}
	if testsupport.CompactScript(out) != "{ };" {
		t.Fatalf("expected embedded proxy template, got %q", out)
	}
}
