package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	extjs "github.com/goliatone/go-extjs"
	"github.com/goliatone/go-extjs/pkg/controller"
)

const contactTable = `
controllers:
  - name: Contact
    actions:
      - name: Index
      - name: SendContact
        ajax: true
        verb: post
        params:
          - name: contact
            bind: contact
  - area: admin
    name: Users
    actions:
      - name: List
        ajax: true
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func controllersDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "contact.yaml", contactTable)
	return dir
}

func run(t *testing.T, c *cli, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := c.command()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRoutes(t *testing.T) {
	out, _, err := run(t, newCLI(), "routes", "--controllers", controllersDir(t), "--app-path", "/app")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"VERB", "KIND", "URL", "FUNCTION"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"ANY", "ajax", "/app/admin/Users/List.ext", "list"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"ANY", "view", "/app/Contact/Index.ext", "-"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"POST", "ajax", "/app/Contact/SendContact.ext", "sendContact"}, strings.Fields(lines[3]))
}

func TestProxy_ForNamedController(t *testing.T) {
	out, _, err := run(t, newCLI(), "proxy", "contact", "--controllers", controllersDir(t))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<script type=\"text/javascript\">\nvar contactProxy =\n"), out)
	assert.Contains(t, out, "sendContact: function(contact, callback)")
}

func TestProxy_WritesOutputFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "users.js")
	_, _, err := run(t, newCLI(), "proxy", "users", "--area", "admin", "--name", "users",
		"--controllers", controllersDir(t), "-o", target)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "var users =")
	assert.Contains(t, string(data), `url: "/admin/Users/List.ext"`)
}

func TestProxy_PromptsForController(t *testing.T) {
	c := newCLI()
	c.interactive = func() bool { return true }
	var offered []string
	c.pick = func(options []string) (string, error) {
		offered = options
		return "admin/Users", nil
	}

	out, _, err := run(t, c, "proxy", "--controllers", controllersDir(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"admin/Users", "Contact"}, offered)
	assert.Contains(t, out, "var usersProxy =")
}

func TestProxy_RequiresControllerWithoutTerminal(t *testing.T) {
	c := newCLI()
	c.interactive = func() bool { return false }

	_, _, err := run(t, c, "proxy", "--controllers", controllersDir(t))
	assert.ErrorIs(t, err, errNoController)
}

func TestConfigFile(t *testing.T) {
	dir := controllersDir(t)
	cfg := writeFile(t, t.TempDir(), "extjs.yml", "app_path: /site\nextension: do\ncontrollers:\n  - "+dir+"\n")

	out, _, err := run(t, newCLI(), "routes", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "/site/Contact/SendContact.do")
}

func TestLint(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.yaml", contactTable)
	bad := writeFile(t, dir, "bad.yaml", "controllers:\n  - name: Contact\n    actions:\n      - name: Index\n        verb: fetch\n")
	apiDoc := writeFile(t, dir, "api.yaml", `openapi: 3.0.3
info:
  title: Contact
  version: 1.0.0
paths:
  /contact/send.ext:
    post:
      operationId: send
      x-extjs:
        controller: Contact
        ajax: maybe
        colour: red
      responses:
        "200":
          description: ok
  /contact/orphan.ext:
    get:
      operationId: orphan
      x-extjs-ajax: true
      responses:
        "200":
          description: ok
`)

	_, _, err := run(t, newCLI(), "lint", good)
	require.NoError(t, err)

	_, stderr, err := run(t, newCLI(), "lint", bad, apiDoc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "4 problem(s) found")
	assert.Contains(t, stderr, `unknown verb "fetch"`)
	assert.Contains(t, stderr, `operation send -> unsupported x-extjs key "colour"`)
	assert.Contains(t, stderr, `operation send -> controller: operation send: invalid ajax flag "maybe"`)
	assert.Contains(t, stderr, "operation orphan -> x-extjs metadata without a controller")
}

func TestProxyHandler(t *testing.T) {
	app := extjs.New()
	require.NoError(t, app.Register(controller.Descriptor{
		Area: "admin",
		Name: "Users",
		Actions: []controller.Action{{Name: "List", Ajax: true}},
	}))
	handler := proxyHandler(app, newCLI().logger)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/Users.js", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "var usersProxy =\n{"), rec.Body.String())

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/Missing.js", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeRoutes_Proxy(t *testing.T) {
	c := newCLI()
	app := extjs.New()
	require.NoError(t, app.Register(controller.Descriptor{
		Area:    "admin",
		Name:    "Users",
		Actions: []controller.Action{{Name: "List", Ajax: true}},
	}))
	routes := c.routes(app)

	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/_proxy/admin/Users.js", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/javascript; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `url: "/admin/Users/List.ext"`)

	rec = httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/_proxy/admin/Missing.js", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSplitKey(t *testing.T) {
	area, name := splitKey("admin/Users")
	assert.Equal(t, "admin", area)
	assert.Equal(t, "Users", name)

	area, name = splitKey("Contact")
	assert.Empty(t, area)
	assert.Equal(t, "Contact", name)
}
