package controller

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Verb restricts the HTTP methods an action accepts.
type Verb string

const (
	VerbAny    Verb = ""
	VerbGet    Verb = "GET"
	VerbPost   Verb = "POST"
	VerbPut    Verb = "PUT"
	VerbDelete Verb = "DELETE"
)

// ParseVerb normalises a method name. Unknown names are rejected.
func ParseVerb(raw string) (Verb, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "", "ANY", "*":
		return VerbAny, nil
	case "GET":
		return VerbGet, nil
	case "POST":
		return VerbPost, nil
	case "PUT":
		return VerbPut, nil
	case "DELETE":
		return VerbDelete, nil
	}
	return VerbAny, fmt.Errorf("controller: unknown verb %q", raw)
}

// Allows reports whether method may invoke an action restricted to v.
func (v Verb) Allows(method string) bool {
	if v == VerbAny {
		return true
	}
	method = strings.ToUpper(method)
	if v == VerbGet && method == "HEAD" {
		return true
	}
	return string(v) == method
}

// Param describes one action argument.
type Param struct {
	// Name is the argument name.
	Name string `json:"name" yaml:"name"`
	// Bind is the request prefix the argument is data-bound from, if any.
	Bind string `json:"bind,omitempty" yaml:"bind,omitempty"`
	// Fetch is the request key a record id is fetched from, if any.
	Fetch string `json:"fetch,omitempty" yaml:"fetch,omitempty"`
	// JSONEntry, when set, sends the argument JSON-encoded under this key.
	JSONEntry string `json:"jsonEntry,omitempty" yaml:"jsonEntry,omitempty"`
}

// RequestName returns the name the argument travels under: the bind prefix,
// then the fetch key, then the plain name.
func (p Param) RequestName() string {
	switch {
	case strings.TrimSpace(p.Bind) != "":
		return strings.TrimSpace(p.Bind)
	case strings.TrimSpace(p.Fetch) != "":
		return strings.TrimSpace(p.Fetch)
	}
	return strings.TrimSpace(p.Name)
}

// HandlerFunc executes an action. The returned value is rendered according
// to the action kind.
type HandlerFunc func(ctx *Context) (any, error)

// Action is one invocable controller entry point.
type Action struct {
	Name    string  `json:"name" yaml:"name"`
	Alias   string  `json:"alias,omitempty" yaml:"alias,omitempty"`
	Ajax    bool    `json:"ajax,omitempty" yaml:"ajax,omitempty"`
	Verb    Verb    `json:"verb,omitempty" yaml:"verb,omitempty"`
	Params  []Param `json:"params,omitempty" yaml:"params,omitempty"`
	Summary string  `json:"summary,omitempty" yaml:"summary,omitempty"`

	Handler HandlerFunc `json:"-" yaml:"-"`
}

// FunctionName is the name client code uses for the action.
func (a Action) FunctionName() string {
	if alias := strings.TrimSpace(a.Alias); alias != "" {
		return alias
	}
	return a.Name
}

// Descriptor is the registration record of a controller.
type Descriptor struct {
	Area    string   `json:"area,omitempty" yaml:"area,omitempty"`
	Name    string   `json:"name" yaml:"name"`
	Actions []Action `json:"actions" yaml:"actions"`
}

// Key identifies the descriptor inside a Tree.
func (d Descriptor) Key() string {
	return Key(d.Area, d.Name)
}

// AjaxActions returns the actions flagged as AJAX, in declaration order.
func (d Descriptor) AjaxActions() []Action {
	var out []Action
	for _, action := range d.Actions {
		if action.Ajax {
			out = append(out, action)
		}
	}
	return out
}

// Action finds an action by name, case-insensitively.
func (d Descriptor) Action(name string) (Action, bool) {
	for _, action := range d.Actions {
		if strings.EqualFold(action.Name, name) {
			return action, true
		}
	}
	return Action{}, false
}

// Validate checks names are present and unique.
func (d Descriptor) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("controller: descriptor name is required")
	}
	seen := make(map[string]struct{}, len(d.Actions))
	for idx, action := range d.Actions {
		name := strings.ToLower(strings.TrimSpace(action.Name))
		if name == "" {
			return fmt.Errorf("controller: %s action #%d has no name", d.Key(), idx)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("controller: %s declares action %q twice", d.Key(), action.Name)
		}
		seen[name] = struct{}{}
		for _, param := range action.Params {
			if strings.TrimSpace(param.Name) == "" {
				return fmt.Errorf("controller: %s.%s has a parameter without name", d.Key(), action.Name)
			}
		}
	}
	return d.validateAjax()
}

// validateAjax checks the names AJAX actions expose to generated proxies:
// function and argument names must be JavaScript identifiers and unique once
// their first rune is lowered.
func (d Descriptor) validateAjax() error {
	functions := make(map[string]string)
	for _, action := range d.AjaxActions() {
		fn := strings.TrimSpace(action.FunctionName())
		if !IsIdentifier(fn) {
			return fmt.Errorf("controller: %s.%s: %q is not a valid JavaScript function name", d.Key(), action.Name, fn)
		}
		proxyName := lowerFirst(fn)
		if other, dup := functions[proxyName]; dup {
			return fmt.Errorf("controller: %s: actions %s and %s both map to proxy function %q", d.Key(), other, action.Name, proxyName)
		}
		functions[proxyName] = action.Name

		args := map[string]struct{}{"callback": {}}
		for _, param := range action.Params {
			arg := param.RequestName()
			if !IsIdentifier(arg) {
				return fmt.Errorf("controller: %s.%s: parameter %q is not a valid JavaScript identifier", d.Key(), action.Name, arg)
			}
			if _, dup := args[lowerFirst(arg)]; dup {
				return fmt.Errorf("controller: %s.%s: parameter %q is declared twice or shadows callback", d.Key(), action.Name, arg)
			}
			args[lowerFirst(arg)] = struct{}{}
		}
	}
	return nil
}

// Key builds the case-insensitive lookup key "area|controller".
func Key(area, name string) string {
	return strings.ToLower(strings.TrimSpace(area) + "|" + strings.TrimSpace(name))
}

var reservedWords = map[string]struct{}{
	"break": {}, "case": {}, "catch": {}, "class": {}, "const": {}, "continue": {},
	"debugger": {}, "default": {}, "delete": {}, "do": {}, "else": {}, "enum": {},
	"export": {}, "extends": {}, "false": {}, "finally": {}, "for": {}, "function": {},
	"if": {}, "import": {}, "in": {}, "instanceof": {}, "new": {}, "null": {},
	"return": {}, "super": {}, "switch": {}, "this": {}, "throw": {}, "true": {},
	"try": {}, "typeof": {}, "var": {}, "void": {}, "while": {}, "with": {},
}

// IsIdentifier reports whether name can be used verbatim as a JavaScript
// identifier once its first rune is lowered.
func IsIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	_, reserved := reservedWords[lowerFirst(name)]
	return !reserved
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}
