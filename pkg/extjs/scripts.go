package extjs

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/goliatone/go-extjs/pkg/js"
	"github.com/goliatone/go-extjs/pkg/scripts"
)

// Form panel defaults.
const (
	DefaultSubmitText = "Send"
	DefaultWaitMsg    = "Sending..."
	DefaultWaitTitle  = "Please wait"
)

// containerSetters are applied through w.setX(value).
var containerSetters = map[string]bool{
	"disabled":  true,
	"iconClass": true,
	"title":     true,
	"visible":   true,
	"width":     true,
	"height":    true,
}

// containerToolOptions require w.initTools() once applied.
var containerToolOptions = map[string]bool{
	"tools":       true,
	"minimizable": true,
	"maximizable": true,
	"resizable":   true,
}

// Config serializes cfg to JavaScript.
func (h *Helper) Config(cfg *js.Object) (string, error) {
	text, err := js.Serialize(cfg)
	if err != nil {
		return "", fmt.Errorf("extjs: serialize config: %w", err)
	}
	return text, nil
}

// Literal marks source as raw JavaScript.
func (h *Helper) Literal(source string) js.Literal {
	return js.Literal(source)
}

// Component returns "new <type>(<cfg>);". The "assignTo" option, when set,
// names a variable the component is assigned to.
func (h *Helper) Component(componentType string, cfg *js.Object) (string, error) {
	cfg = cfg.Clone()
	variable := strings.TrimSpace(cfg.TakeString("assignTo", ""))

	text, err := h.Config(cfg)
	if err != nil {
		return "", err
	}
	statement := "new " + componentType + "(" + text + ");"
	if variable == "" {
		return statement, nil
	}
	return "var " + variable + " = " + statement, nil
}

// FormPanel returns the script creating the Ext.FormPanel of the open form.
//
// The panel id is the form id, so an "id" option is a *ConfigConflictError.
// "assignTo" defaults to "variable_<form id>" and is always set because the
// submit handler needs it. monitorValid, waitMsgTarget and a submit button
// ("submitText", "waitMsg" and "waitTitle" options) are added unless
// present. Hidden fields are merged into baseParams. After every submit the
// container is reloaded with the redirect the action returned, if any.
func (h *Helper) FormPanel(cfg *js.Object) (string, error) {
	if err := h.requireForm(); err != nil {
		return "", err
	}
	cfg = cfg.Clone()

	if id := cfg.StringOr("id", ""); id != "" {
		return "", &ConfigConflictError{
			Option: "id",
			Hint:   "pass it to BeginForm or leave it out",
		}
	}

	variable := cfg.StringOr("assignTo", "variable_"+strings.ReplaceAll(h.formID, "-", "_"))
	cfg.Set("assignTo", variable)
	cfg.Set("id", h.formID)
	cfg.SetIfMissing("monitorValid", true)
	cfg.SetIfMissing("waitMsgTarget", true)

	submitText := cfg.TakeString("submitText", DefaultSubmitText)
	waitMsg := cfg.TakeString("waitMsg", DefaultWaitMsg)
	waitTitle := cfg.TakeString("waitTitle", DefaultWaitTitle)
	if !cfg.Has("buttons") {
		cfg.Set("buttons", formPanelButtons(variable, submitText, waitMsg, waitTitle))
	}
	if err := h.baseParams(cfg); err != nil {
		return "", err
	}

	component, err := h.Component("Ext.FormPanel", cfg)
	if err != nil {
		return "", err
	}
	out, err := scripts.Render(h.renderer, scripts.FormPanel, scripts.FormPanelData{
		Component:   component,
		Variable:    variable,
		ContainerID: h.containerID,
	})
	if err != nil {
		return "", fmt.Errorf("extjs: %w", err)
	}
	return out, nil
}

func formPanelButtons(variable, submitText, waitMsg, waitTitle string) js.Array {
	handler := "function(btn, e){ if (" + variable + ".form.isValid()) { " +
		variable + ".form.submit({ waitMsg: " + js.Quote(waitMsg) +
		", waitTitle: " + js.Quote(waitTitle) + " }); } }"

	return js.Array{js.NewObject(
		"formBind", true,
		"text", submitText,
		"handler", js.Literal(handler),
	)}
}

// ContainerCmp returns the expression resolving the container component.
func (h *Helper) ContainerCmp() js.Literal {
	return js.Call("Ext.getCmp", js.Quote(h.containerID))
}

// ContainerMember returns an expression reading member of the container
// component.
func (h *Helper) ContainerMember(member string) js.Literal {
	return js.Literal(h.ContainerCmp().String() + "." + member)
}

// Container returns a script updating the window or panel hosting the view.
// It is empty when the request carries no container id.
//
// "tools" (default []) replaces the tool buttons, "resizable" rebuilds the
// window resizer, disabled/iconClass/title/visible/width/height go through
// their setters and every other option is assigned as a property. A true
// "centered" option centers the window. Titles are sanitized.
func (h *Helper) Container(cfg *js.Object) (string, error) {
	if h.containerID == "" {
		return "", nil
	}
	cfg = cfg.Clone()
	cfg.SetIfMissing("tools", js.Array{})
	center := cfg.TakeBool("centered")

	data := scripts.ContainerData{ContainerID: h.containerID, Center: center}
	for _, key := range cfg.Keys() {
		value, _ := cfg.Get(key)
		if key == "title" {
			value = h.sanitize(value)
		}
		text, err := js.Serialize(value)
		if err != nil {
			return "", fmt.Errorf("extjs: serialize container option %s: %w", key, err)
		}

		op := scripts.ContainerOp{Key: key, Value: text}
		switch {
		case key == "tools":
			op.Kind = scripts.OpTools
		case key == "resizable":
			op.Kind = scripts.OpResizable
		case containerSetters[key]:
			op.Kind = scripts.OpSetter
			op.Method = "set" + upperFirst(key)
		default:
			op.Kind = scripts.OpAssign
		}
		data.Ops = append(data.Ops, op)

		if containerToolOptions[key] {
			data.InitTools = true
		}
	}

	out, err := scripts.Render(h.renderer, scripts.Container, data)
	if err != nil {
		return "", fmt.Errorf("extjs: %w", err)
	}
	return out, nil
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// RemoteValue returns an Ext.Ajax.request call fetching action of the
// current controller and passing the decoded response to callback.
func (h *Helper) RemoteValue(action string, params *js.Object, callback string) (string, error) {
	if strings.TrimSpace(callback) == "" {
		return "", fmt.Errorf("extjs: remote value callback is required")
	}
	query := url.Values{}
	params.Range(func(key string, value any) bool {
		if value != nil {
			query.Set(key, fmt.Sprint(value))
		}
		return true
	})

	out, err := scripts.Render(h.renderer, scripts.RemoteValue, scripts.RemoteValueData{
		URL:      h.urls.BuildURL(h.area, h.controller, action),
		Params:   query.Encode(),
		Callback: callback,
	})
	if err != nil {
		return "", fmt.Errorf("extjs: %w", err)
	}
	return out, nil
}

// GenerateJSProxy returns the proxy of the current controller.
func (h *Helper) GenerateJSProxy(name string) (string, error) {
	return h.GenerateJSProxyIn(name, h.area, h.controller)
}

// GenerateJSProxyFor returns the proxy of a controller outside any area.
func (h *Helper) GenerateJSProxyFor(name, controllerName string) (string, error) {
	return h.GenerateJSProxyIn(name, "", controllerName)
}

// GenerateJSProxyIn returns the proxy of area/controller.
func (h *Helper) GenerateJSProxyIn(name, area, controllerName string) (string, error) {
	if h.proxies == nil {
		return "", ErrNoProxyGenerator
	}
	out, err := h.proxies.GenerateJSProxy(name, area, controllerName)
	if err != nil {
		h.logger.Warn("proxy generation failed",
			zap.String("proxy", name),
			zap.String("area", area),
			zap.String("controller", controllerName),
			zap.Error(err),
		)
		return "", err
	}
	return out, nil
}
