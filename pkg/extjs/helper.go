package extjs

import (
	"net/http"
	"strconv"
	"strings"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-extjs/pkg/binding"
	"github.com/goliatone/go-extjs/pkg/controller"
	"github.com/goliatone/go-extjs/pkg/js"
	"github.com/goliatone/go-extjs/pkg/proxy"
	"github.com/goliatone/go-extjs/pkg/render/template"
	"github.com/goliatone/go-extjs/pkg/validation"
	"github.com/goliatone/go-extjs/pkg/widgets"
)

// ContainerIDParam is the request parameter Ext.ux.Container sends with the
// id of the component that loaded the view.
const ContainerIDParam = "ext-ux-container-id"

// Option configures a Helper.
type Option func(*Helper)

// WithRequest reads the container id from the ContainerIDParam request
// parameter.
func WithRequest(r *http.Request) Option {
	return func(h *Helper) {
		if r != nil {
			h.containerID = strings.TrimSpace(r.FormValue(ContainerIDParam))
		}
	}
}

// WithContainerID sets the container id explicitly.
func WithContainerID(id string) Option {
	return func(h *Helper) {
		h.containerID = strings.TrimSpace(id)
	}
}

// WithPropertyBag sets the values fields are populated from.
func WithPropertyBag(bag binding.PropertyBag) Option {
	return func(h *Helper) {
		h.bag = bag
	}
}

// WithValidation sets the rules applied to fields as browser validation.
func WithValidation(rules *validation.Registry) Option {
	return func(h *Helper) {
		h.rules = rules
	}
}

// WithValidatorProvider replaces validation.DefaultProvider.
func WithValidatorProvider(provider validation.Provider) Option {
	return func(h *Helper) {
		if provider != nil {
			h.provider = provider
		}
	}
}

// WithWidgets sets the registry AutoField resolves xtypes with.
func WithWidgets(registry *widgets.Registry) Option {
	return func(h *Helper) {
		if registry != nil {
			h.widgets = registry
		}
	}
}

// WithProxyGenerator enables the GenerateJSProxy family.
func WithProxyGenerator(gen *proxy.Generator) Option {
	return func(h *Helper) {
		h.proxies = gen
	}
}

// WithController names the controller serving the current request. It is
// the default target of RemoteValue and GenerateJSProxy.
func WithController(area, name string) Option {
	return func(h *Helper) {
		h.area = area
		h.controller = name
	}
}

// WithURLBuilder sets the URL layout used by RemoteValue.
func WithURLBuilder(urls controller.URLBuilder) Option {
	return func(h *Helper) {
		h.urls = urls
	}
}

// WithTemplateRenderer replaces the embedded script templates.
func WithTemplateRenderer(renderer template.TemplateRenderer) Option {
	return func(h *Helper) {
		h.renderer = renderer
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Helper) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithTheme sets the theme ThemeIncludes resolves asset URLs from.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(h *Helper) {
		h.theme = cfg
	}
}

// WithSanitizer replaces the HTML policy applied to htmleditor values and
// container titles.
func WithSanitizer(s Sanitizer) Option {
	return func(h *Helper) {
		if s != nil {
			h.sanitizer = s
		}
	}
}

// WithHiddenFields adds fields submitted with every form panel as
// baseParams.
func WithHiddenFields(fields ...HiddenField) Option {
	return func(h *Helper) {
		h.AddHiddenFields(fields...)
	}
}

// Helper generates ExtJS scripts for a single request. It keeps form and
// object scope state between calls and is not safe for concurrent use.
type Helper struct {
	containerID string
	area        string
	controller  string

	bag       binding.PropertyBag
	rules     *validation.Registry
	provider  validation.Provider
	widgets   *widgets.Registry
	proxies   *proxy.Generator
	urls      controller.URLBuilder
	renderer  template.TemplateRenderer
	theme     *theme.RendererConfig
	sanitizer Sanitizer
	logger    *zap.Logger
	hidden    map[string]string

	formID             string
	formCount          int
	formConfig         validation.Configuration
	focusedField       string
	validationDisabled bool
	scope              binding.Scope
}

// New creates a helper.
func New(options ...Option) *Helper {
	h := &Helper{
		provider:  validation.DefaultProvider,
		widgets:   widgets.NewRegistry(),
		sanitizer: DefaultSanitizer(),
		logger:    zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// FromContext creates a helper for an action invocation, taking the
// container id, property bag, controller name and URL layout from ctx.
// Later options override the derived ones.
func FromContext(ctx *controller.Context, options ...Option) *Helper {
	if ctx == nil {
		return New(options...)
	}
	base := []Option{
		WithRequest(ctx.Request),
		WithPropertyBag(ctx.Bag()),
		WithController(ctx.Area, ctx.Controller),
		WithURLBuilder(ctx.URLs),
		WithLogger(ctx.Logger),
	}
	return New(append(base, options...)...)
}

// ContainerID returns the id of the Ext component hosting the view.
func (h *Helper) ContainerID() string {
	return h.containerID
}

// FormID returns the id of the open form or an empty string.
func (h *Helper) FormID() string {
	return h.formID
}

// Bag returns the property bag fields are populated from.
func (h *Helper) Bag() binding.PropertyBag {
	return h.bag
}

// BeginForm opens a form scope. The form id is taken from params["id"]
// (removed) or generated as "<container id>-form<N>". The remaining params
// configure the validation provider. The returned script is whatever the
// provider emits after a form is opened.
func (h *Helper) BeginForm(params *js.Object) (string, error) {
	if h.formID != "" {
		return "", ErrFormAlreadyOpen
	}
	params = params.Clone()

	h.formCount++
	h.formID = params.TakeString("id", h.containerID+"-form"+strconv.Itoa(h.formCount))
	h.formConfig = h.provider.CreateConfiguration(params)

	h.logger.Debug("form opened",
		zap.String("form", h.formID),
		zap.String("container", h.containerID),
	)

	if !h.validationEnabled() {
		return "", nil
	}
	return h.formConfig.AfterFormOpened(h.formID), nil
}

// EndForm closes the form scope. The returned script focuses the field
// marked with the "focused" option, if any.
func (h *Helper) EndForm() string {
	var sb strings.Builder
	if h.formConfig != nil && h.validationEnabled() {
		sb.WriteString(h.formConfig.BeforeFormClosed(h.formID))
	}
	if h.formID != "" && h.focusedField != "" {
		sb.WriteString("Ext.getCmp(")
		sb.WriteString(js.Quote(h.formID))
		sb.WriteString(").form.findField(")
		sb.WriteString(js.Quote(h.focusedField))
		sb.WriteString(").focus();")
	}

	h.formID = ""
	h.formConfig = nil
	h.focusedField = ""
	return sb.String()
}

// DisableValidation turns browser validation off for the rest of the
// request.
func (h *Helper) DisableValidation() {
	h.validationDisabled = true
}

func (h *Helper) validationEnabled() bool {
	return !h.validationDisabled
}

// Push opens an object scope: until Pop, targets are relative to target.
func (h *Helper) Push(target string) {
	h.scope.Push(target)
}

// Pop closes the innermost object scope.
func (h *Helper) Pop() {
	h.scope.Pop()
}

func (h *Helper) requireForm() error {
	if h.formID == "" {
		return ErrNoActiveForm
	}
	return nil
}

func (h *Helper) lookup(target string) (any, bool) {
	value, ok := h.bag.Lookup(target)
	if !ok || value == nil {
		return nil, false
	}
	return value, true
}
