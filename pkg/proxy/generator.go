package proxy

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/goliatone/go-extjs/pkg/controller"
	"github.com/goliatone/go-extjs/pkg/js"
	"github.com/goliatone/go-extjs/pkg/render/template"
	"github.com/goliatone/go-extjs/pkg/scripts"
)

// DefaultMethod is used for actions without a verb restriction.
const DefaultMethod = "get"

// Option configures a Generator.
type Option func(*Generator)

// WithCache replaces the default MemoryCache.
func WithCache(cache Cache) Option {
	return func(g *Generator) {
		if cache != nil {
			g.cache = cache
		}
	}
}

// WithLogger sets the logger. Cache misses log at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithURLBuilder sets the layout of action URLs.
func WithURLBuilder(urls controller.URLBuilder) Option {
	return func(g *Generator) {
		g.urls = urls
	}
}

// WithTemplateRenderer replaces the embedded proxy template engine.
func WithTemplateRenderer(renderer template.TemplateRenderer) Option {
	return func(g *Generator) {
		g.renderer = renderer
	}
}

// Generator produces JavaScript objects exposing one function per AJAX
// action of a controller. Bodies are cached per controller; the variable
// name is applied on every call.
type Generator struct {
	tree     *controller.Tree
	cache    Cache
	urls     controller.URLBuilder
	renderer template.TemplateRenderer
	logger   *zap.Logger
}

// New creates a generator over the controllers registered in tree.
func New(tree *controller.Tree, options ...Option) *Generator {
	g := &Generator{
		tree:   tree,
		cache:  NewMemoryCache(),
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// URLs returns the URL layout used by generated proxies.
func (g *Generator) URLs() controller.URLBuilder {
	return g.urls
}

// GenerateJSProxy returns a script block declaring variable name as the
// proxy object of area/controller:
//
//	<script type="text/javascript">
//	var name =
//	{ action: function(arg, callback) {...}, ... };
//	</script>
func (g *Generator) GenerateJSProxy(name, area, controllerName string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", errors.New("proxy: variable name is required")
	}
	body, err := g.Body(area, controllerName)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("<script type=\"text/javascript\">\nvar ")
	sb.WriteString(name)
	sb.WriteString(" =\n")
	sb.WriteString(body)
	sb.WriteString("\n</script>")
	return sb.String(), nil
}

// Body returns the cached object literal of a controller, generating it on
// a miss. Concurrent misses may generate the same body twice; the last
// write wins.
func (g *Generator) Body(area, controllerName string) (string, error) {
	key := controller.Key(area, controllerName)
	if body, ok := g.cache.Get(key); ok {
		return body, nil
	}

	g.logger.Debug("proxy cache miss", zap.String("key", key))

	desc, err := g.tree.Get(area, controllerName)
	if err != nil {
		g.logger.Error("proxy controller lookup failed",
			zap.String("area", area),
			zap.String("controller", controllerName),
			zap.Error(err),
		)
		return "", fmt.Errorf("proxy: %w", err)
	}

	body, err := g.build(desc)
	if err != nil {
		return "", err
	}
	g.cache.Set(key, body)
	return body, nil
}

func (g *Generator) build(desc controller.Descriptor) (string, error) {
	data := scripts.ProxyData{Functions: []scripts.ProxyFunction{}}
	for _, action := range desc.AjaxActions() {
		fn, err := buildFunction(g.urls.BuildURL(desc.Area, desc.Name, action.Name), action)
		if err != nil {
			return "", fmt.Errorf("proxy: %s.%s: %w", desc.Name, action.Name, err)
		}
		data.Functions = append(data.Functions, fn)
	}

	body, err := scripts.Render(g.renderer, scripts.Proxy, data)
	if err != nil {
		return "", fmt.Errorf("proxy: %w", err)
	}
	return body, nil
}

func buildFunction(url string, action controller.Action) (scripts.ProxyFunction, error) {
	method := strings.ToLower(string(action.Verb))
	if method == "" {
		method = DefaultMethod
	}

	fn := scripts.ProxyFunction{
		Name:   CamelCase(action.FunctionName()),
		URL:    url,
		Method: method,
		Args:   []string{},
	}

	params := &js.Object{}
	for _, param := range action.Params {
		arg := CamelCase(param.RequestName())
		if arg == "" {
			return scripts.ProxyFunction{}, fmt.Errorf("parameter %q has no usable name", param.Name)
		}
		fn.Args = append(fn.Args, arg)

		key, value := arg, arg
		if entry := strings.TrimSpace(param.JSONEntry); entry != "" {
			key = entry
			value = "Ext.encode(" + arg + ")"
			if method == DefaultMethod {
				value = "encodeURIComponent(" + value + ")"
			}
		}
		params.Set(key, js.Literal(value))
	}

	text, err := js.Serialize(params)
	if err != nil {
		return scripts.ProxyFunction{}, err
	}
	fn.Params = text
	return fn, nil
}

// CamelCase lowers the first rune of s.
func CamelCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}
