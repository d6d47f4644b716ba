package extjs

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-extjs/pkg/controller"
	helper "github.com/goliatone/go-extjs/pkg/extjs"
	pkgopenapi "github.com/goliatone/go-extjs/pkg/openapi"
	"github.com/goliatone/go-extjs/pkg/proxy"
	"github.com/goliatone/go-extjs/pkg/render/template"
	"github.com/goliatone/go-extjs/pkg/validation"
)

// DefaultAssetsPrefix is where Handler serves RuntimeAssetsFS.
const DefaultAssetsPrefix = "/ext-ux/"

// Option customises an Application.
type Option func(*Application)

// WithApplicationPath sets the path every action URL starts with.
func WithApplicationPath(path string) Option {
	return func(a *Application) {
		a.urls.ApplicationPath = path
	}
}

// WithExtension sets the action URL extension (default "ext").
func WithExtension(ext string) Option {
	return func(a *Application) {
		a.urls.Extension = ext
	}
}

// WithLogger sets the logger shared by the dispatcher, the proxy generator
// and request helpers.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Application) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithValidation sets the rules request helpers turn into browser
// validation.
func WithValidation(rules *validation.Registry) Option {
	return func(a *Application) {
		if rules != nil {
			a.rules = rules
		}
	}
}

// WithTheme sets the theme request helpers resolve ExtJS assets from.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(a *Application) {
		a.theme = cfg
	}
}

// WithProxyCache replaces the in-memory proxy cache.
func WithProxyCache(cache proxy.Cache) Option {
	return func(a *Application) {
		a.cache = cache
	}
}

// WithTemplateRenderer replaces the embedded script templates.
func WithTemplateRenderer(renderer template.TemplateRenderer) Option {
	return func(a *Application) {
		a.renderer = renderer
	}
}

// WithAssetsPrefix changes where Handler serves the runtime assets. An empty
// prefix disables them.
func WithAssetsPrefix(prefix string) Option {
	return func(a *Application) {
		a.assetsPrefix = prefix
	}
}

// Application wires the controller tree, the dispatcher and the proxy
// generator around one URL layout.
type Application struct {
	tree         *controller.Tree
	urls         controller.URLBuilder
	rules        *validation.Registry
	theme        *theme.RendererConfig
	cache        proxy.Cache
	renderer     template.TemplateRenderer
	logger       *zap.Logger
	assetsPrefix string

	proxies    *proxy.Generator
	dispatcher *controller.Dispatcher
}

// New creates an application with an empty controller tree.
func New(options ...Option) *Application {
	a := &Application{
		tree:         controller.NewTree(),
		rules:        validation.NewRegistry(),
		logger:       zap.NewNop(),
		assetsPrefix: DefaultAssetsPrefix,
	}
	for _, opt := range options {
		if opt != nil {
			opt(a)
		}
	}

	proxyOptions := []proxy.Option{
		proxy.WithURLBuilder(a.urls),
		proxy.WithLogger(a.logger.Named("proxy")),
		proxy.WithTemplateRenderer(a.renderer),
	}
	if a.cache != nil {
		proxyOptions = append(proxyOptions, proxy.WithCache(a.cache))
	}
	a.proxies = proxy.New(a.tree, proxyOptions...)
	a.dispatcher = controller.NewDispatcher(a.tree,
		controller.WithDispatcherURLs(a.urls),
		controller.WithDispatcherLogger(a.logger.Named("dispatcher")),
	)
	return a
}

// Tree returns the controller tree.
func (a *Application) Tree() *controller.Tree { return a.tree }

// URLs returns the action URL layout.
func (a *Application) URLs() controller.URLBuilder { return a.urls }

// Rules returns the validation registry.
func (a *Application) Rules() *validation.Registry { return a.rules }

// Proxies returns the proxy generator.
func (a *Application) Proxies() *proxy.Generator { return a.proxies }

// Register adds controller descriptors.
func (a *Application) Register(descs ...controller.Descriptor) error {
	return a.tree.RegisterAll(descs...)
}

// Attach binds a handler to an action declared by a loaded descriptor.
func (a *Application) Attach(area, controllerName, action string, handler controller.HandlerFunc) error {
	return a.tree.Attach(area, controllerName, action, handler)
}

// LoadControllers registers every descriptor file found in fsys.
func (a *Application) LoadControllers(fsys fs.FS) error {
	descs, err := controller.LoadFS(fsys)
	if err != nil {
		return err
	}
	return a.Register(descs...)
}

// LoadOpenAPI registers the controllers declared through x-extjs
// extensions of an OpenAPI document.
func (a *Application) LoadOpenAPI(ctx context.Context, src pkgopenapi.Source, options ...pkgopenapi.LoaderOption) error {
	doc, err := NewLoader(options...).Load(ctx, src)
	if err != nil {
		return fmt.Errorf("extjs: load openapi: %w", err)
	}
	descs, err := controller.LoadOpenAPI(ctx, doc)
	if err != nil {
		return err
	}
	a.logger.Debug("openapi controllers loaded",
		zap.String("source", doc.Location()),
		zap.Int("controllers", len(descs)),
	)
	return a.Register(descs...)
}

// Helper returns a request helper for an action invocation, wired to the
// application's proxies, validation rules and theme. It logs through the
// request scoped logger of ctx.
func (a *Application) Helper(ctx *controller.Context, options ...helper.Option) *helper.Helper {
	base := []helper.Option{
		helper.WithProxyGenerator(a.proxies),
		helper.WithValidation(a.rules),
		helper.WithTheme(a.theme),
		helper.WithTemplateRenderer(a.renderer),
		helper.WithURLBuilder(a.urls),
	}
	return helper.FromContext(ctx, append(base, options...)...)
}

// GenerateJSProxy returns the proxy script of area/controller.
func (a *Application) GenerateJSProxy(name, area, controllerName string) (string, error) {
	return a.proxies.GenerateJSProxy(name, area, controllerName)
}

// Handler serves the runtime assets under the assets prefix and dispatches
// every other request to the controllers.
func (a *Application) Handler() http.Handler {
	prefix := strings.TrimSpace(a.assetsPrefix)
	if prefix == "" {
		return a.dispatcher
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	mux := http.NewServeMux()
	mux.Handle(prefix, http.StripPrefix(prefix, http.FileServerFS(RuntimeAssetsFS())))
	mux.Handle("/", a.dispatcher)
	return mux
}
