package scripts

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/goliatone/go-extjs/pkg/render/template"
	gotemplate "github.com/goliatone/go-extjs/pkg/render/template/gotemplate"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// Template names, resolved against TemplatesFS.
const (
	Proxy       = "proxy"
	FormPanel   = "formpanel"
	Container   = "container"
	RemoteValue = "remotevalue"
	Includes    = "includes"
)

// TemplatesFS exposes the embedded script templates so callers can override
// individual files by layering their own fs.FS.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// NewRenderer builds a template engine over the embedded templates. Extra
// options are applied after the embedded FS, so WithBaseDir can shadow
// individual templates.
func NewRenderer(options ...gotemplate.Option) (template.TemplateRenderer, error) {
	opts := make([]gotemplate.Option, 0, len(options)+1)
	opts = append(opts, options...)
	opts = append(opts, gotemplate.WithFS(TemplatesFS()))
	engine, err := gotemplate.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("scripts: configure template renderer: %w", err)
	}
	return engine, nil
}

var (
	defaultOnce     sync.Once
	defaultRenderer template.TemplateRenderer
	defaultErr      error
)

// Default returns a shared renderer over the embedded templates.
func Default() (template.TemplateRenderer, error) {
	defaultOnce.Do(func() {
		defaultRenderer, defaultErr = NewRenderer()
	})
	return defaultRenderer, defaultErr
}

// Render executes a named script template, dropping the trailing newline
// left by the template file.
func Render(renderer template.TemplateRenderer, name string, data any) (string, error) {
	if renderer == nil {
		var err error
		if renderer, err = Default(); err != nil {
			return "", err
		}
	}
	out, err := renderer.RenderTemplate(name, data)
	if err != nil {
		return "", fmt.Errorf("scripts: render %s: %w", name, err)
	}
	return strings.TrimRight(out, "\n"), nil
}
