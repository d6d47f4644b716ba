package template

import (
	"io"
)

// TemplateRenderer is the seam script generators render through. Name
// lookups resolve against the engine's template sources; RenderString parses
// ad-hoc content.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
