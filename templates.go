package extjs

import (
	"io/fs"

	"github.com/goliatone/go-extjs/pkg/scripts"
)

// EmbeddedTemplates exposes the built-in script templates so callers can copy
// them into a base directory and override individual files through
// gotemplate.WithBaseDir.
func EmbeddedTemplates() fs.FS {
	return scripts.TemplatesFS()
}
