package extjs

import (
	"github.com/goliatone/go-extjs/internal/openapi/loader"
	"github.com/goliatone/go-extjs/internal/openapi/parser"
	pkgopenapi "github.com/goliatone/go-extjs/pkg/openapi"
)

// NewLoader returns a loader for OpenAPI documents declaring controllers.
func NewLoader(options ...pkgopenapi.LoaderOption) pkgopenapi.Loader {
	return loader.New(pkgopenapi.NewLoaderOptions(options...))
}

// NewParser returns a parser extracting x-extjs operations. References are
// resolved and untagged operations dropped unless options say otherwise.
func NewParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	return parser.New(pkgopenapi.NewParserOptions(options...))
}
