package parser

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	pkgmodel "github.com/goliatone/go-extjs/pkg/model"
	pkgopenapi "github.com/goliatone/go-extjs/pkg/openapi"
)

// Parser implements pkgopenapi.Parser using kin-openapi.
type Parser struct {
	options pkgopenapi.ParserOptions
}

var _ pkgopenapi.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options pkgopenapi.ParserOptions) *Parser {
	return &Parser{options: options}
}

var methodOrder = map[string]int{
	"GET": 0, "POST": 1, "PUT": 2, "PATCH": 3, "DELETE": 4, "HEAD": 5, "OPTIONS": 6, "TRACE": 7,
}

// Operations extracts the operations of doc, sorted by path then method.
func (p *Parser) Operations(ctx context.Context, doc pkgopenapi.Document) ([]pkgopenapi.Operation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: p.options.ResolveReferences,
	}
	api, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load document: %w", err)
	}
	if p.options.ResolveReferences {
		if err := api.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi parser: validate: %w", err)
		}
	}

	var out []pkgopenapi.Operation
	if api.Paths != nil {
		for path, item := range api.Paths.Map() {
			if item == nil {
				continue
			}
			for method, operation := range item.Operations() {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				op, ok := p.convertOperation(strings.ToUpper(method), path, item, operation)
				if ok {
					out = append(out, op)
				}
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return methodOrder[out[i].Method] < methodOrder[out[j].Method]
	})
	return out, nil
}

func (p *Parser) convertOperation(method, path string, item *openapi3.PathItem, operation *openapi3.Operation) (pkgopenapi.Operation, bool) {
	if operation == nil {
		return pkgopenapi.Operation{}, false
	}
	extensions := pkgmodel.ParseExtensions(operation.Extensions)
	if p.options.TaggedOnly && len(extensions) == 0 {
		return pkgopenapi.Operation{}, false
	}

	id := operation.OperationID
	if id == "" {
		id = strings.ToLower(method) + ":" + path
	}

	op := pkgopenapi.Operation{
		ID:         id,
		Method:     method,
		Path:       path,
		Summary:    operation.Summary,
		Extensions: extensions,
	}

	seen := make(map[string]struct{})
	// Operation-level parameters override path-item ones with the same name.
	for _, params := range []openapi3.Parameters{operation.Parameters, item.Parameters} {
		for _, ref := range params {
			if ref == nil || ref.Value == nil {
				continue
			}
			name := ref.Value.Name
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			op.Parameters = append(op.Parameters, pkgopenapi.Parameter{
				Name:       name,
				In:         ref.Value.In,
				Required:   ref.Value.Required,
				Extensions: pkgmodel.ParseExtensions(ref.Value.Extensions),
			})
		}
	}
	op.Parameters = append(op.Parameters, bodyParameters(operation.RequestBody, seen)...)
	return op, true
}

// bodyParameters turns the top-level properties of a form or JSON request
// body into parameters, sorted by name.
func bodyParameters(body *openapi3.RequestBodyRef, seen map[string]struct{}) []pkgopenapi.Parameter {
	if body == nil || body.Value == nil {
		return nil
	}

	var schema *openapi3.Schema
	for _, mediaType := range []string{"application/x-www-form-urlencoded", "multipart/form-data", "application/json"} {
		if mt, ok := body.Value.Content[mediaType]; ok && mt != nil && mt.Schema != nil && mt.Schema.Value != nil {
			schema = mt.Schema.Value
			break
		}
	}
	if schema == nil || len(schema.Properties) == 0 {
		return nil
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		if _, dup := seen[name]; dup {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]pkgopenapi.Parameter, 0, len(names))
	for _, name := range names {
		param := pkgopenapi.Parameter{
			Name:     name,
			In:       "body",
			Required: required[name],
		}
		if ref := schema.Properties[name]; ref != nil && ref.Value != nil {
			param.Extensions = pkgmodel.ParseExtensions(ref.Value.Extensions)
		}
		out = append(out, param)
	}
	return out
}
