package controller

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-extjs/internal/openapi/parser"
	pkgopenapi "github.com/goliatone/go-extjs/pkg/openapi"
)

// Extension keys read from x-extjs operation metadata.
const (
	ExtController = "controller"
	ExtArea       = "area"
	ExtAction     = "action"
	ExtAjax       = "ajax"
	ExtAlias      = "alias"
	ExtBind       = "bind"
	ExtFetch      = "fetch"
	ExtJSONEntry  = "json"
)

// LoadOpenAPI builds descriptors from the operations of doc that carry
// x-extjs metadata naming a controller. The action defaults to the operation
// id and the verb to the HTTP method.
func LoadOpenAPI(ctx context.Context, doc pkgopenapi.Document, options ...pkgopenapi.ParserOption) ([]Descriptor, error) {
	ops, err := parser.New(pkgopenapi.NewParserOptions(options...)).Operations(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("controller: %w", err)
	}
	return DescriptorsFromOperations(ops)
}

// DescriptorsFromOperations groups operations into descriptors, preserving
// the first-seen order of controllers and actions.
func DescriptorsFromOperations(ops []pkgopenapi.Operation) ([]Descriptor, error) {
	var out []Descriptor
	index := make(map[string]int)

	for _, op := range ops {
		name := strings.TrimSpace(op.Extension(ExtController))
		if name == "" {
			continue
		}
		area := strings.TrimSpace(op.Extension(ExtArea))

		action, err := actionFromOperation(op)
		if err != nil {
			return nil, err
		}

		key := Key(area, name)
		pos, ok := index[key]
		if !ok {
			pos = len(out)
			index[key] = pos
			out = append(out, Descriptor{Area: area, Name: name})
		}
		out[pos].Actions = append(out[pos].Actions, action)
	}

	for _, desc := range out {
		if err := desc.Validate(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func actionFromOperation(op pkgopenapi.Operation) (Action, error) {
	verb, err := ParseVerb(op.Method)
	if err != nil {
		return Action{}, fmt.Errorf("controller: operation %s: %w", op.ID, err)
	}

	action := Action{
		Name:    strings.TrimSpace(op.Extension(ExtAction)),
		Alias:   strings.TrimSpace(op.Extension(ExtAlias)),
		Verb:    verb,
		Summary: op.Summary,
	}
	if action.Name == "" {
		action.Name = op.ID
	}
	if raw := strings.TrimSpace(op.Extension(ExtAjax)); raw != "" {
		ajax, err := strconv.ParseBool(raw)
		if err != nil {
			return Action{}, fmt.Errorf("controller: operation %s: invalid ajax flag %q", op.ID, raw)
		}
		action.Ajax = ajax
	}

	for _, param := range op.Parameters {
		if param.In == "header" || param.In == "cookie" {
			continue
		}
		action.Params = append(action.Params, Param{
			Name:      param.Name,
			Bind:      param.Extensions[ExtBind],
			Fetch:     param.Extensions[ExtFetch],
			JSONEntry: param.Extensions[ExtJSONEntry],
		})
	}
	return action, nil
}
