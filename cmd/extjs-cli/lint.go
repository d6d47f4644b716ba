package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	extjs "github.com/goliatone/go-extjs"
	"github.com/goliatone/go-extjs/pkg/controller"
	pkgopenapi "github.com/goliatone/go-extjs/pkg/openapi"
)

var (
	operationKeys = map[string]bool{
		controller.ExtController: true,
		controller.ExtArea:       true,
		controller.ExtAction:     true,
		controller.ExtAjax:       true,
		controller.ExtAlias:      true,
	}
	parameterKeys = map[string]bool{
		controller.ExtBind:      true,
		controller.ExtFetch:     true,
		controller.ExtJSONEntry: true,
	}
)

type violation struct {
	file     string
	location string
	message  string
}

func (v violation) String() string {
	if v.location == "" {
		return v.file + ": " + v.message
	}
	return v.file + ": " + v.location + " -> " + v.message
}

func newLintCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Check descriptor tables and x-extjs metadata",
		Long: `Lint controller descriptor tables and OpenAPI documents. OpenAPI documents
are recognised by their top-level "openapi" key. Paths default to the
configured controllers and openapi sources.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				var err error
				if paths, err = c.configuredSources(); err != nil {
					return err
				}
			}
			if len(paths) == 0 {
				return fmt.Errorf("nothing to lint")
			}

			var violations []violation
			for _, path := range paths {
				found, err := lintFile(cmd.Context(), path)
				if err != nil {
					return fmt.Errorf("lint %s: %w", path, err)
				}
				violations = append(violations, found...)
			}
			return report(cmd.ErrOrStderr(), violations)
		},
	}
}

// configuredSources expands controller directories into their descriptor
// files.
func (c *cli) configuredSources() ([]string, error) {
	var out []string
	for _, dir := range c.settings.Controllers {
		for _, pattern := range []string{"*.yaml", "*.yml", "*.json"} {
			matches, err := filepath.Glob(filepath.Join(dir, pattern))
			if err != nil {
				return nil, err
			}
			out = append(out, matches...)
		}
	}
	for _, src := range c.settings.OpenAPI {
		if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
			out = append(out, src)
		}
	}
	sort.Strings(out)
	return out, nil
}

func report(w io.Writer, violations []violation) error {
	if len(violations) == 0 {
		return nil
	}
	sort.SliceStable(violations, func(i, j int) bool {
		if violations[i].file != violations[j].file {
			return violations[i].file < violations[j].file
		}
		return violations[i].location < violations[j].location
	})
	for _, v := range violations {
		fmt.Fprintln(w, v.String())
	}
	return fmt.Errorf("%d problem(s) found", len(violations))
}

func lintFile(ctx context.Context, path string) ([]violation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var head map[string]any
	if err := yaml.Unmarshal(raw, &head); err != nil {
		return []violation{{file: path, message: fmt.Sprintf("invalid document: %v", err)}}, nil
	}
	if _, ok := head["openapi"]; ok {
		return lintOpenAPI(ctx, path, raw)
	}

	if _, err := controller.ParseDescriptors(raw, path); err != nil {
		return []violation{{file: path, message: err.Error()}}, nil
	}
	return nil, nil
}

func lintOpenAPI(ctx context.Context, path string, raw []byte) ([]violation, error) {
	doc, err := pkgopenapi.NewDocument(pkgopenapi.SourceFromFile(path), raw)
	if err != nil {
		return nil, fmt.Errorf("construct document: %w", err)
	}
	parser := extjs.NewParser(pkgopenapi.WithReferenceResolution(false))
	ops, err := parser.Operations(ctx, doc)
	if err != nil {
		return []violation{{file: path, message: err.Error()}}, nil
	}

	var result []violation
	for _, op := range ops {
		location := "operation " + op.ID
		result = append(result, unknownKeys(path, location, op.Extensions, operationKeys)...)
		for _, param := range op.Parameters {
			result = append(result, unknownKeys(path, location+" > "+param.Name, param.Extensions, parameterKeys)...)
		}
		if strings.TrimSpace(op.Extension(controller.ExtController)) == "" {
			result = append(result, violation{file: path, location: location, message: "x-extjs metadata without a controller"})
			continue
		}
		if _, err := controller.DescriptorsFromOperations([]pkgopenapi.Operation{op}); err != nil {
			result = append(result, violation{file: path, location: location, message: err.Error()})
		}
	}
	return result, nil
}

func unknownKeys(file, location string, extensions map[string]string, allowed map[string]bool) []violation {
	keys := make([]string, 0, len(extensions))
	for key := range extensions {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var out []violation
	for _, key := range keys {
		if allowed[key] {
			continue
		}
		out = append(out, violation{
			file:     file,
			location: location,
			message:  fmt.Sprintf("unsupported x-extjs key %q", key),
		})
	}
	return out
}
