package parser

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	pkgopenapi "github.com/goliatone/go-extjs/pkg/openapi"
)

func loadContactDocument(t *testing.T) pkgopenapi.Document {
	t.Helper()
	path := filepath.Join("testdata", "contact.yaml")
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return pkgopenapi.MustNewDocument(pkgopenapi.SourceFromFile(path), raw)
}

func TestParserOperations_TaggedOnly(t *testing.T) {
	parser := New(pkgopenapi.NewParserOptions())

	got, err := parser.Operations(context.Background(), loadContactDocument(t))
	if err != nil {
		t.Fatalf("operations: %v", err)
	}

	want := []pkgopenapi.Operation{
		{
			ID:     "contactIndex",
			Method: "GET",
			Path:   "/contact/index.ext",
			Extensions: map[string]string{
				"controller": "Contact",
				"action":     "Index",
			},
		},
		{
			ID:     "loadContact",
			Method: "POST",
			Path:   "/contact/load.ext",
			Extensions: map[string]string{
				"controller": "Contact",
				"action":     "Load",
				"ajax":       "true",
			},
			Parameters: []pkgopenapi.Parameter{
				{Name: "id", In: "query", Required: true},
				{Name: "filter", In: "query", Extensions: map[string]string{"json": "filterJson"}},
			},
		},
		{
			ID:      "sendContact",
			Method:  "POST",
			Path:    "/contact/sendContact.ext",
			Summary: "Submit the contact form",
			Extensions: map[string]string{
				"controller": "Contact",
				"action":     "SendContact",
				"ajax":       "true",
			},
			Parameters: []pkgopenapi.Parameter{
				{Name: "contact", In: "body", Required: true, Extensions: map[string]string{"bind": "contact"}},
			},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("operations mismatch (-want +got):\n%s", diff)
	}
}

func TestParserOperations_IncludesUntagged(t *testing.T) {
	parser := New(pkgopenapi.NewParserOptions(pkgopenapi.WithTaggedOnly(false)))

	got, err := parser.Operations(context.Background(), loadContactDocument(t))
	if err != nil {
		t.Fatalf("operations: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 operations, got %d", len(got))
	}
	if got[3].ID != "health" || got[3].Extensions != nil {
		t.Fatalf("expected untagged health operation last, got %+v", got[3])
	}
}

func TestParserOperations_RejectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(pkgopenapi.NewParserOptions()).Operations(ctx, loadContactDocument(t)); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}
