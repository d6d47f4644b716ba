package openapi

import (
	"context"
	"io/fs"
	"net/http"
)

// DefaultMaxDocumentSize caps how many bytes a Loader reads from one source.
const DefaultMaxDocumentSize int64 = 8 << 20

// Loader reads an OpenAPI document describing controllers from a Source.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}

// Parser extracts operations from a document, sorted by path then method.
type Parser interface {
	Operations(ctx context.Context, doc Document) ([]Operation, error)
}

// LoaderOptions configures how a Loader resolves sources.
type LoaderOptions struct {
	// FileSystem backs SourceKindFS sources.
	FileSystem fs.FS
	// HTTPClient backs SourceKindURL sources; URL sources fail without one.
	HTTPClient *http.Client
	// MaxDocumentSize rejects larger documents. Zero or less means
	// DefaultMaxDocumentSize.
	MaxDocumentSize int64
}

// LoaderOption mutates LoaderOptions.
type LoaderOption func(*LoaderOptions)

// WithFileSystem sets the fs.FS used by SourceKindFS sources.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.FileSystem = files
	}
}

// WithHTTPClient enables URL sources.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.HTTPClient = client
	}
}

// WithMaxDocumentSize overrides DefaultMaxDocumentSize.
func WithMaxDocumentSize(limit int64) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.MaxDocumentSize = limit
	}
}

// NewLoaderOptions applies options over the defaults.
func NewLoaderOptions(options ...LoaderOption) LoaderOptions {
	cfg := LoaderOptions{MaxDocumentSize: DefaultMaxDocumentSize}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.MaxDocumentSize <= 0 {
		cfg.MaxDocumentSize = DefaultMaxDocumentSize
	}
	return cfg
}

// ParserOptions configures parsing.
type ParserOptions struct {
	// ResolveReferences validates the document and resolves $ref pointers.
	ResolveReferences bool
	// TaggedOnly keeps only operations carrying the x-extjs extension.
	TaggedOnly bool
}

// ParserOption mutates ParserOptions.
type ParserOption func(*ParserOptions)

// WithReferenceResolution toggles validation and $ref resolution.
func WithReferenceResolution(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.ResolveReferences = enabled
	}
}

// WithTaggedOnly toggles dropping operations without x-extjs metadata.
func WithTaggedOnly(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.TaggedOnly = enabled
	}
}

// NewParserOptions applies options over the defaults, which resolve
// references and keep tagged operations only.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{ResolveReferences: true, TaggedOnly: true}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
