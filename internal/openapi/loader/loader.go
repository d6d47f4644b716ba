package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"

	pkgopenapi "github.com/goliatone/go-extjs/pkg/openapi"
)

// ErrDocumentTooLarge reports a source exceeding the configured size cap.
var ErrDocumentTooLarge = errors.New("openapi loader: document too large")

// Loader reads documents from local files, an fs.FS or HTTP.
type Loader struct {
	files  fs.FS
	client *http.Client
	limit  int64
}

var _ pkgopenapi.Loader = (*Loader)(nil)

// New builds a Loader from resolved options.
func New(options pkgopenapi.LoaderOptions) *Loader {
	limit := options.MaxDocumentSize
	if limit <= 0 {
		limit = pkgopenapi.DefaultMaxDocumentSize
	}
	return &Loader{
		files:  options.FileSystem,
		client: options.HTTPClient,
		limit:  limit,
	}
}

// Load reads src and parses it into a Document.
func (l *Loader) Load(ctx context.Context, src pkgopenapi.Source) (pkgopenapi.Document, error) {
	if src == nil {
		return pkgopenapi.Document{}, errors.New("openapi loader: source is nil")
	}
	location := src.Location()
	if location == "" {
		return pkgopenapi.Document{}, fmt.Errorf("openapi loader: %s source has no location", src.Kind())
	}
	if err := ctx.Err(); err != nil {
		return pkgopenapi.Document{}, err
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case pkgopenapi.SourceKindFile:
		data, err = l.readFile(location)
	case pkgopenapi.SourceKindFS:
		data, err = l.readFS(location)
	case pkgopenapi.SourceKindURL:
		data, err = l.fetch(ctx, location)
	default:
		err = fmt.Errorf("openapi loader: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return pkgopenapi.Document{}, err
	}
	return pkgopenapi.NewDocument(src, data)
}

func (l *Loader) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return l.readAll(f)
}

func (l *Loader) readFS(name string) ([]byte, error) {
	if l.files == nil {
		return nil, errors.New("openapi loader: filesystem is not configured")
	}
	f, err := l.files.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return l.readAll(f)
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	if l.client == nil {
		return nil, errors.New("openapi loader: http support disabled")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openapi loader: unexpected status %s", resp.Status)
	}
	return l.readAll(resp.Body)
}

func (l *Loader) readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > l.limit {
		return nil, ErrDocumentTooLarge
	}
	return data, nil
}
