package controller

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-extjs/pkg/js"
)

// RequestIDHeader carries the request id echoed by the dispatcher.
const RequestIDHeader = "X-Request-Id"

// JSONResponder is implemented by results that serialize themselves, such
// as *response.FormResponse.
type JSONResponder interface {
	ToJSON() (string, error)
}

// Dispatcher routes "[area/]controller/action.<ext>" requests below the
// application path to registered action handlers.
type Dispatcher struct {
	tree   *Tree
	urls   URLBuilder
	logger *zap.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherLogger sets the logger used for request and failure logs.
func WithDispatcherLogger(logger *zap.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithDispatcherURLs sets the URL layout handlers and routing use.
func WithDispatcherURLs(urls URLBuilder) DispatcherOption {
	return func(d *Dispatcher) {
		d.urls = urls
	}
}

// NewDispatcher creates a dispatcher over tree.
func NewDispatcher(tree *Tree, options ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		tree:   tree,
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Route is a resolved request path.
type Route struct {
	Area       string
	Controller string
	Action     string
}

// Match splits path into area, controller and action. It reports false when
// the path is outside the application path or lacks the action extension.
func (d *Dispatcher) Match(path string) (Route, bool) {
	base := strings.TrimRight(d.urls.ApplicationPath, "/")
	if base != "" {
		if !strings.HasPrefix(path, base+"/") {
			return Route{}, false
		}
		path = strings.TrimPrefix(path, base)
	}
	suffix := "." + d.urls.extension()
	if !strings.HasSuffix(path, suffix) {
		return Route{}, false
	}
	path = strings.Trim(strings.TrimSuffix(path, suffix), "/")

	parts := strings.Split(path, "/")
	for _, part := range parts {
		if part == "" {
			return Route{}, false
		}
	}
	switch len(parts) {
	case 2:
		return Route{Controller: parts[0], Action: parts[1]}, true
	case 3:
		return Route{Area: parts[0], Controller: parts[1], Action: parts[2]}, true
	}
	return Route{}, false
}

// ServeHTTP implements http.Handler.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := r.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	w.Header().Set(RequestIDHeader, requestID)
	logger := d.logger.With(
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	route, ok := d.Match(r.URL.Path)
	if !ok {
		logger.Debug("no route")
		http.NotFound(w, r)
		return
	}

	desc, err := d.tree.Get(route.Area, route.Controller)
	if err != nil {
		logger.Debug("controller not found", zap.Error(err))
		http.NotFound(w, r)
		return
	}
	action, ok := desc.Action(route.Action)
	if !ok {
		logger.Debug("action not found", zap.String("action", route.Action))
		http.NotFound(w, r)
		return
	}
	if !action.Verb.Allows(r.Method) {
		w.Header().Set("Allow", string(action.Verb))
		http.Error(w, fmt.Sprintf("action %s requires %s", action.Name, action.Verb), http.StatusMethodNotAllowed)
		return
	}
	if action.Handler == nil {
		logger.Error("action has no handler", zap.String("controller", desc.Name), zap.String("action", action.Name))
		http.Error(w, "action not implemented", http.StatusNotImplemented)
		return
	}

	ctx := &Context{
		Request:    r,
		Writer:     w,
		Area:       desc.Area,
		Controller: desc.Name,
		Action:     action,
		URLs:       d.urls,
		Logger:     logger,
		RequestID:  requestID,
	}

	result, err := action.Handler(ctx)
	if err != nil {
		logger.Error("action failed",
			zap.String("controller", desc.Name),
			zap.String("action", action.Name),
			zap.Error(err),
		)
		if !ctx.written {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}
	if ctx.written {
		return
	}

	text, ok, err := RenderResult(action.Ajax, result)
	if err != nil {
		logger.Error("render result", zap.String("action", action.Name), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if ok {
		if action.Ajax {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
		} else {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
		}
		if _, err := w.Write([]byte(text)); err != nil {
			logger.Debug("write response", zap.Error(err))
		}
	}
	logger.Debug("action served",
		zap.String("controller", desc.Name),
		zap.String("action", action.Name),
		zap.Duration("elapsed", time.Since(start)),
	)
}

// RenderResult converts an action result into response text. AJAX results
// become JavaScript values: nil and scalars directly, JSONResponder through
// ToJSON and anything else through js.Serialize. Other results are written
// as text when non-nil. The bool is false when nothing should be written.
func RenderResult(ajax bool, result any) (string, bool, error) {
	if ajax {
		if responder, ok := result.(JSONResponder); ok && responder != nil {
			text, err := responder.ToJSON()
			return text, err == nil, err
		}
		text, err := js.Serialize(result)
		if err != nil {
			return "", false, fmt.Errorf("controller: serialize result: %w", err)
		}
		return text, true, nil
	}

	switch typed := result.(type) {
	case nil:
		return "", false, nil
	case string:
		return typed, true, nil
	case []byte:
		return string(typed), true, nil
	case fmt.Stringer:
		return typed.String(), true, nil
	}
	return fmt.Sprint(result), true, nil
}
