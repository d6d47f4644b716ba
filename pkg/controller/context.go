package controller

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-extjs/pkg/binding"
	"github.com/goliatone/go-extjs/pkg/response"
)

// Context carries one action invocation.
type Context struct {
	Request *http.Request
	Writer  http.ResponseWriter

	Area       string
	Controller string
	Action     Action
	URLs       URLBuilder
	Logger     *zap.Logger
	RequestID  string

	bag          binding.PropertyBag
	bindErrors   map[string]string
	formResponse *response.FormResponse
	written      bool
}

// NewContext builds a Context outside of the dispatcher, mostly for tests
// and for rendering views directly.
func NewContext(w http.ResponseWriter, r *http.Request, area, controller string, action Action) *Context {
	return &Context{
		Request:    r,
		Writer:     w,
		Area:       area,
		Controller: controller,
		Action:     action,
		Logger:     zap.NewNop(),
	}
}

// Context returns the request context.
func (c *Context) Context() context.Context {
	if c.Request == nil {
		return context.Background()
	}
	return c.Request.Context()
}

// Values returns the merged query and body parameters.
func (c *Context) Values() url.Values {
	if c.Request == nil {
		return nil
	}
	if c.Request.Form == nil {
		if err := c.Request.ParseMultipartForm(32 << 20); err != nil && err != http.ErrNotMultipart {
			c.Logger.Debug("parse form", zap.Error(err))
		}
	}
	return c.Request.Form
}

// Form returns the first value of a request parameter.
func (c *Context) Form(name string) string {
	values := c.Values()
	if values == nil {
		return ""
	}
	return values.Get(name)
}

// Bag returns the property bag shared with the view. It starts with every
// request parameter: single values as strings, repeated ones as []string.
func (c *Context) Bag() binding.PropertyBag {
	if c.bag == nil {
		c.bag = make(binding.PropertyBag)
		for key, values := range c.Values() {
			switch len(values) {
			case 0:
			case 1:
				c.bag[key] = values[0]
			default:
				c.bag[key] = append([]string(nil), values...)
			}
		}
	}
	return c.bag
}

// Set stores a value in the property bag.
func (c *Context) Set(key string, value any) {
	c.Bag().Set(key, value)
}

// URL builds the URL of another action of the current controller.
func (c *Context) URL(action string) string {
	return c.URLs.BuildURL(c.Area, c.Controller, action)
}

// FormResponse returns the response for Ext.form.Action callers. Errors
// recorded by Bind are already present.
func (c *Context) FormResponse() *response.FormResponse {
	if c.formResponse == nil {
		c.formResponse = response.New(c.URLs, c.Area, c.Controller)
		keys := make([]string, 0, len(c.bindErrors))
		for key := range c.bindErrors {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			c.formResponse.AddError(key, c.bindErrors[key])
		}
	}
	return c.formResponse
}

// BindErrors returns conversion failures recorded by Bind, keyed by
// parameter path.
func (c *Context) BindErrors() map[string]string {
	return c.bindErrors
}

// Write sends raw text and marks the response as handled.
func (c *Context) Write(contentType, body string) error {
	if contentType != "" {
		c.Writer.Header().Set("Content-Type", contentType)
	}
	c.written = true
	_, err := c.Writer.Write([]byte(body))
	return err
}

// Bind fills dest, a pointer to a struct, from the request parameters named
// "<prefix>.<Field>". Field names follow json tags and match
// case-insensitively. Values that fail to convert are recorded and reported
// through a *BindError.
func (c *Context) Bind(prefix string, dest any) error {
	failures, err := bindValues(c.Values(), prefix, dest)
	if err != nil {
		return err
	}
	if len(failures) == 0 {
		return nil
	}
	if c.bindErrors == nil {
		c.bindErrors = make(map[string]string, len(failures))
	}
	for key, msg := range failures {
		c.bindErrors[key] = msg
		if c.formResponse != nil {
			c.formResponse.AddError(key, msg)
		}
	}
	return &BindError{Prefix: prefix, Fields: failures}
}

// BindError lists the parameters Bind could not convert.
type BindError struct {
	Prefix string
	Fields map[string]string
}

func (e *BindError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("controller: bind %q: invalid %s", e.Prefix, strings.Join(names, ", "))
}
