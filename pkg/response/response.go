package response

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-extjs/pkg/js"
)

// URLBuilder resolves action URLs for container redirects.
type URLBuilder interface {
	BuildURL(area, controller, action string) string
}

// Redirect tells the client-side container to load another URL after a form
// action completes.
type Redirect struct {
	URL    string
	Params map[string]any
}

// FormResponse is the payload consumed by the success and failure callbacks
// of Ext.form.Action. A response without errors is successful.
type FormResponse struct {
	urls       URLBuilder
	area       string
	controller string

	errors   *js.Object
	data     any
	redirect *Redirect
}

// New creates an empty response bound to the controller that produced it.
// urls may be nil when RedirectContainerToAction is never used.
func New(urls URLBuilder, area, controller string) *FormResponse {
	return &FormResponse{
		urls:       urls,
		area:       area,
		controller: controller,
		errors:     &js.Object{},
	}
}

// Errors exposes the field name to message mapping.
func (r *FormResponse) Errors() *js.Object {
	return r.errors
}

// AddError records a message for field. Repeated messages for the same field
// are joined.
func (r *FormResponse) AddError(field, message string) *FormResponse {
	field = strings.TrimSpace(field)
	message = strings.TrimSpace(message)
	if message == "" {
		return r
	}
	if field == "" {
		field = FormErrorKey
	}
	if existing, ok := r.errors.String(field); ok && existing != "" {
		if existing == message || strings.Contains(existing, message) {
			return r
		}
		message = existing + MessageSeparator + message
	}
	r.errors.Set(field, message)
	return r
}

// HasErrors reports whether any error was recorded.
func (r *FormResponse) HasErrors() bool {
	return r.errors.Len() > 0
}

// Success mirrors the "success" flag of the serialized payload.
func (r *FormResponse) Success() bool {
	return !r.HasErrors()
}

// LoadData sets the record returned to Ext.form.Action.Load on success.
func (r *FormResponse) LoadData(data any) *FormResponse {
	r.data = data
	return r
}

// Data returns the value passed to LoadData.
func (r *FormResponse) Data() any {
	return r.data
}

// RedirectContainer asks the client to reload the surrounding container from
// url, sending params along.
func (r *FormResponse) RedirectContainer(url string, params map[string]any) *FormResponse {
	r.redirect = &Redirect{URL: url, Params: params}
	return r
}

// RedirectContainerPairs is RedirectContainer with "key=value" parameters.
// A pair without "=" is sent with an empty value.
func (r *FormResponse) RedirectContainerPairs(url string, pairs ...string) *FormResponse {
	return r.RedirectContainer(url, pairsToMap(pairs))
}

// RedirectContainerToAction redirects the container to another action of
// the controller that created the response.
func (r *FormResponse) RedirectContainerToAction(action string, params map[string]any) *FormResponse {
	url := action
	if r.urls != nil {
		url = r.urls.BuildURL(r.area, r.controller, action)
	}
	return r.RedirectContainer(url, params)
}

// RedirectContainerToActionPairs is RedirectContainerToAction with
// "key=value" parameters.
func (r *FormResponse) RedirectContainerToActionPairs(action string, pairs ...string) *FormResponse {
	return r.RedirectContainerToAction(action, pairsToMap(pairs))
}

// Redirect returns the pending container redirect, or nil.
func (r *FormResponse) Redirect() *Redirect {
	return r.redirect
}

// ToJSON serializes the response in the shape Ext.form.Action expects:
// {"success":bool,"data"?:...,"errors"?:{...},"redirect"?:{"url","params"?}}.
// Data is only sent on success and errors only on failure. Redirect params
// are flattened so nested values travel as dotted request parameters.
func (r *FormResponse) ToJSON() (string, error) {
	out := &js.Object{}
	success := r.Success()
	out.Set("success", success)
	if success {
		if r.data != nil {
			out.Set("data", r.data)
		}
	} else {
		out.Set("errors", r.errors)
	}

	if r.redirect != nil && r.redirect.URL != "" {
		redirect := js.NewObject("url", r.redirect.URL)
		if r.redirect.Params != nil {
			params := &js.Object{}
			keys := make([]string, 0, len(r.redirect.Params))
			for key := range r.redirect.Params {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				if err := js.Flatten(params, key, r.redirect.Params[key]); err != nil {
					return "", fmt.Errorf("response: redirect params: %w", err)
				}
			}
			redirect.Set("params", params)
		}
		out.Set("redirect", redirect)
	}

	text, err := js.Serialize(out)
	if err != nil {
		return "", fmt.Errorf("response: serialize: %w", err)
	}
	return text, nil
}

func pairsToMap(pairs []string) map[string]any {
	if len(pairs) == 0 {
		return nil
	}
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, _ := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		out[key] = value
	}
	return out
}
