// Package template defines the template engine contract used to render the
// JavaScript snippets (form panels, container updates, AJAX proxies).
package template
