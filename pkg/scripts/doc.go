// Package scripts embeds the pongo2 templates that produce the JavaScript
// emitted by the helper and the proxy generator: AJAX proxies, form panel
// wiring, container updates, remote value requests and the ExtJS include
// tags. Template values are passed pre-serialized and written with the
// safe or jsstring filters.
package scripts
