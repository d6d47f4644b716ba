// Package controller holds the explicit registration table of controllers
// and their actions, the loaders that fill it from YAML/JSON descriptor files
// or OpenAPI documents, and an http.Handler that dispatches
// "[area/]controller/action.ext" requests to registered handlers.
//
// Actions flagged as AJAX are the ones exposed through generated JavaScript
// proxies and have their results rendered as JavaScript values.
package controller
