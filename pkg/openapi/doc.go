// Package openapi exposes the loader and parser contracts used to import
// controller actions from OpenAPI documents. Operations opt in through the
// x-extjs vendor extension. Implementations live under internal/openapi so
// kin-openapi stays out of the public API.
package openapi
