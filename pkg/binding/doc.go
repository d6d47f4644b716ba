// Package binding resolves dotted targets such as "contact.Address.Street"
// against the values a handler exposes to its view, and tracks the object
// scope prefixes a template pushes while emitting nested fields.
package binding
