// Package widgets names the ExtJS 2.0 form xtypes and picks one for a
// described field.
package widgets
