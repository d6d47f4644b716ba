// Package model defines the field description shared by the widget registry
// and the validation layer. A Field records the value kind, its label and the
// canonical validation rules (nonEmpty, email, length, range, regexp, sameAs,
// ...) whose bounds travel as string parameters so descriptor files and
// OpenAPI extensions can carry them without losing precision. Metadata holds
// free-form hints such as an explicit "xtype" or "maxLength".
package model
