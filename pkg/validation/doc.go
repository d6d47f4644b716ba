// Package validation declares field validation rules once and evaluates them
// twice: in the browser, by translating each rule into ExtJS field options
// through a Generator, and on the server, through Check and CheckAll.
//
// Rules can be registered explicitly or parsed from struct tags:
//
//	type ContactInfo struct {
//		Name  string `validate:"nonempty;length=3,50"`
//		Email string `validate:"nonempty;email"`
//		Again string `validate:"sameas=Email"`
//	}
//
//	reg := validation.NewRegistry()
//	_ = reg.Register("contact", ContactInfo{})
package validation
