// Package extjs generates the JavaScript a view needs to build ExtJS 2.0
// forms bound to server-side values and validation rules.
//
// A Helper is created per request, usually through FromContext inside an
// action handler:
//
//	h := extjs.FromContext(ctx, extjs.WithValidation(rules))
//	h.BeginForm(nil)
//	name, _ := h.TextField("contact.Name", js.NewObject("fieldLabel", "Name"))
//	email, _ := h.TextField("contact.Email", nil)
//	panel, _ := h.FormPanel(js.NewObject(
//		"url", ctx.URL("sendcontact"),
//		"items", js.Array{name, email},
//	))
//	focus := h.EndForm()
//
// Field generators need an open form and return ErrNoActiveForm otherwise.
// Views loaded through Ext.ux.Container receive the id of the hosting
// component in the ContainerIDParam request parameter; FormPanel uses it to
// follow redirects returned by the action and Container to update the
// hosting window.
package extjs
