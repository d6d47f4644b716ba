package js

// Literal is JavaScript source that Serialize emits unquoted and unescaped.
//
//	button := js.NewObject(
//		"text", "Click me",
//		"handler", js.Literal("function(){alert('hi!');}"),
//	)
//	// {"text":"Click me","handler":function(){alert('hi!');}}
type Literal string

// String returns the raw JavaScript source.
func (l Literal) String() string {
	return string(l)
}

// Identifier returns a Literal referencing a JavaScript identifier or member
// expression (for example "Ext.form.VTypes").
func Identifier(name string) Literal {
	return Literal(name)
}

// Call returns a Literal invoking fn with the already serialized arguments.
func Call(fn string, args ...string) Literal {
	out := fn + "("
	for idx, arg := range args {
		if idx > 0 {
			out += ","
		}
		out += arg
	}
	return Literal(out + ")")
}
