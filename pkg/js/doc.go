// Package js turns Go values into JavaScript source text suitable for
// embedding in generated scripts.
//
// The output is JSON for every value encoding/json can express, with three
// extensions that only make sense for JavaScript: Literal values are written
// verbatim (function declarations, constructor calls, identifiers), time.Time
// values become `new Date(<millis>)`, and non-finite floats are written as
// NaN/Infinity. Object keeps the insertion order of its keys so generated
// widget configs are deterministic and read the way they were built.
package js
