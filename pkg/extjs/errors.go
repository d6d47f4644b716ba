package extjs

import (
	"errors"
	"fmt"
)

// ErrNoActiveForm is returned by field and form panel generators called
// outside a BeginForm/EndForm pair.
var ErrNoActiveForm = errors.New("extjs: no active form, call BeginForm first")

// ErrFormAlreadyOpen is returned by BeginForm while another form is open.
var ErrFormAlreadyOpen = errors.New("extjs: a form is already open, call EndForm first")

// ErrNoProxyGenerator is returned by the GenerateJSProxy family when the
// helper was built without WithProxyGenerator.
var ErrNoProxyGenerator = errors.New("extjs: proxy generator not configured")

// ConfigConflictError reports a config option that collides with a value the
// helper assigns itself.
type ConfigConflictError struct {
	Option string
	Hint   string
}

func (e *ConfigConflictError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("extjs: config option %q is assigned automatically", e.Option)
	}
	return fmt.Sprintf("extjs: config option %q is assigned automatically: %s", e.Option, e.Hint)
}
