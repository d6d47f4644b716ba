package extjs

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans user supplied HTML. *bluemonday.Policy satisfies it.
type Sanitizer interface {
	Sanitize(html string) string
}

var (
	defaultPolicyOnce sync.Once
	defaultPolicy     *bluemonday.Policy
)

// DefaultSanitizer returns the shared bluemonday UGC policy.
func DefaultSanitizer() Sanitizer {
	defaultPolicyOnce.Do(func() {
		defaultPolicy = bluemonday.UGCPolicy()
	})
	return defaultPolicy
}

func (h *Helper) sanitize(value any) any {
	text, ok := value.(string)
	if !ok || text == "" {
		return value
	}
	return h.sanitizer.Sanitize(text)
}
