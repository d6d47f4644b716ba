package binding

import "strings"

// Scope is a stack of object prefixes. While a prefix is pushed, relative
// targets are rewritten under it so nested fields bind to "contact.Name"
// when the template only names "Name".
type Scope struct {
	stack []string
}

// Push opens a new scope. Nested pushes are relative to the current one.
func (s *Scope) Push(target string) {
	s.stack = append(s.stack, s.Rewrite(target))
}

// Pop closes the innermost scope and returns its prefix.
func (s *Scope) Pop() (string, bool) {
	if len(s.stack) == 0 {
		return "", false
	}
	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return top, true
}

// Current returns the innermost prefix or an empty string.
func (s *Scope) Current() string {
	if len(s.stack) == 0 {
		return ""
	}
	return s.stack[len(s.stack)-1]
}

// Depth returns the number of open scopes.
func (s *Scope) Depth() int {
	return len(s.stack)
}

// Rewrite prefixes target with the current scope when one is open.
func (s *Scope) Rewrite(target string) string {
	target = strings.TrimSpace(target)
	current := s.Current()
	if current == "" {
		return target
	}
	if target == "" {
		return current
	}
	return current + "." + target
}
