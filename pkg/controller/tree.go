package controller

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// NotFoundError reports a controller missing from the tree.
type NotFoundError struct {
	Area string
	Name string
}

func (e *NotFoundError) Error() string {
	if e.Area == "" {
		return fmt.Sprintf("controller: %q not found", e.Name)
	}
	return fmt.Sprintf("controller: %q not found in area %q", e.Name, e.Area)
}

// Tree stores controller descriptors keyed by area and name. Lookups are
// case-insensitive.
type Tree struct {
	mu          sync.RWMutex
	descriptors map[string]Descriptor
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{
		descriptors: make(map[string]Descriptor),
	}
}

// Register adds a descriptor. Duplicate area/name pairs return an error.
func (t *Tree) Register(desc Descriptor) error {
	if err := desc.Validate(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	key := desc.Key()
	if _, exists := t.descriptors[key]; exists {
		return fmt.Errorf("controller: %q already registered", key)
	}
	desc.Actions = append([]Action(nil), desc.Actions...)
	t.descriptors[key] = desc
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (t *Tree) MustRegister(desc Descriptor) {
	if err := t.Register(desc); err != nil {
		panic(err)
	}
}

// Get retrieves a descriptor. Missing entries return *NotFoundError.
func (t *Tree) Get(area, name string) (Descriptor, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	desc, ok := t.descriptors[Key(area, name)]
	if !ok {
		return Descriptor{}, &NotFoundError{Area: area, Name: name}
	}
	return desc, nil
}

// List returns every descriptor sorted by area then name.
func (t *Tree) List() []Descriptor {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Descriptor, 0, len(t.descriptors))
	for _, desc := range t.descriptors {
		out = append(out, desc)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key() < out[j].Key()
	})
	return out
}

// Has reports whether a controller is registered.
func (t *Tree) Has(area, name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.descriptors[Key(area, name)]
	return ok
}

// Attach binds handler to an action of a registered controller. Descriptors
// loaded from files or OpenAPI documents carry no handlers until attached.
func (t *Tree) Attach(area, name, action string, handler HandlerFunc) error {
	if handler == nil {
		return fmt.Errorf("controller: handler for %s.%s is nil", name, action)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	key := Key(area, name)
	desc, ok := t.descriptors[key]
	if !ok {
		return &NotFoundError{Area: area, Name: name}
	}
	for idx := range desc.Actions {
		if strings.EqualFold(desc.Actions[idx].Name, action) {
			desc.Actions[idx].Handler = handler
			t.descriptors[key] = desc
			return nil
		}
	}
	return fmt.Errorf("controller: %s has no action %q", key, action)
}
