package binding_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-extjs/pkg/binding"
	"github.com/goliatone/go-extjs/pkg/js"
)

type address struct {
	Street string `json:"street"`
	City   string
}

type contact struct {
	Name    string
	Address *address
	Phones  []string
	Extra   map[string]int
}

func TestPropertyBagLookup(t *testing.T) {
	bag := binding.PropertyBag{
		"contact": contact{
			Name:    "Bob",
			Address: &address{Street: "Broadway", City: "NYC"},
			Phones:  []string{"555-1", "555-2"},
			Extra:   map[string]int{"Visits": 3},
		},
		"config":    js.NewObject("title", "Hello"),
		"flat.key":  "direct",
		"countries": []map[string]any{{"code": "CL"}},
		"nilPtr":    (*address)(nil),
	}

	tests := []struct {
		target string
		want   any
		found  bool
	}{
		{target: "contact.Name", want: "Bob", found: true},
		{target: "contact.name", want: "Bob", found: true},
		{target: "contact.Address.street", want: "Broadway", found: true},
		{target: "contact.address.city", want: "NYC", found: true},
		{target: "contact.Phones.1", want: "555-2", found: true},
		{target: "contact.Phones.9", found: false},
		{target: "contact.Extra.visits", want: 3, found: true},
		{target: "config.Title", want: "Hello", found: true},
		{target: "flat.key", want: "direct", found: true},
		{target: "countries.0.code", want: "CL", found: true},
		{target: "nilPtr.Street", found: false},
		{target: "missing", found: false},
		{target: "", found: false},
	}

	for _, tt := range tests {
		got, ok := bag.Lookup(tt.target)
		if ok != tt.found {
			t.Errorf("Lookup(%q) found = %v, want %v", tt.target, ok, tt.found)
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Lookup(%q) mismatch (-want +got):\n%s", tt.target, diff)
		}
	}
}

func TestScope(t *testing.T) {
	var scope binding.Scope
	if got := scope.Rewrite("Name"); got != "Name" {
		t.Fatalf("empty scope should not rewrite, got %q", got)
	}

	scope.Push("contact")
	scope.Push("Address")
	if got := scope.Rewrite("Street"); got != "contact.Address.Street" {
		t.Fatalf("nested rewrite = %q", got)
	}
	if scope.Depth() != 2 {
		t.Fatalf("depth = %d", scope.Depth())
	}

	if top, ok := scope.Pop(); !ok || top != "contact.Address" {
		t.Fatalf("pop = %q %v", top, ok)
	}
	if got := scope.Rewrite("Name"); got != "contact.Name" {
		t.Fatalf("rewrite after pop = %q", got)
	}
	scope.Pop()
	if _, ok := scope.Pop(); ok {
		t.Fatalf("pop on empty scope should report false")
	}
}
