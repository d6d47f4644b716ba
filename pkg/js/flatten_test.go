package js_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-extjs/pkg/js"
)

func TestFlatten(t *testing.T) {
	type addr struct {
		Street string
		State  string
	}
	type person struct {
		Name    string
		Age     int
		Address addr
		Tags    []string
	}

	dest := js.NewObject()
	if err := js.Flatten(dest, "contact", person{
		Name:    "Bob",
		Age:     21,
		Address: addr{Street: "123 Broadway Ave.", State: "NY"},
		Tags:    []string{"a", "b"},
	}); err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if err := js.Flatten(dest, "id", 7); err != nil {
		t.Fatalf("flatten scalar: %v", err)
	}

	wantKeys := []string{
		"contact.Name",
		"contact.Age",
		"contact.Address.Street",
		"contact.Address.State",
		"contact.Tags.0",
		"contact.Tags.1",
		"id",
	}
	if diff := cmp.Diff(wantKeys, dest.Keys()); diff != "" {
		t.Fatalf("flattened keys mismatch (-want +got):\n%s", diff)
	}

	if got, _ := dest.Get("contact.Age"); got != json.Number("21") {
		t.Fatalf("expected json.Number age, got %#v", got)
	}
	if got, _ := dest.Get("id"); got != 7 {
		t.Fatalf("expected scalar stored as is, got %#v", got)
	}

	out, err := js.Serialize(dest)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	want := `{"contact.Name":"Bob","contact.Age":21,"contact.Address.Street":"123 Broadway Ave.","contact.Address.State":"NY","contact.Tags.0":"a","contact.Tags.1":"b","id":7}`
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("serialized flatten mismatch (-want +got):\n%s", diff)
	}
}

func TestFlattenNilDestination(t *testing.T) {
	if err := js.Flatten(nil, "x", 1); err == nil {
		t.Fatalf("expected error for nil destination")
	}
}
