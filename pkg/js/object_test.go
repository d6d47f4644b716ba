package js_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-extjs/pkg/js"
)

func TestObjectOrderAndMutation(t *testing.T) {
	obj := js.NewObject("b", 1, "a", 2)
	obj.Set("c", 3)
	obj.Set("b", 10)
	obj.SetIfMissing("a", 99)

	if diff := cmp.Diff([]string{"b", "a", "c"}, obj.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if v, _ := obj.Get("b"); v != 10 {
		t.Fatalf("expected overwrite to keep position with new value, got %v", v)
	}

	if v, ok := obj.Take("a"); !ok || v != 2 {
		t.Fatalf("take returned %v %v", v, ok)
	}
	if obj.Has("a") || obj.Len() != 2 {
		t.Fatalf("take should remove the key")
	}

	clone := obj.Clone()
	clone.Set("d", 4)
	if obj.Has("d") {
		t.Fatalf("clone must not share storage")
	}
}

func TestObjectTextHelpers(t *testing.T) {
	obj := js.NewObject("id", "form1", "count", 3, "empty", nil, "flag", "True")

	if got := obj.StringOr("count", "x"); got != "3" {
		t.Fatalf("StringOr count = %q", got)
	}
	if got := obj.StringOr("empty", "def"); got != "def" {
		t.Fatalf("nil entries are missing, got %q", got)
	}
	if got := obj.TakeString("id", ""); got != "form1" || obj.Has("id") {
		t.Fatalf("TakeString = %q", got)
	}
	if !obj.TakeBool("flag") || obj.Has("flag") {
		t.Fatalf("TakeBool should parse and remove the flag")
	}
	if obj.TakeBool("missing") {
		t.Fatalf("missing flags are false")
	}
}

func TestNilObjectReads(t *testing.T) {
	var obj *js.Object
	if obj.Len() != 0 || obj.Has("x") || obj.Keys() != nil {
		t.Fatalf("nil object should read as empty")
	}
	if got, _ := js.Serialize(obj); got != "null" {
		t.Fatalf("nil object serializes as null, got %s", got)
	}
}

func TestObjectFromMap(t *testing.T) {
	obj := js.ObjectFromMap(map[string]any{"z": 1, "a": 2})
	if diff := cmp.Diff([]string{"a", "z"}, obj.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"z": 1, "a": 2}, obj.Map()); diff != "" {
		t.Fatalf("map mismatch (-want +got):\n%s", diff)
	}
}
