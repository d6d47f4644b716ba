package js_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-extjs/pkg/js"
)

type address struct {
	Street string `json:"street"`
	State  string `json:"state,omitempty"`
}

type contact struct {
	Name    string   `json:"name"`
	Age     int      `json:"age"`
	Secret  string   `json:"-"`
	Address *address `json:"address,omitempty"`
	Tags    []string `json:"tags"`
	hidden  string
}

type audited struct {
	address
	Version int
}

type node struct {
	Next *node
}

func TestSerialize(t *testing.T) {
	when := time.Date(2008, time.January, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "nil", value: nil, want: "null"},
		{name: "bool", value: true, want: "true"},
		{name: "int", value: -42, want: "-42"},
		{name: "uint", value: uint8(7), want: "7"},
		{name: "float", value: 1.5, want: "1.5"},
		{name: "string escapes", value: "a\"b</script>", want: `"a\"b\u003c/script\u003e"`},
		{name: "nan", value: math.NaN(), want: "NaN"},
		{name: "infinity", value: math.Inf(1), want: "Infinity"},
		{name: "negative infinity", value: math.Inf(-1), want: "-Infinity"},
		{name: "date", value: when, want: "new Date(1199243045000)"},
		{name: "json number", value: json.Number("12.50"), want: "12.50"},
		{name: "literal", value: js.Literal("function(){ return 1; }"), want: "function(){ return 1; }"},
		{name: "bytes", value: []byte("hi"), want: `"aGk="`},
		{name: "nil slice", value: []string(nil), want: "null"},
		{name: "empty slice", value: []string{}, want: "[]"},
		{name: "array", value: js.Array{1, "two", js.Literal("three")}, want: `[1,"two",three]`},
		{name: "map sorted", value: map[string]any{"b": 2, "a": 1}, want: `{"a":1,"b":2}`},
		{name: "int keyed map", value: map[int]string{2: "b", 1: "a"}, want: `{"1":"a","2":"b"}`},
		{
			name:  "ordered object",
			value: js.NewObject("xtype", "textfield", "handler", js.Literal("fn"), "width", 200),
			want:  `{"xtype":"textfield","handler":fn,"width":200}`,
		},
		{
			name:  "object value",
			value: *js.NewObject("a", 1),
			want:  `{"a":1}`,
		},
		{
			name: "struct tags",
			value: contact{
				Name:    "Bob",
				Age:     21,
				Secret:  "x",
				Address: &address{Street: "123 Broadway Ave."},
				hidden:  "y",
			},
			want: `{"name":"Bob","age":21,"address":{"street":"123 Broadway Ave."},"tags":null}`,
		},
		{
			name:  "embedded struct",
			value: audited{address: address{Street: "Main", State: "NY"}, Version: 3},
			want:  `{"street":"Main","state":"NY","Version":3}`,
		},
		{
			name:  "nested object in map",
			value: map[string]any{"store": js.Literal("new Ext.data.SimpleStore({})"), "items": []any{js.NewObject("id", "x")}},
			want:  `{"items":[{"id":"x"}],"store":new Ext.data.SimpleStore({})}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := js.Serialize(tt.value)
			if err != nil {
				t.Fatalf("serialize: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("serialized output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSerializeUnsupported(t *testing.T) {
	_, err := js.Serialize(map[string]any{"ch": make(chan int)})
	var unsupported *js.UnsupportedTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedTypeError, got %v", err)
	}
}

func TestSerializeCycle(t *testing.T) {
	n := &node{}
	n.Next = n
	if _, err := js.Serialize(n); !errors.Is(err, js.ErrCycle) {
		t.Fatalf("expected ErrCycle, got %v", err)
	}

	obj := js.NewObject()
	obj.Set("self", obj)
	if _, err := js.Serialize(obj); !errors.Is(err, js.ErrCycle) {
		t.Fatalf("expected ErrCycle for self-referencing object, got %v", err)
	}
}

func TestMustSerializePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	js.MustSerialize(func() {})
}

func TestIsScalarAndBuiltin(t *testing.T) {
	scalars := []any{true, 1, int64(2), 1.5, "x", time.Now(), json.Number("3")}
	for _, v := range scalars {
		if !js.IsScalar(v) {
			t.Errorf("IsScalar(%T) = false, want true", v)
		}
		if !js.IsBuiltin(v) {
			t.Errorf("IsBuiltin(%T) = false, want true", v)
		}
	}

	builtins := []any{[]int{1}, map[string]int{}, js.NewObject(), js.Literal("x"), js.Array{}}
	for _, v := range builtins {
		if js.IsScalar(v) {
			t.Errorf("IsScalar(%T) = true, want false", v)
		}
		if !js.IsBuiltin(v) {
			t.Errorf("IsBuiltin(%T) = false, want true", v)
		}
	}

	if js.IsBuiltin(contact{}) || js.IsScalar(nil) || js.IsBuiltin(nil) {
		t.Fatalf("structs and nil are neither scalar nor builtin")
	}
}

func TestQuote(t *testing.T) {
	if got := js.Quote(`it's "quoted"`); got != `"it's \"quoted\""` {
		t.Fatalf("unexpected quote output %s", got)
	}
}
