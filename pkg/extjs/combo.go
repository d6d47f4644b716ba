package extjs

import (
	"fmt"
	"reflect"

	"github.com/goliatone/go-extjs/pkg/binding"
	"github.com/goliatone/go-extjs/pkg/js"
	"github.com/goliatone/go-extjs/pkg/widgets"
)

// Default combo box record fields.
const (
	DefaultValueField   = "value"
	DefaultDisplayField = "text"
)

// ComboBoxConfig builds an Ext.form.ComboBox config object backed by a local
// Ext.data.SimpleStore.
//
// dataSource is a slice or array. Each item becomes a [value, text] record:
// scalars and literals are used as both, structs and maps are read through the
// "valueField" (default "value") and "displayField" (default "text")
// options. The selected value comes from cfg["value"] or the property bag.
//
// "hiddenName" defaults to true, which submits the value under target;
// false removes it and a string is kept as is. The xtype, name, store, mode
// and triggerAction options are always overwritten.
func (h *Helper) ComboBoxConfig(target string, dataSource any, cfg *js.Object) (*js.Object, error) {
	if err := h.requireForm(); err != nil {
		return nil, err
	}
	target = h.scope.Rewrite(target)
	cfg = cfg.Clone()

	if value, ok := cfg.Get("value"); !ok || value == nil {
		if bound, found := h.lookup(target); found {
			cfg.Set("value", bound)
		}
	}

	valueField := cfg.StringOr("valueField", DefaultValueField)
	displayField := cfg.StringOr("displayField", DefaultDisplayField)
	cfg.Set("valueField", valueField)
	cfg.Set("displayField", displayField)

	rows, err := comboRows(dataSource, valueField, displayField)
	if err != nil {
		return nil, err
	}
	store, err := comboStore(valueField, displayField, rows)
	if err != nil {
		return nil, err
	}

	if err := h.applyValidation(target, cfg); err != nil {
		return nil, err
	}

	hiddenName, ok := cfg.Get("hiddenName")
	if !ok || hiddenName == nil {
		hiddenName = true
	}
	if flag, isBool := hiddenName.(bool); isBool {
		if flag {
			cfg.Set("hiddenName", target)
		} else {
			cfg.Delete("hiddenName")
		}
	}

	cfg.Set("xtype", widgets.XTypeCombo)
	cfg.Set("name", target)
	cfg.Set("store", store)
	cfg.Set("mode", "local")
	cfg.Set("triggerAction", "all")
	return cfg, nil
}

// ComboBox is ComboBoxConfig serialized to JavaScript.
func (h *Helper) ComboBox(target string, dataSource any, cfg *js.Object) (js.Literal, error) {
	return h.literal(h.ComboBoxConfig(target, dataSource, cfg))
}

func comboRows(dataSource any, valueField, displayField string) (js.Array, error) {
	rows := js.Array{}
	if dataSource == nil {
		return rows, nil
	}
	v := reflect.ValueOf(dataSource)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return rows, nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil, fmt.Errorf("extjs: combo data source must be a slice or array, got %T", dataSource)
	}

	for idx := 0; idx < v.Len(); idx++ {
		item := v.Index(idx).Interface()
		if lit, ok := item.(js.Literal); ok {
			rows = append(rows, js.Array{lit, lit})
			continue
		}
		if item == nil || js.IsScalar(item) {
			rows = append(rows, js.Array{item, item})
			continue
		}
		value, _ := binding.Resolve(item, valueField)
		text, _ := binding.Resolve(item, displayField)
		rows = append(rows, js.Array{value, text})
	}
	return rows, nil
}

func comboStore(valueField, displayField string, rows js.Array) (js.Literal, error) {
	config := js.NewObject(
		"fields", []string{valueField, displayField},
		"data", rows,
	)
	text, err := js.Serialize(config)
	if err != nil {
		return "", fmt.Errorf("extjs: serialize combo store: %w", err)
	}
	return js.Literal("new Ext.data.SimpleStore(" + text + ")"), nil
}
