package model

import (
	"fmt"
	"sort"
	"strings"
)

// ExtensionPrefix is the vendor extension namespace read from descriptor
// documents.
const ExtensionPrefix = "x-extjs"

// ParseExtensions extracts metadata from an `x-extjs` object and from flat
// `x-extjs-<name>` keys. Nested objects are flattened with dotted keys and
// scalar values are formatted as strings. It returns nil when nothing
// matches.
func ParseExtensions(ext map[string]any) map[string]string {
	if len(ext) == 0 {
		return nil
	}
	out := make(map[string]string)

	keys := make([]string, 0, len(ext))
	for key := range ext {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := ext[key]
		switch {
		case key == ExtensionPrefix:
			if nested, ok := value.(map[string]any); ok {
				flattenExtension(out, "", nested)
			}
		case strings.HasPrefix(key, ExtensionPrefix+"-"):
			name := strings.TrimPrefix(key, ExtensionPrefix+"-")
			if name == "" {
				continue
			}
			if nested, ok := value.(map[string]any); ok {
				flattenExtension(out, name, nested)
				continue
			}
			if text, ok := extensionString(value); ok {
				out[name] = text
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func flattenExtension(dest map[string]string, prefix string, values map[string]any) {
	for key, value := range values {
		name := key
		if prefix != "" {
			name = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			flattenExtension(dest, name, nested)
			continue
		}
		if text, ok := extensionString(value); ok {
			dest[name] = text
		}
	}
}

func extensionString(value any) (string, bool) {
	switch typed := value.(type) {
	case nil:
		return "", false
	case string:
		return strings.TrimSpace(typed), true
	case bool, int, int32, int64, float32, float64, uint, uint32, uint64:
		return fmt.Sprint(typed), true
	}
	return "", false
}
