package js

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Flatten stores value in dest under rootKey. Scalars and builtin values are
// stored as they are. Anything else is round-tripped through JSON and its
// leaves are stored under dotted keys, so a contact struct becomes
// "contact.Name", "contact.Address.Street" and list items "contact.Tags.0".
func Flatten(dest *Object, rootKey string, value any) error {
	if dest == nil {
		return fmt.Errorf("js: flatten destination is nil")
	}
	if value == nil || IsBuiltin(value) {
		dest.Set(rootKey, value)
		return nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("js: flatten %q: %w", rootKey, err)
	}
	decoded, err := decodeOrdered(raw)
	if err != nil {
		return fmt.Errorf("js: flatten %q: %w", rootKey, err)
	}
	flattenItem(dest, rootKey, decoded)
	return nil
}

func flattenItem(dest *Object, key string, value any) {
	switch typed := value.(type) {
	case *Object:
		typed.Range(func(sub string, item any) bool {
			flattenItem(dest, key+"."+sub, item)
			return true
		})
	case []any:
		for idx, item := range typed {
			flattenItem(dest, key+"."+strconv.Itoa(idx), item)
		}
	default:
		dest.Set(key, value)
	}
}

// decodeOrdered decodes JSON keeping object key order. Objects become
// *Object, arrays []any and numbers json.Number.
func decodeOrdered(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return decodeValue(dec)
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch delim {
	case '{':
		obj := &Object{}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("js: unexpected object key %v", keyTok)
			}
			item, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(key, item)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		list := []any{}
		for dec.More() {
			item, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			list = append(list, item)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return list, nil
	}
	return nil, fmt.Errorf("js: unexpected delimiter %v", delim)
}
