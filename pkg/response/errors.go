package response

import (
	"sort"
	"strconv"
	"strings"
)

// FormErrorKey collects messages that cannot be tied to a known field.
const FormErrorKey = "form"

// MessageSeparator joins several messages recorded for the same field.
const MessageSeparator = "<br/>"

// MapErrors normalises server error payloads (dotted paths, JSON pointers,
// bracketed indexes) onto the known field names and records them. Unknown
// paths become form-level errors so messages are not lost.
func (r *FormResponse) MapErrors(fields []string, payload map[string][]string) *FormResponse {
	if len(payload) == 0 {
		return r
	}

	known := make(map[string]string, len(fields))
	for _, field := range fields {
		name := strings.TrimSpace(field)
		if name == "" {
			continue
		}
		known[strings.ToLower(name)] = name
	}

	paths := make([]string, 0, len(payload))
	for path := range payload {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, rawPath := range paths {
		messages := normalizeMessages(payload[rawPath])
		if len(messages) == 0 {
			continue
		}
		field := mapErrorPath(rawPath, known)
		if field == "" {
			field = FormErrorKey
		}
		for _, message := range messages {
			r.AddError(field, message)
		}
	}
	return r
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

// mapErrorPath returns the known field matching the longest prefix of raw,
// or "" for form-level keys and unknown paths.
func mapErrorPath(raw string, known map[string]string) string {
	if isFormLevelKey(raw) {
		return ""
	}

	segments := parsePathSegments(raw)
	if len(segments) == 0 {
		return ""
	}

	best := ""
	bestLen := 0
	noWrappers := dropWrapperSegments(segments)
	variants := [][]string{segments, noWrappers, stripNumericSegments(segments), stripNumericSegments(noWrappers)}
	for _, variant := range variants {
		for end := len(variant); end > bestLen; end-- {
			candidate := strings.ToLower(strings.Join(variant[:end], "."))
			if field, ok := known[candidate]; ok {
				best, bestLen = field, end
				break
			}
		}
	}
	return best
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = strings.TrimPrefix(clean, "#")
		clean = strings.TrimPrefix(clean, "/")
		clean = strings.TrimPrefix(clean, ".")
		clean = strings.TrimPrefix(clean, "$")
	}

	replacer := strings.NewReplacer("[", ".", "]", "")
	clean = strings.Trim(replacer.Replace(clean), "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

func dropWrapperSegments(segments []string) []string {
	out := segments
	for len(out) > 0 {
		switch strings.ToLower(out[0]) {
		case "body", "request", "payload", "data", "attributes":
			out = out[1:]
			continue
		}
		break
	}
	return out
}

func stripNumericSegments(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", FormErrorKey, "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
