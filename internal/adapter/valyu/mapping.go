package valyu

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"valyurag/internal/domain"
)

// flattenContent turns a result's content value into text. Strings and numbers are
// used as-is, lists of {key, value} items become "key: value" lines, and objects are
// kept as compact JSON with their fields returned as extracted.
func flattenContent(raw json.RawMessage) (string, map[string]any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil, nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", nil, err
		}
		return s, nil, nil
	case '[':
		var items []any
		if err := json.Unmarshal(raw, &items); err != nil {
			return "", nil, err
		}
		return joinKeyValues(items), nil, nil
	case '{':
		var obj map[string]any
		if err := json.Unmarshal(raw, &obj); err != nil {
			return "", nil, err
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return "", nil, err
		}
		return buf.String(), obj, nil
	default:
		// numbers and booleans
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return "", nil, err
		}
		return string(raw), nil, nil
	}
}

func joinKeyValues(items []any) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", textOf(m["key"]), textOf(m["value"])))
	}
	return strings.Join(lines, "\n")
}

func textOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64, bool:
		return fmt.Sprint(t)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	}
}

// imageURL accepts a plain string or a map of named image URLs, preferring "main".
func imageURL(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil || len(m) == 0 {
		return ""
	}
	if u, ok := m["main"]; ok {
		return u
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return m[keys[0]]
}

func dataType(s string) domain.DataType {
	if s == "" {
		return domain.DataTypeUnstructured
	}
	return domain.DataType(s)
}
