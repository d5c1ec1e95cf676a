package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNotJSON indicates a payload that is neither a JSON object nor an array.
var ErrNotJSON = errors.New("payload is not a JSON object or array")

// StringList is a tag-like list that tolerates the shapes the backend emits:
// a JSON array, a JSON-encoded array inside a string ('["数组","哈希表"]'),
// a comma separated string, or an array of {"name": ...} records.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler. Unknown shapes decode to nil.
func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}

	switch data[0] {
	case '[':
		var raw []any
		if err := json.Unmarshal(data, &raw); err != nil {
			*l = nil
			return nil
		}
		*l = fromAny(raw)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*l = nil
			return nil
		}
		*l = parseStringList(s)
	default:
		*l = nil
	}
	return nil
}

func parseStringList(s string) StringList {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "[") {
		var raw []any
		if err := json.Unmarshal([]byte(s), &raw); err == nil {
			return fromAny(raw)
		}
	}
	var out StringList
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func fromAny(raw []any) StringList {
	out := make(StringList, 0, len(raw))
	for _, v := range raw {
		switch v := v.(type) {
		case string:
			if v != "" {
				out = append(out, v)
			}
		case map[string]any:
			// Skill records: {"name": "Go", "level": "..."}
			if name, ok := v["name"].(string); ok && name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

// Shape tells DecodeItems where a resource's items live inside a response.
type Shape struct {
	Kind   Kind
	Paths  []string // Dotted key paths tried against the response object
	Single bool     // Response holds one object rather than a list
}

// DecodeItems extracts the items of one resource from a response payload.
//
// Lists: every path that resolves to an array contributes its elements, in
// order; a bare top-level array is used when no path resolves. Singles: the
// first path resolving to an object, else the payload object itself. Metrics:
// the numeric leaves of the first resolving object or array (or the payload).
//
// Elements with mistyped fields are kept with those fields left absent;
// elements that are not objects are skipped.
func DecodeItems(shape Shape, payload json.RawMessage) ([]Item, error) {
	payload = bytes.TrimSpace(payload)
	if !isObject(payload) && !isArray(payload) {
		return nil, ErrNotJSON
	}

	if shape.Kind == KindMetric {
		target := payload
		for _, p := range shape.Paths {
			if raw, ok := resolve(payload, p); ok && (isObject(raw) || isArray(raw)) {
				target = raw
				break
			}
		}
		return FlattenMetrics(target)
	}

	if shape.Single {
		target := json.RawMessage(nil)
		for _, p := range shape.Paths {
			if raw, ok := resolve(payload, p); ok && isObject(raw) {
				target = raw
				break
			}
		}
		if target == nil && isObject(payload) {
			target = payload
		}
		if target == nil {
			return []Item{}, nil
		}
		item, ok := decodeOne(shape.Kind, target, 1)
		if !ok {
			return []Item{}, nil
		}
		return []Item{item}, nil
	}

	var arrays []json.RawMessage
	for _, p := range shape.Paths {
		if raw, ok := resolve(payload, p); ok && isArray(raw) {
			arrays = append(arrays, raw)
		}
	}
	if len(arrays) == 0 && isArray(payload) {
		arrays = append(arrays, payload)
	}

	items := []Item{}
	pos := 0
	for _, arr := range arrays {
		var elems []json.RawMessage
		if err := json.Unmarshal(arr, &elems); err != nil {
			continue
		}
		for _, elem := range elems {
			pos++
			if item, ok := decodeOne(shape.Kind, elem, pos); ok {
				items = append(items, item)
			}
		}
	}
	return items, nil
}

func decodeOne(kind Kind, raw json.RawMessage, pos int) (Item, bool) {
	if !isObject(bytes.TrimSpace(raw)) {
		return nil, false
	}

	var item Item
	switch kind {
	case KindProblem:
		item = &Problem{}
	case KindQuestion:
		item = &Question{}
	case KindResume:
		item = &Resume{}
	case KindSubmission:
		item = &Submission{}
	case KindAchievement:
		item = &Achievement{Seq: pos}
	case KindGoal:
		item = &Goal{}
	default:
		return nil, false
	}

	if err := json.Unmarshal(raw, item); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, false
		}
	}
	return item, true
}

// FlattenMetrics turns every numeric leaf of a JSON document into a Metric,
// in document order. Labels are dotted key paths with [i] for array indices.
func FlattenMetrics(payload json.RawMessage) ([]Item, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var metrics []Item
	if err := flatten(dec, "", &metrics); err != nil {
		return nil, fmt.Errorf("failed to flatten metrics: %w", err)
	}
	if metrics == nil {
		metrics = []Item{}
	}
	return metrics, nil
}

func flatten(dec *json.Decoder, prefix string, out *[]Item) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return err
				}
				key, _ := keyTok.(string)
				label := key
				if prefix != "" {
					label = prefix + "." + key
				}
				if err := flatten(dec, label, out); err != nil {
					return err
				}
			}
		case '[':
			for i := 0; dec.More(); i++ {
				if err := flatten(dec, fmt.Sprintf("%s[%d]", prefix, i), out); err != nil {
					return err
				}
			}
		}
		// Closing delimiter
		_, err := dec.Token()
		return err
	case json.Number:
		v, err := t.Float64()
		if err != nil {
			return nil
		}
		*out = append(*out, &Metric{ID: len(*out) + 1, Label: prefix, Value: v})
	}
	return nil
}

func resolve(raw json.RawMessage, path string) (json.RawMessage, bool) {
	cur := raw
	for _, key := range strings.Split(path, ".") {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(cur, &obj); err != nil {
			return nil, false
		}
		next, ok := obj[key]
		if !ok {
			return nil, false
		}
		next = bytes.TrimSpace(next)
		if bytes.Equal(next, []byte("null")) {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func isObject(raw []byte) bool { return len(raw) > 0 && raw[0] == '{' }
func isArray(raw []byte) bool  { return len(raw) > 0 && raw[0] == '[' }
