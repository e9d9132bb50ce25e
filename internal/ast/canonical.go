package ast

import "encoding/json"

// tagged1 renders an externally-tagged variant carrying a single string
// payload, e.g. `{"Linear": "value"}`. encoding/json marshals the object
// deterministically here because it has exactly one key.
func tagged1(tag, value string) ([]byte, error) {
	return json.Marshal(map[string]string{tag: value})
}

// taggedValue renders an externally-tagged variant carrying an arbitrary
// payload (itself marshaled via its own MarshalJSON, recursively).
func taggedValue(tag string, value any) ([]byte, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	buf := append([]byte(`{"`+tag+`":`), payload...)
	buf = append(buf, '}')
	return buf, nil
}

// pair renders a two-element JSON array, the canonical form of a
// two-tuple.
func pair(a, b any) ([]byte, error) {
	return json.Marshal([2]any{a, b})
}

func (f StructField) MarshalJSON() ([]byte, error) {
	return pair(f.Name, f.Typ)
}
