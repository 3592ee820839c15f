package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type FieldKind int

const (
	FieldString FieldKind = iota + 1
	FieldNumber
	FieldBool
)

// FieldValue holds exactly one JSON scalar. The zero value is invalid and is
// skipped when forwarding custom fields.
type FieldValue struct {
	kind FieldKind
	s    string
	n    float64
	b    bool
}

func String(s string) FieldValue     { return FieldValue{kind: FieldString, s: s} }
func Number(n float64) FieldValue    { return FieldValue{kind: FieldNumber, n: n} }
func Bool(b bool) FieldValue         { return FieldValue{kind: FieldBool, b: b} }
func (v FieldValue) Kind() FieldKind { return v.kind }
func (v FieldValue) IsZero() bool    { return v.kind == 0 }

func (v FieldValue) Str() (string, bool)    { return v.s, v.kind == FieldString }
func (v FieldValue) Float() (float64, bool) { return v.n, v.kind == FieldNumber }
func (v FieldValue) Boolean() (bool, bool)  { return v.b, v.kind == FieldBool }

// Any returns the scalar as a plain Go value, nil for the zero value.
func (v FieldValue) Any() any {
	switch v.kind {
	case FieldString:
		return v.s
	case FieldNumber:
		return v.n
	case FieldBool:
		return v.b
	}
	return nil
}

func (v FieldValue) String() string {
	switch v.kind {
	case FieldString:
		return v.s
	case FieldNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case FieldBool:
		return strconv.FormatBool(v.b)
	}
	return ""
}

func (v FieldValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

func (v *FieldValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return fmt.Errorf("custom field: empty value")
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = String(s)
	case 't', 'f':
		var x bool
		if err := json.Unmarshal(b, &x); err != nil {
			return err
		}
		*v = Bool(x)
	case '{', '[', 'n':
		return fmt.Errorf("custom field: unsupported value %s", string(b))
	default:
		var n float64
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*v = Number(n)
	}
	return nil
}

// CustomFields is forwarded to the CRM as-is; its keys are never inspected.
type CustomFields map[string]FieldValue

// FieldFromAny converts a decoded JSON scalar. Non-scalars report false.
func FieldFromAny(x any) (FieldValue, bool) {
	switch t := x.(type) {
	case string:
		return String(t), true
	case float64:
		return Number(t), true
	case int:
		return Number(float64(t)), true
	case int64:
		return Number(float64(t)), true
	case bool:
		return Bool(t), true
	}
	return FieldValue{}, false
}

// Map flattens the container for JSON payload building, dropping zero values.
func (c CustomFields) Map() map[string]any {
	if len(c) == 0 {
		return nil
	}
	out := make(map[string]any, len(c))
	for k, v := range c {
		if v.IsZero() {
			continue
		}
		out[k] = v.Any()
	}
	return out
}

// CustomFieldsFromMap keeps the scalar entries of a decoded JSON object.
func CustomFieldsFromMap(m map[string]any) CustomFields {
	if len(m) == 0 {
		return nil
	}
	out := make(CustomFields, len(m))
	for k, x := range m {
		if fv, ok := FieldFromAny(x); ok {
			out[k] = fv
		}
	}
	return out
}
