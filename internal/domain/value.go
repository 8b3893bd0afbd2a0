package domain

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// ValueKind enumerates the shapes a Value can take.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
)

// Value is a tagged variant for loosely-typed extras fields. Only the field
// matching Kind is meaningful.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
	List []Value
	Map  map[string]Value
}

func Null() Value { return Value{Kind: KindNull} }

func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

func NumberValue(n float64) Value { return Value{Kind: KindNumber, Num: n} }

func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

func ListValue(items ...Value) Value { return Value{Kind: KindList, List: items} }

func MapValue(m map[string]Value) Value { return Value{Kind: KindMap, Map: m} }

// ValueOf converts an arbitrary host-supplied value into a Value. Types the
// variant cannot represent produce an error so callers can skip the field.
func ValueOf(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Null(), nil
	case string:
		return StringValue(t), nil
	case bool:
		return BoolValue(t), nil
	case float64:
		return NumberValue(t), nil
	case float32:
		return NumberValue(float64(t)), nil
	case int:
		return NumberValue(float64(t)), nil
	case int8:
		return NumberValue(float64(t)), nil
	case int16:
		return NumberValue(float64(t)), nil
	case int32:
		return NumberValue(float64(t)), nil
	case int64:
		return NumberValue(float64(t)), nil
	case uint8:
		return NumberValue(float64(t)), nil
	case uint16:
		return NumberValue(float64(t)), nil
	case uint32:
		return NumberValue(float64(t)), nil
	case uint64:
		return NumberValue(float64(t)), nil
	case []any:
		items := make([]Value, 0, len(t))
		for i, item := range t {
			converted, err := ValueOf(item)
			if err != nil {
				return Value{}, fmt.Errorf("list element %d: %w", i, err)
			}
			items = append(items, converted)
		}
		return Value{Kind: KindList, List: items}, nil
	case map[string]any:
		m := make(map[string]Value, len(t))
		for key, item := range t {
			converted, err := ValueOf(item)
			if err != nil {
				return Value{}, fmt.Errorf("map key %q: %w", key, err)
			}
			m[key] = converted
		}
		return Value{Kind: KindMap, Map: m}, nil
	}
	return Value{}, fmt.Errorf("unsupported extras type %T", v)
}

// ValuesOf converts an extras bag field-by-field. A field that cannot be
// converted is logged and omitted; it never aborts the whole conversion.
func ValuesOf(extras map[string]any, logger *slog.Logger) map[string]Value {
	if len(extras) == 0 {
		return nil
	}

	result := make(map[string]Value, len(extras))
	for key, raw := range extras {
		v, err := ValueOf(raw)
		if err != nil {
			if logger != nil {
				logger.Warn("dropping unconvertible extras field",
					"key", key,
					"error", err,
				)
			}
			continue
		}
		result[key] = v
	}
	return result
}

// MarshalJSON emits the underlying value rather than the tagged envelope.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.Str)
	case KindNumber:
		return json.Marshal(v.Num)
	case KindBool:
		return json.Marshal(v.Bool)
	case KindList:
		if v.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.List)
	case KindMap:
		if v.Map == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.Map)
	}
	return nil, fmt.Errorf("unknown value kind %d", v.Kind)
}

// UnmarshalJSON infers the kind from the JSON shape.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	converted, err := ValueOf(raw)
	if err != nil {
		return err
	}
	*v = converted
	return nil
}
