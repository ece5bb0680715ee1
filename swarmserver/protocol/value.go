package protocol

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type _privateValueKind uint8

func (k _privateValueKind) String() string {
	switch k {
	case ValueKind.Bool:
		return "bool"
	case ValueKind.Number:
		return "number"
	case ValueKind.String:
		return "string"
	case ValueKind.Tuple:
		return "tuple"
	}

	return "invalid"
}

var ValueKind = struct {
	Invalid _privateValueKind
	Bool    _privateValueKind
	Number  _privateValueKind
	String  _privateValueKind
	Tuple   _privateValueKind
}{
	Invalid: _privateValueKind(0),
	Bool:    _privateValueKind(1),
	Number:  _privateValueKind(2),
	String:  _privateValueKind(3),
	Tuple:   _privateValueKind(4),
}

// Value is one piece of shared state. The zero Value is invalid. Values are
// immutable: tuple elements are copied in and out.
type Value struct {
	kind  _privateValueKind
	b     bool
	n     float64
	s     string
	tuple []Value
}

func Bool(b bool) Value {
	return Value{kind: ValueKind.Bool, b: b}
}

func Number(n float64) Value {
	return Value{kind: ValueKind.Number, n: n}
}

func String(s string) Value {
	return Value{kind: ValueKind.String, s: s}
}

func Tuple(elements ...Value) Value {
	copied := make([]Value, len(elements))
	copy(copied, elements)

	return Value{kind: ValueKind.Tuple, tuple: copied}
}

func (v Value) Kind() _privateValueKind {
	return v.kind
}

func (v Value) IsValid() bool {
	return v.kind != ValueKind.Invalid
}

func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == ValueKind.Bool
}

func (v Value) AsNumber() (float64, bool) {
	return v.n, v.kind == ValueKind.Number
}

func (v Value) AsString() (string, bool) {
	return v.s, v.kind == ValueKind.String
}

func (v Value) AsTuple() ([]Value, bool) {
	if v.kind != ValueKind.Tuple {
		return nil, false
	}

	copied := make([]Value, len(v.tuple))
	copy(copied, v.tuple)

	return copied, true
}

// Equal compares kinds then contents. Numbers compare with ==, so NaN is
// never equal to itself.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case ValueKind.Bool:
		return v.b == other.b
	case ValueKind.Number:
		return v.n == other.n
	case ValueKind.String:
		return v.s == other.s
	case ValueKind.Tuple:
		if len(v.tuple) != len(other.tuple) {
			return false
		}

		for i := range v.tuple {
			if !v.tuple[i].Equal(other.tuple[i]) {
				return false
			}
		}

		return true
	}

	return true
}

func (v Value) String() string {
	switch v.kind {
	case ValueKind.Bool:
		return strconv.FormatBool(v.b)
	case ValueKind.Number:
		return strconv.FormatFloat(v.n, 'g', -1, 64)
	case ValueKind.String:
		return strconv.Quote(v.s)
	case ValueKind.Tuple:
		parts := make([]string, len(v.tuple))
		for i, element := range v.tuple {
			parts[i] = element.String()
		}

		return "[" + strings.Join(parts, ", ") + "]"
	}

	return "<invalid>"
}

type jsonValue struct {
	Kind  string          `json:"kind"`
	Value json.RawMessage `json:"value"`
}

func (v Value) MarshalJSON() ([]byte, error) {
	var raw []byte
	var err error

	switch v.kind {
	case ValueKind.Bool:
		raw, err = json.Marshal(v.b)
	case ValueKind.Number:
		if math.IsNaN(v.n) || math.IsInf(v.n, 0) {
			// JSON has no literal for these
			raw, err = json.Marshal(strconv.FormatFloat(v.n, 'g', -1, 64))
		} else {
			raw, err = json.Marshal(v.n)
		}
	case ValueKind.String:
		raw, err = json.Marshal(v.s)
	case ValueKind.Tuple:
		raw, err = json.Marshal(v.tuple)
	default:
		return nil, errors.New("cannot marshal invalid value")
	}

	if err != nil {
		return nil, err
	}

	return json.Marshal(jsonValue{
		Kind:  v.kind.String(),
		Value: raw,
	})
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var wrapped jsonValue
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}

	switch wrapped.Kind {
	case "bool":
		var b bool
		if err := json.Unmarshal(wrapped.Value, &b); err != nil {
			return err
		}
		*v = Bool(b)
	case "number":
		var n float64
		if err := json.Unmarshal(wrapped.Value, &n); err != nil {
			var s string
			if json.Unmarshal(wrapped.Value, &s) != nil {
				return err
			}

			n, err = strconv.ParseFloat(s, 64)
			if err != nil {
				return err
			}
		}
		*v = Number(n)
	case "string":
		var s string
		if err := json.Unmarshal(wrapped.Value, &s); err != nil {
			return err
		}
		*v = String(s)
	case "tuple":
		var elements []Value
		if err := json.Unmarshal(wrapped.Value, &elements); err != nil {
			return err
		}
		*v = Value{kind: ValueKind.Tuple, tuple: elements}
	default:
		return errors.New("unknown value kind " + wrapped.Kind)
	}

	return nil
}
