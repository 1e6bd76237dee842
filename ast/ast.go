// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package ast defines an abstract syntax tree for JSON values,
// and a parser that constructs syntax trees from JSON source.
//
// A parsed Object always has unique keys in ascending order. The JSON
// method of each value returns its compact encoding.
package ast

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/creachadair/jfmt"
	"github.com/creachadair/jfmt/internal/escape"
	"go4.org/mem"
)

// A Value is an arbitrary JSON value. The concrete type of a Value is one of
// the types defined in this package.
type Value interface {
	// JSON returns the compact JSON encoding of the value.
	JSON() string
}

// A Kind identifies the type of a JSON value.
type Kind byte

// Constants defining the valid Kind values.
const (
	NullKind Kind = iota
	BoolKind
	NumberKind
	StringKind
	ArrayKind
	ObjectKind
)

var kindStr = [...]string{
	NullKind:   "null",
	BoolKind:   "boolean",
	NumberKind: "number",
	StringKind: "string",
	ArrayKind:  "array",
	ObjectKind: "object",
}

func (k Kind) String() string {
	if int(k) < len(kindStr) {
		return kindStr[k]
	}
	return "invalid"
}

// IsContainer reports whether k is ArrayKind or ObjectKind.
func (k Kind) IsContainer() bool { return k == ArrayKind || k == ObjectKind }

// KindOf reports the kind of v. For a *Member, it reports the kind of the
// member's value. It panics if v is not a value defined by this package.
func KindOf(v Value) Kind {
	switch t := v.(type) {
	case nullValue:
		return NullKind
	case Bool:
		return BoolKind
	case Number:
		return NumberKind
	case String:
		return StringKind
	case Array:
		return ArrayKind
	case Object:
		return ObjectKind
	case *Member:
		return KindOf(t.Value)
	default:
		panic(fmt.Sprintf("unknown value type %T", v))
	}
}

type nullValue struct{}

// Null is the JSON null value.
var Null Value = nullValue{}

func (nullValue) JSON() string { return "null" }

// A Bool is a Boolean constant, true or false.
type Bool bool

// JSON satisfies the Value interface.
func (b Bool) JSON() string { return strconv.FormatBool(bool(b)) }

// A String is a string value. Its contents are the decoded text.
type String string

// JSON satisfies the Value interface.
func (s String) JSON() string { return string(escape.Quote(mem.S(string(s)))) }

// A Number is a numeric value. It preserves the text of the number exactly as
// it appeared in the source, so that numbers are never rounded through a
// binary floating-point representation.
type Number struct{ text string }

// Int constructs a Number from an integer.
func Int(z int64) Number { return Number{text: strconv.FormatInt(z, 10)} }

// Float constructs a Number from a floating-point value.
// It panics if f is infinite or NaN, which have no JSON representation.
func Float(f float64) Number {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		panic(fmt.Sprintf("invalid number %v", f))
	}
	return Number{text: strconv.FormatFloat(f, 'g', -1, 64)}
}

// ParseNumber constructs a Number from its JSON text. It reports an error if
// text is not a valid JSON number.
func ParseNumber(text string) (Number, error) {
	s := jfmt.NewScanner(strings.NewReader(text))
	if !s.Next() {
		return Number{}, cmp.Or(s.Err(), errors.New("empty input"))
	} else if tok := s.Token(); tok != jfmt.Integer && tok != jfmt.Number {
		return Number{}, fmt.Errorf("got %v, want number", tok)
	}
	out := Number{text: string(s.Text())}
	if s.Next() || s.Err() != nil {
		return Number{}, fmt.Errorf("extra input after number %q", out.text)
	}
	return out, nil
}

// JSON satisfies the Value interface.
func (n Number) JSON() string { return n.text }

// Text returns the text of the number as written.
func (n Number) Text() string { return n.text }

// IsInt reports whether n is written as an integer, with no fraction or
// exponent.
func (n Number) IsInt() bool { return !strings.ContainsAny(n.text, ".eE") }

// Int64 returns the value of n as an int64. It reports an error if n is not
// an integer or is out of range.
func (n Number) Int64() (int64, error) { return strconv.ParseInt(n.text, 10, 64) }

// Float64 returns the value of n as a float64, rounding if necessary.
func (n Number) Float64() (float64, error) { return strconv.ParseFloat(n.text, 64) }

// An Array is a sequence of values.
type Array []Value

// Len reports the number of elements in a.
func (a Array) Len() int { return len(a) }

// JSON satisfies the Value interface.
func (a Array) JSON() string {
	ss := make([]string, len(a))
	for i, v := range a {
		ss[i] = v.JSON()
	}
	return "[" + strings.Join(ss, ",") + "]"
}

// An Object is a collection of key-value members.
type Object []*Member

// Len reports the number of members in o.
func (o Object) Len() int { return len(o) }

// Find returns the member of o with the given key, or nil.
func (o Object) Find(key string) *Member {
	for _, m := range o {
		if m.Key == key {
			return m
		}
	}
	return nil
}

// Keys returns the keys of o in order.
func (o Object) Keys() []string {
	keys := make([]string, len(o))
	for i, m := range o {
		keys[i] = m.Key
	}
	return keys
}

// IsSorted reports whether the keys of o are unique and in ascending order.
func (o Object) IsSorted() bool {
	for i := 1; i < len(o); i++ {
		if o[i-1].Key >= o[i].Key {
			return false
		}
	}
	return true
}

// Sort orders the members of o by key, in ascending order of code points,
// and removes members with duplicate keys. Among members sharing a key, the
// last one in the original order is kept. Sort modifies o in place and
// returns the possibly-shortened result.
func (o Object) Sort() Object {
	if o.IsSorted() {
		return o
	}
	slices.SortStableFunc(o, func(a, b *Member) int { return cmp.Compare(a.Key, b.Key) })
	out := o[:0]
	for _, m := range o {
		if n := len(out); n > 0 && out[n-1].Key == m.Key {
			out[n-1] = m
		} else {
			out = append(out, m)
		}
	}
	clear(o[len(out):])
	return out
}

// JSON satisfies the Value interface. Members are rendered in the order they
// occur in o.
func (o Object) JSON() string {
	ss := make([]string, len(o))
	for i, m := range o {
		ss[i] = m.JSON()
	}
	return "{" + strings.Join(ss, ",") + "}"
}

// A Member is a single key-value pair belonging to an Object.
type Member struct {
	Key   string
	Value Value
}

// Field constructs an object member with the given key and value.
func Field(key string, val Value) *Member { return &Member{Key: key, Value: val} }

// JSON satisfies the Value interface.
func (m *Member) JSON() string { return String(m.Key).JSON() + ":" + m.Value.JSON() }

// ToValue converts a Go value into a Value. It accepts nil, bool, string,
// signed and unsigned integers, float32 and float64, []any, map[string]any,
// and existing Values. Any other type causes a panic.
func ToValue(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null
	case Value:
		return t
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case int:
		return Int(int64(t))
	case int8:
		return Int(int64(t))
	case int16:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case int64:
		return Int(t)
	case uint:
		return Number{text: strconv.FormatUint(uint64(t), 10)}
	case uint8:
		return Int(int64(t))
	case uint16:
		return Int(int64(t))
	case uint32:
		return Int(int64(t))
	case uint64:
		return Number{text: strconv.FormatUint(t, 10)}
	case float32:
		return Float(float64(t))
	case float64:
		return Float(t)
	case []any:
		out := make(Array, len(t))
		for i, elt := range t {
			out[i] = ToValue(elt)
		}
		return out
	case map[string]any:
		out := make(Object, 0, len(t))
		for key, elt := range t {
			out = append(out, Field(key, ToValue(elt)))
		}
		return out.Sort()
	default:
		panic(fmt.Sprintf("unsupported value type %T", v))
	}
}
