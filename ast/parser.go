// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"fmt"
	"io"
	"strings"

	"github.com/creachadair/jfmt"
	"github.com/creachadair/mds/stack"
)

// Parse parses and returns all the JSON values from r, which may contain
// zero or more values separated by whitespace. In case of error, any
// complete values already parsed are returned along with the error.
func Parse(r io.Reader) ([]Value, error) {
	h := newParseHandler()
	st := jfmt.NewStream(r)
	var vs []Value
	for {
		if err := st.ParseOne(h); err == io.EOF {
			return vs, nil
		} else if err != nil {
			return vs, err
		}
		vs = append(vs, h.result)
	}
}

// ParseSingle parses a single JSON value from r. The input must contain
// exactly one value, possibly surrounded by whitespace. In case of a syntax
// error, the error has concrete type *jfmt.SyntaxError.
func ParseSingle(r io.Reader) (Value, error) {
	h := newParseHandler()
	if err := jfmt.NewStream(r).ParseSingle(h); err != nil {
		return nil, err
	}
	return h.result, nil
}

// ParseString parses a single JSON value from the text of s.
// It is a convenience wrapper for ParseSingle.
func ParseString(s string) (Value, error) { return ParseSingle(strings.NewReader(s)) }

// A frame is a container under construction.
type frame struct {
	isObj bool
	obj   Object
	arr   Array
	key   string // key of the member whose value is pending
}

// A parseHandler implements the jfmt.Handler interface to construct abstract
// syntax trees for JSON values.
type parseHandler struct {
	stk    *stack.Stack[*frame]
	result Value
}

func newParseHandler() *parseHandler { return &parseHandler{stk: stack.New[*frame]()} }

// reduce adds a completed value to the innermost open container, or records
// it as the result if no container is open.
func (h *parseHandler) reduce(v Value) error {
	f, ok := h.stk.Peek(0)
	if !ok {
		h.result = v
		return nil
	}
	if f.isObj {
		f.obj = append(f.obj, Field(f.key, v))
	} else {
		f.arr = append(f.arr, v)
	}
	return nil
}

func (h *parseHandler) BeginObject(loc jfmt.Anchor) error {
	h.stk.Push(&frame{isObj: true, obj: Object{}})
	return nil
}

func (h *parseHandler) EndObject(loc jfmt.Anchor) error {
	f, _ := h.stk.Pop()
	return h.reduce(f.obj.Sort())
}

func (h *parseHandler) BeginArray(loc jfmt.Anchor) error {
	h.stk.Push(&frame{arr: Array{}})
	return nil
}

func (h *parseHandler) EndArray(loc jfmt.Anchor) error {
	f, _ := h.stk.Pop()
	return h.reduce(f.arr)
}

func (h *parseHandler) BeginMember(loc jfmt.Anchor) error {
	key, err := jfmt.Unquote(loc.Text())
	if err != nil {
		return fmt.Errorf("invalid key: %w", err)
	}
	f, _ := h.stk.Peek(0)
	f.key = string(key)
	return nil
}

func (h *parseHandler) EndMember(loc jfmt.Anchor) error { return nil }

func (h *parseHandler) Value(loc jfmt.Anchor) error {
	switch tok := loc.Token(); tok {
	case jfmt.String:
		dec, err := jfmt.Unquote(loc.Text())
		if err != nil {
			return fmt.Errorf("invalid string: %w", err)
		}
		return h.reduce(String(dec))
	case jfmt.Integer, jfmt.Number:
		return h.reduce(Number{text: string(loc.Text())})
	case jfmt.True, jfmt.False:
		return h.reduce(Bool(tok == jfmt.True))
	case jfmt.Null:
		return h.reduce(Null)
	default:
		return fmt.Errorf("unknown value %v", tok)
	}
}

func (h *parseHandler) EndOfInput(loc jfmt.Anchor) {}
