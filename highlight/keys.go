// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package highlight

import "github.com/creachadair/mds/stack"

// keyState tracks whether the next string in the input is in key position.
// It knows only the kinds of the open brackets, and whether the last
// significant token was one after which an object key may appear.
type keyState struct {
	open      *stack.Stack[byte] // '{' or '['
	expectKey bool
}

func newKeyState() *keyState { return &keyState{open: stack.New[byte]()} }

// ExpectKey reports whether a string at the current position is a key.
func (k *keyState) ExpectKey() bool { return k.expectKey }

// Open records an opening bracket, '{' or '['.
func (k *keyState) Open(b byte) {
	k.open.Push(b)
	k.expectKey = b == '{'
}

// Close records a closing bracket of either kind. Closing with no brackets
// open is a no-op.
func (k *keyState) Close() {
	k.open.Pop()
	k.expectKey = false
}

// Comma records a comma. A key may follow only if the innermost open bracket
// is an object.
func (k *keyState) Comma() {
	top, ok := k.open.Peek(0)
	k.expectKey = ok && top == '{'
}

// Colon records a colon.
func (k *keyState) Colon() { k.expectKey = false }

// Value records a scalar token.
func (k *keyState) Value() { k.expectKey = false }

// Depth reports the number of brackets currently open.
func (k *keyState) Depth() int { return k.open.Len() }
