// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package outline builds a navigable tree view of a JSON value, in which every
// value of the document is a node labelled with its key and path.
package outline

import (
	"fmt"
	"strconv"

	"github.com/creachadair/jfmt/ast"
	"github.com/creachadair/jfmt/ast/cursor"
	"github.com/creachadair/jfmt/format"
	"github.com/creachadair/jfmt/jpath"
)

// A Node is a single value in an outline.
type Node struct {
	// Key is the object key of the node, or its index in brackets if the node
	// is an array element. It is empty for the root.
	Key string

	Type     ast.Kind
	Value    ast.Value
	Path     jpath.Expr // from the root of the outline
	Children []*Node

	parent *Node
	index  int // position among the children of parent
}

// Build constructs an outline of v. The keys of each object are listed in
// sorted order.
func Build(v ast.Value) *Node { return build(nil, "", v, nil, 0) }

func build(parent *Node, key string, v ast.Value, path jpath.Expr, index int) *Node {
	if m, ok := v.(*ast.Member); ok {
		v = m.Value
	}
	n := &Node{Key: key, Type: ast.KindOf(v), Value: v, Path: path, parent: parent, index: index}
	switch t := v.(type) {
	case ast.Object:
		if !t.IsSorted() {
			t = append(ast.Object(nil), t...).Sort()
			n.Value = t
		}
		n.Children = make([]*Node, len(t))
		for i, m := range t {
			n.Children[i] = build(n, m.Key, m.Value, path.Key(m.Key), i)
		}
	case ast.Array:
		n.Children = make([]*Node, len(t))
		for i, elt := range t {
			n.Children[i] = build(n, "["+strconv.Itoa(i)+"]", elt, path.Index(i), i)
		}
	}
	return n
}

// Parent returns the parent of n, or nil if n is the root.
func (n *Node) Parent() *Node { return n.parent }

// IsLast reports whether n is the last child of its parent.
// The root is its own last child.
func (n *Node) IsLast() bool {
	return n.parent == nil || n.index == len(n.parent.Children)-1
}

// Len reports the number of direct children of n.
func (n *Node) Len() int { return len(n.Children) }

// Expandable reports whether n has any children to show.
func (n *Node) Expandable() bool { return len(n.Children) != 0 }

// Count reports the number of nodes in the subtree rooted at n, including n.
func (n *Node) Count() int {
	var c int
	n.Walk(func(*Node) bool { c++; return true })
	return c
}

// Walk visits n and its descendants in depth-first order. If f returns false
// for a node, the children of that node are not visited.
func (n *Node) Walk(f func(*Node) bool) {
	if !f(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(f)
	}
}

// Display returns a short rendering of the value of n: the JSON text of a
// scalar, or a container summary like [3] or {2}.
func (n *Node) Display() string {
	switch n.Type {
	case ast.ObjectKind:
		return "{" + strconv.Itoa(n.Len()) + "}"
	case ast.ArrayKind:
		return "[" + strconv.Itoa(n.Len()) + "]"
	default:
		return n.Value.JSON()
	}
}

// JSON renders the subtree rooted at n in canonical form.
func (n *Node) JSON(ind format.Indent) string { return format.Value(n.Value, ind) }

func (n *Node) String() string {
	return fmt.Sprintf("%s (%v) %s", n.Path, n.Type, n.Display())
}

// Find returns the node at the given path, relative to n. The path must name
// a single location, with no wildcard or recursive steps.
func (n *Node) Find(path string) (*Node, error) {
	e, err := jpath.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	if err := cursor.New(n.Value).Follow(e).Err(); err != nil {
		return nil, err
	}
	cur := n
	for _, s := range e {
		next := cur.child(s)
		if len(next) != 1 {
			return nil, fmt.Errorf("path %v not found", e)
		}
		cur = next[0]
	}
	return cur, nil
}

// Select returns the nodes matching the given path, relative to n. A path may
// contain wildcards (*) and recursive descent (..). A path that matches
// nothing is not an error.
func (n *Node) Select(path string) ([]*Node, error) {
	e, err := jpath.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	cur := []*Node{n}
	for _, s := range e {
		var next []*Node
		seen := make(map[*Node]bool)
		add := func(ns []*Node) {
			for _, c := range ns {
				if !seen[c] {
					seen[c] = true
					next = append(next, c)
				}
			}
		}
		for _, c := range cur {
			if !s.Deep {
				add(c.child(s))
				continue
			}
			c.Walk(func(d *Node) bool { add(d.child(s)); return true })
		}
		cur = next
	}
	return cur, nil
}

// child returns the children of n selected by a single path step, ignoring
// whether the step is recursive.
func (n *Node) child(s jpath.Step) []*Node {
	switch s.Op {
	case jpath.Member:
		if n.Type == ast.ObjectKind {
			for _, c := range n.Children {
				if c.Key == s.Key {
					return []*Node{c}
				}
			}
		}
	case jpath.Index:
		if n.Type == ast.ArrayKind {
			i := s.Index
			if i < 0 {
				i += len(n.Children)
			}
			if i >= 0 && i < len(n.Children) {
				return []*Node{n.Children[i]}
			}
		}
	case jpath.Wildcard:
		return n.Children
	}
	return nil
}
