// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jfmt implements a strict JSON scanner and stream parser, the
// foundation of a JSON formatting, validation and highlighting toolkit.
//
// The subpackages build on this one:
//
//	ast        the value tree and a parser that builds it
//	format     canonical pretty-printing and minification
//	validate   validation with structural statistics
//	highlight  a lenient tokenizer for syntax highlighting
//	outline    a tree-view model of a document
//	history    a persistent store of processed documents
//
// # Scanning
//
// The Scanner type implements a lexical scanner for JSON.  Construct a scanner
// from an io.Reader and call its Next method to iterate over the stream. Next
// advances to the next input token and reports whether one is available:
//
//	s := jfmt.NewScanner(input)
//	for s.Next() {
//	   log.Printf("Next token: %v", s.Token())
//	}
//
// When Next returns false, Err reports nil if the input was fully consumed,
// or the lexical or I/O error that stopped the scan:
//
//	if err := s.Err(); err != nil {
//	   log.Fatalf("Scanning failed at %v: %v", s.Location().First, err)
//	}
//
// # Streaming
//
// The Stream type implements an event-driven stream parser for JSON.  The
// parser works by calling methods on a Handler value to report the structure
// of the input. In case of error, parsing is terminated and an error of
// concrete type *jfmt.SyntaxError is returned. Its line and column are both
// 1-based and identify the first token that could not be parsed.
//
// Construct a Stream from an io.Reader, and call its Parse method. Parse
// returns nil if the input was fully processed without error. If a Handler
// method reports an error, parsing stops and that error is returned.
//
//	s := jfmt.NewStream(input)
//	if err := s.Parse(handler); err != nil {
//	   log.Fatalf("Parse failed: %v", err)
//	}
//
// To parse a single value from the front of the input, call ParseOne. This
// method returns io.EOF if no further values are available. To parse a
// document that must consist of exactly one value, call ParseSingle.
//
// # Handlers
//
// The Handler interface accepts parser events from a Stream. The methods of
// a handler correspond to the syntax of JSON values:
//
//	JSON type  | Methods                   | Description
//	---------- | ------------------------- | ---------------------------------
//	object     | BeginObject, EndObject    | { ... }
//	array      | BeginArray, EndArray      | [ ... ]
//	member     | BeginMember, EndMember    | "key": value
//	value      | Value                     | true, false, null, number, string
//	--         | EndOfInput                | end of input
//
// Each method is passed an Anchor value that can be used to retrieve location
// and type information. The Anchor passed to a handler method is only valid
// for the duration of that method call; the handler must copy any data it
// needs to retain beyond the lifetime of the call.
package jfmt
