// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package highlight classifies the text of a JSON document for display.
//
// The tokenizer in this package does not require its input to be valid JSON,
// and never reports an error. It makes a single pass over the input, and
// decides whether a string is an object key from the kind of the innermost
// open bracket and the most recent punctuation, without checking that a colon
// actually follows.
package highlight

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"
)

// A Category classifies a token for display.
type Category byte

// Constants defining the valid Category values.
const (
	Plain       Category = iota // whitespace and unrecognized text
	StringValue                 // a string in value position
	ObjectKey                   // a string in key position
	Number                      // a number
	Boolean                     // true or false
	Null                        // null
	Punct                       // brackets, colons, and commas
)

var catStr = [...]string{
	Plain:       "plain",
	StringValue: "string",
	ObjectKey:   "key",
	Number:      "number",
	Boolean:     "boolean",
	Null:        "null",
	Punct:       "punct",
}

func (c Category) String() string {
	if int(c) < len(catStr) {
		return catStr[c]
	}
	return "invalid"
}

// A Token is a classified run of input text.
type Token struct {
	Category Category
	Pos      int    // byte offset of the start of the token
	Text     string // the raw source text of the token
}

// Tokens returns a sequence of the tokens of text. The concatenated texts of
// the tokens are exactly text. Adjacent unclassified characters are combined
// into a single Plain token.
//
// A string token runs to its closing quote, or to the end of the input if it
// is not terminated. A number token is the longest prefix matching the shape
// of a JSON number, even if that is incomplete (e.g., "-" or "1e").
func Tokens(text string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		ks := newKeyState()
		plain := -1 // start of pending Plain text, or -1
		emit := func(cat Category, pos, end int) bool {
			if plain >= 0 {
				if !yield(Token{Category: Plain, Pos: plain, Text: text[plain:pos]}) {
					return false
				}
				plain = -1
			}
			return yield(Token{Category: cat, Pos: pos, Text: text[pos:end]})
		}

		for i := 0; i < len(text); {
			var cat Category
			end := i + 1

			switch ch := text[i]; ch {
			case '{', '[':
				cat = Punct
				ks.Open(ch)
			case '}', ']':
				cat = Punct
				ks.Close()
			case ':':
				cat = Punct
				ks.Colon()
			case ',':
				cat = Punct
				ks.Comma()
			case '"':
				cat = StringValue
				if ks.ExpectKey() {
					cat = ObjectKey
				}
				end = scanString(text, i)
				ks.Value()
			case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
				cat = Number
				end = scanNumber(text, i)
				ks.Value()
			default:
				if n := matchKeyword(text[i:]); n > 0 {
					cat = Boolean
					if text[i] == 'n' {
						cat = Null
					}
					end = i + n
					ks.Value()
					break
				}

				// Whitespace and everything else are copied through. Consume a
				// complete rune so that a token never splits an encoding.
				_, n := utf8.DecodeRuneInString(text[i:])
				if plain < 0 {
					plain = i
				}
				i += n
				continue
			}
			if !emit(cat, i, end) {
				return
			}
			i = end
		}
		if plain >= 0 {
			yield(Token{Category: Plain, Pos: plain, Text: text[plain:]})
		}
	}
}

// scanString returns the end offset of the string whose open quote is at
// text[pos]. A backslash and the character after it are skipped as a unit.
func scanString(text string, pos int) int {
	for i := pos + 1; i < len(text); i++ {
		switch text[i] {
		case '"':
			return i + 1
		case '\\':
			if i+1 < len(text) {
				_, n := utf8.DecodeRuneInString(text[i+1:])
				i += n
			}
		}
	}
	return len(text) // unterminated
}

// scanNumber returns the end offset of the number starting at text[pos].
func scanNumber(text string, pos int) int {
	i := pos
	if i < len(text) && text[i] == '-' {
		i++
	}
	i = skipDigits(text, i)
	if i < len(text) && text[i] == '.' {
		i = skipDigits(text, i+1)
	}
	if i < len(text) && (text[i] == 'e' || text[i] == 'E') {
		i++
		if i < len(text) && (text[i] == '+' || text[i] == '-') {
			i++
		}
		i = skipDigits(text, i)
	}
	return i
}

func skipDigits(text string, i int) int {
	for i < len(text) && '0' <= text[i] && text[i] <= '9' {
		i++
	}
	return i
}

var keywords = []string{"true", "false", "null"}

// matchKeyword reports the length of the keyword at the start of s, or 0 if
// s does not begin with a keyword that is followed by a non-alphanumeric
// character or the end of input.
func matchKeyword(s string) int {
	for _, kw := range keywords {
		if !strings.HasPrefix(s, kw) {
			continue
		}
		if r, _ := utf8.DecodeRuneInString(s[len(kw):]); r != utf8.RuneError && isAlnum(r) {
			return 0
		}
		return len(kw)
	}
	return 0
}

func isAlnum(r rune) bool { return unicode.IsLetter(r) || unicode.IsNumber(r) }
