// Package fuzztests houses Go fuzz harnesses that push arbitrary bytes
// through the formatter pipeline (source -> lexer -> parser -> doc). They
// guard against panics, hangs and token streams that lose bytes.
package fuzztests
