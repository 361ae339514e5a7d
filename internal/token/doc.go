// Package token defines the C token kinds, the spelling table and the
// reference counted token arena shared by the lexer and the parser.
// Invariants:
//   - Token.Text is a slice of the source buffer unless FlagDirty is set.
//   - Comments, preprocessor directives and whitespace never appear in the
//     stream; they are prefixes or suffixes of the ordinary token next to them.
//   - Concatenating every prefix, token text and suffix in stream order
//     reproduces the source buffer.
//   - Branch links only connect CppIf, CppElse and CppEndif fixups of one
//     conditional chain; an unlinked directive has kind Cpp.
package token
