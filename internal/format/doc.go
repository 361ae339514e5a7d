// Package format runs the formatting pipeline over one file: the lexer
// builds the token stream, the parser lays it out as a document and the
// document is rendered under the style. The output is checked to hold the
// same tokens and comments as the input before it is handed back.
package format
