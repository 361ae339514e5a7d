package driver

import (
	"fmt"

	"cfmt/internal/diag"
	"cfmt/internal/doc"
	"cfmt/internal/lexer"
	"cfmt/internal/parser"
	"cfmt/internal/source"
	"cfmt/internal/style"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	// Lexer holds the token stream; nil when tokenization was aborted.
	Lexer *lexer.Lexer
	Bag   *diag.Bag
}

// Tokenize loads the file at path and lexes it. An unknown character is
// reported in the bag and returned as an error wrapping
// lexer.ErrUnknownToken.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	res := &TokenizeResult{
		FileSet: fs,
		File:    fs.Get(fileID),
		Bag:     diag.NewBag(maxDiagnostics),
	}
	res.Lexer, err = lexer.New(res.File, lexer.Options{Reporter: diag.BagReporter{Bag: res.Bag}})
	if err != nil {
		return res, fmt.Errorf("tokenize %s: %w", path, err)
	}
	return res, nil
}

// DocResult is the document tree built for one file.
type DocResult struct {
	*TokenizeResult
	Style *style.Style
	Doc   *doc.Doc
	Parse parser.Result
}

// BuildDoc lexes and parses the file at path with the style found for it,
// without rendering.
func BuildDoc(path string, styles *style.Resolver, maxDiagnostics int) (*DocResult, error) {
	if styles == nil {
		styles = style.NewResolver("", nil)
	}
	st, err := styles.ForFile(path)
	if err != nil {
		return nil, fmt.Errorf("style for %s: %w", path, err)
	}
	tr, err := Tokenize(path, maxDiagnostics)
	if err != nil {
		return &DocResult{TokenizeResult: tr, Style: st}, err
	}
	res := parser.Parse(tr.Lexer, st, parser.Options{Reporter: diag.BagReporter{Bag: tr.Bag}})
	return &DocResult{TokenizeResult: tr, Style: st, Doc: res.Doc, Parse: res}, nil
}
