package format

import (
	"errors"
	"fmt"
	"strings"

	"cfmt/internal/lexer"
	"cfmt/internal/source"
	"cfmt/internal/token"
)

// ErrRoundTrip is returned when the formatted output does not hold the
// tokens, comments and directives of the input in the same order.
var ErrRoundTrip = errors.New("formatted output changes the token stream")

// signature lists the texts of the tokens of lx along with their comments
// and directives. Whitespace runs inside comments and directives are
// squeezed, since their indentation and the padding of line continuations
// are up to the formatter.
func signature(lx *lexer.Lexer) []string {
	var sig []string
	for _, tk := range lx.Tokens() {
		for i := range tk.Prefixes {
			sig = appendFixup(sig, tk.Prefix(i))
		}
		if tk.Text != "" {
			sig = append(sig, tk.Text)
		}
		for i := range tk.Suffixes {
			sig = appendFixup(sig, tk.Suffix(i))
		}
	}
	return sig
}

func appendFixup(sig []string, fx *token.Token) []string {
	if fx.Kind == token.Comment || fx.Kind.IsCpp() {
		sig = append(sig, squeeze(fx.Text))
	}
	return sig
}

func squeeze(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "\\\n", " \\ ")), " ")
}

// verify lexes out and compares it against the signature of the input.
func verify(sf *source.File, out []byte, want []string) error {
	fs := source.NewFileSet()
	id := fs.AddVirtual(sf.Path, out)
	lx, err := lexer.New(fs.Get(id), lexer.Options{})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRoundTrip, err)
	}
	got := signature(lx)
	for i := range min(len(got), len(want)) {
		if got[i] != want[i] {
			return fmt.Errorf("%w: %s: %q became %q", ErrRoundTrip, sf.Path, want[i], got[i])
		}
	}
	if len(got) != len(want) {
		return fmt.Errorf("%w: %s: %d tokens became %d", ErrRoundTrip, sf.Path, len(want), len(got))
	}
	return nil
}
