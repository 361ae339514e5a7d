package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"cfmt/internal/source"
	"cfmt/internal/token"
)

// FixupJSON is a comment, directive or whitespace attached to a token.
type FixupJSON struct {
	Kind string      `json:"kind"`
	Text string      `json:"text"`
	Span source.Span `json:"span"`
	// Branch links of conditional directives, as the stream positions of
	// the tokens the linked directives are prefixes of.
	Prev   *int `json:"branch_prev,omitempty"`
	Next   *int `json:"branch_next,omitempty"`
	Parent *int `json:"branch_parent,omitempty"`
}

type TokenOutput struct {
	Index    int         `json:"index"`
	Kind     string      `json:"kind"`
	Text     string      `json:"text,omitempty"`
	Flags    string      `json:"flags,omitempty"`
	Line     uint32      `json:"line"`
	Col      uint32      `json:"col"`
	Span     source.Span `json:"span"`
	Prefixes []FixupJSON `json:"prefixes,omitempty"`
	Suffixes []FixupJSON `json:"suffixes,omitempty"`
}

// FormatTokensPretty writes one line per token, its prefixes before and its
// suffixes after it, indented. Conditional directives show the position of
// the token they are attached to.
func FormatTokensPretty(w io.Writer, tokens []*token.Token) error {
	index := tokenIndex(tokens)
	for i, tk := range tokens {
		for j := range tk.Prefixes {
			if err := prettyFixup(w, "prefix", tk.Prefix(j), index); err != nil {
				return err
			}
		}
		line := fmt.Sprintf("%4d: %-12s", i, tk.Kind)
		if tk.Text != "" {
			line += fmt.Sprintf(" %q", tk.Text)
		}
		line += fmt.Sprintf(" at %d:%d", tk.Line, tk.Col)
		if tk.Flags != 0 {
			line += fmt.Sprintf(" [%s]", tk.Flags)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		for j := range tk.Suffixes {
			if err := prettyFixup(w, "suffix", tk.Suffix(j), index); err != nil {
				return err
			}
		}
	}
	return nil
}

func prettyFixup(w io.Writer, role string, fx *token.Token, index map[*token.Token]int) error {
	line := fmt.Sprintf("      %s %-10s %q", role, fx.Kind, fx.Text)
	if fx.Kind.IsCpp() {
		if p := fx.BranchParent(); p != nil {
			line += fmt.Sprintf(" parent=%d", index[p])
		}
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

// FormatTokensJSON writes the tokens of file as an indented JSON array.
func FormatTokensJSON(w io.Writer, tokens []*token.Token, file source.FileID) error {
	index := tokenIndex(tokens)
	output := make([]TokenOutput, 0, len(tokens))
	for i, tk := range tokens {
		out := TokenOutput{
			Index: i,
			Kind:  tk.Kind.String(),
			Text:  tk.Text,
			Line:  tk.Line,
			Col:   tk.Col,
			Span:  tk.Span(file),
		}
		if tk.Flags != 0 {
			out.Flags = tk.Flags.String()
		}
		for j := range tk.Prefixes {
			out.Prefixes = append(out.Prefixes, fixupJSON(tk.Prefix(j), file, index))
		}
		for j := range tk.Suffixes {
			out.Suffixes = append(out.Suffixes, fixupJSON(tk.Suffix(j), file, index))
		}
		output = append(output, out)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func fixupJSON(fx *token.Token, file source.FileID, index map[*token.Token]int) FixupJSON {
	out := FixupJSON{Kind: fx.Kind.String(), Text: fx.Text, Span: fx.Span(file)}
	if fx.Kind.IsCpp() {
		if p := fx.BranchParent(); p != nil {
			n := index[p]
			out.Parent = &n
		}
		if pv := fx.BranchPrev(); pv != nil {
			if p := pv.BranchParent(); p != nil {
				n := index[p]
				out.Prev = &n
			}
		}
		if nx := fx.BranchNext(); nx != nil {
			if p := nx.BranchParent(); p != nil {
				n := index[p]
				out.Next = &n
			}
		}
	}
	return out
}

func tokenIndex(tokens []*token.Token) map[*token.Token]int {
	index := make(map[*token.Token]int, len(tokens))
	for i, tk := range tokens {
		index[tk] = i
	}
	return index
}
