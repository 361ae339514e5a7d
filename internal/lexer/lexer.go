package lexer

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"cfmt/internal/diag"
	"cfmt/internal/logging"
	"cfmt/internal/source"
	"cfmt/internal/token"
)

// ErrUnknownToken is returned when the input holds a byte sequence that is
// not part of the C token set.
var ErrUnknownToken = errors.New("unknown token")

// Lexer turns a file into a token stream and serves it through a cursor
// that understands preprocessor conditionals. The whole file is tokenized
// by New; the cursor then pops tokens, peeks ahead and rewinds.
type Lexer struct {
	file  *source.File
	src   string
	size  uint32
	opts  Options
	table *token.Table
	log   *log.Logger

	arena  *token.Arena
	tokens *token.List

	sc   scanState
	mark uint32 // bytes before mark belong to some token

	st     State
	peek   int
	stamps []*token.Token
	unmute *token.Token
}

// New tokenizes file. It fails with ErrUnknownToken when the file cannot be
// tokenized; the offending position is reported through opts.Reporter.
func New(file *source.File, opts Options) (*Lexer, error) {
	lx := &Lexer{
		file:  file,
		src:   string(file.Content),
		size:  uint32(len(file.Content)), // #nosec G115 -- FileSet.Add rejects larger files
		opts:  opts,
		table: opts.Table,
		log:   opts.Logger,
		arena: token.NewArena(),
	}
	if lx.table == nil {
		lx.table = token.DefaultTable()
	}
	if lx.log == nil {
		lx.log = logging.Default()
	}
	lx.tokens = token.NewList(lx.arena)
	lx.sc = scanState{line: 1, col: 1}

	for {
		tk, err := lx.read()
		if err != nil {
			return nil, err
		}
		lx.tokens.PushBack(tk)
		if tk.Kind == token.EOF {
			break
		}
	}
	lx.linkBranches()
	return lx, nil
}

// File returns the file being tokenized.
func (lx *Lexer) File() *source.File { return lx.file }

// Arena returns the arena owning every token of the lexer.
func (lx *Lexer) Arena() *token.Arena { return lx.arena }

// Tokens returns the ordinary tokens in stream order, EOF included.
func (lx *Lexer) Tokens() []*token.Token { return lx.tokens.All() }

// First returns the first token of the stream.
func (lx *Lexer) First() *token.Token { return lx.tokens.First() }

// Last returns the EOF token.
func (lx *Lexer) Last() *token.Token { return lx.tokens.Last() }

// Span returns the source span of tk.
func (lx *Lexer) Span(tk *token.Token) source.Span {
	if tk == nil {
		return source.Span{File: lx.file.ID, Start: lx.size, End: lx.size}
	}
	return tk.Span(lx.file.ID)
}

// read produces the next ordinary token with its prefixes and suffixes.
func (lx *Lexer) read() (*token.Token, error) {
	var prefixes []token.Ref
	for {
		fx := lx.comment(true, &prefixes)
		if fx == nil {
			fx = lx.cpp(&prefixes)
		}
		if fx == nil {
			break
		}
		if n := len(prefixes); n > 1 {
			pv := lx.arena.Get(prefixes[n-2])
			if pv.Kind == token.Comment && fx.Kind == token.Comment && pv.Cmp(fx) == 0 &&
				pv.Off+uint32(len(pv.Text)) == fx.Off { // #nosec G115
				pv.Text = lx.src[pv.Off : fx.Off+uint32(len(fx.Text))] // #nosec G115
				prefixes = prefixes[:n-1]
				lx.arena.Release(fx)
			}
		}
	}

	tk, err := lx.keyword(&prefixes)
	if err != nil {
		return nil, err
	}
	tk.Prefixes = prefixes
	if tk.Kind == token.EOF {
		return tk, nil
	}

	ncomments := 0
	for lx.comment(false, &tk.Suffixes) != nil {
		ncomments++
	}
	if ncomments == 0 {
		st := lx.sc
		if lx.eatSpaces() {
			lx.emit(&tk.Suffixes, st, token.Space, token.FlagOptSpace)
		}
	}
	st := lx.sc
	if n := lx.eatLines(0); n > 0 {
		flags := token.Flags(0)
		if n == 1 {
			flags |= token.FlagOptLine
		}
		lx.emit(&tk.Suffixes, st, token.Space, flags)
	}
	return tk, nil
}

// emit allocates a token spanning from st to the scanner position and
// appends it to list, preceded by a discarded fixup for any bytes skipped
// since the previous token.
func (lx *Lexer) emit(list *[]token.Ref, st scanState, kind token.Kind, flags token.Flags) *token.Token {
	lx.gap(list, st)
	tk := lx.newToken(st, kind, flags)
	*list = append(*list, tk.ID())
	return tk
}

// primary allocates an ordinary token. Bytes skipped since the previous
// token are recorded as a discarded fixup at the end of prefixes.
func (lx *Lexer) primary(prefixes *[]token.Ref, st scanState, kind token.Kind, flags token.Flags) *token.Token {
	lx.gap(prefixes, st)
	return lx.newToken(st, kind, flags)
}

func (lx *Lexer) gap(list *[]token.Ref, st scanState) {
	if st.off <= lx.mark {
		return
	}
	gap := lx.arena.New(token.Space, token.FlagDiscard, lx.src[lx.mark:st.off])
	pos := lx.file.Position(lx.mark)
	gap.Off, gap.Line, gap.Col = lx.mark, pos.Line, pos.Col
	*list = append(*list, gap.ID())
}

func (lx *Lexer) newToken(st scanState, kind token.Kind, flags token.Flags) *token.Token {
	tk := lx.arena.New(kind, flags, lx.src[st.off:lx.sc.off])
	tk.Off, tk.Line, tk.Col = st.off, st.line, st.col
	lx.mark = max(lx.mark, lx.sc.off)
	return tk
}

// Serialize writes one line per token in the KIND<line:col>("text") form,
// fixups included when verbose is set.
func (lx *Lexer) Serialize(w io.Writer, verbose bool) error {
	for tk := lx.tokens.First(); tk != nil; tk = tk.Next() {
		if verbose {
			for i := range tk.Prefixes {
				if _, err := fmt.Fprintf(w, "  %s\n", tk.Prefix(i)); err != nil {
					return err
				}
			}
		}
		if _, err := fmt.Fprintln(w, tk); err != nil {
			return err
		}
		if verbose {
			for i := range tk.Suffixes {
				if _, err := fmt.Fprintf(w, "  %s\n", tk.Suffix(i)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (lx *Lexer) unknown(st scanState) error {
	sp := source.Span{File: lx.file.ID, Start: st.off, End: min(st.off+1, lx.size)}
	ch := lx.src[st.off:sp.End]
	lx.errLex(diag.LexUnknownChar, sp, fmt.Sprintf("unknown character %q", ch))
	return fmt.Errorf("%s:%d:%d: %w %q", lx.file.Path, st.line, st.col, ErrUnknownToken, ch)
}
