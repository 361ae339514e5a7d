package token

import "sync"

// Entry describes one spelling known to a Table.
type Entry struct {
	Kind  Kind
	Flags Flags
	Text  string
}

// Table maps keyword and punctuator spellings to kinds. The lexer consults
// it for both identifiers and operators; aliases map to the same kind as
// their canonical spelling.
type Table struct {
	byText map[string]Entry
	byKind [numKinds]Entry
}

var defaultEntries = []Entry{
	{KwAsm, 0, "asm"},
	{KwAttribute, 0, "__attribute__"},
	{KwBreak, 0, "break"},
	{KwCase, 0, "case"},
	{KwChar, FlagType, "char"},
	{KwConst, FlagQualifier, "const"},
	{KwContinue, 0, "continue"},
	{KwDefault, 0, "default"},
	{KwDo, 0, "do"},
	{KwDouble, FlagType, "double"},
	{KwElse, 0, "else"},
	{KwEnum, FlagType, "enum"},
	{KwExtern, FlagStorage, "extern"},
	{KwFloat, FlagType, "float"},
	{KwFor, 0, "for"},
	{KwGoto, 0, "goto"},
	{KwIf, 0, "if"},
	{KwInline, FlagStorage, "inline"},
	{KwInt, FlagType, "int"},
	{KwLong, FlagType, "long"},
	{KwRegister, FlagStorage, "register"},
	{KwRestrict, FlagQualifier, "restrict"},
	{KwReturn, 0, "return"},
	{KwShort, FlagType, "short"},
	{KwSigned, FlagType, "signed"},
	{KwSizeof, 0, "sizeof"},
	{KwStatic, FlagStorage, "static"},
	{KwStruct, FlagType, "struct"},
	{KwSwitch, 0, "switch"},
	{KwTypedef, FlagType, "typedef"},
	{KwUnion, FlagType, "union"},
	{KwUnsigned, FlagType, "unsigned"},
	{KwVoid, FlagType, "void"},
	{KwVolatile, FlagQualifier, "volatile"},
	{KwWhile, 0, "while"},

	{LSquare, 0, "["},
	{RSquare, 0, "]"},
	{LParen, 0, "("},
	{RParen, 0, ")"},
	{LBrace, 0, "{"},
	{RBrace, 0, "}"},
	{Period, FlagAmbiguous, "."},
	{Ellipsis, FlagType, "..."},
	{Amp, FlagAmbiguous | FlagBinary, "&"},
	{AmpAmp, FlagBinary, "&&"},
	{AmpEqual, FlagAssign, "&="},
	{Star, FlagAmbiguous | FlagBinary | FlagSpace, "*"},
	{StarEqual, FlagAssign, "*="},
	{Plus, FlagAmbiguous | FlagBinary, "+"},
	{PlusPlus, 0, "++"},
	{PlusEqual, FlagAssign, "+="},
	{Minus, FlagAmbiguous | FlagBinary, "-"},
	{Arrow, 0, "->"},
	{MinusMinus, 0, "--"},
	{MinusEqual, FlagAssign, "-="},
	{Tilde, 0, "~"},
	{Exclaim, FlagAmbiguous, "!"},
	{ExclaimEqual, FlagBinary, "!="},
	{Slash, FlagAmbiguous | FlagBinary | FlagSpace, "/"},
	{SlashEqual, FlagAssign, "/="},
	{Percent, FlagAmbiguous | FlagBinary, "%"},
	{PercentEqual, FlagAssign, "%="},
	{Less, FlagAmbiguous | FlagBinary, "<"},
	{LessLess, FlagAmbiguous | FlagBinary, "<<"},
	{LessEqual, FlagBinary, "<="},
	{LessLessEqual, FlagAssign, "<<="},
	{Greater, FlagAmbiguous | FlagBinary, ">"},
	{GreaterGreater, FlagAmbiguous | FlagBinary, ">>"},
	{GreaterEqual, FlagBinary, ">="},
	{GreaterGreaterEqual, FlagAssign, ">>="},
	{Caret, FlagAmbiguous, "^"},
	{CaretEqual, FlagAssign, "^="},
	{Pipe, FlagAmbiguous | FlagBinary | FlagSpace, "|"},
	{PipePipe, FlagBinary, "||"},
	{PipeEqual, FlagAssign, "|="},
	{Question, 0, "?"},
	{Colon, 0, ":"},
	{Semi, 0, ";"},
	{Equal, FlagAmbiguous | FlagAssign, "="},
	{EqualEqual, FlagBinary, "=="},
	{Comma, 0, ","},
	{Backslash, FlagDiscard, "\\"},
}

var defaultAliases = []Entry{
	{KwAsm, 0, "__asm"},
	{KwAsm, 0, "__asm__"},
	{KwAttribute, 0, "__attribute"},
	{KwRestrict, FlagQualifier, "__restrict"},
	{KwVolatile, FlagQualifier, "__volatile"},
	{KwVolatile, FlagQualifier, "__volatile__"},
}

// NewTable builds a table from entries; later entries with the same
// spelling win. The first entry for a kind becomes its canonical spelling.
func NewTable(entries ...[]Entry) *Table {
	t := &Table{byText: make(map[string]Entry)}
	for _, list := range entries {
		for _, e := range list {
			t.byText[e.Text] = e
			if t.byKind[e.Kind].Text == "" {
				t.byKind[e.Kind] = e
			}
		}
	}
	return t
}

var defaultTable = sync.OnceValue(func() *Table {
	return NewTable(defaultEntries, defaultAliases)
})

// DefaultTable returns the shared C token table.
func DefaultTable() *Table { return defaultTable() }

// Lookup resolves a spelling to its entry.
func (t *Table) Lookup(text string) (Entry, bool) {
	e, ok := t.byText[text]
	return e, ok
}

// Canonical returns the canonical entry of k, if the table knows one.
func (t *Table) Canonical(k Kind) (Entry, bool) {
	e := t.byKind[k]
	return e, e.Text != ""
}

// LookupKeyword reports whether ident is a keyword of the default table.
// Keywords are case sensitive.
func LookupKeyword(ident string) (Kind, bool) {
	e, ok := DefaultTable().Lookup(ident)
	if !ok || !e.Kind.IsKeyword() {
		return Invalid, false
	}
	return e.Kind, true
}
