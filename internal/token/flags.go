package token

import "strings"

// Flags annotate a token with classification bits from the token table and
// with state set while the stream is edited.
type Flags uint32

const (
	// FlagType marks type specifiers and type-introducing keywords.
	FlagType Flags = 1 << iota
	// FlagQualifier marks type qualifiers.
	FlagQualifier
	// FlagStorage marks storage class specifiers.
	FlagStorage
	// FlagAmbiguous marks punctuators that are a prefix of a longer one.
	FlagAmbiguous
	// FlagBinary marks binary operators.
	FlagBinary
	// FlagAssign marks assignment operators.
	FlagAssign
	// FlagSpace marks operators whose surrounding source spacing is kept.
	FlagSpace
	// FlagDiscard marks bytes the lexer consumed without producing a token.
	FlagDiscard
	// FlagCpp marks tokens and fixups originating from the preprocessor.
	FlagCpp
	// FlagOptLine marks a newline suffix made of a single line break.
	FlagOptLine
	// FlagOptSpace marks a whitespace suffix that holds no line break.
	FlagOptSpace
	// FlagDirty marks text that no longer refers to the source buffer.
	FlagDirty
	// FlagStamp marks a token recorded as a rewind point.
	FlagStamp
	// FlagUnmute marks the token where muted output resumes.
	FlagUnmute
	// FlagDangling marks a fixup moved onto a neighbour of a removed token.
	FlagDangling
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagType, "TYPE"},
	{FlagQualifier, "QUALIFIER"},
	{FlagStorage, "STORAGE"},
	{FlagAmbiguous, "AMBIGUOUS"},
	{FlagBinary, "BINARY"},
	{FlagAssign, "ASSIGN"},
	{FlagSpace, "SPACE"},
	{FlagDiscard, "DISCARD"},
	{FlagCpp, "CPP"},
	{FlagOptLine, "OPTLINE"},
	{FlagOptSpace, "OPTSPACE"},
	{FlagDirty, "DIRTY"},
	{FlagStamp, "STAMP"},
	{FlagUnmute, "UNMUTE"},
	{FlagDangling, "DANGLING"},
}

func (f Flags) String() string {
	if f == 0 {
		return "0"
	}
	var parts []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, "|")
}
