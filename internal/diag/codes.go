package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexUnterminatedDirective    Code = 1004
	LexUnbalancedConditional    Code = 1005

	// Syntax
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynBranchTaken      Code = 2049
	SynBranchRecovered  Code = 2050
	SynVerbatimFallback Code = 2051

	// Layout
	FmtInfo          Code = 3000
	FmtRoundTrip     Code = 3001
	FmtColumnLimit   Code = 3002
	FmtUnstableCache Code = 3003

	// IO
	IOReadFailed  Code = 4001
	IOWriteFailed Code = 4002
	IOCacheFailed Code = 4003

	// Style and project configuration
	StyleUnknownOption   Code = 5001
	StyleInvalidValue    Code = 5002
	StyleIntegerOverflow Code = 5003
	StyleParseFailed     Code = 5004
	PrjConfigInvalid     Code = 5101

	// Observability
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string literal",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexUnterminatedDirective:    "Unterminated preprocessor directive",
		LexUnbalancedConditional:    "Unbalanced preprocessor conditional",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Unexpected token",
		SynBranchTaken:              "Conditional arm re-parsed",
		SynBranchRecovered:          "Conditional block kept verbatim",
		SynVerbatimFallback:         "Remainder of file kept verbatim",
		FmtInfo:                     "Layout information",
		FmtRoundTrip:                "Formatted output changes the token stream",
		FmtColumnLimit:              "Line exceeds the column limit",
		FmtUnstableCache:            "Formatting cache entry is stale",
		IOReadFailed:                "Failed to read file",
		IOWriteFailed:               "Failed to write file",
		IOCacheFailed:               "Formatting cache unavailable",
		StyleUnknownOption:          "Unknown style option",
		StyleInvalidValue:           "Invalid style value",
		StyleIntegerOverflow:        "Style integer out of range",
		StyleParseFailed:            "Malformed style file",
		PrjConfigInvalid:            "Invalid project configuration",
		ObsTimings:                  "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("FMT%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 5100:
		return fmt.Sprintf("STY%04d", ic)
	case ic >= 5100 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
