package source

import (
	"fmt"
)

// Span is a half-open byte range inside a single file.
type Span struct {
	File  FileID
	Start uint32 // inclusive
	End   uint32 // exclusive
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover returns the smallest span containing both s and other.
// Spans from different files are not merged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}
