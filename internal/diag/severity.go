package diag

import "strings"

// Severity ranks a diagnostic. An error leaves its file untouched, while a
// warning marks a region that was kept as it appears in the source.
type Severity uint8

const (
	// SevInfo traces a formatter decision, such as a conditional arm being
	// re-parsed or the timings of a file.
	SevInfo Severity = iota
	// SevWarning reports input the formatter worked around.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Label is the lower-case name used by compiler-style output.
func (s Severity) Label() string { return strings.ToLower(s.String()) }

// AtLeast reports whether s is as severe as floor or more.
func (s Severity) AtLeast(floor Severity) bool { return s >= floor }
