package diag

import (
	"strings"
	"testing"

	"cfmt/internal/source"
)

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	file := fs.Add("/workspace/src/sample.c", []byte("a\nb\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     StyleUnknownOption,
			Message:  "another",
			Primary:  source.Span{File: file, Start: 2, End: 3},
		},
		{
			Severity: SevError,
			Code:     SynUnexpectedToken,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: file, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: file, Start: 2, End: 3}, Msg: "note line"},
			},
		},
	}

	expected := "src/sample.c:1:1: error: first line second [SYN2001]\n" +
		"src/sample.c:2:1: warning: another [STY5001]\n" +
		"src/sample.c:2:1: note: note line [SYN2001]"

	if got := FormatShort(diags, fs, true); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
	if got := FormatShort(diags, fs, false); strings.Contains(got, "note:") {
		t.Errorf("notes printed without withNotes:\n%s", got)
	}

	stray := []Diagnostic{{Severity: SevInfo, Code: SynBranchTaken, Primary: source.Span{File: 7}}}
	if got := FormatShort(stray, fs, true); got != "" {
		t.Errorf("span outside the file set rendered as %q", got)
	}
}

func TestBagLimitAndSort(t *testing.T) {
	bag := NewBag(2)
	r := BagReporter{Bag: bag}
	r.Report(LexUnknownChar, SevError, source.Span{Start: 5, End: 6}, "b", nil, nil)
	r.Report(SynUnexpectedToken, SevError, source.Span{Start: 1, End: 2}, "a", nil, nil)
	r.Report(SynUnexpectedToken, SevError, source.Span{Start: 9, End: 9}, "dropped", nil, nil)

	if bag.Len() != 2 {
		t.Fatalf("Len = %d, want 2", bag.Len())
	}
	bag.Sort()
	if bag.Items()[0].Message != "a" || !bag.HasErrors() {
		t.Errorf("unexpected order: %+v", bag.Items())
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{Start: 3, End: 4}
	ReportError(r, SynUnexpectedToken, sp, "expected ;").Emit()
	ReportError(r, SynUnexpectedToken, sp, "expected ;").Emit()
	ReportWarning(r, SynBranchRecovered, sp, "kept verbatim").Emit()
	if bag.Len() != 2 {
		t.Errorf("Len = %d, want 2", bag.Len())
	}
}

func TestCodeIDs(t *testing.T) {
	cases := map[Code]string{
		LexUnknownChar:       "LEX1001",
		SynBranchRecovered:   "SYN2050",
		FmtRoundTrip:         "FMT3001",
		IOReadFailed:         "IO4001",
		StyleIntegerOverflow: "STY5003",
		PrjConfigInvalid:     "PRJ5101",
	}
	for c, want := range cases {
		if c.ID() != want {
			t.Errorf("%d.ID() = %s, want %s", c, c.ID(), want)
		}
	}
	if Code(4242).Title() != "Unknown error" {
		t.Error("unknown codes must fall back to the generic title")
	}
}

func TestSeverityOrder(t *testing.T) {
	if !SevError.AtLeast(SevWarning) || !SevWarning.AtLeast(SevWarning) || SevInfo.AtLeast(SevWarning) {
		t.Error("AtLeast does not follow info < warning < error")
	}
	if got := SevWarning.Label(); got != "warning" {
		t.Errorf("Label = %q", got)
	}
}

func TestNewCarriesNotes(t *testing.T) {
	at := source.Span{File: 1, Start: 4, End: 5}
	d := NewError(SynVerbatimFallback, at, "cannot lay out").WithNote(at, "layout stopped here")
	if d.Severity != SevError || len(d.Notes) != 1 || d.Notes[0].Msg != "layout stopped here" {
		t.Errorf("diagnostic = %+v", d)
	}
}
