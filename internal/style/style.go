package style

// Style holds the formatting options. The zero value is not useful, start
// from Defaults or one of the loaders.
type Style struct {
	AlignAfterOpenBracket       Value
	AlignEscapedNewlines        Value
	AlignOperands               Value
	AlwaysBreakAfterReturnType  Value
	BraceWrapping               BraceWrapping
	BreakBeforeBinaryOperators  Value
	BreakBeforeBraces           Value
	BreakBeforeTernaryOperators bool
	ColumnLimit                 int
	ContinuationIndentWidth     int
	IncludeCategories           []IncludeCategory
	IndentWidth                 int
	UseTab                      Value

	// Path is the file the style was loaded from, empty for the defaults.
	Path string
}

// BraceWrapping controls brace placement when BreakBeforeBraces is Custom.
type BraceWrapping struct {
	AfterCaseLabel        bool
	AfterClass            bool
	AfterControlStatement Value
	AfterEnum             bool
	AfterExternBlock      bool
	AfterFunction         bool
	AfterNamespace        bool
	AfterObjCDeclaration  bool
	AfterStruct           bool
	AfterUnion            bool
	BeforeCatch           bool
	BeforeElse            bool
	BeforeLambdaBody      bool
	BeforeWhile           bool
	IndentBraces          bool
	SplitEmptyFunction    bool
	SplitEmptyNamespace   bool
	SplitEmptyRecord      bool
}

// IncludeCategory is one entry of IncludeCategories. The entries are
// validated but include sorting is not performed.
type IncludeCategory struct {
	Regex         string
	Priority      int
	SortPriority  int
	CaseSensitive bool
}

// Defaults returns the built-in style, close to the OpenBSD style(9).
func Defaults() *Style {
	return &Style{
		AlignAfterOpenBracket:      DontAlign,
		AlignEscapedNewlines:       Right,
		AlignOperands:              DontAlign,
		AlwaysBreakAfterReturnType: AllDefinitions,
		BraceWrapping: BraceWrapping{
			AfterControlStatement: Never,
			SplitEmptyFunction:    true,
			SplitEmptyNamespace:   true,
			SplitEmptyRecord:      true,
		},
		BreakBeforeBinaryOperators:  None,
		BreakBeforeBraces:           Linux,
		BreakBeforeTernaryOperators: false,
		ColumnLimit:                 80,
		ContinuationIndentWidth:     4,
		IndentWidth:                 8,
		UseTab:                      Always,
	}
}

// Clone returns a deep copy of s.
func (s *Style) Clone() *Style {
	c := *s
	c.IncludeCategories = append([]IncludeCategory(nil), s.IncludeCategories...)
	return &c
}

// Wrapping returns the effective brace wrapping. Linux breaks before the
// opening brace of function definitions regardless of BraceWrapping.
func (s *Style) Wrapping() BraceWrapping {
	w := s.BraceWrapping
	switch s.BreakBeforeBraces {
	case Linux:
		w.AfterFunction = true
	case Allman:
		w.AfterFunction, w.AfterStruct, w.AfterUnion, w.AfterEnum = true, true, true, true
		w.AfterControlStatement = Always
		w.BeforeElse, w.BeforeWhile = true, true
	case Stroustrup:
		w.AfterFunction = true
		w.BeforeElse = true
	}
	return w
}

// Align reports whether operands or bracket contents are aligned rather
// than continuation-indented.
func (s *Style) Align() bool {
	return s.AlignAfterOpenBracket == Align || s.AlignOperands == Align
}

// UseTabs reports whether indentation may use tab characters.
func (s *Style) UseTabs() bool { return s.UseTab != Never }

// BreakAfterReturnType reports whether the return type of a function is
// placed on its own line. definition is set for function definitions and
// topLevel for declarations outside of any scope.
func (s *Style) BreakAfterReturnType(definition, topLevel bool) bool {
	switch s.AlwaysBreakAfterReturnType {
	case All:
		return true
	case TopLevel:
		return topLevel
	case AllDefinitions:
		return definition
	case TopLevelDefinitions:
		return definition && topLevel
	}
	return false
}
