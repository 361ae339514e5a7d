package style

// kind is the variant of an option in the schema.
type kind uint8

const (
	kindInt kind = iota
	kindBool
	kindEnum
	kindString
	kindNested
	kindSequence
)

func (k kind) String() string {
	switch k {
	case kindInt:
		return "integer"
	case kindBool:
		return "boolean"
	case kindEnum:
		return "enum"
	case kindString:
		return "string"
	case kindNested:
		return "mapping"
	case kindSequence:
		return "sequence"
	}
	return "?"
}

// option describes one key. ref resolves the destination inside the
// value of the enclosing scope: *Style at the top level, *BraceWrapping
// and *IncludeCategory inside nested scopes.
type option struct {
	name    string
	kind    kind
	values  []Value          // kindEnum
	aliases map[string]Value // kindEnum, extra spellings
	fields  []option         // kindNested, kindSequence
	natural bool             // kindInt, rejects negative values
	ref     func(scope any) any
	// elem appends a zero element to the slice behind ref and returns a
	// pointer to it, for kindSequence.
	elem func(seq any) any
}

func lookup(opts []option, name string) (*option, bool) {
	for i := range opts {
		if opts[i].name == name {
			return &opts[i], true
		}
	}
	return nil, false
}

func wrapBool(name string, field func(*BraceWrapping) *bool) option {
	return option{name: name, kind: kindBool, ref: func(s any) any { return field(s.(*BraceWrapping)) }}
}

var braceWrappingOptions = []option{
	wrapBool("AfterCaseLabel", func(w *BraceWrapping) *bool { return &w.AfterCaseLabel }),
	wrapBool("AfterClass", func(w *BraceWrapping) *bool { return &w.AfterClass }),
	{
		name:    "AfterControlStatement",
		kind:    kindEnum,
		values:  []Value{Never, MultiLine, Always},
		aliases: map[string]Value{"true": Always, "false": Never},
		ref:     func(s any) any { return &s.(*BraceWrapping).AfterControlStatement },
	},
	wrapBool("AfterEnum", func(w *BraceWrapping) *bool { return &w.AfterEnum }),
	wrapBool("AfterExternBlock", func(w *BraceWrapping) *bool { return &w.AfterExternBlock }),
	wrapBool("AfterFunction", func(w *BraceWrapping) *bool { return &w.AfterFunction }),
	wrapBool("AfterNamespace", func(w *BraceWrapping) *bool { return &w.AfterNamespace }),
	wrapBool("AfterObjCDeclaration", func(w *BraceWrapping) *bool { return &w.AfterObjCDeclaration }),
	wrapBool("AfterStruct", func(w *BraceWrapping) *bool { return &w.AfterStruct }),
	wrapBool("AfterUnion", func(w *BraceWrapping) *bool { return &w.AfterUnion }),
	wrapBool("BeforeCatch", func(w *BraceWrapping) *bool { return &w.BeforeCatch }),
	wrapBool("BeforeElse", func(w *BraceWrapping) *bool { return &w.BeforeElse }),
	wrapBool("BeforeLambdaBody", func(w *BraceWrapping) *bool { return &w.BeforeLambdaBody }),
	wrapBool("BeforeWhile", func(w *BraceWrapping) *bool { return &w.BeforeWhile }),
	wrapBool("IndentBraces", func(w *BraceWrapping) *bool { return &w.IndentBraces }),
	wrapBool("SplitEmptyFunction", func(w *BraceWrapping) *bool { return &w.SplitEmptyFunction }),
	wrapBool("SplitEmptyNamespace", func(w *BraceWrapping) *bool { return &w.SplitEmptyNamespace }),
	wrapBool("SplitEmptyRecord", func(w *BraceWrapping) *bool { return &w.SplitEmptyRecord }),
}

var includeCategoryOptions = []option{
	{name: "CaseSensitive", kind: kindBool, ref: func(s any) any { return &s.(*IncludeCategory).CaseSensitive }},
	{name: "Priority", kind: kindInt, ref: func(s any) any { return &s.(*IncludeCategory).Priority }},
	{name: "Regex", kind: kindString, ref: func(s any) any { return &s.(*IncludeCategory).Regex }},
	{name: "SortPriority", kind: kindInt, ref: func(s any) any { return &s.(*IncludeCategory).SortPriority }},
}

var styleOptions = []option{
	{
		name:   "AlignAfterOpenBracket",
		kind:   kindEnum,
		values: []Value{Align, DontAlign, AlwaysBreak, BlockIndent},
		ref:    func(s any) any { return &s.(*Style).AlignAfterOpenBracket },
	},
	{
		name:   "AlignEscapedNewlines",
		kind:   kindEnum,
		values: []Value{DontAlign, Left, Right},
		ref:    func(s any) any { return &s.(*Style).AlignEscapedNewlines },
	},
	{
		name:    "AlignOperands",
		kind:    kindEnum,
		values:  []Value{Align, DontAlign, AlignAfterOperator},
		aliases: map[string]Value{"true": Align, "false": DontAlign},
		ref:     func(s any) any { return &s.(*Style).AlignOperands },
	},
	{
		name:   "AlwaysBreakAfterReturnType",
		kind:   kindEnum,
		values: []Value{None, All, TopLevel, AllDefinitions, TopLevelDefinitions},
		ref:    func(s any) any { return &s.(*Style).AlwaysBreakAfterReturnType },
	},
	{
		name:   "BraceWrapping",
		kind:   kindNested,
		fields: braceWrappingOptions,
		ref:    func(s any) any { return &s.(*Style).BraceWrapping },
	},
	{
		name:   "BreakBeforeBinaryOperators",
		kind:   kindEnum,
		values: []Value{None, NonAssignment, All},
		ref:    func(s any) any { return &s.(*Style).BreakBeforeBinaryOperators },
	},
	{
		name:   "BreakBeforeBraces",
		kind:   kindEnum,
		values: []Value{Attach, Linux, Mozilla, Stroustrup, Allman, Whitesmiths, GNU, WebKit, Custom},
		ref:    func(s any) any { return &s.(*Style).BreakBeforeBraces },
	},
	{name: "BreakBeforeTernaryOperators", kind: kindBool, ref: func(s any) any { return &s.(*Style).BreakBeforeTernaryOperators }},
	{name: "ColumnLimit", kind: kindInt, natural: true, ref: func(s any) any { return &s.(*Style).ColumnLimit }},
	{name: "ContinuationIndentWidth", kind: kindInt, natural: true, ref: func(s any) any { return &s.(*Style).ContinuationIndentWidth }},
	{
		name:   "IncludeCategories",
		kind:   kindSequence,
		fields: includeCategoryOptions,
		ref:    func(s any) any { return &s.(*Style).IncludeCategories },
		elem: func(seq any) any {
			p := seq.(*[]IncludeCategory)
			*p = append(*p, IncludeCategory{})
			return &(*p)[len(*p)-1]
		},
	},
	{name: "IndentWidth", kind: kindInt, natural: true, ref: func(s any) any { return &s.(*Style).IndentWidth }},
	{
		name:   "UseTab",
		kind:   kindEnum,
		values: []Value{Never, ForIndentation, ForContinuationAndIndentation, AlignWithSpaces, Always},
		ref:    func(s any) any { return &s.(*Style).UseTab },
	},
}
