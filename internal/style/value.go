package style

// Value is an enumerated option value. All enumerations share one
// namespace, the same spelling always maps to the same Value.
type Value uint8

const (
	Unset Value = iota
	Align
	AlignAfterOperator
	AlignWithSpaces
	All
	AllDefinitions
	Allman
	Always
	AlwaysBreak
	Attach
	BlockIndent
	Custom
	DontAlign
	ForContinuationAndIndentation
	ForIndentation
	GNU
	Left
	Linux
	Mozilla
	MultiLine
	Never
	NonAssignment
	None
	Right
	Stroustrup
	TopLevel
	TopLevelDefinitions
	WebKit
	Whitesmiths

	numValues
)

var valueNames = [numValues]string{
	Unset:                         "",
	Align:                         "Align",
	AlignAfterOperator:            "AlignAfterOperator",
	AlignWithSpaces:               "AlignWithSpaces",
	All:                           "All",
	AllDefinitions:                "AllDefinitions",
	Allman:                        "Allman",
	Always:                        "Always",
	AlwaysBreak:                   "AlwaysBreak",
	Attach:                        "Attach",
	BlockIndent:                   "BlockIndent",
	Custom:                        "Custom",
	DontAlign:                     "DontAlign",
	ForContinuationAndIndentation: "ForContinuationAndIndentation",
	ForIndentation:                "ForIndentation",
	GNU:                           "GNU",
	Left:                          "Left",
	Linux:                         "Linux",
	Mozilla:                       "Mozilla",
	MultiLine:                     "MultiLine",
	Never:                         "Never",
	NonAssignment:                 "NonAssignment",
	None:                          "None",
	Right:                         "Right",
	Stroustrup:                    "Stroustrup",
	TopLevel:                      "TopLevel",
	TopLevelDefinitions:           "TopLevelDefinitions",
	WebKit:                        "WebKit",
	Whitesmiths:                   "Whitesmiths",
}

func (v Value) String() string {
	if v < numValues {
		return valueNames[v]
	}
	return "Value(?)"
}

// valueByName resolves the spelling of a Value.
func valueByName(name string) (Value, bool) {
	for v := Unset + 1; v < numValues; v++ {
		if valueNames[v] == name {
			return v, true
		}
	}
	return Unset, false
}
