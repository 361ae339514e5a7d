package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color       bool
	Context     int8 // source lines shown around the primary line
	PathMode    PathMode
	ShowNotes   bool
	ShowFixes   bool
	ShowPreview bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // add line/col
	PathMode         PathMode
	Max              int // limit on printed diagnostics, independent of the Bag
	IncludeNotes     bool
	IncludeFixes     bool
	IncludePreviews  bool
}
