package diagfmt

import (
	"cfmt/internal/source"
)

// fileOf returns the file span points into, or nil when fs does not hold
// it.
func fileOf(fs *source.FileSet, span source.Span) *source.File {
	if fs == nil || int(span.File) >= fs.Len() {
		return nil
	}
	return fs.Get(span.File)
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	case PathModeAuto:
		return f.FormatPath("auto", "")
	default:
		return f.Path
	}
}
