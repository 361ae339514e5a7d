package source

import (
	"bytes"
	"path/filepath"
	"slices"
	"strings"
)

// normalizeCRLF rewrites every \r\n pair to \n, leaving lone \r untouched.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false

	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

var bom = []byte{0xEF, 0xBB, 0xBF}

func removeBOM(content []byte) ([]byte, bool) {
	if bytes.HasPrefix(content, bom) {
		return content[len(bom):], true
	}
	return content, false
}

// Restore undoes the normalization recorded in flags, so formatted output
// keeps the line endings and byte order mark of the original file.
func Restore(content []byte, flags FileFlags) []byte {
	if flags&FileNormalizedCRLF != 0 {
		content = bytes.ReplaceAll(content, []byte("\n"), []byte("\r\n"))
	}
	if flags&FileHadBOM != 0 {
		content = append(slices.Clone(bom), content...)
	}
	return content
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i)) // #nosec G115 -- bounded by file size check in Add
		}
	}
	return out
}

// toLineCol maps a byte offset to its 1-based line and column. lineIdx
// holds the offsets of every newline in the file.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	line, _ := slices.BinarySearch(lineIdx, off)
	var start uint32
	if line > 0 {
		start = lineIdx[line-1] + 1
	}
	return LineCol{Line: uint32(line) + 1, Col: off - start + 1} // #nosec G115 -- line <= len(lineIdx)
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

// AbsolutePath returns the cleaned absolute form of p.
func AbsolutePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return normalizePath(abs), nil
}

// RelativePath returns p relative to baseDir. Paths outside baseDir are
// returned in absolute form.
func RelativePath(p, baseDir string) (string, error) {
	abs, err := AbsolutePath(p)
	if err != nil {
		return "", err
	}
	base, err := AbsolutePath(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil || rel == ".." || strings.HasPrefix(filepath.ToSlash(rel), "../") {
		return abs, nil //nolint:nilerr // fall back to the absolute form
	}
	return normalizePath(rel), nil
}

// BaseName returns the last element of p.
func BaseName(p string) string {
	return filepath.Base(p)
}
