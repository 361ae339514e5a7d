package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet manages a collection of source files and resolves spans into
// line/column positions.
type FileSet struct {
	files   []File
	baseDir string
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{files: make([]File, 0)}
}

// SetBaseDir sets the directory used for relative paths.
func (fileSet *FileSet) SetBaseDir(dir string) {
	fileSet.baseDir = dir
}

// BaseDir returns the directory used for relative paths, defaulting to the
// working directory.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fileSet.baseDir
}

// Add stores a file from normalized bytes, computes LineIdx and Hash, and returns a new FileID.
// It always creates a new FileID even if a file with the same path already exists.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("file %s too large: %w", path, err))
	}
	hash := sha256.Sum256(content)
	lineIdx := buildLineIndex(content)

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalizePath(path),
		Content: content,
		LineIdx: lineIdx,
		Hash:    hash,
		Flags:   flags,
	})
	return id
}

// Load reads a file from disk, normalizes CRLF/BOM, and calls Add.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return fileSet.AddNormalized(path, content), nil
}

// AddNormalized strips a byte order mark and CRLF line endings from content
// before adding it, recording what was removed in the file flags.
func (fileSet *FileSet) AddNormalized(path string, content []byte) FileID {
	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)

	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return fileSet.Add(path, content, flags)
}

// AddVirtual adds a virtual file (stdin, test, or generated) with the FileVirtual flag.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// Get returns the file metadata for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	return &fileSet.files[id]
}

// Len returns the number of files ever added.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// Resolve converts a span into line and column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := &fileSet.files[span.File]
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// Position returns the line and column of off.
func (f *File) Position(off uint32) LineCol {
	return toLineCol(f.LineIdx, off)
}

// Offset converts a 1-based line and column back to a byte offset, clamped
// to the file length.
func (f *File) Offset(line, col uint32) uint32 {
	size := uint32(len(f.Content)) // #nosec G115 -- checked in Add
	if line == 0 {
		return 0
	}
	var start uint32
	if line > 1 {
		if int(line-2) >= len(f.LineIdx) {
			return size
		}
		start = f.LineIdx[line-2] + 1
	}
	off := start
	if col > 0 {
		off += col - 1
	}
	return min(off, size)
}

// GetLine returns the text of the 1-based line lineNum without its newline.
// Out of range lines yield an empty string.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}
	lenContent := uint32(len(f.Content)) // #nosec G115 -- checked in Add
	lenLineIdx := uint32(len(f.LineIdx)) // #nosec G115 -- bounded by content length

	var start, end uint32
	switch {
	case lineNum == 1:
		start = 0
	case lineNum-2 < lenLineIdx:
		start = f.LineIdx[lineNum-2] + 1
	default:
		return ""
	}
	if lineNum-1 < lenLineIdx {
		end = f.LineIdx[lineNum-1]
	} else {
		end = lenContent
	}
	if start >= lenContent {
		return ""
	}
	return string(f.Content[start:min(end, lenContent)])
}

// FormatPath renders the file path in one of the modes "absolute",
// "relative", "basename" or "auto".
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
		return f.Path

	case "relative":
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
		return f.Path

	case "basename":
		return BaseName(f.Path)

	case "auto":
		if len(f.Path) < 40 || !filepath.IsAbs(f.Path) {
			return f.Path
		}
		return BaseName(f.Path)

	default:
		return f.Path
	}
}
