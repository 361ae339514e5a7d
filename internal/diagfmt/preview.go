package diagfmt

import (
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"

	"cfmt/internal/diag"
	"cfmt/internal/source"
)

type fixEditPreview struct {
	before []string
	after  []string
}

// buildFixEditPreview returns the lines covered by edit before and after it
// is applied.
func buildFixEditPreview(fs *source.FileSet, edit diag.FixEdit) (fixEditPreview, error) {
	file := fileOf(fs, edit.Span)
	if file == nil {
		return fixEditPreview{}, errors.New("edit outside of the file set")
	}

	startPos, endPos := fs.Resolve(edit.Span)
	startLine := startPos.Line
	endLine := max(endPos.Line, startLine)

	blockStart := lineStartOffset(file, startLine)
	blockEnd := max(lineEndOffsetInclusive(file, endLine), blockStart)

	lenFileContent, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return fixEditPreview{}, fmt.Errorf("len file content overflow: %w", err)
	}
	blockEnd = min(blockEnd, lenFileContent)

	original := file.Content[blockStart:blockEnd]
	relStart := int(edit.Span.Start) - int(blockStart)
	relEnd := int(edit.Span.End) - int(blockStart)
	if relStart < 0 || relStart > len(original) {
		return fixEditPreview{}, fmt.Errorf("edit span start %d out of range for preview block", relStart)
	}
	if relEnd < relStart || relEnd > len(original) {
		return fixEditPreview{}, fmt.Errorf("edit span end %d out of range for preview block", relEnd)
	}

	after := make([]byte, 0, len(original)+len(edit.NewText))
	after = append(after, original[:relStart]...)
	after = append(after, edit.NewText...)
	after = append(after, original[relEnd:]...)

	return fixEditPreview{
		before: splitPreviewLines(original),
		after:  splitPreviewLines(after),
	}, nil
}

func splitPreviewLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	return strings.Split(strings.TrimRight(string(content), "\n"), "\n")
}

func lineStartOffset(f *source.File, line uint32) uint32 {
	if line <= 1 {
		return 0
	}
	idx := line - 2
	if int(idx) < len(f.LineIdx) {
		return f.LineIdx[idx] + 1
	}
	return uint32(len(f.Content)) // #nosec G115 -- checked when the file was added
}

func lineEndOffsetInclusive(f *source.File, line uint32) uint32 {
	if line == 0 {
		return 0
	}
	idx := line - 1
	if int(idx) < len(f.LineIdx) {
		return f.LineIdx[idx] + 1
	}
	return uint32(len(f.Content)) // #nosec G115 -- checked when the file was added
}
