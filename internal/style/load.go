package style

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"

	"cfmt/internal/diag"
	"cfmt/internal/source"
)

// FileNames are the style file names looked up by Find, in order.
var FileNames = []string{".clang-format", "_clang-format"}

// Find searches startDir and its parents for a style file. It returns an
// empty path when there is none.
func Find(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve style directory: %w", err)
	}
	for {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
				return path, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Load reads and parses the style file at path.
func Load(fs *source.FileSet, path string, r diag.Reporter) (*Style, error) {
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load style: %w", err)
	}
	return Parse(fs.Get(id), r)
}

// Parse parses a YAML style document on top of the defaults. Every
// document of a multi-document stream is applied in order. Problems with
// individual options are reported through r and leave the default in
// place; only malformed YAML fails.
func Parse(file *source.File, r diag.Reporter) (*Style, error) {
	s := Defaults()
	s.Path = file.Path
	ld := loader{file: file, r: r}

	dec := yaml.NewDecoder(bytes.NewReader(file.Content))
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			sp := source.Span{File: file.ID}
			diag.ReportError(r, diag.StyleParseFailed, sp, err.Error()).Emit()
			return nil, fmt.Errorf("%s: %w", file.Path, err)
		}
		if len(doc.Content) == 0 {
			continue
		}
		root := doc.Content[0]
		switch root.Kind {
		case yaml.MappingNode:
			ld.mapping(styleOptions, s, root)
		case yaml.ScalarNode:
			if root.Tag == "!!null" {
				continue
			}
			fallthrough
		default:
			ld.invalid(root, "style document must be a mapping")
		}
	}
	return s, nil
}

type loader struct {
	file *source.File
	r    diag.Reporter
}

func (ld *loader) span(n *yaml.Node) source.Span {
	if n.Line <= 0 || n.Column <= 0 {
		return source.Span{File: ld.file.ID}
	}
	off := ld.file.Offset(uint32(n.Line), uint32(n.Column)) // #nosec G115 -- positions of a loaded file
	end := off
	if n.Kind == yaml.ScalarNode {
		end += uint32(len(n.Value)) // #nosec G115
	}
	return source.Span{File: ld.file.ID, Start: off, End: min(end, uint32(len(ld.file.Content)))} // #nosec G115
}

func (ld *loader) invalid(n *yaml.Node, msg string) {
	diag.ReportError(ld.r, diag.StyleInvalidValue, ld.span(n), msg).Emit()
}

func (ld *loader) mapping(opts []option, scope any, n *yaml.Node) {
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		opt, ok := lookup(opts, key.Value)
		if !ok {
			diag.ReportWarning(ld.r, diag.StyleUnknownOption, ld.span(key),
				fmt.Sprintf("unknown option %s", key.Value)).Emit()
			continue
		}
		ld.value(opt, opt.ref(scope), key, val)
	}
}

func (ld *loader) value(opt *option, dst any, key, val *yaml.Node) {
	want := func() {
		ld.invalid(val, fmt.Sprintf("option %s expects a %s", key.Value, opt.kind))
	}
	unknown := func() {
		ld.invalid(val, fmt.Sprintf("unknown value %s for option %s", val.Value, key.Value))
	}

	switch opt.kind {
	case kindInt:
		if val.Kind != yaml.ScalarNode {
			want()
			return
		}
		n, err := strconv.ParseInt(val.Value, 0, 32)
		var numErr *strconv.NumError
		switch {
		case errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange):
			diag.ReportError(ld.r, diag.StyleIntegerOverflow, ld.span(val),
				fmt.Sprintf("integer %s too large", val.Value)).Emit()
		case err != nil, opt.natural && n < 0:
			unknown()
		default:
			*dst.(*int) = int(n)
		}

	case kindBool:
		var b bool
		if val.Kind != yaml.ScalarNode || val.Decode(&b) != nil {
			unknown()
			return
		}
		*dst.(*bool) = b

	case kindEnum:
		if val.Kind != yaml.ScalarNode {
			want()
			return
		}
		if v, ok := opt.aliases[val.Value]; ok {
			*dst.(*Value) = v
			return
		}
		v, ok := valueByName(val.Value)
		if !ok || !slices.Contains(opt.values, v) {
			unknown()
			return
		}
		*dst.(*Value) = v

	case kindString:
		if val.Kind != yaml.ScalarNode {
			want()
			return
		}
		*dst.(*string) = val.Value

	case kindNested:
		if val.Kind != yaml.MappingNode {
			want()
			return
		}
		ld.mapping(opt.fields, dst, val)

	case kindSequence:
		if val.Kind != yaml.SequenceNode {
			want()
			return
		}
		for _, item := range val.Content {
			if item.Kind != yaml.MappingNode {
				ld.invalid(item, fmt.Sprintf("entries of %s must be mappings", key.Value))
				continue
			}
			ld.mapping(opt.fields, opt.elem(dst), item)
		}
	}
}
