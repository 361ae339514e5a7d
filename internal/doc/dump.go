package doc

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dump writes d as an indented tree, one node per line.
func Dump(w io.Writer, d *Doc) error {
	var sb strings.Builder
	dump(&sb, d, 0)
	_, err := io.WriteString(w, sb.String())
	return err
}

func dump(sb *strings.Builder, d *Doc, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(d.Kind.String())
	switch d.Kind {
	case Literal:
		sb.WriteString("(" + strconv.Quote(d.text) + ")")
	case Verbatim:
		sb.WriteString("(" + strconv.Quote(d.text))
		if d.verb&verbFresh != 0 {
			sb.WriteString(", fresh")
		}
		if d.verb&verbEnd != 0 {
			sb.WriteString(", end")
		}
		if d.verb&verbRaw != 0 {
			sb.WriteString(", raw")
		}
		sb.WriteString(")")
	case Indent:
		sb.WriteString("(" + indentString(d.indent) + ")")
	case Align:
		fmt.Fprintf(sb, "(indent=%d, spaces=%d, tabs=%t)", d.align.Indent, d.align.Spaces, d.align.Tabs)
	case Mute:
		fmt.Fprintf(sb, "(%t)", d.indent != 0)
	case Minimize:
		parts := make([]string, 0, len(d.cands))
		for _, c := range d.cands {
			s := indentString(c.Indent)
			if c.Force {
				s += "!"
			}
			parts = append(parts, s)
		}
		sb.WriteString("(" + strings.Join(parts, ", ") + ")")
	}
	if d.note != "" {
		sb.WriteString(" # " + d.note)
	}
	if !d.Kind.container() {
		sb.WriteByte('\n')
		return
	}
	sb.WriteString(" {\n")
	for _, c := range d.children {
		dump(sb, c, depth+1)
	}
	sb.WriteString(strings.Repeat("  ", depth) + "}\n")
}

func indentString(v int) string {
	n, sentinels := splitIndent(v)
	parts := []string{strconv.Itoa(n)}
	if sentinels&IndentParens != 0 {
		parts = append(parts, "PARENS")
	}
	if sentinels&IndentForce != 0 {
		parts = append(parts, "FORCE")
	}
	if sentinels&IndentNewline != 0 {
		parts = append(parts, "NEWLINE")
	}
	return strings.Join(parts, "|")
}
