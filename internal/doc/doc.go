// Package doc holds the layout tree the parser builds while it walks the
// token stream, and the engine that renders it under a column limit.
//
// The tree is built through the methods on *Doc: each one allocates a node,
// appends it to the receiver and returns it so the caller can keep building
// inside it. Nothing reads the tree back except Width, Render and Dump.
package doc

import (
	"slices"
	"strings"
)

// Kind tags a node.
type Kind uint8

const (
	Concat Kind = iota
	Group
	Indent
	Dedent
	Align
	Literal
	Verbatim
	Line
	SoftLine
	HardLine
	OptLine
	Mute
	Optional
	Minimize
	Scope
)

var kindNames = [...]string{
	Concat:   "CONCAT",
	Group:    "GROUP",
	Indent:   "INDENT",
	Dedent:   "DEDENT",
	Align:    "ALIGN",
	Literal:  "LITERAL",
	Verbatim: "VERBATIM",
	Line:     "LINE",
	SoftLine: "SOFTLINE",
	HardLine: "HARDLINE",
	OptLine:  "OPTLINE",
	Mute:     "MUTE",
	Optional: "OPTIONAL",
	Minimize: "MINIMIZE",
	Scope:    "SCOPE",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "UNKNOWN"
}

// container reports whether nodes of kind k own children.
func (k Kind) container() bool {
	switch k {
	case Concat, Group, Indent, Dedent, Optional, Minimize, Scope:
		return true
	}
	return false
}

// Indentation sentinels, or'ed into a positive Indent amount.
const (
	// IndentParens indents to the column after the opening parenthesis when
	// AlignAfterOpenBracket is Align, by ContinuationIndentWidth otherwise.
	IndentParens = 0x40000000
	// IndentForce pads the current line up to the new indentation at once.
	IndentForce = 0x20000000
	// IndentNewline only takes effect after the first line break emitted
	// inside the node.
	IndentNewline = 0x10000000

	indentSentinels = IndentParens | IndentForce | IndentNewline
)

// splitIndent separates an indent amount from its sentinels. Negative
// amounts never carry sentinels.
func splitIndent(v int) (n, sentinels int) {
	if v <= 0 {
		return v, 0
	}
	return v &^ indentSentinels, v & indentSentinels
}

// AlignSpec describes the padding of an Align node. Spaces is used when the
// enclosing group renders flat or Indent is zero; otherwise Indent tabs
// (Tabs) or spaces are emitted. A tab padding with a nonzero Column instead
// advances to the first tab stop at least Column cells past the indentation
// of the line.
type AlignSpec struct {
	Indent int
	Spaces int
	Tabs   bool
	Column int
}

// Candidate is one indentation alternative of a Minimize node.
type Candidate struct {
	Indent int
	Force  bool // chosen regardless of its score
}

// Doc is one node of the layout tree.
type Doc struct {
	Kind Kind

	parent   *Doc
	children []*Doc

	text   string      // Literal, Verbatim
	verb   verbMode    // Verbatim
	indent int         // Indent amount, Mute state
	align  AlignSpec   // Align
	cands  []Candidate // Minimize
	note   string
}

type verbMode uint8

const (
	verbFresh verbMode = 1 << iota // start on a fresh line
	verbEnd                        // end the line, absorbing the next break
	verbRaw                        // keep the leading blanks
)

// New returns a detached node of the given kind, usually the root Concat.
func New(kind Kind) *Doc {
	return &Doc{Kind: kind}
}

// Parent returns the node d is attached to, nil for a root.
func (d *Doc) Parent() *Doc { return d.parent }

// Children returns the children of a container node.
func (d *Doc) Children() []*Doc { return d.children }

// Len returns the number of children.
func (d *Doc) Len() int { return len(d.children) }

// Last returns the last child, nil if there is none.
func (d *Doc) Last() *Doc {
	if len(d.children) == 0 {
		return nil
	}
	return d.children[len(d.children)-1]
}

// Text returns the text of a Literal or Verbatim node.
func (d *Doc) Text() string { return d.text }

// Append attaches child as the last child of d and returns it.
func (d *Doc) Append(child *Doc) *Doc {
	if !d.Kind.container() {
		panic("doc: append to " + d.Kind.String())
	}
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = d
	d.children = append(d.children, child)
	return child
}

// AppendBefore attaches child to the parent of mark, right before it.
func (d *Doc) AppendBefore(child, mark *Doc) *Doc {
	i := slices.Index(d.children, mark)
	if i < 0 {
		panic("doc: mark is not a child")
	}
	if child.parent != nil {
		child.parent.Remove(child)
		i = slices.Index(d.children, mark)
	}
	child.parent = d
	d.children = slices.Insert(d.children, i, child)
	return child
}

// Remove detaches child from d.
func (d *Doc) Remove(child *Doc) {
	i := slices.Index(d.children, child)
	if i < 0 {
		return
	}
	d.children = slices.Delete(d.children, i, i+1)
	child.parent = nil
}

// RemoveTail detaches and returns the last child, nil if there is none.
func (d *Doc) RemoveTail() *Doc {
	last := d.Last()
	if last != nil {
		d.Remove(last)
	}
	return last
}

func (d *Doc) alloc(kind Kind) *Doc {
	return d.Append(&Doc{Kind: kind})
}

// Concat appends a sequence node.
func (d *Doc) Concat() *Doc { return d.alloc(Concat) }

// Group appends a fit-or-break unit.
func (d *Doc) Group() *Doc { return d.alloc(Group) }

// Indent appends a node that shifts the indentation of its content by n,
// possibly or'ed with the Indent* sentinels.
func (d *Doc) Indent(n int) *Doc {
	c := d.alloc(Indent)
	c.indent = n
	return c
}

// Dedent appends a node whose content starts from indentation zero.
func (d *Doc) Dedent() *Doc { return d.alloc(Dedent) }

// Align appends a padding node, spaces wide until a ruler adjusts it.
func (d *Doc) Align(spaces int) *Doc {
	c := d.alloc(Align)
	c.align.Spaces = spaces
	return c
}

// Literal appends text that never contains a line break.
func (d *Doc) Literal(text string) *Doc {
	c := d.alloc(Literal)
	c.text = text
	return c
}

// Verbatim appends source text emitted as is, such as a comment or a
// directive. A trailing newline ends the line.
func (d *Doc) Verbatim(text string) *Doc {
	c := d.alloc(Verbatim)
	c.text = text
	return c
}

// Directive appends a preprocessor line. It starts on a fresh line and the
// line break ending it takes the place of the next one.
func (d *Doc) Directive(text string) *Doc {
	c := d.Verbatim(text)
	c.verb = verbFresh | verbEnd
	return c
}

// Comment appends a comment taking whole source lines. It starts on a fresh
// line and, when text ends with a line break, ends its own line too.
func (d *Doc) Comment(text string) *Doc {
	c := d.Verbatim(text)
	c.verb = verbFresh
	if strings.HasSuffix(text, "\n") {
		c.verb |= verbEnd
	}
	return c
}

// Source appends original source text kept byte for byte.
func (d *Doc) Source(text string) *Doc {
	c := d.Verbatim(text)
	c.verb = verbRaw
	return c
}

// EndLine appends a node ending the current line, used after a line
// comment. The break takes the place of the next one.
func (d *Doc) EndLine() *Doc {
	c := d.alloc(Verbatim)
	c.verb = verbEnd
	return c
}

// Line appends a space that becomes a line break when the group breaks.
func (d *Doc) Line() *Doc { return d.alloc(Line) }

// SoftLine appends nothing that becomes a line break when the group breaks.
func (d *Doc) SoftLine() *Doc { return d.alloc(SoftLine) }

// HardLine appends an unconditional line break.
func (d *Doc) HardLine() *Doc { return d.alloc(HardLine) }

// OptLine appends a line break honoured only inside a broken Optional.
func (d *Doc) OptLine() *Doc { return d.alloc(OptLine) }

// Mute appends a switch turning emission off (on is true) or back on.
func (d *Doc) Mute(on bool) *Doc {
	c := d.alloc(Mute)
	if on {
		c.indent = 1
	}
	return c
}

// Optional appends a node enabling the OptLines of its content.
func (d *Doc) Optional() *Doc { return d.alloc(Optional) }

// Minimize appends a node rendering its content with the cheapest of the
// given indentations.
func (d *Doc) Minimize(cands ...Candidate) *Doc {
	c := d.alloc(Minimize)
	c.cands = slices.Clone(cands)
	return c
}

// Scope appends a node whose first line break ends width measurement of an
// enclosing group successfully.
func (d *Doc) Scope() *Doc { return d.alloc(Scope) }

// SetIndent changes the amount of an Indent node.
func (d *Doc) SetIndent(n int) { d.indent = n }

// SetAlign changes the padding of an Align node.
func (d *Doc) SetAlign(a AlignSpec) { d.align = a }

// AlignSpec returns the padding of an Align node.
func (d *Doc) AlignSpec() AlignSpec { return d.align }

// Annotate attaches a note shown by Dump.
func (d *Doc) Annotate(note string) { d.note = note }

// Muted reports whether d is a Mute node switching emission off.
func (d *Doc) Muted() bool { return d.Kind == Mute && d.indent != 0 }
