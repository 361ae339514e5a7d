package token

import "fmt"

// Arena owns every token of one lexer. Tokens are addressed by Ref and
// reference counted: stream membership, fixup lists, stamps and the unmute
// marker each hold one reference. A slot is recycled once its count drops
// to zero.
type Arena struct {
	slots []*Token
	free  []Ref
	live  int
}

// NewArena returns an empty arena. Slot zero is reserved for the nil Ref.
func NewArena() *Arena {
	return &Arena{slots: []*Token{nil}}
}

// New allocates a token holding one reference.
func (a *Arena) New(kind Kind, flags Flags, text string) *Token {
	var t *Token
	if n := len(a.free); n > 0 {
		id := a.free[n-1]
		a.free = a.free[:n-1]
		t = a.slots[id]
		*t = Token{id: id}
	} else {
		t = &Token{id: Ref(len(a.slots))} // #nosec G115 -- arenas stay far below 2^31 tokens
		a.slots = append(a.slots, t)
	}
	t.Kind, t.Flags, t.Text = kind, flags, text
	t.arena = a
	t.refs = 1
	a.live++
	return t
}

// Clone allocates a copy of t without its fixups, links or bookkeeping flags.
func (a *Arena) Clone(t *Token) *Token {
	c := a.New(t.Kind, t.Flags&^(FlagStamp|FlagUnmute), t.Text)
	c.Off, c.Line, c.Col = t.Off, t.Line, t.Col
	return c
}

// Get resolves r, returning nil for the nil Ref or a released slot.
func (a *Arena) Get(r Ref) *Token {
	if r <= 0 || int(r) >= len(a.slots) {
		return nil
	}
	t := a.slots[r]
	if t.refs == 0 {
		return nil
	}
	return t
}

// Retain adds a reference to t.
func (a *Arena) Retain(t *Token) {
	if t.refs <= 0 {
		panic(fmt.Sprintf("token: retain of released %s", t))
	}
	t.refs++
}

// Release drops a reference to t. Dropping the last one releases its
// fixups, after detaching them from any conditional chain.
func (a *Arena) Release(t *Token) {
	if t.refs <= 0 {
		panic(fmt.Sprintf("token: release of released %s", t))
	}
	t.refs--
	if t.refs > 0 {
		return
	}
	for _, r := range t.Prefixes {
		if fx := a.Get(r); fx != nil {
			for BranchUnlink(fx) == 0 {
			}
			a.Release(fx)
		}
	}
	for _, r := range t.Suffixes {
		if fx := a.Get(r); fx != nil {
			a.Release(fx)
		}
	}
	id := t.id
	*t = Token{id: id}
	a.free = append(a.free, id)
	a.live--
}

// Live returns the number of allocated tokens, fixups included.
func (a *Arena) Live() int { return a.live }

// List is the doubly linked stream of ordinary tokens.
type List struct {
	arena      *Arena
	head, tail Ref
	n          int
}

// NewList returns an empty list over a.
func NewList(a *Arena) *List { return &List{arena: a} }

// Len returns the number of tokens in the list.
func (l *List) Len() int { return l.n }

// First returns the first token, or nil.
func (l *List) First() *Token { return l.arena.Get(l.head) }

// Last returns the last token, or nil.
func (l *List) Last() *Token { return l.arena.Get(l.tail) }

// PushBack appends t, taking over the caller's reference.
func (l *List) PushBack(t *Token) {
	t.prev, t.next = l.tail, 0
	if last := l.arena.Get(l.tail); last != nil {
		last.next = t.id
	} else {
		l.head = t.id
	}
	l.tail = t.id
	l.n++
}

// InsertBefore links t in front of mark.
func (l *List) InsertBefore(t, mark *Token) {
	t.next, t.prev = mark.id, mark.prev
	if pv := l.arena.Get(mark.prev); pv != nil {
		pv.next = t.id
	} else {
		l.head = t.id
	}
	mark.prev = t.id
	l.n++
}

// InsertAfter links t after mark.
func (l *List) InsertAfter(t, mark *Token) {
	t.prev, t.next = mark.id, mark.next
	if nx := l.arena.Get(mark.next); nx != nil {
		nx.prev = t.id
	} else {
		l.tail = t.id
	}
	mark.next = t.id
	l.n++
}

// Unlink detaches t from the list without releasing it.
func (l *List) Unlink(t *Token) {
	if pv := l.arena.Get(t.prev); pv != nil {
		pv.next = t.next
	} else {
		l.head = t.next
	}
	if nx := l.arena.Get(t.next); nx != nil {
		nx.prev = t.prev
	} else {
		l.tail = t.prev
	}
	t.prev, t.next = 0, 0
	l.n--
}

// All returns the tokens of the list in order.
func (l *List) All() []*Token {
	out := make([]*Token, 0, l.n)
	for t := l.First(); t != nil; t = t.Next() {
		out = append(out, t)
	}
	return out
}
