package diag

import (
	"fmt"
	"math"
	"sort"

	"fortio.org/safecast"
)

// Bag collects diagnostics up to a fixed limit.
type Bag struct {
	items []Diagnostic
	max   uint16
}

// NewBag returns a bag holding at most maxItems diagnostics.
func NewBag(maxItems int) *Bag {
	capped, err := safecast.Conv[uint16](maxItems)
	if err != nil {
		capped = math.MaxUint16
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(maxItems, 64)),
		max:   capped,
	}
}

// Add stores d unless the bag is full; it reports whether d was kept.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() uint16 {
	return b.max
}

// HasErrors reports whether any diagnostic has error severity.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any diagnostic is at least a warning.
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the stored diagnostics. The slice aliases the bag; do not modify it.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends the diagnostics of other, growing the limit when needed.
func (b *Bag) Merge(other *Bag) {
	newTotal := len(b.items) + len(other.items)
	if newTotal > int(b.max) {
		if capped, err := safecast.Conv[uint16](newTotal); err == nil {
			b.max = capped
		} else {
			b.max = math.MaxUint16
		}
	}
	b.items = append(b.items, other.items...)
}

// Sort orders diagnostics by file, start, end, severity (desc) and code.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code.String() < dj.Code.String()
	})
}

// Dedup drops diagnostics repeating an earlier code and primary span.
func (b *Bag) Dedup() {
	seen := make(map[string]bool)
	newitems := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		key := fmt.Sprintf("%s:%s", d.Code.String(), d.Primary.String())
		if seen[key] {
			continue
		}
		seen[key] = true
		newitems = append(newitems, d)
	}
	b.items = newitems
}
