package style

import (
	"crypto/sha256"
	"fmt"
	"strconv"
)

// Setting is one effective option value.
type Setting struct {
	Name  string
	Value string
}

// Settings lists every option of s in schema order. Nested options are
// named Parent.Child and sequence entries Parent[i].Child.
func (s *Style) Settings() []Setting {
	var out []Setting
	settings(&out, "", styleOptions, s)
	return out
}

func settings(out *[]Setting, prefix string, opts []option, scope any) {
	for i := range opts {
		opt := &opts[i]
		name := prefix + opt.name
		dst := opt.ref(scope)
		switch p := dst.(type) {
		case *int:
			*out = append(*out, Setting{name, strconv.Itoa(*p)})
		case *bool:
			*out = append(*out, Setting{name, strconv.FormatBool(*p)})
		case *Value:
			*out = append(*out, Setting{name, p.String()})
		case *string:
			*out = append(*out, Setting{name, strconv.Quote(*p)})
		case *BraceWrapping:
			settings(out, name+".", opt.fields, p)
		case *[]IncludeCategory:
			for j := range *p {
				settings(out, fmt.Sprintf("%s[%d].", name, j), opt.fields, &(*p)[j])
			}
		}
	}
}

// Hash returns a digest of every effective option of s.
func (s *Style) Hash() [32]byte {
	h := sha256.New()
	for _, st := range s.Settings() {
		fmt.Fprintf(h, "%s=%s\n", st.Name, st.Value)
	}
	var sum [32]byte
	h.Sum(sum[:0])
	return sum
}
