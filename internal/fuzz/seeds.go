package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 64 << 10

var seeds = []string{
	"",
	"int x;\n",
	"x=1;",
	"int f(void){return 0;}",
	"static const char*p=0;",
	"struct s{int a;char *name;};",
	"struct s x = { .a = 1, .bb = 22 };",
	"int m[] = {\n\t1, 22, 3,\n\t444, 5, 6,\n};\n",
	"void f(void){switch(x){case 1:y();break;default:z();}}",
	"void f(void){do{x++;}while(x<3);}",
	"void f(void){goto out;out:return;}",
	"#include <stdio.h>\n#define F(x) \\\n    x + 1\n",
	"#if A\nfoo();\n#elif B\nbaz();\n#else\nbar(??\n#endif\n",
	"int\nf(void)\n{\n#if A\n\tfoo();\n#else\n\tbar();\n#endif\n}\n",
	"#endif\nx;\n#if\n",
	"/* unterminated",
	"char *s = \"unterminated;\n",
	"int a; // c\n/* a */ /* b */ int b;\n",
	"TAILQ_HEAD(, entry);",
	"int b = ];\n  int   c;\n",
	"\xef\xbb\xbfint x;\r\n",
	"a \\\nb\n",
	"x = L'a' + 0x1fUL + 1.5e3 ... ..;",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range seeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds adds the C sources kept under testdata, if any.
func addTestdataSeeds(f *testing.F) {
	root := "testdata"
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".c", ".h":
		default:
			return nil
		}
		// #nosec G304 -- path comes from the testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
