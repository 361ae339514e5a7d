package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type run struct {
	stdout string
	stderr string
	err    error
}

// code returns the exit status the process would end with.
func (r run) code() int {
	if r.err == nil {
		return ExitSuccess
	}
	var exit *exitError
	if errors.As(r.err, &exit) {
		return exit.code
	}
	return ExitUsage
}

// execute runs cfmt with args from dir, feeding stdin.
func execute(t *testing.T, dir, stdin string, args ...string) run {
	t.Helper()
	t.Chdir(dir)
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return run{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRootCommandHasSubcommands(t *testing.T) {
	cmd := newRootCommand()
	assert.Equal(t, "cfmt", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	for _, name := range []string{"fmt", "tokenize", "doc", "style", "version"} {
		sub, _, err := cmd.Find([]string{name})
		if assert.NoError(t, err, name) {
			assert.Equal(t, name, sub.Name())
		}
	}
	for _, flag := range []string{"color", "quiet", "timings", "max-diagnostics", "log-level"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestFmtCommandFlags(t *testing.T) {
	cmd, _, err := newRootCommand().Find([]string{"fmt"})
	require.NoError(t, err)
	for _, flag := range []string{"check", "stdout", "format", "style", "jobs", "no-cache", "simple", "ui", "watch", "exclude", "ext"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), flag)
	}
}

func TestFmtRewritesFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/a.c":       "x=1;\n",
		"src/b.h":       "int y;\n",
		"src/c.txt":     "x=1;\n",
		".clang-format": "ColumnLimit: 80\n",
	})
	r := execute(t, root, "", "fmt", "--ui", "off", "src")
	require.NoError(t, r.err, r.stderr)
	assert.Equal(t, "reformatted "+filepath.Join("src", "a.c")+"\n", r.stdout)
	assert.Equal(t, "x = 1;\n", readFile(t, filepath.Join(root, "src", "a.c")))
	assert.Equal(t, "x=1;\n", readFile(t, filepath.Join(root, "src", "c.txt")))
}

func TestFmtCheck(t *testing.T) {
	root := writeTree(t, map[string]string{"a.c": "x=1;\n", "b.c": "int y;\n"})
	r := execute(t, root, "", "fmt", "--check", "--no-cache", ".")
	assert.Equal(t, ExitChanges, r.code())
	assert.Equal(t, "a.c\n", r.stdout)
	assert.Equal(t, "x=1;\n", readFile(t, filepath.Join(root, "a.c")))

	r = execute(t, root, "", "fmt", "--check", "--no-cache", "b.c")
	assert.Equal(t, ExitSuccess, r.code(), r.stderr)
	assert.Empty(t, r.stdout)
}

func TestFmtStdin(t *testing.T) {
	root := t.TempDir()
	r := execute(t, root, "x=1;", "fmt")
	require.NoError(t, r.err)
	assert.Equal(t, "x = 1;\n", r.stdout)

	r = execute(t, root, "int  y;\r\n", "fmt", "-")
	require.NoError(t, r.err)
	assert.Equal(t, "int y;\r\n", r.stdout)
}

func TestFmtSimple(t *testing.T) {
	root := t.TempDir()
	r := execute(t, root, "int static x;\nunsigned y;\n", "fmt", "--simple")
	require.NoError(t, r.err, r.stderr)
	assert.Equal(t, "static int x;\nunsigned int y;\n", r.stdout)

	r = execute(t, root, "int static x;\n", "fmt")
	require.NoError(t, r.err, r.stderr)
	assert.Equal(t, "int static x;\n", r.stdout)
}

func TestFmtStdout(t *testing.T) {
	root := writeTree(t, map[string]string{"a.c": "x=1;\n", "b.c": "y=2;\n"})
	r := execute(t, root, "", "fmt", "--stdout", "a.c", "b.c")
	require.NoError(t, r.err)
	assert.Equal(t, "x = 1;\ny = 2;\n", r.stdout)
	assert.Equal(t, "x=1;\n", readFile(t, filepath.Join(root, "a.c")))
}

func TestFmtJSON(t *testing.T) {
	root := writeTree(t, map[string]string{"a.c": "x=1;\n", "b.c": "int y;\n"})
	r := execute(t, root, "", "fmt", "--check", "--format", "json", "--no-cache", ".")
	assert.Equal(t, ExitChanges, r.code())

	var report fmtReportJSON
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &report), r.stdout)
	assert.True(t, report.Check)
	require.Len(t, report.Files, 2)
	assert.Equal(t, "a.c", report.Files[0].Path)
	assert.True(t, report.Files[0].Changed)
	assert.False(t, report.Files[1].Changed)
	assert.Equal(t, 2, report.Summary.Files)
	assert.Equal(t, 1, report.Summary.Changed)
}

func TestFmtTimingsJSON(t *testing.T) {
	root := writeTree(t, map[string]string{"a.c": "int y;\n"})
	r := execute(t, root, "", "fmt", "--timings", "--format", "json", "--no-cache", "a.c")
	require.NoError(t, r.err, r.stderr)

	var report fmtReportJSON
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &report))
	require.Len(t, report.Files, 1)
	require.NotEmpty(t, report.Files[0].Diagnostics)
	assert.Equal(t, "OBS6001", report.Files[0].Diagnostics[0].Code)
	assert.NotEmpty(t, report.Files[0].Diagnostics[0].Notes)
}

func TestFmtTimingsText(t *testing.T) {
	root := writeTree(t, map[string]string{"a.c": "int y;\n"})
	r := execute(t, root, "", "fmt", "--timings", "--no-cache", "a.c")
	require.NoError(t, r.err)
	assert.Contains(t, r.stderr, "timings:")
	assert.Contains(t, r.stderr, "format")
	assert.Contains(t, r.stderr, "total")
}

func TestFmtFailure(t *testing.T) {
	root := writeTree(t, map[string]string{"bad.c": "int x = `;\n", "good.c": "x=1;\n"})
	r := execute(t, root, "", "fmt", "--no-cache", ".")
	assert.Equal(t, ExitFormatErrors, r.code())
	assert.Contains(t, r.stderr, "LEX1001")
	assert.Equal(t, "x = 1;\n", readFile(t, filepath.Join(root, "good.c")))
	assert.Equal(t, "int x = `;\n", readFile(t, filepath.Join(root, "bad.c")))
}

func TestFmtShortDiagnostics(t *testing.T) {
	root := writeTree(t, map[string]string{"bad.c": "int x = `;\n"})
	r := execute(t, root, "", "fmt", "--no-cache", "--format", "short", "bad.c")
	assert.Equal(t, ExitFormatErrors, r.code())
	assert.Contains(t, r.stderr, "bad.c:1:")
	assert.Contains(t, r.stderr, ": error: ")
	assert.Contains(t, r.stderr, "[LEX1001]\n")
}

func TestFmtUsageErrors(t *testing.T) {
	root := writeTree(t, map[string]string{"a.c": "int y;\n"})
	tests := [][]string{
		{"fmt", "--stdout", "--check", "a.c"},
		{"fmt", "--stdout", "--format", "json", "a.c"},
		{"fmt", "--format", "xml", "a.c"},
		{"fmt", "--watch"},
		{"fmt", "--ui", "sometimes", "a.c"},
		{"fmt", "--jobs", "-1", "a.c"},
		{"--color", "purple", "fmt", "a.c"},
		{"fmt", "--no-such-flag"},
	}
	for _, args := range tests {
		r := execute(t, root, "", args...)
		assert.Equal(t, ExitUsage, r.code(), "%v: %v", args, r.err)
	}
}

func TestFmtNoSources(t *testing.T) {
	root := writeTree(t, map[string]string{"notes.txt": "x"})
	r := execute(t, root, "", "fmt", ".")
	assert.Equal(t, ExitIOError, r.code())
}

func TestFmtProjectConfig(t *testing.T) {
	root := writeTree(t, map[string]string{
		"cfmt.toml":  "[format]\nexclude = [\"gen\"]\nextensions = [\"c\", \".inc\"]\ncache = false\n",
		"a.c":        "x=1;\n",
		"t.inc":      "y=2;\n",
		"gen/g.c":    "z=3;\n",
		"sub/deep.c": "w=4;\n",
	})
	r := execute(t, filepath.Join(root, "sub"), "", "fmt", "..")
	require.NoError(t, r.err, r.stderr)
	assert.Equal(t, "x = 1;\n", readFile(t, filepath.Join(root, "a.c")))
	assert.Equal(t, "y = 2;\n", readFile(t, filepath.Join(root, "t.inc")))
	assert.Equal(t, "w = 4;\n", readFile(t, filepath.Join(root, "sub", "deep.c")))
	assert.Equal(t, "z=3;\n", readFile(t, filepath.Join(root, "gen", "g.c")))
}

func TestFmtBrokenProjectConfig(t *testing.T) {
	root := writeTree(t, map[string]string{
		"cfmt.toml": "[format]\njobs = \"many\"\n",
		"a.c":       "x=1;\n",
	})
	r := execute(t, root, "", "fmt", "a.c")
	assert.Equal(t, ExitConfigError, r.code())
	assert.Contains(t, r.stderr, "PRJ5101")
	assert.Equal(t, "x=1;\n", readFile(t, filepath.Join(root, "a.c")))
}

func TestFmtExplicitStyle(t *testing.T) {
	root := writeTree(t, map[string]string{
		"narrow.yaml": "ColumnLimit: 30\n",
		"a.c":         "void f(void){call(alpha, beta, gamma, delta);}\n",
	})
	r := execute(t, root, "", "fmt", "--stdout", "--style", "narrow.yaml", "a.c")
	require.NoError(t, r.err, r.stderr)
	assert.Equal(t, "void\nf(void)\n{\n\tcall(alpha, beta,\n\t    gamma, delta);\n}\n", r.stdout)
}

func TestFmtCachedSecondRun(t *testing.T) {
	root := writeTree(t, map[string]string{"a.c": "int y;\n"})
	t.Chdir(root)
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	runJSON := func() fmtReportJSON {
		cmd := newRootCommand()
		var stdout bytes.Buffer
		cmd.SetOut(&stdout)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"fmt", "--format", "json", "a.c"})
		require.NoError(t, cmd.ExecuteContext(context.Background()))
		var report fmtReportJSON
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))
		return report
	}
	assert.Equal(t, 0, runJSON().Summary.Cached)
	assert.Equal(t, 1, runJSON().Summary.Cached)
}

func TestTokenizeCommand(t *testing.T) {
	root := writeTree(t, map[string]string{"a.c": "#if A\nint x;\n#endif\n"})
	r := execute(t, root, "", "tokenize", "a.c")
	require.NoError(t, r.err, r.stderr)
	assert.Contains(t, r.stdout, `"int"`)
	assert.Contains(t, r.stdout, "#if A")

	r = execute(t, root, "", "tokenize", "--format", "json", "a.c")
	require.NoError(t, r.err)
	var tokens []map[string]any
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &tokens), r.stdout)
	assert.NotEmpty(t, tokens)

	r = execute(t, root, "", "tokenize", "missing.c")
	assert.Equal(t, ExitIOError, r.code())
}

func TestDocCommand(t *testing.T) {
	root := writeTree(t, map[string]string{"a.c": "int x;\n"})
	r := execute(t, root, "", "doc", "a.c")
	require.NoError(t, r.err, r.stderr)
	assert.Contains(t, r.stdout, `LITERAL("int")`)
}

func TestStyleCommand(t *testing.T) {
	root := writeTree(t, map[string]string{
		".clang-format": "ColumnLimit: 100\nNoSuchOption: 1\n",
		"src/a.c":       "int x;\n",
	})
	r := execute(t, root, "", "style", "src")
	require.NoError(t, r.err, r.stderr)
	assert.Contains(t, r.stdout, "# "+filepath.Join(root, ".clang-format"))
	assert.Contains(t, r.stdout, "ColumnLimit: 100\n")
	assert.Contains(t, r.stderr, "STY5001")

	r = execute(t, t.TempDir(), "", "style")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "# built-in defaults\n")
}

func TestVersionCommand(t *testing.T) {
	r := execute(t, t.TempDir(), "", "version", "--format", "json", "--hash")
	require.NoError(t, r.err)
	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &payload))
	assert.Equal(t, "cfmt", payload["tool"])
	assert.NotEmpty(t, payload["version"])
	assert.Equal(t, "unknown", payload["git_commit"])

	r = execute(t, t.TempDir(), "", "version", "--format", "yaml")
	assert.Equal(t, ExitUsage, r.code())
}

func TestProfilingFlags(t *testing.T) {
	root := writeTree(t, map[string]string{"a.c": "int x;\n"})
	out := t.TempDir()
	cpu := filepath.Join(out, "cpu.pprof")
	mem := filepath.Join(out, "mem.pprof")

	r := execute(t, root, "", "--cpu-profile", cpu, "--mem-profile", mem, "fmt", "a.c")
	require.NoError(t, r.err)
	require.NoError(t, stopProfiling())
	assert.FileExists(t, cpu)
	assert.FileExists(t, mem)

	r = execute(t, root, "", "--cpu-profile", filepath.Join(out, "missing", "cpu.pprof"), "fmt", "a.c")
	assert.Equal(t, ExitIOError, r.code())
	require.NoError(t, stopProfiling())
}
