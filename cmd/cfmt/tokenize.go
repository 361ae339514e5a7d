package main

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"

	"cfmt/internal/diag"
	"cfmt/internal/diagfmt"
	"cfmt/internal/doc"
	"cfmt/internal/driver"
	"cfmt/internal/source"
	"cfmt/internal/style"
)

func newTokenizeCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "tokenize [flags] FILE",
		Short: "Print the token stream of a source file",
		Long: `Tokenize lexes a source file and prints its tokens along with the comments,
directives and whitespace attached to them. Directives of a conditional are
linked to their siblings and parent.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokenize(cmd, args[0], format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	return cmd
}

func runTokenize(cmd *cobra.Command, path, format string) error {
	if format != "pretty" && format != "json" {
		return usageErrorf("tokenize: unknown format %q", format)
	}
	globals, err := readGlobals(cmd)
	if err != nil {
		return err
	}
	res, err := driver.Tokenize(path, globals.maxDiagnostics)
	if res == nil {
		return loadError(err)
	}
	printDiagnostics(cmd, res.Bag, res.FileSet, globals)
	if err != nil {
		return withExit(ExitFormatErrors, err)
	}

	switch format {
	case "json":
		return diagfmt.FormatTokensJSON(cmd.OutOrStdout(), res.Lexer.Tokens(), res.File.ID)
	default:
		return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), res.Lexer.Tokens())
	}
}

func newDocCommand() *cobra.Command {
	var stylePath string
	cmd := &cobra.Command{
		Use:   "doc [flags] FILE",
		Short: "Print the layout document built for a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			globals, err := readGlobals(cmd)
			if err != nil {
				return err
			}
			styleBag := diag.NewBag(globals.maxDiagnostics)
			styles := style.NewResolver(stylePath, diag.BagReporter{Bag: styleBag})
			res, err := driver.BuildDoc(args[0], styles, globals.maxDiagnostics)
			printDiagnostics(cmd, styleBag, styles.FileSet(), globals)
			if res == nil || res.TokenizeResult == nil {
				return loadError(err)
			}
			printDiagnostics(cmd, res.Bag, res.FileSet, globals)
			if err != nil {
				return withExit(ExitFormatErrors, err)
			}
			return doc.Dump(cmd.OutOrStdout(), res.Doc)
		},
	}
	cmd.Flags().StringVar(&stylePath, "style", "", "style file used instead of .clang-format lookup")
	return cmd
}

// loadError maps a failure to open a source or style file to its exit
// status.
func loadError(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return withExit(ExitIOError, err)
	}
	return withExit(ExitConfigError, err)
}

func printDiagnostics(cmd *cobra.Command, bag *diag.Bag, files *source.FileSet, globals globalOptions) {
	bag = visible(bag, globals.minSeverity())
	if bag == nil {
		return
	}
	diagfmt.Pretty(cmd.ErrOrStderr(), bag, files, diagfmt.PrettyOpts{
		Color:     diagfmt.ColorEnabled(globals.color, cmd.ErrOrStderr()),
		Context:   1,
		ShowNotes: true,
	})
}

func newStyleCommand() *cobra.Command {
	var stylePath string
	cmd := &cobra.Command{
		Use:   "style [flags] [DIR]",
		Short: "Print the effective style options for a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runStyle(cmd, dir, stylePath)
		},
	}
	cmd.Flags().StringVar(&stylePath, "style", "", "style file to show instead of the one found for DIR")
	return cmd
}

func runStyle(cmd *cobra.Command, dir, stylePath string) error {
	globals, err := readGlobals(cmd)
	if err != nil {
		return err
	}
	from := stylePath
	if from == "" {
		if from, err = style.Find(dir); err != nil {
			return withExit(ExitIOError, err)
		}
	}
	bag := diag.NewBag(globals.maxDiagnostics)
	styles := style.NewResolver(stylePath, diag.BagReporter{Bag: bag})
	// ForFile searches the directory holding its argument.
	st, err := styles.ForFile(filepath.Join(dir, "_"))
	printDiagnostics(cmd, bag, styles.FileSet(), globals)
	if err != nil {
		return loadError(err)
	}

	out := cmd.OutOrStdout()
	if from == "" {
		fmt.Fprintln(out, "# built-in defaults")
	} else {
		fmt.Fprintf(out, "# %s\n", from)
	}
	for _, s := range st.Settings() {
		fmt.Fprintf(out, "%s: %s\n", s.Name, s.Value)
	}
	if bag.HasErrors() {
		return withExit(ExitConfigError, nil)
	}
	return nil
}
