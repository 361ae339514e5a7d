package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cfmt/internal/diag"
	"cfmt/internal/diagfmt"
	"cfmt/internal/driver"
	"cfmt/internal/logging"
	"cfmt/internal/source"
	"cfmt/internal/style"
)

const stdinPath = "-"

type fmtOptions struct {
	check      bool
	stdout     bool
	format     string
	style      string
	jobs       int
	noCache    bool
	noVerify   bool
	simple     bool
	ui         string
	watch      bool
	stdinName  string
	exclude    []string
	extensions []string
}

type globalOptions struct {
	color          string
	quiet          bool
	timings        bool
	maxDiagnostics int
	trace          bool
	verbose        bool // print info diagnostics
}

func newFmtCommand() *cobra.Command {
	var opts fmtOptions
	cmd := &cobra.Command{
		Use:   "fmt [flags] [path...]",
		Short: "Format C source files",
		Long: `Format rewrites the given files, or the C sources found below the given
directories, in place. Without paths, or with "-", standard input is formatted
to standard output.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(cmd, args, &opts)
		},
	}
	cmd.Flags().BoolVar(&opts.check, "check", false, "list files that need formatting and exit 1 if any")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "print formatted code to stdout instead of rewriting files")
	cmd.Flags().StringVar(&opts.format, "format", "text", "output format (text|short|json)")
	cmd.Flags().StringVar(&opts.style, "style", "", "style file used for every source instead of .clang-format lookup")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 0, "files formatted in parallel (default GOMAXPROCS)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "do not consult or update the result cache")
	cmd.Flags().BoolVar(&opts.noVerify, "no-verify", false, "skip the token round-trip check")
	cmd.Flags().BoolVarP(&opts.simple, "simple", "s", false, "move storage classes first and spell out implicit int")
	cmd.Flags().StringVar(&opts.ui, "ui", "auto", "progress view (auto|on|off)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "keep formatting files as they change")
	cmd.Flags().StringVar(&opts.stdinName, "stdin-name", "stdin.c", "file name assumed for standard input")
	cmd.Flags().StringSliceVar(&opts.exclude, "exclude", nil, "glob patterns of files and directories to skip")
	cmd.Flags().StringSliceVar(&opts.extensions, "ext", nil, "extensions of the files formatted below directories (default .c,.h)")
	return cmd
}

func readGlobals(cmd *cobra.Command) (globalOptions, error) {
	var g globalOptions
	var err error
	flags := cmd.Flags()
	if g.color, err = readColorMode(cmd); err != nil {
		return g, err
	}
	if g.quiet, err = flags.GetBool("quiet"); err != nil {
		return g, err
	}
	if g.timings, err = flags.GetBool("timings"); err != nil {
		return g, err
	}
	if g.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return g, err
	}
	level, err := flags.GetString("log-level")
	if err != nil {
		return g, err
	}
	g.trace = logging.Tracing(level)
	g.verbose = g.trace || strings.EqualFold(level, "debug") || strings.EqualFold(level, "info")
	return g, nil
}

func runFmt(cmd *cobra.Command, args []string, opts *fmtOptions) error {
	globals, err := readGlobals(cmd)
	if err != nil {
		return err
	}
	switch opts.format {
	case "text", "short", "json":
	default:
		return usageErrorf("fmt: unsupported output format %q", opts.format)
	}
	stdin := len(args) == 0 || (len(args) == 1 && args[0] == stdinPath)
	if opts.stdout && opts.check {
		return usageErrorf("fmt: --stdout cannot be used with --check")
	}
	if opts.stdout && opts.format == "json" {
		return usageErrorf("fmt: --stdout cannot be used with json output")
	}
	if opts.watch && (stdin || opts.stdout || opts.check) {
		return usageErrorf("fmt: --watch needs paths and rewrites files in place")
	}

	wd, err := os.Getwd()
	if err != nil {
		return withExit(ExitIOError, err)
	}
	project, err := discoverProjectConfig(wd)
	if err != nil {
		var cfgErr *projectConfigError
		if errors.As(err, &cfgErr) {
			bag, files := cfgErr.diagnostics()
			printDiagnostics(cmd, bag, files, globals)
			return withExit(ExitConfigError, nil)
		}
		return withExit(ExitConfigError, err)
	}
	dopts, styleBag, err := driverOptions(cmd, opts, globals, project)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)
	if project.Path != "" {
		logger.Debug("project configuration", logging.FieldPath, project.Path)
	}

	out := newFmtOutput(cmd, opts, globals, dopts.Styles.FileSet(), styleBag)
	if stdin {
		res, err := driver.FormatReader(ctx, cmd.InOrStdin(), opts.stdinName, dopts)
		if res.Bag == nil && err != nil {
			return withExit(ExitIOError, err)
		}
		return out.finish([]driver.FormatResult{res}, true)
	}

	if opts.watch {
		err := driver.Watch(ctx, args, dopts, func(results []driver.FormatResult, err error) {
			if err != nil {
				logger.Error("format failed", logging.FieldError, err)
				return
			}
			if err := out.finish(results, false); err != nil && !errors.Is(err, errChanges) {
				logger.Warn("format failed", logging.FieldError, err)
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return withExit(ExitIOError, err)
		}
		return nil
	}

	var results []driver.FormatResult
	mode, err := readUIMode(opts.ui)
	if err != nil {
		return err
	}
	if opts.format == "text" && !opts.stdout && !globals.quiet && shouldUseTUI(mode, cmd.OutOrStdout()) {
		files, cerr := driver.Collect(ctx, args, dopts.Extensions, dopts.Exclude)
		if cerr != nil {
			return withExit(ExitIOError, cerr)
		}
		if len(files) == 0 {
			return withExit(ExitIOError, driver.ErrNoSources)
		}
		results, err = runFormatWithUI(ctx, cmd.OutOrStdout(), "cfmt fmt", files, dopts)
	} else {
		results, err = driver.FormatPaths(ctx, args, dopts)
	}
	if err != nil {
		return withExit(ExitIOError, err)
	}
	return out.finish(results, false)
}

// driverOptions merges flags over the project configuration. The returned
// bag collects style file diagnostics.
func driverOptions(cmd *cobra.Command, opts *fmtOptions, globals globalOptions, project projectConfig) (driver.FormatOptions, *diag.Bag, error) {
	dopts := driver.FormatOptions{
		Check:          opts.check,
		Stdout:         opts.stdout,
		Jobs:           project.Format.Jobs,
		MaxDiagnostics: globals.maxDiagnostics,
		Extensions:     project.Format.Extensions,
		Exclude:        project.Format.Exclude,
		Timings:        globals.timings && opts.format == "json",
		Trace:          globals.trace,
		NoVerify:       opts.noVerify,
		Simple:         opts.simple,
	}
	if cmd.Flags().Changed("jobs") {
		if opts.jobs < 0 {
			return dopts, nil, usageErrorf("fmt: --jobs must not be negative")
		}
		dopts.Jobs = opts.jobs
	}
	if cmd.Flags().Changed("ext") {
		dopts.Extensions = opts.extensions
	}
	if len(opts.exclude) > 0 {
		dopts.Exclude = append(append([]string(nil), dopts.Exclude...), opts.exclude...)
	}

	stylePath := project.StylePath()
	if opts.style != "" {
		stylePath = opts.style
	}
	styleBag := diag.NewBag(globals.maxDiagnostics)
	dopts.Styles = style.NewResolver(stylePath, diag.NewDedupReporter(diag.BagReporter{Bag: styleBag}))

	if !opts.noCache && project.CacheEnabled() && !opts.stdout {
		cache, err := driver.OpenCache("cfmt")
		if err != nil {
			logging.FromContext(cmd.Context()).Warn("result cache disabled", logging.FieldError, err)
		} else {
			dopts.Cache = cache
		}
	}
	return dopts, styleBag, nil
}

// fmtOutput renders the results of a formatting run.
type fmtOutput struct {
	stdout    io.Writer
	stderr    io.Writer
	opts      *fmtOptions
	globals   globalOptions
	pretty    diagfmt.PrettyOpts
	styleFS   *source.FileSet
	styleBag  *diag.Bag
	styleSeen int
}

func newFmtOutput(cmd *cobra.Command, opts *fmtOptions, globals globalOptions, styleFS *source.FileSet, styleBag *diag.Bag) *fmtOutput {
	return &fmtOutput{
		stdout:  cmd.OutOrStdout(),
		stderr:  cmd.ErrOrStderr(),
		opts:    opts,
		globals: globals,
		pretty: diagfmt.PrettyOpts{
			Color:     diagfmt.ColorEnabled(globals.color, cmd.ErrOrStderr()),
			Context:   1,
			ShowNotes: true,
			ShowFixes: true,
		},
		styleFS:  styleFS,
		styleBag: styleBag,
	}
}

// finish prints results and turns them into the command error.
func (o *fmtOutput) finish(results []driver.FormatResult, stdin bool) error {
	summary := driver.Summarize(results)
	var err error
	switch o.opts.format {
	case "json":
		err = renderFmtJSON(o.stdout, results, o.opts.check, summary, o.globals)
	default:
		err = o.renderText(results, stdin)
	}
	if err != nil {
		return withExit(ExitIOError, err)
	}
	if o.globals.timings && o.opts.format != "json" {
		printTimings(o.stderr, results)
	}

	switch {
	case summary.Failed > 0:
		return withExit(ExitFormatErrors, fmt.Errorf("fmt: failed to format %d of %d files", summary.Failed, summary.Files))
	case o.styleBag.HasErrors():
		return withExit(ExitConfigError, errors.New("fmt: invalid style file"))
	case o.opts.check && summary.Changed > 0:
		return withExit(ExitChanges, errChanges)
	}
	return nil
}

func (o *fmtOutput) renderText(results []driver.FormatResult, stdin bool) error {
	o.printStyleDiagnostics()
	for _, res := range results {
		o.printDiagnostics(res.Bag, res.FileSet)
		if res.Err != nil {
			if res.Bag == nil || !res.Bag.HasErrors() {
				fmt.Fprintf(o.stderr, "fmt: %s: %v\n", res.Path, res.Err)
			}
			continue
		}
		switch {
		case o.opts.stdout || stdin:
			if _, err := o.stdout.Write(res.Formatted); err != nil {
				return err
			}
		case o.opts.check:
			if res.Changed {
				if _, err := fmt.Fprintln(o.stdout, res.Path); err != nil {
					return err
				}
			}
		case res.Changed && !o.globals.quiet:
			if _, err := fmt.Fprintf(o.stdout, "reformatted %s\n", res.Path); err != nil {
				return err
			}
		}
	}
	return nil
}

// printStyleDiagnostics prints the style diagnostics added since the last
// call, so that a watch loop reports each broken style file once.
func (o *fmtOutput) printStyleDiagnostics() {
	items := o.styleBag.Items()
	if len(items) <= o.styleSeen {
		return
	}
	fresh := diag.NewBag(len(items) - o.styleSeen)
	for _, d := range items[o.styleSeen:] {
		fresh.Add(d)
	}
	o.styleSeen = len(items)
	o.printDiagnostics(fresh, o.styleFS)
}

// printDiagnostics writes the visible part of bag in the selected layout.
func (o *fmtOutput) printDiagnostics(bag *diag.Bag, fs *source.FileSet) {
	bag = visible(bag, o.globals.minSeverity())
	if bag == nil {
		return
	}
	if o.opts.format == "short" {
		_ = diag.WriteShort(o.stderr, bag.Items(), fs, true)
		return
	}
	diagfmt.Pretty(o.stderr, bag, fs, o.pretty)
}
