package driver

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"cfmt/internal/diag"
	"cfmt/internal/format"
	"cfmt/internal/logging"
	"cfmt/internal/observ"
	"cfmt/internal/source"
	"cfmt/internal/style"
)

// FormatOptions configures code formatting.
type FormatOptions struct {
	// Check leaves files untouched; Changed tells whether formatting would
	// update them.
	Check bool
	// Stdout returns the formatted content in the results without touching
	// files on disk.
	Stdout bool

	Jobs           int // defaults to GOMAXPROCS
	MaxDiagnostics int
	Extensions     []string // defaults to DefaultExtensions
	Exclude        []string

	Styles   *style.Resolver // defaults to a resolver searching for .clang-format
	Cache    *Cache          // nil disables caching
	Progress ProgressSink
	Timings  bool // record per-file phase timings as diagnostics
	Trace    bool // log layout decisions
	NoVerify bool
	Simple   bool // apply the opt-in source rewrites
}

// FormatResult captures the result of formatting a single file.
type FormatResult struct {
	Path    string
	Changed bool
	// Cached reports that the file was skipped as known to be formatted.
	Cached    bool
	Verbatim  bool
	Formatted []byte
	// Bag holds the diagnostics of the file; their spans resolve against
	// FileSet.
	Bag     *diag.Bag
	FileSet *source.FileSet
	Timing  *observ.Report
	Err     error
}

// FormatPaths formats provided files or directories. Files are formatted
// independently on up to opts.Jobs goroutines and the results are returned
// in path order. A failure to format one file is recorded in its result;
// the returned error is only set when no file could be attempted or ctx was
// cancelled.
func FormatPaths(ctx context.Context, paths []string, opts FormatOptions) ([]FormatResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := logging.FromContext(ctx)

	files, err := Collect(ctx, paths, opts.Extensions, opts.Exclude)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoSources
	}
	if opts.Styles == nil {
		opts.Styles = style.NewResolver("", nil)
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	logger.Debug("formatting", logging.FieldFiles, len(files), logging.FieldJobs, jobs)

	for _, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageRead, Status: StatusQueued})
	}

	// Indices are unique per goroutine, so the slice needs no lock.
	results := make([]FormatResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = formatPath(gctx, path, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// FormatReader formats the content of r as if it were the file at path and
// returns the formatted text in the result. Path selects the style and
// names the file in diagnostics.
func FormatReader(ctx context.Context, r io.Reader, path string, opts FormatOptions) (FormatResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return FormatResult{Path: path}, fmt.Errorf("read %s: %w", path, err)
	}
	if opts.Styles == nil {
		opts.Styles = style.NewResolver("", nil)
	}
	opts.Stdout = true
	res := formatContent(ctx, path, data, opts, observ.NewTimer())
	return res, res.Err
}

func formatPath(ctx context.Context, path string, opts FormatOptions) FormatResult {
	timer := observ.NewTimer()
	emit(opts.Progress, Event{File: path, Stage: StageRead, Status: StatusWorking})

	idx := timer.Begin("read")
	data, err := os.ReadFile(path)
	timer.End(idx, "")
	if err != nil {
		fs := source.NewFileSet()
		id := fs.AddVirtual(path, nil)
		res := FormatResult{
			Path:    path,
			Bag:     diag.NewBag(maxDiagnostics(opts)),
			FileSet: fs,
			Err:     err,
		}
		res.Bag.Add(diag.NewError(diag.IOReadFailed, source.Span{File: id}, fmt.Sprintf("failed to read %s: %v", path, err)))
		emit(opts.Progress, Event{File: path, Stage: StageRead, Status: StatusError, Err: err})
		return res
	}
	return formatContent(ctx, path, data, opts, timer)
}

func formatContent(ctx context.Context, path string, data []byte, opts FormatOptions, timer *observ.Timer) FormatResult {
	logger := logging.FromContext(ctx)
	start := time.Now()
	fs := source.NewFileSet()
	id := fs.AddNormalized(path, data)
	res := FormatResult{
		Path:    path,
		Bag:     diag.NewBag(maxDiagnostics(opts)),
		FileSet: fs,
	}
	fail := func(stage Stage, err error) FormatResult {
		res.Err = err
		emit(opts.Progress, Event{File: path, Stage: stage, Status: StatusError, Err: err, Elapsed: time.Since(start)})
		logger.Debug("format failed", logging.FieldPath, path, logging.FieldError, err)
		return res
	}

	idx := timer.Begin("style")
	st, err := opts.Styles.ForFile(path)
	timer.End(idx, "")
	if err != nil {
		return fail(StageRead, fmt.Errorf("style for %s: %w", path, err))
	}
	content, styleHash := sha256.Sum256(data), st.Hash()
	if opts.Simple {
		styleHash = sha256.Sum256(append(styleHash[:], "simple"...))
	}

	ok, err := opts.Cache.Formatted(content, styleHash)
	if err != nil {
		diag.ReportWarning(diag.BagReporter{Bag: res.Bag}, diag.IOCacheFailed, source.Span{File: id}, err.Error()).Emit()
	}
	if ok && !opts.Stdout {
		res.Cached = true
		res.Timing = finishTimings(&res, timer, opts)
		emit(opts.Progress, Event{File: path, Stage: StageFormat, Status: StatusCached, Elapsed: time.Since(start)})
		logger.Debug("cached", logging.FieldPath, path, logging.FieldCached, true)
		return res
	}

	emit(opts.Progress, Event{File: path, Stage: StageFormat, Status: StatusWorking})
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})
	idx = timer.Begin("format")
	out, err := format.FormatFile(fs.Get(id), format.Options{
		Style:    st,
		Reporter: reporter,
		Logger:   logger,
		Trace:    opts.Trace,
		NoVerify: opts.NoVerify,
		Simple:   opts.Simple,
	})
	timer.End(idx, fmt.Sprintf("branches=%d recovers=%d", out.Branches, out.Recovers))
	if err != nil {
		return fail(StageFormat, err)
	}
	res.Changed = out.Changed
	res.Verbatim = out.Verbatim
	if ok && res.Changed {
		diag.ReportWarning(reporter, diag.FmtUnstableCache, source.Span{File: id},
			"cached verdict disagrees with the formatter").Emit()
	}

	switch {
	case opts.Stdout:
		res.Formatted = out.Output
	case opts.Check || !res.Changed:
	default:
		emit(opts.Progress, Event{File: path, Stage: StageWrite, Status: StatusWorking})
		idx = timer.Begin("write")
		err := writeAtomic(path, out.Output)
		timer.End(idx, "")
		if err != nil {
			diag.ReportError(reporter, diag.IOWriteFailed, source.Span{File: id},
				fmt.Sprintf("failed to write %s: %v", path, err)).Emit()
			return fail(StageWrite, err)
		}
	}

	if cacheErr := remember(opts, path, data, out, styleHash); cacheErr != nil {
		diag.ReportWarning(reporter, diag.IOCacheFailed, source.Span{File: id}, cacheErr.Error()).Emit()
	}
	res.Timing = finishTimings(&res, timer, opts)
	emit(opts.Progress, Event{File: path, Stage: StageFormat, Status: StatusDone, Changed: res.Changed, Elapsed: time.Since(start)})
	logger.Debug("formatted", logging.FieldPath, path, logging.FieldChanged, res.Changed,
		logging.FieldDuration, time.Since(start))
	return res
}

// remember records a formatted file in the cache: the input when it was
// already formatted, or the output once it has been written back.
func remember(opts FormatOptions, path string, data []byte, out format.Result, styleHash Digest) error {
	switch {
	case opts.Cache == nil || opts.Stdout:
		return nil
	case !out.Changed:
		return opts.Cache.MarkFormatted(path, sha256.Sum256(data), styleHash)
	case !opts.Check:
		return opts.Cache.MarkFormatted(path, sha256.Sum256(out.Output), styleHash)
	}
	return nil
}

func finishTimings(res *FormatResult, timer *observ.Timer, opts FormatOptions) *observ.Report {
	report := timer.Report()
	if opts.Timings {
		appendTimingDiagnostic(res.Bag, timingPayload{Kind: "format", Path: res.Path, TotalMS: report.TotalMS, Phases: report.Phases})
	}
	return &report
}

func maxDiagnostics(opts FormatOptions) int {
	if opts.MaxDiagnostics <= 0 {
		return 256
	}
	return opts.MaxDiagnostics
}

// Summary counts the outcome of a formatting run.
type Summary struct {
	Files    int
	Changed  int
	Cached   int
	Verbatim int
	Failed   int
	Errors   int
	Warnings int
}

// Summarize tallies results.
func Summarize(results []FormatResult) Summary {
	var s Summary
	for i := range results {
		r := &results[i]
		s.Files++
		if r.Changed {
			s.Changed++
		}
		if r.Cached {
			s.Cached++
		}
		if r.Verbatim {
			s.Verbatim++
		}
		if r.Err != nil {
			s.Failed++
		}
		if r.Bag == nil {
			continue
		}
		for _, d := range r.Bag.Items() {
			switch {
			case d.Severity >= diag.SevError:
				s.Errors++
			case d.Severity == diag.SevWarning:
				s.Warnings++
			}
		}
	}
	return s
}

// LogSummary writes s to logger at info level.
func LogSummary(logger *log.Logger, s Summary) {
	logger.Info("done", logging.FieldFiles, s.Files, logging.FieldChanged, s.Changed, logging.FieldCached, s.Cached)
}
