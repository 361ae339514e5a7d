// Package prof collects Go runtime profiles of a formatter run.
package prof

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

// Options names the files profiles are written to; empty paths disable the
// corresponding profile.
type Options struct {
	CPU   string
	Mem   string
	Trace string
}

// Session is a set of running profiles.
type Session struct {
	mem       string
	cpuFile   *os.File
	traceFile *os.File
	stopped   bool
}

// Start enables the profiles requested by opts. On error nothing keeps
// running.
func Start(opts Options) (*Session, error) {
	s := &Session{mem: opts.Mem}
	if opts.CPU != "" {
		f, err := os.Create(opts.CPU)
		if err != nil {
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
		s.cpuFile = f
	}
	if opts.Trace != "" {
		f, err := os.Create(opts.Trace)
		if err == nil {
			if err = trace.Start(f); err != nil {
				_ = f.Close()
			}
		}
		if err != nil {
			_ = s.Stop()
			return nil, fmt.Errorf("runtime trace: %w", err)
		}
		s.traceFile = f
	}
	return s, nil
}

// Stop ends the running profiles and writes the heap profile. It may be
// called more than once.
func (s *Session) Stop() error {
	if s == nil || s.stopped {
		return nil
	}
	s.stopped = true

	var errs []error
	if s.cpuFile != nil {
		pprof.StopCPUProfile()
		errs = append(errs, s.cpuFile.Close())
	}
	if s.traceFile != nil {
		trace.Stop()
		errs = append(errs, s.traceFile.Close())
	}
	if s.mem != "" {
		errs = append(errs, writeMem(s.mem))
	}
	return errors.Join(errs...)
}

func writeMem(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("heap profile: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("heap profile: %w", err)
	}
	return nil
}
