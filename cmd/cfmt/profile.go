package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cfmt/internal/prof"
)

//nolint:gochecknoglobals // one profiling session per process
var profiling *prof.Session

// startProfiling enables the profilers requested by the persistent flags.
func startProfiling(cmd *cobra.Command) error {
	var opts prof.Options
	for flag, dst := range map[string]*string{
		"cpu-profile":   &opts.CPU,
		"mem-profile":   &opts.Mem,
		"runtime-trace": &opts.Trace,
	} {
		v, err := cmd.Flags().GetString(flag)
		if err != nil {
			return fmt.Errorf("failed to get %s flag: %w", flag, err)
		}
		*dst = v
	}
	if opts == (prof.Options{}) {
		return nil
	}
	s, err := prof.Start(opts)
	if err != nil {
		return withExit(ExitIOError, err)
	}
	profiling = s
	return nil
}

// stopProfiling flushes the profiles started by startProfiling.
func stopProfiling() error {
	s := profiling
	profiling = nil
	return s.Stop()
}
