package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"cfmt/internal/driver"
	"cfmt/internal/ui"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", usageErrorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

func shouldUseTUI(mode uiMode, out io.Writer) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		f, ok := out.(*os.File)
		return ok && isTerminal(f)
	}
}

type formatOutcome struct {
	results []driver.FormatResult
	err     error
}

// runFormatWithUI formats files while rendering their progress on out.
func runFormatWithUI(ctx context.Context, out io.Writer, title string, files []string, opts driver.FormatOptions) ([]driver.FormatResult, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("missing files to format")
	}
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan formatOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.FormatPaths(ctx, files, opts)
		outcomeCh <- formatOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithContext(ctx), tea.WithInput(nil))
	_, uiErr := program.Run()
	if uiErr != nil {
		// Drain what the view no longer reads.
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil && ctx.Err() == nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
