package lexer

import (
	"github.com/charmbracelet/log"

	"cfmt/internal/diag"
	"cfmt/internal/source"
	"cfmt/internal/token"
)

type Options struct {
	Reporter diag.Reporter // may be nil; diagnostics are then dropped
	Table    *token.Table  // defaults to token.DefaultTable()
	Logger   *log.Logger   // defaults to logging.Default()
}

func (lx *Lexer) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, sev, sp, msg, nil, nil)
	}
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	lx.report(code, diag.SevError, sp, msg)
}
