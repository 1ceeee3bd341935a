package lexer

import (
	"vmfkit/internal/diag"
	"vmfkit/internal/source"
)

type Options struct {
	Reporter diag.Reporter // может быть nil — тогда ошибки не репортим, но Invalid токен всё равно вернётся
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}

func (lx *Lexer) warnLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevWarning, sp, msg, nil)
	}
}
