package lexer

import (
	"vmfkit/internal/diag"
	"vmfkit/internal/source"
	"vmfkit/internal/token"
)

// scanBare читает подряд идущие байты до пробела, скобки или кавычки.
// "//" внутри токена комментарием не считается: "maps//a" один токен.
func (lx *Lexer) scanBare() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && !isDelim(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	if lx.cursor.Peek() == '"' {
		lx.warnLex(diag.LexStrayQuote, source.At(sp.File, sp.End), "quote directly after bare token")
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: lx.file.Text[sp.Start:sp.End]}
}

// scanString читает "...". Единственный escape: \" (ставит Escaped).
// Переводы строк внутри допустимы, прочие обратные слэши литеральные.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	escaped := false
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '"' {
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			inner := sp.Inner(1)
			return token.Token{
				Kind:    token.String,
				Span:    sp,
				Text:    lx.file.Text[inner.Start:inner.End],
				Escaped: escaped,
			}
		}
		if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '\\' && b1 == '"' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			escaped = true
			continue
		}
		lx.cursor.Bump()
	}
	// EOF без закрывающей кавычки: ошибка привязана к открывающей кавычке
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, source.At(sp.File, sp.Start), "unterminated quoted string")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.file.Text[sp.Start:sp.End]}
}
