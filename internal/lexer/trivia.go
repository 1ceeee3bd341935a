package lexer

// skipTrivia пропускает пробелы (space, \t, \r, \n, \f, \v) и // комментарии до конца строки.
// Одиночный '/' комментарием не является и остаётся началом bare токена.
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if isSpace(b) {
			lx.cursor.Bump()
			continue
		}
		if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '/' && b1 == '/' {
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
			continue
		}
		return
	}
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// isDelim сообщает, завершает ли байт bare токен.
func isDelim(b byte) bool {
	return isSpace(b) || b == '{' || b == '}' || b == '"'
}
