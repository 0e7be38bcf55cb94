package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"errlevel/internal/diag"
	"errlevel/internal/token"
)

const utf8RuneSelf = 0x80

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDec(b)
}

// scanIdentOrKeyword сканирует идентификатор и проверяет через LookupKeyword.
// Ключевые слова регистрозависимые (только lowercase). Token.Text — ровно исходный срез.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()

	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b < utf8RuneSelf {
			if !isIdentContinueByte(b) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		// Unicode буквы допустимы: имя варианта должно остаться валидным Go
		// идентификатором.
		r, sz := utf8.DecodeRune(lx.cursor.File.Content[lx.cursor.Off:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		for i := 0; i < sz; i++ {
			lx.cursor.Bump()
		}
	}

	sp := lx.cursor.SpanFrom(start)
	if sp.Empty() {
		// Не-буквенный Unicode символ: съедаем одну руну, чтобы не зациклиться.
		_, sz := utf8.DecodeRune(lx.cursor.File.Content[lx.cursor.Off:])
		for i := 0; i < sz; i++ {
			lx.cursor.Bump()
		}
		sp = lx.cursor.SpanFrom(start)
		text := string(lx.file.Content[sp.Start:sp.End])
		lx.report(diag.LexUnknownChar, sp, fmt.Sprintf("unknown character %q", text))
		return token.Token{Kind: token.Invalid, Span: sp, Text: text}
	}
	text := string(lx.file.Content[sp.Start:sp.End])

	if k, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: k, Span: sp, Text: text}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}

// scanNumber сканирует десятичный целочисленный литерал.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	// "12abc" — не число и не идентификатор
	if b := lx.cursor.Peek(); isIdentStartByte(b) || b >= utf8RuneSelf {
		for !lx.cursor.EOF() && (isIdentContinueByte(lx.cursor.Peek()) || lx.cursor.Peek() >= utf8RuneSelf) {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		text := string(lx.file.Content[sp.Start:sp.End])
		lx.report(diag.LexBadNumber, sp, fmt.Sprintf("malformed number literal %q", text))
		return token.Token{Kind: token.Invalid, Span: sp, Text: text}
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.IntLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// scanString сканирует строковый литерал в двойных кавычках c \" экранированием.
// Незакрытая строка обрывается на конце строки или файла.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening quote

	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\n' {
			break
		}
		if b == '\\' {
			lx.cursor.Bump()
			if !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
			continue
		}
		if b == '"' {
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.StringLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
		lx.cursor.Bump()
	}

	sp := lx.cursor.SpanFrom(start)
	lx.report(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

var punctKinds = map[byte]token.Kind{
	'@': token.At,
	'&': token.Amp,
	'.': token.Dot,
	',': token.Comma,
	'(': token.LParen,
	')': token.RParen,
	'{': token.LBrace,
	'}': token.RBrace,
	'[': token.LBracket,
	']': token.RBracket,
}

// scanPunct сканирует одиночный знак пунктуации.
func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	b := lx.cursor.Bump()
	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])

	if k, ok := punctKinds[b]; ok {
		return token.Token{Kind: k, Span: sp, Text: text}
	}

	lx.report(diag.LexUnknownChar, sp, fmt.Sprintf("unknown character %q", text))
	return token.Token{Kind: token.Invalid, Span: sp, Text: text}
}
