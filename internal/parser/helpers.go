package parser

import (
	"errlevel/internal/diag"
	"errlevel/internal/source"
	"errlevel/internal/token"
)

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

// advance — съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF && tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	return tok
}

// getDiagnosticSpan — возвращает лучший span для диагностики.
// Для EOF используем позицию сразу после последнего съеденного токена.
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF && !p.lastSpan.Empty() {
		return p.lastSpan.After()
	}
	return peek.Span
}

// expect — ожидаем конкретный токен. Если нет — репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	diagSpan := p.getDiagnosticSpan()
	p.reportAt(code, diag.SevError, diagSpan, msg, nil)
	return token.Token{Kind: token.Invalid, Span: diagSpan, Text: p.lx.Peek().Text}, false
}

// err репортует ошибку с текущим спаном
func (p *Parser) err(code diag.Code, msg string) {
	p.reportAt(code, diag.SevError, p.getDiagnosticSpan(), msg, nil)
}

func (p *Parser) reportAt(code diag.Code, sev diag.Severity, sp source.Span, msg string, notes []diag.Note) {
	if p.opts.Reporter == nil {
		return
	}
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	if !p.opts.Enough() {
		p.opts.Reporter.Report(code, sev, sp, msg, notes)
	}
}

// resyncTop пропускает токены до следующего 'union' или EOF.
func (p *Parser) resyncTop() {
	for !p.at(token.KwUnion) && !p.at(token.EOF) {
		p.advance()
	}
}

// resyncVariant пропускает токены до начала следующего варианта
// (Ident), конца тела ('}') или EOF.
func (p *Parser) resyncVariant() {
	for {
		switch p.lx.Peek().Kind {
		case token.Ident, token.RBrace, token.KwUnion, token.EOF:
			return
		default:
			p.advance()
		}
	}
}

// skipBraced пропускает сбалансированный блок от '{' до парного '}'.
func (p *Parser) skipBraced() {
	depth := 0
	for !p.at(token.EOF) {
		switch p.lx.Peek().Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
			if depth <= 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}

// skipParenthesized пропускает `( ... )` целиком, если он следует дальше.
func (p *Parser) skipParenthesized() {
	if !p.at(token.LParen) {
		return
	}
	p.advance()
	p.skipParenthesizedTail()
}

// skipParenthesizedTail пропускает остаток `...)` уже открытой скобки.
func (p *Parser) skipParenthesizedTail() {
	depth := 1
	for !p.at(token.EOF) {
		switch p.lx.Peek().Kind {
		case token.LParen:
			depth++
		case token.RParen:
			depth--
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}
