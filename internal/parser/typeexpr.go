package parser

import (
	"fmt"

	"errlevel/internal/ast"
	"errlevel/internal/diag"
	"errlevel/internal/token"
)

// parseTypeList разбирает типы через запятую до closer.
// Возвращает (элементы, съеден ли closer).
func (p *Parser) parseTypeList(closer token.Kind) ([]ast.TypeExpr, bool) {
	var elems []ast.TypeExpr
	for {
		if p.at(closer) || p.at(token.EOF) {
			break
		}
		t, ok := p.parseType()
		if ok {
			elems = append(elems, t)
		} else {
			// resync к следующему элементу или к закрывающей скобке
			for !p.at(token.Comma) && !p.at(closer) && !p.at(token.EOF) {
				p.advance()
			}
		}
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	if p.at(closer) {
		p.advance()
		return elems, true
	}
	return elems, false
}

// parseType разбирает одну форму типа. Грамматика форм повторяет то,
// на что умеет смотреть классификатор: имя/путь, &T, кортеж, слайс,
// массив, generic-инстанциация, литерал.
func (p *Parser) parseType() (ast.TypeExpr, bool) {
	switch p.lx.Peek().Kind {
	case token.Ident:
		named, ok := p.parsePath()
		if !ok {
			return nil, false
		}
		if p.at(token.LBracket) {
			p.advance()
			args, closed := p.parseTypeList(token.RBracket)
			end := p.lastSpan
			if !closed {
				p.err(diag.SynExpectRBracket,
					fmt.Sprintf("']' expected to close %s[...]", named.String()))
			}
			return &ast.GenericType{Base: named, Args: args, End: end}, true
		}
		return named, true

	case token.Amp:
		amp := p.advance()
		elem, ok := p.parseType()
		if !ok {
			return nil, false
		}
		return &ast.RefType{AmpSpan: amp.Span, Elem: elem}, true

	case token.LParen:
		open := p.advance()
		elems, closed := p.parseTypeList(token.RParen)
		span := open.Span.Cover(p.lastSpan)
		if !closed {
			p.reportAt(diag.SynUnclosedParen, diag.SevError, open.Span, "unclosed '(' in type", nil)
		}
		return &ast.TupleType{ParenSpan: span, Elems: elems}, true

	case token.LBracket:
		open := p.advance()
		if p.at(token.IntLit) {
			lenTok := p.advance()
			if _, ok := p.expect(token.RBracket, diag.SynExpectRBracket, "']' expected after array length"); !ok {
				return nil, false
			}
			elem, ok := p.parseType()
			if !ok {
				return nil, false
			}
			return &ast.ArrayType{BracketSpan: open.Span, Len: lenTok.Text, Elem: elem}, true
		}
		if _, ok := p.expect(token.RBracket, diag.SynExpectRBracket, "']' expected in slice type"); !ok {
			return nil, false
		}
		elem, ok := p.parseType()
		if !ok {
			return nil, false
		}
		return &ast.SliceType{BracketSpan: open.Span, Elem: elem}, true

	case token.StringLit, token.IntLit:
		tok := p.advance()
		return &ast.LitType{Text: tok.Text, LitSpan: tok.Span}, true

	default:
		p.err(diag.SynExpectType,
			fmt.Sprintf("type expected, found %q", p.lx.Peek().Text))
		return nil, false
	}
}

// parsePath разбирает `Ident ('.' Ident)*`.
func (p *Parser) parsePath() (*ast.NamedType, bool) {
	first := p.advance()
	named := &ast.NamedType{
		Segments: []ast.PathSegment{{Name: first.Text, NameSpan: first.Span}},
	}
	for p.at(token.Dot) {
		p.advance()
		seg, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "identifier expected after '.'")
		if !ok {
			return named, false
		}
		named.Segments = append(named.Segments, ast.PathSegment{Name: seg.Text, NameSpan: seg.Span})
	}
	return named, true
}
