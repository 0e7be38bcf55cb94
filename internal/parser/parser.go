package parser

import (
	"fmt"

	"errlevel/internal/ast"
	"errlevel/internal/diag"
	"errlevel/internal/lexer"
	"errlevel/internal/source"
	"errlevel/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	File *ast.File
	Bag  *diag.Bag
}

// Parser — состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer
	file     *ast.File
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
}

// ParseFile — входная точка для разбора одного файла.
// Требует уже созданный lexer (на основе source.File).
func ParseFile(fileID source.FileID, lx *lexer.Lexer, opts Options) Result {
	p := Parser{
		lx:       lx,
		file:     &ast.File{FileID: fileID},
		opts:     opts,
		lastSpan: lx.EmptySpan(),
	}

	p.parseUnions()

	var bag *diag.Bag
	if br, ok := opts.Reporter.(diag.BagReporter); ok {
		bag = br.Bag
	}
	return Result{
		File: p.file,
		Bag:  bag,
	}
}

// parseUnions — основной цикл верхнего уровня: пока не EOF — parseUnionDecl.
func (p *Parser) parseUnions() {
	for !p.at(token.EOF) {
		if p.at(token.KwUnion) {
			if decl, ok := p.parseUnionDecl(); ok {
				p.file.Unions = append(p.file.Unions, decl)
			}
			continue
		}
		p.err(diag.SynUnexpectedTopLevel,
			fmt.Sprintf("expected 'union', found %q", p.lx.Peek().Text))
		p.resyncTop()
	}
}

// parseUnionDecl разбирает `union Ident { variant* }`.
func (p *Parser) parseUnionDecl() (*ast.UnionDecl, bool) {
	kw := p.advance() // 'union'

	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "union name expected")
	if !ok {
		p.resyncTop()
		return nil, false
	}

	decl := &ast.UnionDecl{
		Name:     nameTok.Text,
		NameSpan: nameTok.Span,
		Span:     kw.Span,
	}

	if _, ok := p.expect(token.LBrace, diag.SynExpectLBrace, "'{' expected after union name"); !ok {
		p.resyncTop()
		return nil, false
	}

	seen := make(map[string]source.Span)
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if !p.at(token.Ident) {
			p.err(diag.SynExpectIdentifier,
				fmt.Sprintf("variant name expected, found %q", p.lx.Peek().Text))
			p.resyncVariant()
			continue
		}
		v := p.parseVariant()
		if prev, dup := seen[v.Name]; dup {
			p.reportAt(diag.SynDuplicateVariant, diag.SevError, v.NameSpan,
				fmt.Sprintf("variant %q already declared", v.Name),
				[]diag.Note{{Span: prev, Msg: "previous declaration here"}})
		} else {
			seen[v.Name] = v.NameSpan
		}
		decl.Variants = append(decl.Variants, v)
	}

	closing, ok := p.expect(token.RBrace, diag.SynExpectRBrace, "'}' expected to close union body")
	if ok {
		decl.Span = decl.Span.Cover(closing.Span)
	}
	return decl, true
}

// parseVariant разбирает `Ident payload? annotation*`.
// Вариант всегда возвращается, даже с ошибками внутри: классификатор
// должен увидеть каждый объявленный вариант ровно один раз.
func (p *Parser) parseVariant() *ast.Variant {
	nameTok := p.advance()
	v := &ast.Variant{
		Name:     nameTok.Text,
		NameSpan: nameTok.Span,
		Span:     nameTok.Span,
	}

	switch p.lx.Peek().Kind {
	case token.LParen:
		v.Payload = p.parsePayload(v)
	case token.LBrace:
		// record-style пейлоады не поддерживаются
		p.err(diag.SynNamedFieldsNotSupported,
			fmt.Sprintf("variant %q: named payload fields are not supported, use a single unnamed payload", v.Name))
		p.skipBraced()
	}

	for p.at(token.At) {
		if ann, ok := p.parseAnnotation(); ok {
			// при дублировании аннотаций побеждает последняя
			v.Annotation = ann
			v.Span = v.Span.Cover(ann.Span)
		}
	}

	if v.Payload != nil {
		v.Span = v.Span.Cover(v.Payload.Span())
	}
	return v
}

// parsePayload разбирает `( typeList )` и возвращает единственный payload.
// Больше одного значения — диагностика, первый тип сохраняется, чтобы
// классификация варианта осталась однозначной.
func (p *Parser) parsePayload(v *ast.Variant) ast.TypeExpr {
	open := p.advance() // '('

	if p.at(token.RParen) {
		// пустые скобки эквивалентны отсутствию payload
		p.advance()
		return nil
	}

	elems, closed := p.parseTypeList(token.RParen)
	closeSpan := p.lastSpan
	if !closed {
		p.reportAt(diag.SynUnclosedParen, diag.SevError, open.Span,
			fmt.Sprintf("variant %q: unclosed '('", v.Name), nil)
	}
	if len(elems) == 0 {
		return nil
	}
	if len(elems) > 1 {
		p.reportAt(diag.SynMultiplePayloads, diag.SevError, open.Span.Cover(closeSpan),
			fmt.Sprintf("variant %q carries %d payload values, at most one is allowed", v.Name, len(elems)),
			nil)
	}
	return elems[0]
}

// parseAnnotation разбирает `@ report ( keyword )`.
func (p *Parser) parseAnnotation() (*ast.Annotation, bool) {
	at := p.advance() // '@'

	headTok, ok := p.expect(token.Ident, diag.SynUnknownAnnotation, "annotation name expected after '@'")
	if !ok {
		return nil, false
	}
	if headTok.Text != "report" {
		p.reportAt(diag.SynUnknownAnnotation, diag.SevError, headTok.Span,
			fmt.Sprintf("unknown annotation @%s, only @report is recognized", headTok.Text), nil)
		p.skipParenthesized()
		return nil, false
	}

	if _, ok := p.expect(token.LParen, diag.SynExpectLevelKeyword, "'(' expected after @report"); !ok {
		return nil, false
	}

	kwTok, ok := p.expect(token.Ident, diag.SynExpectLevelKeyword, "level keyword expected in @report(...)")
	if !ok {
		p.skipParenthesizedTail()
		return nil, false
	}

	closing, ok := p.expect(token.RParen, diag.SynUnclosedParen, "')' expected to close @report(...)")
	span := at.Span.Cover(kwTok.Span)
	if ok {
		span = at.Span.Cover(closing.Span)
	}
	return &ast.Annotation{
		Keyword:     kwTok.Text,
		KeywordSpan: kwTok.Span,
		Span:        span,
	}, true
}
