// Package ast describes parsed union declaration files.
//
// The tree is deliberately flat: a File holds UnionDecls, a UnionDecl
// holds Variants, and a Variant carries at most one Annotation and at
// most one payload TypeExpr. Nodes are immutable after parsing; the
// classifier and emitter only read them.
package ast

import (
	"errlevel/internal/source"
)

// File is the parse result of one declaration file.
type File struct {
	FileID source.FileID
	Unions []*UnionDecl
}

// UnionDecl declares one tagged union.
type UnionDecl struct {
	Name     string
	NameSpan source.Span
	Span     source.Span // всё объявление, от 'union' до '}'
	Variants []*Variant
}

// Variant is a single named alternative of a union.
type Variant struct {
	Name       string
	NameSpan   source.Span
	Span       source.Span
	Payload    TypeExpr    // nil, если payload нет
	Annotation *Annotation // nil, если аннотации нет
}

// Annotation is a @report(keyword) tag attached to a variant.
// The keyword is kept raw here; internal/level validates it.
type Annotation struct {
	Keyword     string
	KeywordSpan source.Span
	Span        source.Span // от '@' до ')'
}
