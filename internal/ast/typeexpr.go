package ast

import (
	"strings"

	"errlevel/internal/source"
)

// TypeExpr is a payload type shape. Only NamedType (optionally behind
// a RefType) can delegate classification; every other shape exists so
// the classifier can point a diagnostic at it.
type TypeExpr interface {
	Span() source.Span
}

// PathSegment is one identifier of a possibly qualified type name.
type PathSegment struct {
	Name     string
	NameSpan source.Span
}

// NamedType is a plain or dot-qualified type name: Error, dns.Error.
type NamedType struct {
	Segments []PathSegment
}

// Span of a qualified name covers the first through the last segment.
func (t *NamedType) Span() source.Span {
	first := t.Segments[0].NameSpan
	return first.Cover(t.Segments[len(t.Segments)-1].NameSpan)
}

// String returns the dotted form: "dns.Error".
func (t *NamedType) String() string {
	parts := make([]string, len(t.Segments))
	for i, seg := range t.Segments {
		parts[i] = seg.Name
	}
	return strings.Join(parts, ".")
}

// Qualifier returns the leading package segments, empty for plain names.
func (t *NamedType) Qualifier() string {
	if len(t.Segments) < 2 {
		return ""
	}
	parts := make([]string, len(t.Segments)-1)
	for i, seg := range t.Segments[:len(t.Segments)-1] {
		parts[i] = seg.Name
	}
	return strings.Join(parts, ".")
}

// RefType is a by-reference payload: &T.
type RefType struct {
	AmpSpan source.Span
	Elem    TypeExpr
}

func (t *RefType) Span() source.Span {
	return t.AmpSpan.Cover(t.Elem.Span())
}

// TupleType is a parenthesized sequence of shapes: (string, string).
type TupleType struct {
	ParenSpan source.Span
	Elems     []TypeExpr
}

func (t *TupleType) Span() source.Span { return t.ParenSpan }

// SliceType is []T.
type SliceType struct {
	BracketSpan source.Span
	Elem        TypeExpr
}

func (t *SliceType) Span() source.Span {
	return t.BracketSpan.Cover(t.Elem.Span())
}

// ArrayType is [N]T.
type ArrayType struct {
	BracketSpan source.Span
	Len         string
	Elem        TypeExpr
}

func (t *ArrayType) Span() source.Span {
	return t.BracketSpan.Cover(t.Elem.Span())
}

// GenericType is a generic instantiation: Box[T], Map[K, V].
type GenericType struct {
	Base *NamedType
	Args []TypeExpr
	End  source.Span // закрывающая ']'
}

func (t *GenericType) Span() source.Span {
	return t.Base.Span().Cover(t.End)
}

// LitType is a primitive literal disguised as a payload: ("oops"), (42).
type LitType struct {
	Text    string
	LitSpan source.Span
}

func (t *LitType) Span() source.Span { return t.LitSpan }
